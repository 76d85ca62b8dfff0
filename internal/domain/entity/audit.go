package entity

import "time"

// Audit carries the bookkeeping fields shared by every persisted entity.
type Audit struct {
	CreatedAt time.Time  // Timestamp of when the record was first written.
	UpdatedAt time.Time  // Timestamp of the last modification.
	Version   int64      // Incremented on every save.
	Deleted   bool       // Soft-delete marker; deleted records are hidden from lookups.
	DeletedAt *time.Time // When the record was soft-deleted.
}

// Stamp prepares the audit block for an ordinary save: createdAt is set once,
// updatedAt advances to now and the version is bumped.
func (a *Audit) Stamp(now time.Time) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	a.Version++
}

// StampCopy prepares a record copied from another store. Timestamps already
// set are kept so the copy retains its history.
func (a *Audit) StampCopy(now time.Time) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = now
	}
	a.Version++
}

// MarkDeleted soft-deletes the record.
func (a *Audit) MarkDeleted(now time.Time) {
	a.Deleted = true
	a.DeletedAt = &now
	a.UpdatedAt = now
}

// Normalize truncates all timestamps to microsecond precision in UTC,
// the finest resolution both backends preserve.
func (a *Audit) Normalize() {
	a.CreatedAt = NormalizeTime(a.CreatedAt)
	a.UpdatedAt = NormalizeTime(a.UpdatedAt)
	a.DeletedAt = NormalizeTimePtr(a.DeletedAt)
}

// NormalizeTime truncates t to microseconds in UTC.
func NormalizeTime(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}

	return t.UTC().Truncate(time.Microsecond)
}

// NormalizeTimePtr is NormalizeTime for optional timestamps.
func NormalizeTimePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	n := NormalizeTime(*t)

	return &n
}
