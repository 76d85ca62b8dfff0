package usecase

import (
	"context"
	"strings"
	"time"

	"tripstore/internal/backend"
	"tripstore/internal/domain/entity"
	domainerrors "tripstore/internal/domain/errors"
	"tripstore/internal/errors"
)

// MigrationStatus is the outcome of one entity job or of a whole run.
type MigrationStatus string

const (
	StatusCompleted           MigrationStatus = "completed"
	StatusCompletedWithErrors MigrationStatus = "completed_with_errors"
	StatusFailed              MigrationStatus = "failed"
)

// Defaults applied to options left unset.
const (
	DefaultBatchSize   = 100
	DefaultSampleSize  = 20
	DefaultWorkers     = 4
	DefaultPageTimeout = 30 * time.Second
)

// MigrationOptions controls one migration run.
type MigrationOptions struct {
	Direction       backend.Direction
	EntityTypes     []entity.EntityType // Empty means every entity type.
	BatchSize       int
	ContinueOnError bool
	ValidateAfter   bool
	SampleSize      int
	Strict          bool
	PageTimeout     time.Duration
	Workers         int
}

// DefaultMigrationOptions returns the options of a plain run in direction d.
func DefaultMigrationOptions(d backend.Direction) MigrationOptions {
	return MigrationOptions{
		Direction:       d,
		BatchSize:       DefaultBatchSize,
		ContinueOnError: true,
		ValidateAfter:   true,
		SampleSize:      DefaultSampleSize,
		PageTimeout:     DefaultPageTimeout,
		Workers:         DefaultWorkers,
	}
}

// Resolve fills unset numeric options with defaults and expands an empty
// entity list to every entity type, keeping the declaration order.
func (o MigrationOptions) Resolve() MigrationOptions {
	if o.BatchSize <= 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.SampleSize < 0 {
		o.SampleSize = 0
	}
	if o.PageTimeout <= 0 {
		o.PageTimeout = DefaultPageTimeout
	}
	if o.Workers <= 0 {
		o.Workers = DefaultWorkers
	}
	if len(o.EntityTypes) == 0 {
		o.EntityTypes = entity.AllEntityTypes()
	}

	return o
}

// MigrationRequest is the wire form of MigrationOptions. Pointer fields
// distinguish "unset" from an explicit false or zero.
type MigrationRequest struct {
	Direction       string   `json:"direction" validate:"required,oneof=relational_to_document document_to_relational"`
	EntityTypes     []string `json:"entityTypes" validate:"omitempty,dive,required"`
	BatchSize       int      `json:"batchSize" validate:"omitempty,min=1,max=10000"`
	ContinueOnError *bool    `json:"continueOnError"`
	ValidateAfter   *bool    `json:"validateAfter"`
	SampleSize      *int     `json:"sampleSize" validate:"omitempty,min=0,max=10000"`
	Strict          bool     `json:"strict"`
	PageTimeout     string   `json:"pageTimeout"` // Go duration, e.g. "30s".
}

// ToOptions converts the request onto base, which carries the configured defaults.
func (r MigrationRequest) ToOptions(base MigrationOptions) (MigrationOptions, error) {
	opts := base
	opts.Direction = backend.Direction(strings.ToLower(strings.TrimSpace(r.Direction)))
	if !opts.Direction.IsValid() {
		return opts, errors.Wrapf(domainerrors.ErrValidationFailed, "unknown direction %q", r.Direction)
	}

	opts.EntityTypes = nil
	for _, raw := range r.EntityTypes {
		t, ok := entity.ParseEntityType(raw)
		if !ok {
			return opts, errors.Wrapf(domainerrors.ErrUnknownEntityType, "unknown entity type %q", raw)
		}
		opts.EntityTypes = appendUnique(opts.EntityTypes, t)
	}

	if r.BatchSize > 0 {
		opts.BatchSize = r.BatchSize
	}
	if r.ContinueOnError != nil {
		opts.ContinueOnError = *r.ContinueOnError
	}
	if r.ValidateAfter != nil {
		opts.ValidateAfter = *r.ValidateAfter
	}
	if r.SampleSize != nil {
		opts.SampleSize = *r.SampleSize
	}
	opts.Strict = r.Strict
	if r.PageTimeout != "" {
		d, err := time.ParseDuration(r.PageTimeout)
		if err != nil || d <= 0 {
			return opts, errors.Wrapf(domainerrors.ErrValidationFailed, "invalid page timeout %q", r.PageTimeout)
		}
		opts.PageTimeout = d
	}

	return opts.Resolve(), nil
}

func appendUnique(list []entity.EntityType, t entity.EntityType) []entity.EntityType {
	for _, existing := range list {
		if existing == t {
			return list
		}
	}

	return append(list, t)
}

// RecordError is one record that could not be migrated.
type RecordError struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// EntityResult is the outcome of one entity job.
type EntityResult struct {
	EntityType     entity.EntityType `json:"entityType"`
	TotalCount     int64             `json:"totalCount"`
	ProcessedCount int64             `json:"processedCount"`
	ErrorCount     int64             `json:"errorCount"`
	Errors         []RecordError     `json:"errors"`
	Status         MigrationStatus   `json:"status"`
	Cancelled      bool              `json:"cancelled,omitempty"`
	FatalError     string            `json:"fatalError,omitempty"`
	Duration       time.Duration     `json:"durationNs"`

	// SampledIDs is a uniform sample of the ids written, kept for validation.
	SampledIDs []string `json:"-"`
}

// MigrationResult is the outcome of a whole run. It is always complete:
// partial failures are reported inside it, never as a returned error.
type MigrationResult struct {
	MigrationID  string            `json:"migrationId"`
	StartTime    time.Time         `json:"startTime"`
	EndTime      time.Time         `json:"endTime"`
	Direction    backend.Direction `json:"direction"`
	Status       MigrationStatus   `json:"status"`
	Cancelled    bool              `json:"cancelled,omitempty"` // Some job stopped early on cancellation
	Entities     []EntityResult    `json:"entities"`
	Validation   *ValidationResult `json:"validation,omitempty"`
	Summary      string            `json:"summary"`
	ErrorMessage string            `json:"errorMessage,omitempty"`
}

// TotalProcessed sums the processed counts of every job.
func (r *MigrationResult) TotalProcessed() int64 {
	var n int64
	for _, e := range r.Entities {
		n += e.ProcessedCount
	}

	return n
}

// TotalErrors sums the error counts of every job.
func (r *MigrationResult) TotalErrors() int64 {
	var n int64
	for _, e := range r.Entities {
		n += e.ErrorCount
	}

	return n
}

// Entity returns the result of one entity type, if it ran.
func (r *MigrationResult) Entity(t entity.EntityType) (EntityResult, bool) {
	for _, e := range r.Entities {
		if e.EntityType == t {
			return e, true
		}
	}

	return EntityResult{}, false
}

// MigrationUsecase copies entities between the relational and the document backend.
type MigrationUsecase interface {
	// Migrate runs one migration. The result is always non-nil; the error is
	// set only when the run could not start, mirroring result.ErrorMessage.
	Migrate(ctx context.Context, opts MigrationOptions) (*MigrationResult, error)

	// Capability reports which directions the configured backends allow.
	Capability() backend.MigrationCapability

	// DefaultOptions returns the configured defaults for direction d.
	DefaultOptions(d backend.Direction) MigrationOptions
}
