package postgres

import (
	"context"
	"fmt"
	"io"
	"time"

	"tripstore/internal/domain/entity"
	"tripstore/internal/domain/repository"
	"tripstore/internal/errors"
	"tripstore/internal/infra/persistence/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/plugin/dbresolver"
)

// table implements the shared Store operations for one model/entity pair.
// M is the GORM model, T the domain entity.
type table[M any, T any] struct {
	db   *gorm.DB
	name string
	now  func() time.Time

	toDomain   func(*M) *T
	fromDomain func(*T) *M
	idOf       func(*T) string
	auditOf    func(*T) *entity.Audit

	// hydrate fills fields stored outside the model's own row. Optional.
	hydrate func(ctx context.Context, db *gorm.DB, items []*T) error
	// saveRelations rewrites join-table rows; when set, Save runs in a transaction.
	saveRelations func(tx *gorm.DB, v *T) error
}

func (t *table[M, T]) Save(ctx context.Context, v *T) error {
	audit := t.auditOf(v)
	before := *audit
	if repository.IsCopyWrite(ctx) {
		audit.StampCopy(t.now().UTC())
	} else {
		audit.Stamp(t.now().UTC())
	}

	m := t.fromDomain(v)
	upsert := func(db *gorm.DB) error {
		if err := db.Clauses(clause.OnConflict{UpdateAll: true}).Create(m).Error; err != nil {
			return translateWriteError(err, "failed to save "+t.name)
		}
		if t.saveRelations != nil {
			if err := t.saveRelations(db, v); err != nil {
				return translateWriteError(err, "failed to save "+t.name+" relations")
			}
		}

		return nil
	}

	var err error
	if t.saveRelations == nil {
		err = upsert(t.db.WithContext(ctx))
	} else {
		err = execute(ctx, t.db, upsert)
	}
	if err != nil {
		*audit = before

		return err
	}

	return nil
}

func (t *table[M, T]) FindByID(ctx context.Context, id string) (*T, error) {
	return t.first(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("id = ?", id)
	})
}

func (t *table[M, T]) Delete(ctx context.Context, id string) error {
	now := t.now().UTC()
	result := t.db.WithContext(ctx).
		Model(new(M)).
		Where("id = ? AND deleted = ?", id, false).
		Updates(map[string]any{
			"deleted":    true,
			"deleted_at": now,
			"updated_at": now,
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return translateWriteError(result.Error, "failed to delete "+t.name)
	}
	if result.RowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Count reads from the primary so a count taken right after a write sees it.
func (t *table[M, T]) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := t.db.WithContext(ctx).Clauses(dbresolver.Write).Model(new(M)).Count(&n).Error; err != nil {
		return 0, translateReadError(err, "failed to count "+t.name)
	}

	return n, nil
}

func (t *table[M, T]) Scan(_ context.Context, pageSize int) repository.Pager[T] {
	return &offsetPager[M, T]{table: t, pageSize: pageSize}
}

// first returns the single live row matched by scope.
func (t *table[M, T]) first(ctx context.Context, scope func(*gorm.DB) *gorm.DB) (*T, error) {
	var m M
	err := scope(t.db.WithContext(ctx)).Where("deleted = ?", false).Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrNotFound
		}

		return nil, translateReadError(err, "failed to find "+t.name)
	}

	items := []*T{t.toDomain(&m)}
	if err := t.hydrateAll(ctx, items); err != nil {
		return nil, err
	}

	return items[0], nil
}

// find returns every live row matched by scope, ordered by id unless scope orders.
func (t *table[M, T]) find(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*T, error) {
	var models []*M
	if err := scope(t.db.WithContext(ctx)).Where("deleted = ?", false).Order("id").Find(&models).Error; err != nil {
		return nil, translateReadError(err, "failed to list "+t.name)
	}

	items := make([]*T, len(models))
	for i, m := range models {
		items[i] = t.toDomain(m)
	}
	if err := t.hydrateAll(ctx, items); err != nil {
		return nil, err
	}

	return items, nil
}

func (t *table[M, T]) hydrateAll(ctx context.Context, items []*T) error {
	if t.hydrate == nil || len(items) == 0 {
		return nil
	}
	if err := t.hydrate(ctx, t.db.WithContext(ctx), items); err != nil {
		return errors.Wrapf(err, "failed to load %s relations", t.name)
	}

	return nil
}

// offsetPager pages through a table ordered by id, soft-deleted rows included.
// The offset only advances once a page is fully read, so a failed page can be
// retried or skipped.
type offsetPager[M any, T any] struct {
	table    *table[M, T]
	pageSize int
	offset   int
	done     bool
}

func (p *offsetPager[M, T]) Next(ctx context.Context) ([]repository.Record[T], error) {
	if p.done {
		return nil, io.EOF
	}

	var models []*M
	err := p.table.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Order("id").
		Offset(p.offset).
		Limit(p.pageSize).
		Find(&models).Error
	if err != nil {
		return nil, translateReadError(err, fmt.Sprintf("failed to read %s page at offset %d", p.table.name, p.offset))
	}
	if len(models) == 0 {
		p.done = true

		return nil, io.EOF
	}

	items := make([]*T, len(models))
	for i, m := range models {
		items[i] = p.table.toDomain(m)
	}
	if err := p.table.hydrateAll(ctx, items); err != nil {
		return nil, err
	}

	p.offset += len(models)
	if len(models) < p.pageSize {
		p.done = true
	}

	records := make([]repository.Record[T], len(items))
	for i, item := range items {
		records[i] = repository.Record[T]{ID: p.table.idOf(item), Value: item}
	}

	return records, nil
}

// Skip steps over the page that Next last failed to read.
func (p *offsetPager[M, T]) Skip() string {
	at := p.offset
	p.offset += p.pageSize

	return fmt.Sprintf("offset %d", at)
}

func (p *offsetPager[M, T]) Close() {
	p.done = true
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func utc(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}

	return t.UTC()
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()

	return &u
}

func toAuditColumns(a entity.Audit) model.AuditColumns {
	return model.AuditColumns{
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
		Version:   a.Version,
		Deleted:   a.Deleted,
		DeletedAt: a.DeletedAt,
	}
}

func toAudit(c model.AuditColumns) entity.Audit {
	return entity.Audit{
		CreatedAt: utc(c.CreatedAt),
		UpdatedAt: utc(c.UpdatedAt),
		Version:   c.Version,
		Deleted:   c.Deleted,
		DeletedAt: utcPtr(c.DeletedAt),
	}
}
