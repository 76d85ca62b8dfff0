package document

import (
	"cmp"
	"context"
	"io"
	"net"
	"slices"
	"time"

	"tripstore/internal/domain/entity"
	"tripstore/internal/domain/repository"
	"tripstore/internal/domain/schema"
	"tripstore/internal/errors"

	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"gocloud.dev/docstore"
	"gocloud.dev/gcerrors"
)

// collection implements the shared Store operations over one docstore
// collection laid out by a schema table.
type collection[T any] struct {
	coll  *docstore.Collection
	table schema.Table
	now   func() time.Time

	encode  func(*T) schema.Item
	decode  func(map[string]any) (*T, error)
	auditOf func(*T) *entity.Audit

	// keyField is the single field the collection is opened with.
	keyField string
}

// filter is one equality or range condition of a query.
type filter struct {
	field string
	op    string
	value any
}

func eq(field string, value any) filter {
	return filter{field: field, op: "=", value: value}
}

func (c *collection[T]) name() string {
	return c.table.Name
}

func (c *collection[T]) Save(ctx context.Context, v *T) error {
	audit := c.auditOf(v)
	before := *audit
	if repository.IsCopyWrite(ctx) {
		audit.StampCopy(c.now().UTC())
	} else {
		audit.Stamp(c.now().UTC())
	}

	item := c.encode(v)
	c.table.Refresh(item)

	if err := c.coll.Put(ctx, map[string]any(item)); err != nil {
		*audit = before

		return translateError(ctx, err, "failed to save item in "+c.name())
	}

	return nil
}

func (c *collection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	item, err := c.getByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if deleted, _ := item[schema.AttrDeleted].(bool); deleted {
		return nil, repository.ErrNotFound
	}

	return c.decodeItem(item)
}

// getByID fetches the raw item with the given id, deleted or not.
func (c *collection[T]) getByID(ctx context.Context, id string) (map[string]any, error) {
	if c.keyField != schema.AttrID {
		items, err := c.query(ctx, eq(schema.AttrID, id))
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return nil, repository.ErrNotFound
		}

		return items[0], nil
	}

	item := map[string]any{schema.AttrID: id}
	if err := c.coll.Get(ctx, item); err != nil {
		return nil, translateError(ctx, err, "failed to get item from "+c.name())
	}

	return item, nil
}

func (c *collection[T]) Delete(ctx context.Context, id string) error {
	item, err := c.getByID(ctx, id)
	if err != nil {
		return err
	}
	if deleted, _ := item[schema.AttrDeleted].(bool); deleted {
		return repository.ErrNotFound
	}

	v, err := c.decodeItem(item)
	if err != nil {
		return err
	}

	audit := c.auditOf(v)
	audit.MarkDeleted(c.now().UTC())
	audit.Version++

	updated := c.encode(v)
	c.table.Refresh(updated)
	if err := c.coll.Put(ctx, map[string]any(updated)); err != nil {
		return translateError(ctx, err, "failed to delete item from "+c.name())
	}

	return nil
}

// Count walks a projected scan; document stores keep no exact table count.
func (c *collection[T]) Count(ctx context.Context) (int64, error) {
	iter := c.coll.Query().Get(ctx, docstore.FieldPath(c.keyField))
	defer iter.Stop()

	var n int64
	for {
		doc := map[string]any{}
		err := iter.Next(ctx, doc)
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return 0, translateError(ctx, err, "failed to count "+c.name())
		}
		n++
	}
}

func (c *collection[T]) Scan(_ context.Context, pageSize int) repository.Pager[T] {
	return &scanPager[T]{collection: c, pageSize: pageSize}
}

// query returns every raw item matching all filters, deleted ones included.
func (c *collection[T]) query(ctx context.Context, filters ...filter) ([]map[string]any, error) {
	q := c.coll.Query()
	for _, f := range filters {
		q = q.Where(docstore.FieldPath(f.field), f.op, f.value)
	}

	iter := q.Get(ctx)
	defer iter.Stop()

	var items []map[string]any
	for {
		doc := map[string]any{}
		err := iter.Next(ctx, doc)
		if errors.Is(err, io.EOF) {
			return items, nil
		}
		if err != nil {
			return nil, translateError(ctx, err, "failed to query "+c.name())
		}
		items = append(items, doc)
	}
}

// list returns the live entities matching all filters, ordered by id.
func (c *collection[T]) list(ctx context.Context, filters ...filter) ([]*T, error) {
	items, err := c.query(ctx, filters...)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(items, func(a, b map[string]any) int {
		return cmp.Compare(idOfItem(a), idOfItem(b))
	})

	out := make([]*T, 0, len(items))
	for _, item := range items {
		if deleted, _ := item[schema.AttrDeleted].(bool); deleted {
			continue
		}
		v, err := c.decodeItem(item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	return out, nil
}

// one returns the single live entity matching all filters.
func (c *collection[T]) one(ctx context.Context, filters ...filter) (*T, error) {
	items, err := c.list(ctx, filters...)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, repository.ErrNotFound
	}

	return items[0], nil
}

func (c *collection[T]) decodeItem(item map[string]any) (*T, error) {
	v, err := c.decode(item)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s item %q", c.name(), idOfItem(item))
	}

	return v, nil
}

// scanPager cuts one streaming iterator into fixed-size pages. The iterator
// is opened on the first call so the caller's context governs it.
type scanPager[T any] struct {
	collection *collection[T]
	pageSize   int
	iter       *docstore.DocumentIterator
	done       bool
}

func (p *scanPager[T]) Next(ctx context.Context) ([]repository.Record[T], error) {
	if p.done {
		return nil, io.EOF
	}
	if p.iter == nil {
		p.iter = p.collection.coll.Query().Get(ctx)
	}

	records := make([]repository.Record[T], 0, p.pageSize)
	for len(records) < p.pageSize {
		doc := map[string]any{}
		err := p.iter.Next(ctx, doc)
		if errors.Is(err, io.EOF) {
			p.done = true

			break
		}
		if err != nil {
			return records, translateError(ctx, err, "failed to scan "+p.collection.name())
		}

		record := repository.Record[T]{ID: idOfItem(doc)}
		record.Value, record.Err = p.collection.decodeItem(doc)
		records = append(records, record)
	}

	if len(records) == 0 {
		return nil, io.EOF
	}

	return records, nil
}

func (p *scanPager[T]) Close() {
	p.done = true
	if p.iter != nil {
		p.iter.Stop()
	}
}

// translateError maps docstore errors onto repository errors. gcerrors has
// no code for an unreachable backend, so an outage is recognized from the
// driver's transport errors or from a deadline the caller did not set.
func translateError(ctx context.Context, err error, msg string) error {
	if gcerrors.Code(err) == gcerrors.NotFound {
		return repository.ErrNotFound
	}
	if isOutage(ctx, err) {
		return errors.Wrapf(repository.ErrUnavailable, "%s: %v", msg, err)
	}

	return errors.Wrap(err, msg)
}

func isOutage(ctx context.Context, err error) bool {
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var retries *retry.MaxAttemptsError
	if errors.As(err, &retries) {
		return true
	}

	return gcerrors.Code(err) == gcerrors.DeadlineExceeded && ctx.Err() == nil
}
