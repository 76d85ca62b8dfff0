// Package document implements every repository on a gocloud docstore
// collection per entity. The same code serves the in-memory, DynamoDB,
// MongoDB and Firestore drivers; the URL template picks one.
package document

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"tripstore/config"
	"tripstore/internal/backend"
	"tripstore/internal/domain/constants"
	"tripstore/internal/domain/entity"
	"tripstore/internal/domain/repository"
	"tripstore/internal/domain/schema"
	"tripstore/internal/errors"

	"go.uber.org/fx"
	"gocloud.dev/docstore"
	_ "gocloud.dev/docstore/awsdynamodb/v2"
	_ "gocloud.dev/docstore/gcpfirestore"
	_ "gocloud.dev/docstore/memdocstore"
	_ "gocloud.dev/docstore/mongodocstore"
)

const dynamoScheme = "dynamodb"

// Collections holds one open collection per entity type.
type Collections struct {
	byType map[entity.EntityType]*docstore.Collection
	keys   map[entity.EntityType]string
}

// Get returns the collection of an entity type and its key field.
func (c *Collections) Get(t entity.EntityType) (*docstore.Collection, string) {
	return c.byType[t], c.keys[t]
}

// Close closes every collection and joins their errors.
func (c *Collections) Close() error {
	var errs []error
	for t, coll := range c.byType {
		if err := coll.Close(); err != nil {
			errs = append(errs, errors.Wrapf(err, "failed to close %s collection", t))
		}
	}

	return errors.Join(errs...)
}

// IsDynamoDB reports whether the template opens DynamoDB tables.
func IsDynamoDB(tmpl string) bool {
	return strings.HasPrefix(strings.TrimSpace(tmpl), dynamoScheme+"://")
}

// KeyField is the single field a collection is keyed on. DynamoDB uses the
// table's partition key and carries the sort key separately; the other
// drivers key on one field, so tables with a sort key use the composite.
func KeyField(tmpl string, table schema.Table) string {
	if IsDynamoDB(tmpl) || table.SortKey == nil {
		return table.PartitionKey.Name
	}

	return schema.AttrComposite
}

// CollectionURL expands the template for one table.
func CollectionURL(tmpl, prefix string, table schema.Table, dynamo *config.DynamoDBConfig) (string, error) {
	raw := strings.ReplaceAll(strings.TrimSpace(tmpl), constants.CollectionPlaceholder, prefix+table.Name)
	raw = strings.ReplaceAll(raw, constants.KeyPlaceholder, KeyField(tmpl, table))

	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrapf(err, "invalid docstore url %q", raw)
	}
	if u.Scheme == "" {
		return "", errors.Errorf("docstore url %q has no scheme", raw)
	}
	if u.Scheme != dynamoScheme {
		return u.String(), nil
	}

	q := u.Query()
	setDefault(q, "partition_key", table.PartitionKey.Name)
	if table.SortKey != nil {
		setDefault(q, "sort_key", table.SortKey.Name)
	}
	if dynamo != nil {
		setDefault(q, "region", dynamo.Region)
		setDefault(q, "endpoint", dynamo.Endpoint)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func setDefault(q url.Values, key, value string) {
	if value != "" && q.Get(key) == "" {
		q.Set(key, value)
	}
}

// OpenCollections opens a collection for every table. On failure the
// collections already opened are closed.
func OpenCollections(ctx context.Context, cfg *config.DocstoreConfig, dynamo *config.DynamoDBConfig) (*Collections, error) {
	c := &Collections{
		byType: make(map[entity.EntityType]*docstore.Collection),
		keys:   make(map[entity.EntityType]string),
	}

	for _, table := range schema.All() {
		u, err := CollectionURL(cfg.URLTemplate, cfg.TablePrefix, table, dynamo)
		if err != nil {
			return nil, errors.Join(err, c.Close())
		}

		coll, err := docstore.OpenCollection(ctx, u)
		if err != nil {
			return nil, errors.Join(errors.Wrapf(err, "failed to open collection %s", table.Name), c.Close())
		}
		c.byType[table.Entity] = coll
		c.keys[table.Entity] = KeyField(cfg.URLTemplate, table)
	}

	return c, nil
}

// NewSet wires every document repository onto its collection.
func NewSet(c *Collections) *repository.Set {
	users, _ := c.Get(entity.TypeUser)
	places, _ := c.Get(entity.TypePlace)
	plans, _ := c.Get(entity.TypeTravelPlan)
	items, _ := c.Get(entity.TypeItineraryItem)
	reviews, _ := c.Get(entity.TypeReview)
	saved, savedKey := c.Get(entity.TypeSavedPlan)

	return &repository.Set{
		Users:          NewUserRepository(users),
		Places:         NewPlaceRepository(places),
		TravelPlans:    NewTravelPlanRepository(plans),
		ItineraryItems: NewItineraryItemRepository(items),
		Reviews:        NewReviewRepository(reviews),
		SavedPlans:     NewSavedPlanRepository(saved, savedKey),
		Health:         healthChecker{coll: users},
	}
}

type healthChecker struct {
	coll *docstore.Collection
}

// Ping reads at most one user; an empty collection is healthy.
func (h healthChecker) Ping(ctx context.Context) error {
	iter := h.coll.Query().Limit(1).Get(ctx, schema.AttrID)
	defer iter.Stop()

	err := iter.Next(ctx, map[string]any{})
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}

	return translateError(ctx, err, "document backend health check failed")
}

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

// SetBuilderResult contributes the document builder to the backend registry.
type SetBuilderResult struct {
	fx.Out

	Builder backend.SetBuilder `group:"set_builders"`
}

// NewSetBuilder registers the document backend; unconfigured without a docstore section.
func NewSetBuilder(params Params) SetBuilderResult {
	builder := backend.SetBuilder{Kind: backend.Document}
	cfg := params.Config.Docstore
	if cfg == nil || strings.TrimSpace(cfg.URLTemplate) == "" {
		params.Logger.Info("Document backend not configured")

		return SetBuilderResult{Builder: builder}
	}

	var opened *Collections
	builder.Build = func(ctx context.Context) (*repository.Set, error) {
		if dynamo := params.Config.DynamoDB; dynamo != nil && dynamo.Provision && IsDynamoDB(cfg.URLTemplate) {
			if err := ProvisionTables(ctx, dynamo, cfg.TablePrefix, params.Logger); err != nil {
				return nil, err
			}
		}

		c, err := OpenCollections(ctx, cfg, params.Config.DynamoDB)
		if err != nil {
			return nil, err
		}
		opened = c
		params.Logger.Info("Document collections opened", slog.String("urlTemplate", cfg.URLTemplate))

		return NewSet(c), nil
	}

	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if opened == nil {
				return nil
			}

			return opened.Close()
		},
	})

	return SetBuilderResult{Builder: builder}
}
