package document

import (
	"cmp"
	"context"
	"slices"
	"time"

	"tripstore/internal/domain/entity"
	"tripstore/internal/domain/repository"
	"tripstore/internal/domain/schema"

	"gocloud.dev/docstore"
)

type placeRepository struct {
	*collection[entity.Place]
}

// NewPlaceRepository is the constructor for placeRepository.
func NewPlaceRepository(coll *docstore.Collection) repository.PlaceRepository {
	return &placeRepository{
		collection: &collection[entity.Place]{
			coll:     coll,
			table:    schema.MustFor(entity.TypePlace),
			now:      time.Now,
			encode:   encodePlace,
			decode:   decodePlace,
			auditOf:  func(p *entity.Place) *entity.Audit { return &p.Audit },
			keyField: schema.AttrID,
		},
	}
}

// Save keeps the entity's geohash in step with the derived attribute.
func (repo *placeRepository) Save(ctx context.Context, p *entity.Place) error {
	p.Geohash = schema.GeohashOf(p.Latitude, p.Longitude)

	return repo.collection.Save(ctx, p)
}

func (repo *placeRepository) FindByNaverPlaceID(ctx context.Context, naverPlaceID string) (*entity.Place, error) {
	return repo.one(ctx, eq(schema.AttrNaverPlaceID, naverPlaceID))
}

func (repo *placeRepository) FindByCategory(ctx context.Context, category string) ([]*entity.Place, error) {
	return repo.list(ctx, eq(schema.AttrCategory, category))
}

func (repo *placeRepository) FindTopByCategory(ctx context.Context, category string, limit int) ([]*entity.Place, error) {
	places, err := repo.list(ctx, eq(schema.AttrCategory, category))
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(places, func(a, b *entity.Place) int {
		return cmp.Compare(b.PopularityScore, a.PopularityScore)
	})
	if limit > 0 && len(places) > limit {
		places = places[:limit]
	}

	return places, nil
}

func (repo *placeRepository) FindByGeohash(ctx context.Context, geohash string) ([]*entity.Place, error) {
	return repo.list(ctx, eq(schema.AttrGeohash, geohash))
}

// FindNearby queries every bucket covering the radius, then filters by
// great-circle distance.
func (repo *placeRepository) FindNearby(ctx context.Context, lat, lng, radiusKm float64) ([]*entity.Place, error) {
	var candidates []*entity.Place
	for _, bucket := range schema.CoveringBuckets(lat, lng, radiusKm) {
		places, err := repo.list(ctx, eq(schema.AttrGeohash, bucket))
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, places...)
	}

	return schema.WithinRadius(candidates, lat, lng, radiusKm), nil
}
