package document

import (
	"context"
	"slices"
	"time"

	"tripstore/internal/domain/entity"
	"tripstore/internal/domain/repository"
	"tripstore/internal/domain/schema"

	"gocloud.dev/docstore"
)

type travelPlanRepository struct {
	*collection[entity.TravelPlan]
}

// NewTravelPlanRepository is the constructor for travelPlanRepository.
func NewTravelPlanRepository(coll *docstore.Collection) repository.TravelPlanRepository {
	return &travelPlanRepository{
		collection: &collection[entity.TravelPlan]{
			coll:     coll,
			table:    schema.MustFor(entity.TypeTravelPlan),
			now:      time.Now,
			encode:   encodeTravelPlan,
			decode:   decodeTravelPlan,
			auditOf:  func(p *entity.TravelPlan) *entity.Audit { return &p.Audit },
			keyField: schema.AttrID,
		},
	}
}

func (repo *travelPlanRepository) FindByUserID(ctx context.Context, userID string) ([]*entity.TravelPlan, error) {
	plans, err := repo.list(ctx, eq(schema.AttrUserID, userID))
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(plans, func(a, b *entity.TravelPlan) int {
		return a.StartDate.Compare(b.StartDate)
	})

	return plans, nil
}

func (repo *travelPlanRepository) FindByStatus(ctx context.Context, status entity.TravelPlanStatus) ([]*entity.TravelPlan, error) {
	return repo.list(ctx, eq(schema.AttrStatus, string(status)))
}

func (repo *travelPlanRepository) FindByDestination(ctx context.Context, destination string) ([]*entity.TravelPlan, error) {
	return repo.list(ctx, eq(schema.AttrDestination, destination))
}

// FindPublic reads the sparse public-plans index: only public plans carry the flag.
func (repo *travelPlanRepository) FindPublic(ctx context.Context) ([]*entity.TravelPlan, error) {
	return repo.list(ctx, eq(schema.AttrPublicFlag, "true"))
}
