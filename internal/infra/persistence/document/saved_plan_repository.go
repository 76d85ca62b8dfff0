package document

import (
	"context"
	"time"

	"tripstore/internal/domain/entity"
	"tripstore/internal/domain/repository"
	"tripstore/internal/domain/schema"

	"gocloud.dev/docstore"
)

type savedPlanRepository struct {
	*collection[entity.SavedPlan]
}

// NewSavedPlanRepository is the constructor for savedPlanRepository.
// keyField is the collection's single key field: the composite key on stores
// without sort keys, the partition key on DynamoDB.
func NewSavedPlanRepository(coll *docstore.Collection, keyField string) repository.SavedPlanRepository {
	return &savedPlanRepository{
		collection: &collection[entity.SavedPlan]{
			coll:     coll,
			table:    schema.MustFor(entity.TypeSavedPlan),
			now:      time.Now,
			encode:   encodeSavedPlan,
			decode:   decodeSavedPlan,
			auditOf:  func(s *entity.SavedPlan) *entity.Audit { return &s.Audit },
			keyField: keyField,
		},
	}
}

func (repo *savedPlanRepository) FindByUserID(ctx context.Context, userID string) ([]*entity.SavedPlan, error) {
	return repo.list(ctx, eq(schema.AttrUserID, userID))
}

// FindByTravelPlanID reads the reverse pair, keyed plan first.
func (repo *savedPlanRepository) FindByTravelPlanID(ctx context.Context, travelPlanID string) ([]*entity.SavedPlan, error) {
	return repo.list(ctx, eq(schema.AttrPlanReverse, travelPlanID))
}

// Find matches the full primary key, so DynamoDB serves it without an index.
func (repo *savedPlanRepository) Find(ctx context.Context, userID, travelPlanID string) (*entity.SavedPlan, error) {
	return repo.one(ctx, eq(schema.AttrUserID, userID), eq(schema.AttrTravelPlanID, travelPlanID))
}
