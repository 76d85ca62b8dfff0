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

type itineraryItemRepository struct {
	*collection[entity.ItineraryItem]
}

// NewItineraryItemRepository is the constructor for itineraryItemRepository.
func NewItineraryItemRepository(coll *docstore.Collection) repository.ItineraryItemRepository {
	return &itineraryItemRepository{
		collection: &collection[entity.ItineraryItem]{
			coll:     coll,
			table:    schema.MustFor(entity.TypeItineraryItem),
			now:      time.Now,
			encode:   encodeItineraryItem,
			decode:   decodeItineraryItem,
			auditOf:  func(i *entity.ItineraryItem) *entity.Audit { return &i.Audit },
			keyField: schema.AttrID,
		},
	}
}

func (repo *itineraryItemRepository) FindByTravelPlanID(ctx context.Context, travelPlanID string) ([]*entity.ItineraryItem, error) {
	items, err := repo.list(ctx, eq(schema.AttrTravelPlanID, travelPlanID))
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(items, func(a, b *entity.ItineraryItem) int {
		return cmp.Or(cmp.Compare(a.DayNumber, b.DayNumber), cmp.Compare(a.Sequence, b.Sequence))
	})

	return items, nil
}

func (repo *itineraryItemRepository) FindByPlaceID(ctx context.Context, placeID string) ([]*entity.ItineraryItem, error) {
	return repo.list(ctx, eq(schema.AttrPlaceID, placeID))
}
