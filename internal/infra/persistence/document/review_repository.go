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

type reviewRepository struct {
	*collection[entity.Review]
}

// NewReviewRepository is the constructor for reviewRepository.
func NewReviewRepository(coll *docstore.Collection) repository.ReviewRepository {
	return &reviewRepository{
		collection: &collection[entity.Review]{
			coll:     coll,
			table:    schema.MustFor(entity.TypeReview),
			now:      time.Now,
			encode:   encodeReview,
			decode:   decodeReview,
			auditOf:  func(r *entity.Review) *entity.Audit { return &r.Audit },
			keyField: schema.AttrID,
		},
	}
}

func (repo *reviewRepository) FindByPlaceID(ctx context.Context, placeID string) ([]*entity.Review, error) {
	return repo.byCreation(repo.list(ctx, eq(schema.AttrPlaceID, placeID)))
}

func (repo *reviewRepository) FindByUserID(ctx context.Context, userID string) ([]*entity.Review, error) {
	return repo.byCreation(repo.list(ctx, eq(schema.AttrUserID, userID)))
}

// FindByPlaceAndRating reads the place-rating composite instead of filtering a place's reviews.
func (repo *reviewRepository) FindByPlaceAndRating(ctx context.Context, placeID string, rating int) ([]*entity.Review, error) {
	return repo.byCreation(repo.list(ctx, eq(schema.AttrPlaceRating, schema.ReviewRatingKey(placeID, rating))))
}

// FindByPlaceBetween is a range on the place-date index; both bounds are inclusive.
func (repo *reviewRepository) FindByPlaceBetween(ctx context.Context, placeID string, from, to time.Time) ([]*entity.Review, error) {
	return repo.byCreation(repo.list(ctx,
		eq(schema.AttrPlaceID, placeID),
		filter{field: schema.AttrReviewDate, op: ">=", value: schema.DateSortKey(from)},
		filter{field: schema.AttrReviewDate, op: "<=", value: schema.DateSortKey(to)},
	))
}

func (repo *reviewRepository) byCreation(reviews []*entity.Review, err error) ([]*entity.Review, error) {
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(reviews, func(a, b *entity.Review) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})

	return reviews, nil
}
