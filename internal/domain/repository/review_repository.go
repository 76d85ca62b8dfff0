package repository

import (
	"context"
	"time"

	"tripstore/internal/domain/entity"
)

// ReviewRepository defines persistence operations for reviews.
type ReviewRepository interface {
	Store[entity.Review]

	FindByPlaceID(ctx context.Context, placeID string) ([]*entity.Review, error)
	FindByUserID(ctx context.Context, userID string) ([]*entity.Review, error)

	// FindByPlaceAndRating answers "reviews for place X at rating Y".
	FindByPlaceAndRating(ctx context.Context, placeID string, rating int) ([]*entity.Review, error)

	// FindByPlaceBetween returns reviews of a place created in [from, to], oldest first.
	FindByPlaceBetween(ctx context.Context, placeID string, from, to time.Time) ([]*entity.Review, error)
}
