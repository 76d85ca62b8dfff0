package repository

import (
	"context"

	"tripstore/internal/domain/entity"
)

// PlaceRepository defines persistence operations for places.
type PlaceRepository interface {
	Store[entity.Place]

	FindByNaverPlaceID(ctx context.Context, naverPlaceID string) (*entity.Place, error)
	FindByCategory(ctx context.Context, category string) ([]*entity.Place, error)

	// FindTopByCategory returns the most popular places of a category, best first.
	FindTopByCategory(ctx context.Context, category string, limit int) ([]*entity.Place, error)

	// FindByGeohash returns the places of one spatial bucket.
	FindByGeohash(ctx context.Context, geohash string) ([]*entity.Place, error)

	// FindNearby returns places within radiusKm of the point, nearest first.
	// Places without coordinates are never returned.
	FindNearby(ctx context.Context, lat, lng, radiusKm float64) ([]*entity.Place, error)
}
