package repository

import (
	"context"

	"tripstore/internal/domain/entity"
)

// ItineraryItemRepository defines persistence operations for itinerary items.
type ItineraryItemRepository interface {
	Store[entity.ItineraryItem]

	// FindByTravelPlanID returns the items of a plan ordered by day, then sequence.
	FindByTravelPlanID(ctx context.Context, travelPlanID string) ([]*entity.ItineraryItem, error)
	FindByPlaceID(ctx context.Context, placeID string) ([]*entity.ItineraryItem, error)
}
