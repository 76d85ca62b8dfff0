package repository

import (
	"context"
	"fmt"

	"tripstore/internal/domain/entity"
)

// Set groups one implementation of every repository, all backed by the same store.
type Set struct {
	Users          UserRepository
	Places         PlaceRepository
	TravelPlans    TravelPlanRepository
	ItineraryItems ItineraryItemRepository
	Reviews        ReviewRepository
	SavedPlans     SavedPlanRepository

	Health HealthChecker
}

// Count counts the records of one entity type, tombstones included.
func (s *Set) Count(ctx context.Context, t entity.EntityType) (int64, error) {
	switch t {
	case entity.TypeUser:
		return s.Users.Count(ctx)
	case entity.TypePlace:
		return s.Places.Count(ctx)
	case entity.TypeTravelPlan:
		return s.TravelPlans.Count(ctx)
	case entity.TypeItineraryItem:
		return s.ItineraryItems.Count(ctx)
	case entity.TypeReview:
		return s.Reviews.Count(ctx)
	case entity.TypeSavedPlan:
		return s.SavedPlans.Count(ctx)
	}

	return 0, fmt.Errorf("no repository for entity type %q", t)
}
