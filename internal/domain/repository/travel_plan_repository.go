package repository

import (
	"context"

	"tripstore/internal/domain/entity"
)

// TravelPlanRepository defines persistence operations for travel plans.
type TravelPlanRepository interface {
	Store[entity.TravelPlan]

	// FindByUserID returns the plans owned by a user ordered by start date.
	FindByUserID(ctx context.Context, userID string) ([]*entity.TravelPlan, error)
	FindByStatus(ctx context.Context, status entity.TravelPlanStatus) ([]*entity.TravelPlan, error)
	FindByDestination(ctx context.Context, destination string) ([]*entity.TravelPlan, error)
	FindPublic(ctx context.Context) ([]*entity.TravelPlan, error)
}
