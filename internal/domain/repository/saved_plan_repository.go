package repository

import (
	"context"

	"tripstore/internal/domain/entity"
)

// SavedPlanRepository defines persistence operations for saved plans.
type SavedPlanRepository interface {
	Store[entity.SavedPlan]

	FindByUserID(ctx context.Context, userID string) ([]*entity.SavedPlan, error)

	// FindByTravelPlanID answers "who saved this plan".
	FindByTravelPlanID(ctx context.Context, travelPlanID string) ([]*entity.SavedPlan, error)

	// Find returns the association of a user and a plan.
	Find(ctx context.Context, userID, travelPlanID string) (*entity.SavedPlan, error)
}
