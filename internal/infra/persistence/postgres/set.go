package postgres

import (
	"context"

	"tripstore/internal/backend"
	"tripstore/internal/domain/repository"

	"go.uber.org/fx"
	"gorm.io/gorm"
)

// NewSet wires every relational repository onto one connection.
func NewSet(db *gorm.DB) *repository.Set {
	return &repository.Set{
		Users:          NewUserRepository(db),
		Places:         NewPlaceRepository(db),
		TravelPlans:    NewTravelPlanRepository(db),
		ItineraryItems: NewItineraryItemRepository(db),
		Reviews:        NewReviewRepository(db),
		SavedPlans:     NewSavedPlanRepository(db),
		Health:         healthChecker{db: db},
	}
}

// SetBuilderResult contributes the relational builder to the backend registry.
type SetBuilderResult struct {
	fx.Out

	Builder backend.SetBuilder `group:"set_builders"`
}

// NewSetBuilder registers the relational backend; unconfigured when db is nil.
func NewSetBuilder(db *gorm.DB) SetBuilderResult {
	builder := backend.SetBuilder{Kind: backend.Relational}
	if db != nil {
		builder.Build = func(context.Context) (*repository.Set, error) {
			return NewSet(db), nil
		}
	}

	return SetBuilderResult{Builder: builder}
}
