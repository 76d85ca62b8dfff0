package repository

import (
	"context"

	"tripstore/internal/domain/entity"
)

// UserRepository defines the standard operations for user persistence.
type UserRepository interface {
	Store[entity.User]

	// FindByEmail retrieves a single user by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// FindByProvider retrieves the user linked to an OAuth identity.
	FindByProvider(ctx context.Context, provider, providerID string) (*entity.User, error)

	// FindByUsername retrieves a single user by handle.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
}
