package document

import (
	"context"
	"time"

	"tripstore/internal/domain/entity"
	"tripstore/internal/domain/repository"
	"tripstore/internal/domain/schema"

	"gocloud.dev/docstore"
)

type userRepository struct {
	*collection[entity.User]
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(coll *docstore.Collection) repository.UserRepository {
	return &userRepository{
		collection: &collection[entity.User]{
			coll:     coll,
			table:    schema.MustFor(entity.TypeUser),
			now:      time.Now,
			encode:   encodeUser,
			decode:   decodeUser,
			auditOf:  func(u *entity.User) *entity.Audit { return &u.Audit },
			keyField: schema.AttrID,
		},
	}
}

func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.one(ctx, eq(schema.AttrEmail, email))
}

func (repo *userRepository) FindByProvider(ctx context.Context, provider, providerID string) (*entity.User, error) {
	return repo.one(ctx, eq(schema.AttrProvider, provider), eq(schema.AttrProviderID, providerID))
}

func (repo *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return repo.one(ctx, eq(schema.AttrUsername, username))
}
