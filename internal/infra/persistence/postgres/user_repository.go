package postgres

import (
	"context"
	"slices"
	"time"

	"tripstore/internal/domain/entity"
	"tripstore/internal/domain/repository"
	"tripstore/internal/infra/persistence/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// userRepository implements repository.UserRepository. Follow lists live in
// user_follows; owned plan and review ids are read back from their tables.
type userRepository struct {
	*table[model.UserModel, entity.User]
}

// NewUserRepository is the constructor for userRepository.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{
		table: &table[model.UserModel, entity.User]{
			db:            db,
			name:          "user",
			now:           time.Now,
			toDomain:      toUserDomain,
			fromDomain:    fromUserDomain,
			idOf:          func(u *entity.User) string { return u.ID },
			auditOf:       func(u *entity.User) *entity.Audit { return &u.Audit },
			hydrate:       hydrateUsers,
			saveRelations: saveUserFollows,
		},
	}
}

func (repo *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return repo.first(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("email = ?", email)
	})
}

func (repo *userRepository) FindByProvider(ctx context.Context, provider, providerID string) (*entity.User, error) {
	return repo.first(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("provider = ? AND provider_id = ?", provider, providerID)
	})
}

func (repo *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return repo.first(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("username = ?", username)
	})
}

// saveUserFollows replaces both directions of the user's follow pairs.
func saveUserFollows(tx *gorm.DB, u *entity.User) error {
	if err := tx.Where("follower_id = ?", u.ID).Delete(&model.UserFollowModel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("following_id = ?", u.ID).Delete(&model.UserFollowModel{}).Error; err != nil {
		return err
	}

	rows := make([]model.UserFollowModel, 0, len(u.FollowingIDs)+len(u.FollowerIDs))
	for _, id := range u.FollowingIDs {
		rows = append(rows, model.UserFollowModel{FollowerID: u.ID, FollowingID: id})
	}
	for _, id := range u.FollowerIDs {
		rows = append(rows, model.UserFollowModel{FollowerID: id, FollowingID: u.ID})
	}
	if len(rows) == 0 {
		return nil
	}

	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// hydrateUsers loads follow pairs and owned ids for a batch of users.
func hydrateUsers(_ context.Context, db *gorm.DB, users []*entity.User) error {
	ids := make([]string, len(users))
	byID := make(map[string]*entity.User, len(users))
	for i, u := range users {
		ids[i] = u.ID
		byID[u.ID] = u
		u.FollowerIDs, u.FollowingIDs, u.TravelPlanIDs, u.ReviewIDs = nil, nil, nil, nil
	}

	var follows []model.UserFollowModel
	if err := db.Where("follower_id IN ? OR following_id IN ?", ids, ids).Find(&follows).Error; err != nil {
		return err
	}
	for _, f := range follows {
		if u, ok := byID[f.FollowerID]; ok {
			u.FollowingIDs = append(u.FollowingIDs, f.FollowingID)
		}
		if u, ok := byID[f.FollowingID]; ok {
			u.FollowerIDs = append(u.FollowerIDs, f.FollowerID)
		}
	}

	type owned struct {
		ID     string
		UserID string
	}

	var plans []owned
	if err := db.Model(&model.TravelPlanModel{}).
		Select("id", "user_id").
		Where("user_id IN ? AND deleted = ?", ids, false).
		Order("id").
		Find(&plans).Error; err != nil {
		return err
	}
	for _, p := range plans {
		byID[p.UserID].TravelPlanIDs = append(byID[p.UserID].TravelPlanIDs, p.ID)
	}

	var reviews []owned
	if err := db.Model(&model.ReviewModel{}).
		Select("id", "user_id").
		Where("user_id IN ? AND deleted = ?", ids, false).
		Order("id").
		Find(&reviews).Error; err != nil {
		return err
	}
	for _, r := range reviews {
		byID[r.UserID].ReviewIDs = append(byID[r.UserID].ReviewIDs, r.ID)
	}

	for _, u := range users {
		slices.Sort(u.FollowerIDs)
		slices.Sort(u.FollowingIDs)
	}

	return nil
}

// --- Mapper Functions ---

// toUserDomain converts a GORM UserModel to a domain User entity.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:                data.ID,
		Email:             data.Email,
		Username:          derefString(data.Username),
		Nickname:          data.Nickname,
		Bio:               data.Bio,
		ProfileImageURL:   data.ProfileImageURL,
		Provider:          data.Provider,
		ProviderID:        data.ProviderID,
		Preferences:       data.Preferences,
		TravelPreferences: data.TravelPrefs,
		IsEmailVerified:   data.IsEmailVerified,
		IsPremium:         data.IsPremium,
		IsActive:          data.IsActive,
		LastLoginAt:       utcPtr(data.LastLoginAt),
		Audit:             toAudit(data.AuditColumns),
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for persistence.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:              data.ID,
		Email:           data.Email,
		Username:        nullableString(data.Username),
		Nickname:        data.Nickname,
		Bio:             data.Bio,
		ProfileImageURL: data.ProfileImageURL,
		Provider:        data.Provider,
		ProviderID:      data.ProviderID,
		Preferences:     data.Preferences,
		TravelPrefs:     data.TravelPreferences,
		IsEmailVerified: data.IsEmailVerified,
		IsPremium:       data.IsPremium,
		IsActive:        data.IsActive,
		LastLoginAt:     data.LastLoginAt,
		AuditColumns:    toAuditColumns(data.Audit),
	}
}
