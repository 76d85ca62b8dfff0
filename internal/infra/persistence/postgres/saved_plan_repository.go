package postgres

import (
	"context"
	"time"

	"tripstore/internal/domain/entity"
	"tripstore/internal/domain/repository"
	"tripstore/internal/infra/persistence/model"

	"gorm.io/gorm"
)

type savedPlanRepository struct {
	*table[model.SavedPlanModel, entity.SavedPlan]
}

// NewSavedPlanRepository is the constructor for savedPlanRepository.
func NewSavedPlanRepository(db *gorm.DB) repository.SavedPlanRepository {
	return &savedPlanRepository{
		table: &table[model.SavedPlanModel, entity.SavedPlan]{
			db:         db,
			name:       "saved plan",
			now:        time.Now,
			toDomain:   toSavedPlanDomain,
			fromDomain: fromSavedPlanDomain,
			idOf:       func(s *entity.SavedPlan) string { return s.ID },
			auditOf:    func(s *entity.SavedPlan) *entity.Audit { return &s.Audit },
		},
	}
}

func (repo *savedPlanRepository) FindByUserID(ctx context.Context, userID string) ([]*entity.SavedPlan, error) {
	return repo.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	})
}

func (repo *savedPlanRepository) FindByTravelPlanID(ctx context.Context, travelPlanID string) ([]*entity.SavedPlan, error) {
	return repo.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("travel_plan_id = ?", travelPlanID)
	})
}

func (repo *savedPlanRepository) Find(ctx context.Context, userID, travelPlanID string) (*entity.SavedPlan, error) {
	return repo.first(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ? AND travel_plan_id = ?", userID, travelPlanID)
	})
}

// --- Mapper Functions ---

func toSavedPlanDomain(data *model.SavedPlanModel) *entity.SavedPlan {
	if data == nil {
		return nil
	}

	return &entity.SavedPlan{
		ID:           data.ID,
		UserID:       data.UserID,
		TravelPlanID: data.TravelPlanID,
		Audit:        toAudit(data.AuditColumns),
	}
}

func fromSavedPlanDomain(data *entity.SavedPlan) *model.SavedPlanModel {
	if data == nil {
		return nil
	}

	return &model.SavedPlanModel{
		ID:           data.ID,
		UserID:       data.UserID,
		TravelPlanID: data.TravelPlanID,
		AuditColumns: toAuditColumns(data.Audit),
	}
}
