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

type travelPlanRepository struct {
	*table[model.TravelPlanModel, entity.TravelPlan]
}

// NewTravelPlanRepository is the constructor for travelPlanRepository.
func NewTravelPlanRepository(db *gorm.DB) repository.TravelPlanRepository {
	return &travelPlanRepository{
		table: &table[model.TravelPlanModel, entity.TravelPlan]{
			db:            db,
			name:          "travel plan",
			now:           time.Now,
			toDomain:      toTravelPlanDomain,
			fromDomain:    fromTravelPlanDomain,
			idOf:          func(p *entity.TravelPlan) string { return p.ID },
			auditOf:       func(p *entity.TravelPlan) *entity.Audit { return &p.Audit },
			hydrate:       hydrateCollaborators,
			saveRelations: saveCollaborators,
		},
	}
}

// FindByUserID returns the user's plans, earliest start first.
func (repo *travelPlanRepository) FindByUserID(ctx context.Context, userID string) ([]*entity.TravelPlan, error) {
	return repo.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID).Order("start_date")
	})
}

func (repo *travelPlanRepository) FindByStatus(ctx context.Context, status entity.TravelPlanStatus) ([]*entity.TravelPlan, error) {
	return repo.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", string(status))
	})
}

func (repo *travelPlanRepository) FindByDestination(ctx context.Context, destination string) ([]*entity.TravelPlan, error) {
	return repo.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("destination = ?", destination)
	})
}

func (repo *travelPlanRepository) FindPublic(ctx context.Context) ([]*entity.TravelPlan, error) {
	return repo.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("is_public = ?", true)
	})
}

func saveCollaborators(tx *gorm.DB, p *entity.TravelPlan) error {
	if err := tx.Where("travel_plan_id = ?", p.ID).Delete(&model.TravelPlanCollaboratorModel{}).Error; err != nil {
		return err
	}
	if len(p.CollaboratorIDs) == 0 {
		return nil
	}

	rows := make([]model.TravelPlanCollaboratorModel, len(p.CollaboratorIDs))
	for i, id := range p.CollaboratorIDs {
		rows[i] = model.TravelPlanCollaboratorModel{TravelPlanID: p.ID, UserID: id}
	}

	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func hydrateCollaborators(_ context.Context, db *gorm.DB, plans []*entity.TravelPlan) error {
	ids := make([]string, len(plans))
	byID := make(map[string]*entity.TravelPlan, len(plans))
	for i, p := range plans {
		ids[i] = p.ID
		byID[p.ID] = p
		p.CollaboratorIDs = nil
	}

	var rows []model.TravelPlanCollaboratorModel
	if err := db.Where("travel_plan_id IN ?", ids).Find(&rows).Error; err != nil {
		return err
	}
	for _, r := range rows {
		byID[r.TravelPlanID].CollaboratorIDs = append(byID[r.TravelPlanID].CollaboratorIDs, r.UserID)
	}
	for _, p := range plans {
		slices.Sort(p.CollaboratorIDs)
	}

	return nil
}

// --- Mapper Functions ---

func toTravelPlanDomain(data *model.TravelPlanModel) *entity.TravelPlan {
	if data == nil {
		return nil
	}

	return &entity.TravelPlan{
		ID:             data.ID,
		UserID:         data.UserID,
		Title:          data.Title,
		Description:    data.Description,
		Destination:    data.Destination,
		StartDate:      utc(data.StartDate),
		EndDate:        utc(data.EndDate),
		NumberOfPeople: data.NumberOfPeople,
		Budget:         data.Budget,
		Status:         entity.TravelPlanStatus(data.Status),
		IsPublic:       data.IsPublic,
		IsAIGenerated:  data.IsAIGenerated,
		Tags:           data.Tags,
		CoverImageURL:  data.CoverImageURL,
		ViewCount:      data.ViewCount,
		LikeCount:      data.LikeCount,
		ShareCount:     data.ShareCount,
		SaveCount:      data.SaveCount,
		Audit:          toAudit(data.AuditColumns),
	}
}

func fromTravelPlanDomain(data *entity.TravelPlan) *model.TravelPlanModel {
	if data == nil {
		return nil
	}

	return &model.TravelPlanModel{
		ID:             data.ID,
		UserID:         data.UserID,
		Title:          data.Title,
		Description:    data.Description,
		Destination:    data.Destination,
		StartDate:      data.StartDate,
		EndDate:        data.EndDate,
		NumberOfPeople: data.NumberOfPeople,
		Budget:         data.Budget,
		Status:         string(data.Status),
		IsPublic:       data.IsPublic,
		IsAIGenerated:  data.IsAIGenerated,
		Tags:           data.Tags,
		CoverImageURL:  data.CoverImageURL,
		ViewCount:      data.ViewCount,
		LikeCount:      data.LikeCount,
		ShareCount:     data.ShareCount,
		SaveCount:      data.SaveCount,
		AuditColumns:   toAuditColumns(data.Audit),
	}
}
