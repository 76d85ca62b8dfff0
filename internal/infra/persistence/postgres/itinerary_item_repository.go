package postgres

import (
	"context"
	"time"

	"tripstore/internal/domain/entity"
	"tripstore/internal/domain/repository"
	"tripstore/internal/infra/persistence/model"

	"gorm.io/gorm"
)

type itineraryItemRepository struct {
	*table[model.ItineraryItemModel, entity.ItineraryItem]
}

// NewItineraryItemRepository is the constructor for itineraryItemRepository.
func NewItineraryItemRepository(db *gorm.DB) repository.ItineraryItemRepository {
	return &itineraryItemRepository{
		table: &table[model.ItineraryItemModel, entity.ItineraryItem]{
			db:         db,
			name:       "itinerary item",
			now:        time.Now,
			toDomain:   toItineraryItemDomain,
			fromDomain: fromItineraryItemDomain,
			idOf:       func(i *entity.ItineraryItem) string { return i.ID },
			auditOf:    func(i *entity.ItineraryItem) *entity.Audit { return &i.Audit },
		},
	}
}

// FindByTravelPlanID returns the plan's items ordered by day, then sequence.
func (repo *itineraryItemRepository) FindByTravelPlanID(ctx context.Context, travelPlanID string) ([]*entity.ItineraryItem, error) {
	return repo.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("travel_plan_id = ?", travelPlanID).Order("day_number").Order("sequence")
	})
}

func (repo *itineraryItemRepository) FindByPlaceID(ctx context.Context, placeID string) ([]*entity.ItineraryItem, error) {
	return repo.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("place_id = ?", placeID)
	})
}

// --- Mapper Functions ---

func toItineraryItemDomain(data *model.ItineraryItemModel) *entity.ItineraryItem {
	if data == nil {
		return nil
	}

	return &entity.ItineraryItem{
		ID:              data.ID,
		TravelPlanID:    data.TravelPlanID,
		PlaceID:         derefString(data.PlaceID),
		DayNumber:       data.DayNumber,
		Sequence:        data.Sequence,
		StartTime:       utcPtr(data.StartTime),
		EndTime:         utcPtr(data.EndTime),
		Title:           data.Title,
		Description:     data.Description,
		PlaceName:       data.PlaceName,
		Address:         data.Address,
		EstimatedCost:   data.EstimatedCost,
		DurationMinutes: data.DurationMinutes,
		TransportMode:   data.TransportMode,
		Notes:           data.Notes,
		IsCompleted:     data.IsCompleted,
		Audit:           toAudit(data.AuditColumns),
	}
}

func fromItineraryItemDomain(data *entity.ItineraryItem) *model.ItineraryItemModel {
	if data == nil {
		return nil
	}

	return &model.ItineraryItemModel{
		ID:              data.ID,
		TravelPlanID:    data.TravelPlanID,
		PlaceID:         nullableString(data.PlaceID),
		DayNumber:       data.DayNumber,
		Sequence:        data.Sequence,
		StartTime:       data.StartTime,
		EndTime:         data.EndTime,
		Title:           data.Title,
		Description:     data.Description,
		PlaceName:       data.PlaceName,
		Address:         data.Address,
		EstimatedCost:   data.EstimatedCost,
		DurationMinutes: data.DurationMinutes,
		TransportMode:   data.TransportMode,
		Notes:           data.Notes,
		IsCompleted:     data.IsCompleted,
		AuditColumns:    toAuditColumns(data.Audit),
	}
}
