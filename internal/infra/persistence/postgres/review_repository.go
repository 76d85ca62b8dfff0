package postgres

import (
	"context"
	"time"

	"tripstore/internal/domain/entity"
	"tripstore/internal/domain/repository"
	"tripstore/internal/infra/persistence/model"

	"gorm.io/gorm"
)

type reviewRepository struct {
	*table[model.ReviewModel, entity.Review]
}

// NewReviewRepository is the constructor for reviewRepository.
func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{
		table: &table[model.ReviewModel, entity.Review]{
			db:         db,
			name:       "review",
			now:        time.Now,
			toDomain:   toReviewDomain,
			fromDomain: fromReviewDomain,
			idOf:       func(r *entity.Review) string { return r.ID },
			auditOf:    func(r *entity.Review) *entity.Audit { return &r.Audit },
		},
	}
}

func (repo *reviewRepository) FindByPlaceID(ctx context.Context, placeID string) ([]*entity.Review, error) {
	return repo.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("place_id = ?", placeID).Order("created_at")
	})
}

func (repo *reviewRepository) FindByUserID(ctx context.Context, userID string) ([]*entity.Review, error) {
	return repo.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID).Order("created_at")
	})
}

func (repo *reviewRepository) FindByPlaceAndRating(ctx context.Context, placeID string, rating int) ([]*entity.Review, error) {
	return repo.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("place_id = ? AND rating = ?", placeID, rating).Order("created_at")
	})
}

// FindByPlaceBetween returns the place's reviews created in [from, to], oldest first.
func (repo *reviewRepository) FindByPlaceBetween(ctx context.Context, placeID string, from, to time.Time) ([]*entity.Review, error) {
	return repo.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("place_id = ? AND created_at >= ? AND created_at <= ?", placeID, from.UTC(), to.UTC()).Order("created_at")
	})
}

// --- Mapper Functions ---

func toReviewDomain(data *model.ReviewModel) *entity.Review {
	if data == nil {
		return nil
	}

	return &entity.Review{
		ID:                 data.ID,
		PlaceID:            data.PlaceID,
		UserID:             data.UserID,
		Rating:             data.Rating,
		Content:            data.Content,
		Images:             data.Images,
		VisitDate:          utcPtr(data.VisitDate),
		LikesCount:         data.LikesCount,
		IsVerifiedPurchase: data.IsVerifiedPurchase,
		Audit:              toAudit(data.AuditColumns),
	}
}

func fromReviewDomain(data *entity.Review) *model.ReviewModel {
	if data == nil {
		return nil
	}

	return &model.ReviewModel{
		ID:                 data.ID,
		PlaceID:            data.PlaceID,
		UserID:             data.UserID,
		Rating:             data.Rating,
		Content:            data.Content,
		Images:             data.Images,
		VisitDate:          data.VisitDate,
		LikesCount:         data.LikesCount,
		IsVerifiedPurchase: data.IsVerifiedPurchase,
		AuditColumns:       toAuditColumns(data.Audit),
	}
}
