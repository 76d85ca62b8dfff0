package postgres

import (
	"context"
	"time"

	"tripstore/internal/domain/entity"
	"tripstore/internal/domain/repository"
	"tripstore/internal/domain/schema"
	"tripstore/internal/infra/persistence/model"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"gorm.io/gorm"
)

type placeRepository struct {
	*table[model.PlaceModel, entity.Place]
}

// NewPlaceRepository is the constructor for placeRepository.
func NewPlaceRepository(db *gorm.DB) repository.PlaceRepository {
	return &placeRepository{
		table: &table[model.PlaceModel, entity.Place]{
			db:         db,
			name:       "place",
			now:        time.Now,
			toDomain:   toPlaceDomain,
			fromDomain: fromPlaceDomain,
			idOf:       func(p *entity.Place) string { return p.ID },
			auditOf:    func(p *entity.Place) *entity.Audit { return &p.Audit },
		},
	}
}

// Save recomputes the geohash from the coordinates before writing.
func (repo *placeRepository) Save(ctx context.Context, p *entity.Place) error {
	p.Geohash = schema.GeohashOf(p.Latitude, p.Longitude)

	return repo.table.Save(ctx, p)
}

func (repo *placeRepository) FindByNaverPlaceID(ctx context.Context, naverPlaceID string) (*entity.Place, error) {
	return repo.first(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("naver_place_id = ?", naverPlaceID)
	})
}

func (repo *placeRepository) FindByCategory(ctx context.Context, category string) ([]*entity.Place, error) {
	return repo.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("category = ?", category)
	})
}

func (repo *placeRepository) FindTopByCategory(ctx context.Context, category string, limit int) ([]*entity.Place, error) {
	if limit <= 0 {
		limit = -1 // no limit
	}

	return repo.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("category = ?", category).Order("popularity_score DESC").Limit(limit)
	})
}

func (repo *placeRepository) FindByGeohash(ctx context.Context, geohash string) ([]*entity.Place, error) {
	return repo.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("geohash = ?", geohash)
	})
}

// FindNearby narrows by bounding box in SQL, then filters by great-circle distance.
func (repo *placeRepository) FindNearby(ctx context.Context, lat, lng, radiusKm float64) ([]*entity.Place, error) {
	bound := geo.NewBoundAroundPoint(orb.Point{lng, lat}, radiusKm*1000)

	candidates, err := repo.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?",
			bound.Min.Lat(), bound.Max.Lat(), bound.Min.Lon(), bound.Max.Lon())
	})
	if err != nil {
		return nil, err
	}

	return schema.WithinRadius(candidates, lat, lng, radiusKm), nil
}

// --- Mapper Functions ---

func toPlaceDomain(data *model.PlaceModel) *entity.Place {
	if data == nil {
		return nil
	}

	return &entity.Place{
		ID:              data.ID,
		NaverPlaceID:    derefString(data.NaverPlaceID),
		Name:            data.Name,
		Category:        data.Category,
		Description:     data.Description,
		Address:         data.Address,
		RoadAddress:     data.RoadAddress,
		Latitude:        data.Latitude,
		Longitude:       data.Longitude,
		Geohash:         derefString(data.Geohash),
		PhoneNumber:     data.PhoneNumber,
		Website:         data.Website,
		Tags:            data.Tags,
		Images:          data.Images,
		Rating:          data.Rating,
		ReviewCount:     data.ReviewCount,
		BookmarkCount:   data.BookmarkCount,
		PopularityScore: data.PopularityScore,
		IsVerified:      data.IsVerified,
		Audit:           toAudit(data.AuditColumns),
	}
}

func fromPlaceDomain(data *entity.Place) *model.PlaceModel {
	if data == nil {
		return nil
	}

	return &model.PlaceModel{
		ID:              data.ID,
		NaverPlaceID:    nullableString(data.NaverPlaceID),
		Name:            data.Name,
		Category:        data.Category,
		Description:     data.Description,
		Address:         data.Address,
		RoadAddress:     data.RoadAddress,
		Latitude:        data.Latitude,
		Longitude:       data.Longitude,
		Geohash:         nullableString(data.Geohash),
		PhoneNumber:     data.PhoneNumber,
		Website:         data.Website,
		Tags:            data.Tags,
		Images:          data.Images,
		Rating:          data.Rating,
		ReviewCount:     data.ReviewCount,
		BookmarkCount:   data.BookmarkCount,
		PopularityScore: data.PopularityScore,
		IsVerified:      data.IsVerified,
		AuditColumns:    toAuditColumns(data.Audit),
	}
}
