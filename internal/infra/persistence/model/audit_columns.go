// Package model holds the GORM persistence structs of the relational backend.
package model

import "time"

// AuditColumns is embedded by every table. Timestamps are written by the
// repositories, never by GORM, so migrated records keep their original values.
type AuditColumns struct {
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
	Version   int64     `gorm:"not null"`
	Deleted   bool      `gorm:"not null;index"`
	DeletedAt *time.Time
}

// All returns every model, in AutoMigrate order.
func All() []any {
	return []any{
		&UserModel{},
		&UserFollowModel{},
		&PlaceModel{},
		&TravelPlanModel{},
		&TravelPlanCollaboratorModel{},
		&ItineraryItemModel{},
		&ReviewModel{},
		&SavedPlanModel{},
	}
}
