package model

import "time"

// ItineraryItemModel is the GORM-specific struct for the 'itinerary_items' table.
// (travel_plan_id, day_number, sequence) is unique.
type ItineraryItemModel struct {
	ID              string  `gorm:"type:varchar(36);primaryKey"`
	TravelPlanID    string  `gorm:"type:varchar(36);not null;uniqueIndex:idx_itinerary_plan_day_seq,priority:1"`
	PlaceID         *string `gorm:"type:varchar(36);index"`
	DayNumber       int     `gorm:"not null;uniqueIndex:idx_itinerary_plan_day_seq,priority:2"`
	Sequence        int     `gorm:"not null;uniqueIndex:idx_itinerary_plan_day_seq,priority:3"`
	StartTime       *time.Time
	EndTime         *time.Time
	Title           string  `gorm:"type:varchar(255);not null"`
	Description     string  `gorm:"type:text"`
	PlaceName       string  `gorm:"type:varchar(255)"`
	Address         string  `gorm:"type:text"`
	EstimatedCost   float64 `gorm:"type:decimal(12,2);not null"`
	DurationMinutes int     `gorm:"not null"`
	TransportMode   string  `gorm:"type:varchar(50)"`
	Notes           string  `gorm:"type:text"`
	IsCompleted     bool    `gorm:"not null"`
	AuditColumns    `gorm:"embedded"`
}

// TableName explicitly sets the table name for GORM.
func (ItineraryItemModel) TableName() string {
	return "itinerary_items"
}
