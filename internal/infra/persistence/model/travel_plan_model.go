package model

import "time"

// TravelPlanModel is the GORM-specific struct for the 'travel_plans' table.
type TravelPlanModel struct {
	ID             string    `gorm:"type:varchar(36);primaryKey"`
	UserID         string    `gorm:"type:varchar(36);not null;index:idx_travel_plans_user_start,priority:1"`
	Title          string    `gorm:"type:varchar(255);not null"`
	Description    string    `gorm:"type:text"`
	Destination    string    `gorm:"type:varchar(255);not null;index"`
	StartDate      time.Time `gorm:"index:idx_travel_plans_user_start,priority:2"`
	EndDate        time.Time
	NumberOfPeople int      `gorm:"not null"`
	Budget         float64  `gorm:"type:decimal(12,2);not null"`
	Status         string   `gorm:"type:varchar(20);not null;index"`
	IsPublic       bool     `gorm:"not null;index"`
	IsAIGenerated  bool     `gorm:"column:is_ai_generated;not null"`
	Tags           []string `gorm:"type:text;serializer:json"`
	CoverImageURL  string   `gorm:"type:text"`
	ViewCount      int64    `gorm:"not null"`
	LikeCount      int64    `gorm:"not null"`
	ShareCount     int64    `gorm:"not null"`
	SaveCount      int64    `gorm:"not null"`
	AuditColumns   `gorm:"embedded"`
}

// TableName explicitly sets the table name for GORM.
func (TravelPlanModel) TableName() string {
	return "travel_plans"
}

// TravelPlanCollaboratorModel mirrors the 'travel_plan_collaborators' join table.
type TravelPlanCollaboratorModel struct {
	TravelPlanID string `gorm:"type:varchar(36);primaryKey"`
	UserID       string `gorm:"type:varchar(36);primaryKey;index"`
}

// TableName explicitly sets the table name for GORM.
func (TravelPlanCollaboratorModel) TableName() string {
	return "travel_plan_collaborators"
}
