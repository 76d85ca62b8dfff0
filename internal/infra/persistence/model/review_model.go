package model

import "time"

// ReviewModel is the GORM-specific struct for the 'reviews' table.
type ReviewModel struct {
	ID                 string   `gorm:"type:varchar(36);primaryKey"`
	PlaceID            string   `gorm:"type:varchar(36);not null;index:idx_reviews_place_rating,priority:1"`
	UserID             string   `gorm:"type:varchar(36);not null;index"`
	Rating             int      `gorm:"not null;index:idx_reviews_place_rating,priority:2"`
	Content            string   `gorm:"type:text"`
	Images             []string `gorm:"type:text;serializer:json"`
	VisitDate          *time.Time
	LikesCount         int  `gorm:"not null"`
	IsVerifiedPurchase bool `gorm:"not null"`
	AuditColumns       `gorm:"embedded"`
}

// TableName explicitly sets the table name for GORM.
func (ReviewModel) TableName() string {
	return "reviews"
}
