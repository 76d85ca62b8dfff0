package model

import "time"

// UserModel is the GORM-specific struct for the 'users' table.
// Owned travel plans and reviews are read back from their own tables.
type UserModel struct {
	ID              string            `gorm:"type:varchar(36);primaryKey"`
	Email           string            `gorm:"type:varchar(255);not null;uniqueIndex"`
	Username        *string           `gorm:"type:varchar(100);uniqueIndex"`
	Nickname        string            `gorm:"type:varchar(100)"`
	Bio             string            `gorm:"type:text"`
	ProfileImageURL string            `gorm:"type:text"`
	Provider        string            `gorm:"type:varchar(50);not null;uniqueIndex:idx_users_provider"`
	ProviderID      string            `gorm:"type:varchar(255);not null;uniqueIndex:idx_users_provider"`
	Preferences     map[string]string `gorm:"type:text;serializer:json"`
	TravelPrefs     map[string]string `gorm:"column:travel_preferences;type:text;serializer:json"`
	IsEmailVerified bool              `gorm:"not null"`
	IsPremium       bool              `gorm:"not null"`
	IsActive        bool              `gorm:"not null"`
	LastLoginAt     *time.Time
	AuditColumns    `gorm:"embedded"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}

// UserFollowModel mirrors the 'user_follows' join table.
type UserFollowModel struct {
	FollowerID  string `gorm:"type:varchar(36);primaryKey"`
	FollowingID string `gorm:"type:varchar(36);primaryKey;index"`
}

// TableName explicitly sets the table name for GORM.
func (UserFollowModel) TableName() string {
	return "user_follows"
}
