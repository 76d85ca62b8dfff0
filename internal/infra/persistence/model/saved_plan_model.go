package model

// SavedPlanModel is the GORM-specific struct for the 'saved_plans' table.
// A user saves a given plan at most once.
type SavedPlanModel struct {
	ID           string `gorm:"type:varchar(36);primaryKey"`
	UserID       string `gorm:"type:varchar(36);not null;uniqueIndex:idx_saved_plans_user_plan,priority:1"`
	TravelPlanID string `gorm:"type:varchar(36);not null;uniqueIndex:idx_saved_plans_user_plan,priority:2;index"`
	AuditColumns `gorm:"embedded"`
}

// TableName explicitly sets the table name for GORM.
func (SavedPlanModel) TableName() string {
	return "saved_plans"
}
