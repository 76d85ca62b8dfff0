package model

// PlaceModel is the GORM-specific struct for the 'places' table.
type PlaceModel struct {
	ID              string   `gorm:"type:varchar(36);primaryKey"`
	NaverPlaceID    *string  `gorm:"type:varchar(100);uniqueIndex"`
	Name            string   `gorm:"type:varchar(255);not null"`
	Category        string   `gorm:"type:varchar(100);not null;index;index:idx_places_category_popularity,priority:1"`
	Description     string   `gorm:"type:text"`
	Address         string   `gorm:"type:text"`
	RoadAddress     string   `gorm:"type:text"`
	Latitude        *float64 `gorm:"type:decimal(10,8)"`
	Longitude       *float64 `gorm:"type:decimal(11,8)"`
	Geohash         *string  `gorm:"type:varchar(32);index"`
	PhoneNumber     string   `gorm:"type:varchar(50)"`
	Website         string   `gorm:"type:text"`
	Tags            []string `gorm:"type:text;serializer:json"`
	Images          []string `gorm:"type:text;serializer:json"`
	Rating          float64  `gorm:"not null"`
	ReviewCount     int      `gorm:"not null"`
	BookmarkCount   int      `gorm:"not null"`
	PopularityScore float64  `gorm:"not null;index:idx_places_category_popularity,priority:2"`
	IsVerified      bool     `gorm:"not null"`
	AuditColumns    `gorm:"embedded"`
}

// TableName explicitly sets the table name for GORM.
func (PlaceModel) TableName() string {
	return "places"
}
