package entity

import "slices"

// Place is a point of interest that travel plans and reviews refer to.
type Place struct {
	ID           string
	NaverPlaceID string // External catalogue id; unique when set.
	Name         string
	Category     string
	Description  string
	Address      string
	RoadAddress  string
	Latitude     *float64 // Nil when the place has no known position.
	Longitude    *float64
	Geohash      string // Coarse spatial bucket derived from the coordinates.
	PhoneNumber  string
	Website      string
	Tags         []string
	Images       []string

	Rating          float64
	ReviewCount     int
	BookmarkCount   int
	PopularityScore float64
	IsVerified      bool

	Audit
}

// HasLocation reports whether both coordinates are known.
func (p *Place) HasLocation() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// Clone returns a deep copy of the place.
func (p *Place) Clone() *Place {
	c := *p
	c.Latitude = clonePtr(p.Latitude)
	c.Longitude = clonePtr(p.Longitude)
	c.Tags = slices.Clone(p.Tags)
	c.Images = slices.Clone(p.Images)
	c.DeletedAt = clonePtr(p.DeletedAt)

	return &c
}

// Validate checks the fields required by both backends.
func (p *Place) Validate() error {
	switch {
	case p.ID == "":
		return missingField("id")
	case p.Name == "":
		return missingField("name")
	case p.Category == "":
		return missingField("category")
	case (p.Latitude == nil) != (p.Longitude == nil):
		return invalidField("latitude/longitude", "coordinates must be set together")
	case p.Latitude != nil && (*p.Latitude < -90 || *p.Latitude > 90):
		return invalidField("latitude", "out of range")
	case p.Longitude != nil && (*p.Longitude < -180 || *p.Longitude > 180):
		return invalidField("longitude", "out of range")
	}

	return nil
}
