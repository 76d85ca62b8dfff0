package entity

import (
	"slices"
	"time"
)

// Review is a user's rating of a place.
type Review struct {
	ID                 string
	PlaceID            string
	UserID             string
	Rating             int // 1 to 5.
	Content            string
	Images             []string
	VisitDate          *time.Time
	LikesCount         int
	IsVerifiedPurchase bool

	Audit
}

// Clone returns a deep copy of the review.
func (r *Review) Clone() *Review {
	c := *r
	c.Images = slices.Clone(r.Images)
	c.VisitDate = clonePtr(r.VisitDate)
	c.DeletedAt = clonePtr(r.DeletedAt)

	return &c
}

// Validate checks the fields required by both backends.
func (r *Review) Validate() error {
	switch {
	case r.ID == "":
		return missingField("id")
	case r.PlaceID == "":
		return missingField("placeId")
	case r.UserID == "":
		return missingField("userId")
	case r.Rating < 1 || r.Rating > 5:
		return invalidField("rating", "must be between 1 and 5")
	}

	return nil
}
