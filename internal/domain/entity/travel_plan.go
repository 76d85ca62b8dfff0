package entity

import (
	"slices"
	"time"
)

// TravelPlanStatus is the lifecycle state of a travel plan.
type TravelPlanStatus string

const (
	TravelPlanDraft      TravelPlanStatus = "DRAFT"
	TravelPlanConfirmed  TravelPlanStatus = "CONFIRMED"
	TravelPlanInProgress TravelPlanStatus = "IN_PROGRESS"
	TravelPlanCompleted  TravelPlanStatus = "COMPLETED"
	TravelPlanCancelled  TravelPlanStatus = "CANCELLED"
)

// IsValid reports whether s is a known status.
func (s TravelPlanStatus) IsValid() bool {
	switch s {
	case TravelPlanDraft, TravelPlanConfirmed, TravelPlanInProgress, TravelPlanCompleted, TravelPlanCancelled:
		return true
	}

	return false
}

// TravelPlan is a user's trip. Itinerary items reference it by TravelPlanID.
type TravelPlan struct {
	ID             string
	UserID         string // Owner.
	Title          string
	Description    string
	Destination    string
	StartDate      time.Time
	EndDate        time.Time
	NumberOfPeople int
	Budget         float64
	Status         TravelPlanStatus
	IsPublic       bool
	IsAIGenerated  bool
	Tags           []string
	CoverImageURL  string

	ViewCount  int64
	LikeCount  int64
	ShareCount int64
	SaveCount  int64

	CollaboratorIDs []string

	Audit
}

// Clone returns a deep copy of the travel plan.
func (p *TravelPlan) Clone() *TravelPlan {
	c := *p
	c.Tags = slices.Clone(p.Tags)
	c.CollaboratorIDs = slices.Clone(p.CollaboratorIDs)
	c.DeletedAt = clonePtr(p.DeletedAt)

	return &c
}

// Validate checks the fields required by both backends.
func (p *TravelPlan) Validate() error {
	switch {
	case p.ID == "":
		return missingField("id")
	case p.UserID == "":
		return missingField("userId")
	case p.Title == "":
		return missingField("title")
	case p.Destination == "":
		return missingField("destination")
	case !p.Status.IsValid():
		return invalidField("status", string(p.Status))
	case !p.EndDate.IsZero() && p.EndDate.Before(p.StartDate):
		return invalidField("endDate", "before startDate")
	}

	return nil
}
