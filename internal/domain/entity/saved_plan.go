package entity

// SavedPlan associates a user with a travel plan they bookmarked.
// (UserID, TravelPlanID) is unique.
type SavedPlan struct {
	ID           string
	UserID       string
	TravelPlanID string

	Audit
}

// Clone returns a copy of the saved plan.
func (s *SavedPlan) Clone() *SavedPlan {
	c := *s
	c.DeletedAt = clonePtr(s.DeletedAt)

	return &c
}

// Validate checks the fields required by both backends.
func (s *SavedPlan) Validate() error {
	switch {
	case s.ID == "":
		return missingField("id")
	case s.UserID == "":
		return missingField("userId")
	case s.TravelPlanID == "":
		return missingField("travelPlanId")
	}

	return nil
}
