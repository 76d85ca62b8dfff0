package entity

import (
	"maps"
	"slices"
	"time"
)

// User is an account of the travel application. Relationship lists are kept
// as id lists so both backends can serve them without joins.
type User struct {
	ID              string // Globally unique and immutable once assigned.
	Email           string // Unique lookup key.
	Username        string // Optional unique handle.
	Nickname        string
	Bio             string
	ProfileImageURL string
	Provider        string // OAuth provider (google, apple).
	ProviderID      string // Subject id at the provider; (Provider, ProviderID) is unique.

	Preferences       map[string]string
	TravelPreferences map[string]string

	IsEmailVerified bool
	IsPremium       bool
	IsActive        bool
	LastLoginAt     *time.Time

	TravelPlanIDs []string // Plans owned by this user.
	ReviewIDs     []string // Reviews written by this user.
	FollowerIDs   []string // Users following this user.
	FollowingIDs  []string // Users this user follows.

	Audit
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	c := *u
	c.Preferences = maps.Clone(u.Preferences)
	c.TravelPreferences = maps.Clone(u.TravelPreferences)
	c.LastLoginAt = clonePtr(u.LastLoginAt)
	c.TravelPlanIDs = slices.Clone(u.TravelPlanIDs)
	c.ReviewIDs = slices.Clone(u.ReviewIDs)
	c.FollowerIDs = slices.Clone(u.FollowerIDs)
	c.FollowingIDs = slices.Clone(u.FollowingIDs)
	c.DeletedAt = clonePtr(u.DeletedAt)

	return &c
}

// Validate checks the fields required by both backends.
func (u *User) Validate() error {
	switch {
	case u.ID == "":
		return missingField("id")
	case u.Email == "":
		return missingField("email")
	case u.Provider == "" || u.ProviderID == "":
		return missingField("provider/providerId")
	}

	return nil
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p

	return &v
}
