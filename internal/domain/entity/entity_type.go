// Package entity contains the core business objects of the travel domain,
// each representing a unique, identifiable concept that is persisted in
// either the relational or the document backend.
package entity

import (
	"strings"

	"github.com/google/uuid"
)

// EntityType names a persisted entity kind. It is the unit of migration.
type EntityType string

const (
	TypeUser          EntityType = "User"
	TypePlace         EntityType = "Place"
	TypeTravelPlan    EntityType = "TravelPlan"
	TypeItineraryItem EntityType = "ItineraryItem"
	TypeReview        EntityType = "Review"
	TypeSavedPlan     EntityType = "SavedPlan"
)

// AllEntityTypes returns every entity type in a stable order.
func AllEntityTypes() []EntityType {
	return []EntityType{
		TypeUser,
		TypePlace,
		TypeTravelPlan,
		TypeItineraryItem,
		TypeReview,
		TypeSavedPlan,
	}
}

// ParseEntityType matches s case-insensitively against the known entity types.
// A trailing plural "s" is accepted, so "reviews" resolves to Review.
func ParseEntityType(s string) (EntityType, bool) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for _, t := range AllEntityTypes() {
		name := strings.ToLower(string(t))
		if needle == name || needle == name+"s" {
			return t, true
		}
	}

	return "", false
}

// NewID returns a new time-ordered identifier.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}
