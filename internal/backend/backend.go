// Package backend selects which store serves each capability group and
// exposes the chosen repositories behind the uniform repository contracts.
package backend

import (
	"slices"
	"strings"

	"tripstore/internal/domain/entity"
	domainerrors "tripstore/internal/domain/errors"
	"tripstore/internal/errors"
)

// Kind identifies a storage backend.
type Kind string

const (
	Relational Kind = "relational"
	Document   Kind = "document"
)

// Group is a capability group: entities that always live in the same store.
type Group string

const (
	GroupUsers   Group = "users"
	GroupPlaces  Group = "places"
	GroupTravel  Group = "travel"
	GroupReviews Group = "reviews"
)

// AllGroups returns every capability group.
func AllGroups() []Group {
	return []Group{GroupUsers, GroupPlaces, GroupTravel, GroupReviews}
}

// ParseGroup resolves a group name.
func ParseGroup(s string) (Group, error) {
	g := Group(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(AllGroups(), g) {
		return g, nil
	}

	return "", errors.Wrapf(domainerrors.ErrUnknownCapability, "unknown group %q", s)
}

// GroupOf returns the capability group an entity type belongs to.
func GroupOf(t entity.EntityType) Group {
	switch t {
	case entity.TypeUser:
		return GroupUsers
	case entity.TypePlace:
		return GroupPlaces
	case entity.TypeReview:
		return GroupReviews
	}

	return GroupTravel
}

// Feature is a backend capability callers may branch on.
type Feature string

const (
	FeatureTransactions        Feature = "transactions"
	FeatureFullTextSearch      Feature = "full_text_search"
	FeatureStrongConsistency   Feature = "strong_consistency"
	FeatureEventualConsistency Feature = "eventual_consistency"
	FeatureSecondaryIndexes    Feature = "secondary_indexes"
	FeatureGeoBucketing        Feature = "geo_bucketing"
	FeatureAdHocQuery          Feature = "ad_hoc_query"
)

// AllFeatures returns every known feature.
func AllFeatures() []Feature {
	return []Feature{
		FeatureTransactions,
		FeatureFullTextSearch,
		FeatureStrongConsistency,
		FeatureEventualConsistency,
		FeatureSecondaryIndexes,
		FeatureGeoBucketing,
		FeatureAdHocQuery,
	}
}

// ParseFeature resolves a feature name.
func ParseFeature(s string) (Feature, error) {
	f := Feature(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(AllFeatures(), f) {
		return f, nil
	}

	return "", errors.Wrapf(domainerrors.ErrUnknownCapability, "unknown feature %q", s)
}

var kindFeatures = map[Kind][]Feature{
	Relational: {
		FeatureTransactions,
		FeatureFullTextSearch,
		FeatureStrongConsistency,
		FeatureSecondaryIndexes,
		FeatureAdHocQuery,
	},
	Document: {
		FeatureEventualConsistency,
		FeatureSecondaryIndexes,
		FeatureGeoBucketing,
	},
}

// Features lists what a backend kind supports.
func (k Kind) Features() []Feature {
	return slices.Clone(kindFeatures[k])
}

// Supports reports whether the backend kind has the feature.
func (k Kind) Supports(f Feature) bool {
	return slices.Contains(kindFeatures[k], f)
}

// Opposite returns the other backend kind.
func (k Kind) Opposite() Kind {
	if k == Relational {
		return Document
	}

	return Relational
}
