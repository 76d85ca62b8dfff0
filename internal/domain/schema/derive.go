package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Rule is a derivation applied to the source values of a Derived attribute.
type Rule int

const (
	// RuleCopy duplicates a single source; used for reverse-lookup pairs.
	RuleCopy Rule = iota
	// RuleConcat joins all sources with CompositeSeparator.
	RuleConcat
	// RuleGeohash buckets a latitude, longitude pair.
	RuleGeohash
	// RuleDateSort renders a timestamp as a fixed-width, lexically sortable UTC string.
	RuleDateSort
	// RuleFlag yields "true" when the boolean source is true and nothing otherwise.
	RuleFlag
	// RulePaddedConcat joins integer sources zero-padded so they sort numerically.
	RulePaddedConcat
)

// CompositeSeparator joins the parts of a composite key.
const CompositeSeparator = "#"

// SortableTimeLayout is fixed width so lexical order equals time order.
const SortableTimeLayout = "2006-01-02T15:04:05.000000Z"

const paddedIntWidth = 6

func (r Rule) String() string {
	switch r {
	case RuleCopy:
		return "copy"
	case RuleConcat:
		return "concat"
	case RuleGeohash:
		return "geohash"
	case RuleDateSort:
		return "date-sort"
	case RuleFlag:
		return "flag"
	case RulePaddedConcat:
		return "padded-concat"
	}

	return "unknown"
}

// arity is the number of sources the rule consumes; 0 means any number >= 1.
func (r Rule) arity() int {
	switch r {
	case RuleCopy, RuleDateSort, RuleFlag:
		return 1
	case RuleGeohash:
		return 2
	}

	return 0
}

func (r Rule) derive(values []any) (string, bool) {
	if len(values) == 0 {
		return "", false
	}

	switch r {
	case RuleCopy:
		return scalarString(values[0])
	case RuleConcat:
		parts := make([]string, len(values))
		for i, v := range values {
			s, ok := scalarString(v)
			if !ok {
				return "", false
			}
			parts[i] = s
		}

		return CompositeKey(parts...), true
	case RuleGeohash:
		lat, okLat := toFloat(values[0])
		lng, okLng := toFloat(values[1])
		if !okLat || !okLng {
			return "", false
		}

		return Geohash(lat, lng), true
	case RuleDateSort:
		t, ok := toTime(values[0])
		if !ok {
			return "", false
		}

		return DateSortKey(t), true
	case RuleFlag:
		if b, ok := values[0].(bool); ok && b {
			return "true", true
		}

		return "", false
	case RulePaddedConcat:
		parts := make([]string, len(values))
		for i, v := range values {
			f, ok := toFloat(v)
			if !ok || f < 0 {
				return "", false
			}
			parts[i] = fmt.Sprintf("%0*d", paddedIntWidth, int64(f))
		}

		return CompositeKey(parts...), true
	}

	return "", false
}

// CompositeKey joins parts into a composite key string.
func CompositeKey(parts ...string) string {
	return strings.Join(parts, CompositeSeparator)
}

// ReviewRatingKey is the place-rating composite used by the review table.
func ReviewRatingKey(placeID string, rating int) string {
	return CompositeKey(placeID, strconv.Itoa(rating))
}

// SavedPlanKey is the user-plan composite that stands in for a unique constraint.
func SavedPlanKey(userID, travelPlanID string) string {
	return CompositeKey(userID, travelPlanID)
}

// DaySequenceKey is the itinerary sort key for a (day, sequence) pair.
func DaySequenceKey(day, sequence int) string {
	return CompositeKey(fmt.Sprintf("%0*d", paddedIntWidth, day), fmt.Sprintf("%0*d", paddedIntWidth, sequence))
}

// DateSortKey renders t in SortableTimeLayout.
func DateSortKey(t time.Time) string {
	return t.UTC().Format(SortableTimeLayout)
}

// scalarString renders a present scalar; nil and empty strings are absent.
func scalarString(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, x != ""
	case bool:
		return strconv.FormatBool(x), true
	case int:
		return strconv.Itoa(x), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case time.Time:
		if x.IsZero() {
			return "", false
		}

		return x.UTC().Format(time.RFC3339Nano), true
	}

	return "", false
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case *float64:
		if x == nil {
			return 0, false
		}

		return *x, true
	}

	return 0, false
}

func toTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero()
	case string:
		if x == "" {
			return time.Time{}, false
		}
		t, err := time.Parse(time.RFC3339Nano, x)
		if err != nil {
			return time.Time{}, false
		}

		return t, !t.IsZero()
	}

	return time.Time{}, false
}
