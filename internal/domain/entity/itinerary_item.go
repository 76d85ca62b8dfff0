package entity

import (
	"cmp"
	"fmt"
	"slices"
	"time"
)

// ItineraryItem is one stop of a travel plan. (TravelPlanID, DayNumber, Sequence)
// is unique and sequences within a day run 1..n without gaps.
type ItineraryItem struct {
	ID           string
	TravelPlanID string
	PlaceID      string // Optional; free-form stops have no place.
	DayNumber    int
	Sequence     int
	StartTime    *time.Time
	EndTime      *time.Time
	Title        string
	Description  string
	PlaceName    string
	Address      string

	EstimatedCost   float64
	DurationMinutes int
	TransportMode   string
	Notes           string
	IsCompleted     bool

	Audit
}

// Clone returns a deep copy of the item.
func (i *ItineraryItem) Clone() *ItineraryItem {
	c := *i
	c.StartTime = clonePtr(i.StartTime)
	c.EndTime = clonePtr(i.EndTime)
	c.DeletedAt = clonePtr(i.DeletedAt)

	return &c
}

// Validate checks the fields required by both backends.
func (i *ItineraryItem) Validate() error {
	switch {
	case i.ID == "":
		return missingField("id")
	case i.TravelPlanID == "":
		return missingField("travelPlanId")
	case i.Title == "":
		return missingField("title")
	case i.DayNumber < 1:
		return invalidField("dayNumber", "must be positive")
	case i.Sequence < 1:
		return invalidField("sequence", "must be positive")
	}

	return nil
}

// SequenceGaps inspects items of any number of plans and reports every
// (plan, day) whose sequences are not exactly 1..n.
func SequenceGaps(items []*ItineraryItem) []string {
	type dayKey struct {
		plan string
		day  int
	}

	byDay := make(map[dayKey][]int)
	for _, item := range items {
		if item == nil || item.Deleted {
			continue
		}
		k := dayKey{plan: item.TravelPlanID, day: item.DayNumber}
		byDay[k] = append(byDay[k], item.Sequence)
	}

	keys := make([]dayKey, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b dayKey) int {
		return cmp.Or(cmp.Compare(a.plan, b.plan), cmp.Compare(a.day, b.day))
	})

	var gaps []string
	for _, k := range keys {
		seqs := byDay[k]
		slices.Sort(seqs)
		for idx, seq := range seqs {
			if seq != idx+1 {
				gaps = append(gaps, fmt.Sprintf("plan %s day %d: sequences %v are not contiguous from 1", k.plan, k.day, seqs))

				break
			}
		}
	}

	return gaps
}
