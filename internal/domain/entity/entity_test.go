package entity

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntityType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     string
		want   EntityType
		wantOK bool
	}{
		{in: "User", want: TypeUser, wantOK: true},
		{in: "reviews", want: TypeReview, wantOK: true},
		{in: " itineraryitem ", want: TypeItineraryItem, wantOK: true},
		{in: "SAVEDPLANS", want: TypeSavedPlan, wantOK: true},
		{in: "video", wantOK: false},
		{in: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseEntityType(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewID_IsUniqueAndOrdered(t *testing.T) {
	a := NewID()
	b := NewID()

	assert.NotEqual(t, a, b)
	assert.Len(t, a, 36)
}

func TestAudit_Stamp(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	later := created.Add(time.Hour)

	var a Audit
	a.Stamp(created)
	assert.Equal(t, created, a.CreatedAt)
	assert.Equal(t, created, a.UpdatedAt)
	assert.Equal(t, int64(1), a.Version)

	a.Stamp(later)
	assert.Equal(t, created, a.CreatedAt, "createdAt is set once")
	assert.Equal(t, later, a.UpdatedAt, "updatedAt advances on every save")
	assert.Equal(t, int64(2), a.Version)

	a.MarkDeleted(later)
	assert.True(t, a.Deleted)
	assert.Equal(t, later, a.UpdatedAt)
}

func TestAudit_StampCopy(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	edited := created.Add(time.Hour)
	copied := created.Add(24 * time.Hour)

	a := Audit{CreatedAt: created, UpdatedAt: edited, Version: 4}
	a.StampCopy(copied)
	assert.Equal(t, created, a.CreatedAt)
	assert.Equal(t, edited, a.UpdatedAt, "copied history is kept")
	assert.Equal(t, int64(5), a.Version)

	var fresh Audit
	fresh.StampCopy(copied)
	assert.Equal(t, copied, fresh.CreatedAt)
	assert.Equal(t, copied, fresh.UpdatedAt)
}

func TestAudit_Normalize(t *testing.T) {
	loc := time.FixedZone("KST", 9*3600)
	ts := time.Date(2024, 5, 1, 9, 0, 0, 123456789, loc)

	a := Audit{CreatedAt: ts, DeletedAt: &ts}
	a.Normalize()

	assert.Equal(t, time.UTC, a.CreatedAt.Location())
	assert.Equal(t, 123456000, a.CreatedAt.Nanosecond())
	require.NotNil(t, a.DeletedAt)
	assert.Equal(t, a.CreatedAt, *a.DeletedAt)
	assert.True(t, a.UpdatedAt.IsZero())
}

func TestValidate_MissingFields(t *testing.T) {
	lat := 37.5

	tests := []struct {
		name string
		err  error
	}{
		{name: "user without email", err: (&User{ID: "u1", Provider: "google", ProviderID: "g1"}).Validate()},
		{name: "place with one coordinate", err: (&Place{ID: "p1", Name: "n", Category: "c", Latitude: &lat}).Validate()},
		{name: "plan with unknown status", err: (&TravelPlan{ID: "t1", UserID: "u1", Title: "x", Destination: "Seoul", Status: "LOST"}).Validate()},
		{name: "item with zero sequence", err: (&ItineraryItem{ID: "i1", TravelPlanID: "t1", Title: "x", DayNumber: 1}).Validate()},
		{name: "review rating out of range", err: (&Review{ID: "r1", PlaceID: "p1", UserID: "u1", Rating: 6}).Validate()},
		{name: "saved plan without plan", err: (&SavedPlan{ID: "s1", UserID: "u1"}).Validate()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, tt.err)
			assert.True(t, errors.Is(tt.err, ErrInvalidEntity))
		})
	}
}

func TestClone_IsIndependent(t *testing.T) {
	u := &User{ID: "u1", FollowerIDs: []string{"a"}, Preferences: map[string]string{"k": "v"}}
	c := u.Clone()
	c.FollowerIDs[0] = "b"
	c.Preferences["k"] = "changed"

	assert.Equal(t, "a", u.FollowerIDs[0])
	assert.Equal(t, "v", u.Preferences["k"])

	lat, lng := 1.0, 2.0
	p := &Place{ID: "p1", Latitude: &lat, Longitude: &lng}
	pc := p.Clone()
	*pc.Latitude = 9

	assert.Equal(t, 1.0, *p.Latitude)
}

func TestSequenceGaps(t *testing.T) {
	items := []*ItineraryItem{
		{TravelPlanID: "t1", DayNumber: 1, Sequence: 1},
		{TravelPlanID: "t1", DayNumber: 1, Sequence: 2},
		{TravelPlanID: "t1", DayNumber: 2, Sequence: 1},
		{TravelPlanID: "t1", DayNumber: 2, Sequence: 3},
		{TravelPlanID: "t2", DayNumber: 1, Sequence: 2},
		{TravelPlanID: "t2", DayNumber: 1, Sequence: 1, Audit: Audit{Deleted: true}},
	}

	gaps := SequenceGaps(items)

	require.Len(t, gaps, 2)
	assert.Contains(t, gaps[0], "plan t1 day 2")
	assert.Contains(t, gaps[1], "plan t2 day 1")
}

func TestSequenceGaps_Contiguous(t *testing.T) {
	items := []*ItineraryItem{
		{TravelPlanID: "t1", DayNumber: 1, Sequence: 2},
		{TravelPlanID: "t1", DayNumber: 1, Sequence: 1},
	}

	assert.Empty(t, SequenceGaps(items))
}

func TestNormalize_EntityTimestamps(t *testing.T) {
	loc := time.FixedZone("KST", 9*3600)
	ts := time.Date(2024, 5, 1, 9, 0, 0, 123456789, loc)

	plan := &TravelPlan{StartDate: ts, EndDate: ts, Audit: Audit{CreatedAt: ts}}
	plan.Normalize()
	assert.Equal(t, time.UTC, plan.StartDate.Location())
	assert.Equal(t, 123456000, plan.EndDate.Nanosecond())
	assert.Equal(t, 123456000, plan.CreatedAt.Nanosecond())

	review := &Review{VisitDate: &ts}
	review.Normalize()
	require.NotNil(t, review.VisitDate)
	assert.Equal(t, 123456000, review.VisitDate.Nanosecond())
	assert.Equal(t, 123456789, ts.Nanosecond(), "the source value is not modified")
}
