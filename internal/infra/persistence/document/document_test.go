package document

import (
	"context"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/docstore"

	"tripstore/config"
	"tripstore/internal/domain/entity"
	"tripstore/internal/domain/repository"
	"tripstore/internal/domain/schema"
	"tripstore/internal/errors"
)

// newTestSet opens mem collections under a per-test prefix; the mem driver
// shares collections of the same name across opens.
func newTestSet(t *testing.T) (*repository.Set, *Collections) {
	t.Helper()

	prefix := strings.ReplaceAll(t.Name(), "/", "_") + "_"
	c, err := OpenCollections(context.Background(), &config.DocstoreConfig{
		URLTemplate: "mem://{collection}/{key}",
		TablePrefix: prefix,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	return NewSet(c), c
}

func ptrFloat(v float64) *float64 { return &v }

func fixedTime() time.Time {
	return time.Date(2024, 3, 1, 9, 30, 0, 123456000, time.UTC)
}

func TestCollectionURL(t *testing.T) {
	users := schema.MustFor(entity.TypeUser)
	saved := schema.MustFor(entity.TypeSavedPlan)
	dynamo := &config.DynamoDBConfig{Region: "ap-northeast-2", Endpoint: "http://localhost:8000"}

	tests := []struct {
		name  string
		tmpl  string
		table schema.Table
		want  string
	}{
		{name: "mem single key", tmpl: "mem://{collection}/{key}", table: users, want: "mem://dev_users/id"},
		{name: "mem composite key", tmpl: "mem://{collection}/{key}", table: saved, want: "mem://dev_saved_plans/compositeKey"},
		{
			name:  "dynamodb keys and region",
			tmpl:  "dynamodb://{collection}",
			table: saved,
			want:  "dynamodb://dev_saved_plans?endpoint=http%3A%2F%2Flocalhost%3A8000&partition_key=userId&region=ap-northeast-2&sort_key=travelPlanId",
		},
		{
			name:  "dynamodb explicit region wins",
			tmpl:  "dynamodb://{collection}?region=us-east-1",
			table: users,
			want:  "dynamodb://dev_users?endpoint=http%3A%2F%2Flocalhost%3A8000&partition_key=id&region=us-east-1",
		},
		{name: "mongo id field", tmpl: "mongo://travel/{collection}?id_field={key}", table: users, want: "mongo://travel/dev_users?id_field=id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CollectionURL(tt.tmpl, "dev_", tt.table, dynamo)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := CollectionURL("{collection}", "", users, nil)
	assert.Error(t, err)
}

func TestEncodedItemsStayWithinTheTableLayout(t *testing.T) {
	now := fixedTime()
	lat, lng := 37.5665, 126.978

	cases := []struct {
		entity entity.EntityType
		item   schema.Item
	}{
		{entity.TypeUser, encodeUser(&entity.User{
			ID: "u1", Email: "a@b.c", Username: "a", Provider: "google", ProviderID: "1",
			Preferences: map[string]string{"k": "v"}, LastLoginAt: &now, FollowerIDs: []string{"u2"},
			Audit: entity.Audit{CreatedAt: now, UpdatedAt: now, DeletedAt: &now},
		})},
		{entity.TypePlace, encodePlace(&entity.Place{
			ID: "p1", NaverPlaceID: "n1", Name: "n", Category: "cafe", Latitude: &lat, Longitude: &lng, Tags: []string{"x"},
		})},
		{entity.TypeTravelPlan, encodeTravelPlan(&entity.TravelPlan{
			ID: "t1", UserID: "u1", Title: "x", Destination: "Seoul", StartDate: now, EndDate: now,
			Status: entity.TravelPlanDraft, IsPublic: true, CollaboratorIDs: []string{"u2"},
		})},
		{entity.TypeItineraryItem, encodeItineraryItem(&entity.ItineraryItem{
			ID: "i1", TravelPlanID: "t1", PlaceID: "p1", DayNumber: 1, Sequence: 2, StartTime: &now,
		})},
		{entity.TypeReview, encodeReview(&entity.Review{ID: "r1", PlaceID: "p1", UserID: "u1", Rating: 5, VisitDate: &now})},
		{entity.TypeSavedPlan, encodeSavedPlan(&entity.SavedPlan{ID: "s1", UserID: "u1", TravelPlanID: "t1"})},
	}

	for _, tc := range cases {
		t.Run(string(tc.entity), func(t *testing.T) {
			table := schema.MustFor(tc.entity)
			table.Refresh(tc.item)

			for attr := range tc.item {
				known := table.IsDerived(attr)
				for _, a := range table.Attributes {
					known = known || a == attr
				}
				assert.True(t, known, "attribute %q is not part of table %s", attr, table.Name)
			}
		})
	}
}

func TestUserRepository_SaveAndLookups(t *testing.T) {
	ctx := context.Background()
	set, _ := newTestSet(t)

	last := fixedTime()
	alice := &entity.User{
		ID:                "u-alice",
		Email:             "alice@example.com",
		Username:          "alice",
		Provider:          "google",
		ProviderID:        "g-1",
		Preferences:       map[string]string{"lang": "ko"},
		TravelPreferences: map[string]string{"pace": "slow"},
		IsActive:          true,
		LastLoginAt:       &last,
		TravelPlanIDs:     []string{"tp-1"},
		FollowingIDs:      []string{"u-bob"},
	}
	require.NoError(t, set.Users.Save(ctx, alice))
	assert.Equal(t, int64(1), alice.Version)

	got, err := set.Users.FindByID(ctx, "u-alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, map[string]string{"lang": "ko"}, got.Preferences)
	assert.Equal(t, []string{"tp-1"}, got.TravelPlanIDs)
	assert.Equal(t, []string{"u-bob"}, got.FollowingIDs)
	assert.Empty(t, got.FollowerIDs)
	require.NotNil(t, got.LastLoginAt)
	assert.True(t, last.Equal(*got.LastLoginAt))
	assert.True(t, got.IsActive)
	assert.Equal(t, int64(1), got.Version)
	assert.Equal(t, alice.CreatedAt, got.CreatedAt)

	byEmail, err := set.Users.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-alice", byEmail.ID)

	byProvider, err := set.Users.FindByProvider(ctx, "google", "g-1")
	require.NoError(t, err)
	assert.Equal(t, "u-alice", byProvider.ID)

	byUsername, err := set.Users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "u-alice", byUsername.ID)

	_, err = set.Users.FindByID(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = set.Users.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestSoftDelete_HidesFromLookupsButNotFromScan(t *testing.T) {
	ctx := context.Background()
	set, _ := newTestSet(t)

	u := &entity.User{ID: "u-1", Email: "a@example.com", Provider: "google", ProviderID: "1"}
	require.NoError(t, set.Users.Save(ctx, u))
	require.NoError(t, set.Users.Delete(ctx, "u-1"))

	_, err := set.Users.FindByID(ctx, "u-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = set.Users.FindByEmail(ctx, "a@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, set.Users.Delete(ctx, "u-1"), repository.ErrNotFound)

	n, err := set.Users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	pager := set.Users.Scan(ctx, 10)
	defer pager.Close()

	page, err := pager.Next(ctx)
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.NoError(t, page[0].Err)
	assert.True(t, page[0].Value.Deleted)
	assert.NotNil(t, page[0].Value.DeletedAt)
	assert.Equal(t, int64(2), page[0].Value.Version)

	_, err = pager.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestScan_PagesAndDecodeErrors(t *testing.T) {
	ctx := context.Background()
	set, c := newTestSet(t)

	for _, id := range []string{"i1", "i2", "i3", "i4"} {
		require.NoError(t, set.ItineraryItems.Save(ctx, &entity.ItineraryItem{
			ID: id, TravelPlanID: "t1", Title: id, DayNumber: 1, Sequence: 1,
		}))
	}
	coll, _ := c.Get(entity.TypeItineraryItem)
	require.NoError(t, coll.Put(ctx, map[string]any{"id": "broken", "dayNumber": "not-a-number"}))

	pager := set.ItineraryItems.Scan(ctx, 2)
	defer pager.Close()

	var sizes []int
	var failed []string
	total := 0
	for {
		page, err := pager.Next(ctx)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		sizes = append(sizes, len(page))
		for _, r := range page {
			total++
			if r.Err != nil {
				assert.Nil(t, r.Value)
				failed = append(failed, r.ID)
			}
		}
	}

	assert.Equal(t, []int{2, 2, 1}, sizes)
	assert.Equal(t, 5, total)
	assert.Equal(t, []string{"broken"}, failed)
}

func TestSave_RestoresAuditOnFailure(t *testing.T) {
	ctx := context.Background()
	set, c := newTestSet(t)
	require.NoError(t, c.Close())

	u := &entity.User{ID: "u-1", Email: "a@example.com", Provider: "google", ProviderID: "1"}
	require.Error(t, set.Users.Save(ctx, u))
	assert.Zero(t, u.Version)
	assert.True(t, u.CreatedAt.IsZero())
}

func TestTranslateError(t *testing.T) {
	live := context.Background()
	expired, cancel := context.WithDeadline(live, time.Now().Add(-time.Second))
	defer cancel()

	refused := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

	tests := []struct {
		name        string
		ctx         context.Context
		err         error
		unavailable bool
		timeout     bool
	}{
		{name: "dial failure", ctx: live, err: refused, unavailable: true},
		{name: "retries exhausted", ctx: live, err: &retry.MaxAttemptsError{Attempt: 3, Err: refused}, unavailable: true},
		{name: "driver deadline with live caller", ctx: live, err: context.DeadlineExceeded, unavailable: true},
		{name: "caller deadline", ctx: expired, err: context.DeadlineExceeded, timeout: true},
		{name: "plain failure", ctx: live, err: errors.New("validation exception")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateError(tt.ctx, tt.err, "failed to save item in reviews")
			assert.Equal(t, tt.unavailable, errors.Is(got, repository.ErrUnavailable))
			assert.Equal(t, tt.timeout, errors.IsTimeout(got))
		})
	}
}

func TestSave_ClosedCollectionIsNotAnOutage(t *testing.T) {
	ctx := context.Background()
	set, c := newTestSet(t)
	require.NoError(t, c.Close())

	err := set.Reviews.Save(ctx, &entity.Review{ID: "r-1", PlaceID: "P1", UserID: "u-1", Rating: 4})
	require.Error(t, err)
	assert.False(t, errors.Is(err, repository.ErrUnavailable))
}

func TestPlaceRepository_Geo(t *testing.T) {
	ctx := context.Background()
	set, _ := newTestSet(t)

	places := []*entity.Place{
		{ID: "p-city-hall", Name: "City Hall", Category: "landmark", Latitude: ptrFloat(37.5663), Longitude: ptrFloat(126.9779), PopularityScore: 10},
		{ID: "p-gwanghwamun", Name: "Gwanghwamun", Category: "landmark", Latitude: ptrFloat(37.5759), Longitude: ptrFloat(126.9768), PopularityScore: 30},
		{ID: "p-busan", Name: "Haeundae", Category: "beach", Latitude: ptrFloat(35.1587), Longitude: ptrFloat(129.1604)},
		{ID: "p-nowhere", Name: "Unknown", Category: "landmark", PopularityScore: 20},
	}
	for _, p := range places {
		require.NoError(t, set.Places.Save(ctx, p))
	}
	assert.Equal(t, "37.57,126.98", places[0].Geohash)

	nearby, err := set.Places.FindNearby(ctx, 37.5665, 126.978, 2)
	require.NoError(t, err)
	require.Len(t, nearby, 2)
	assert.Equal(t, "p-city-hall", nearby[0].ID)
	assert.Equal(t, "p-gwanghwamun", nearby[1].ID)

	bucket, err := set.Places.FindByGeohash(ctx, "35.16,129.16")
	require.NoError(t, err)
	require.Len(t, bucket, 1)
	assert.Equal(t, "p-busan", bucket[0].ID)

	top, err := set.Places.FindTopByCategory(ctx, "landmark", 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "p-gwanghwamun", top[0].ID)
	assert.Equal(t, "p-nowhere", top[1].ID)

	all, err := set.Places.FindByCategory(ctx, "landmark")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestTravelPlanRepository_Queries(t *testing.T) {
	ctx := context.Background()
	set, _ := newTestSet(t)

	base := fixedTime()
	plans := []*entity.TravelPlan{
		{ID: "tp-b", UserID: "u1", Title: "later", Destination: "Jeju", StartDate: base.AddDate(0, 1, 0), Status: entity.TravelPlanDraft, IsPublic: true},
		{ID: "tp-a", UserID: "u1", Title: "sooner", Destination: "Busan", StartDate: base, Status: entity.TravelPlanConfirmed, CollaboratorIDs: []string{"u2"}},
		{ID: "tp-c", UserID: "u2", Title: "other", Destination: "Jeju", StartDate: base, Status: entity.TravelPlanDraft},
	}
	for _, p := range plans {
		require.NoError(t, set.TravelPlans.Save(ctx, p))
	}

	mine, err := set.TravelPlans.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, "tp-a", mine[0].ID)
	assert.Equal(t, []string{"u2"}, mine[0].CollaboratorIDs)
	assert.True(t, base.Equal(mine[0].StartDate))

	public, err := set.TravelPlans.FindPublic(ctx)
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, "tp-b", public[0].ID)

	drafts, err := set.TravelPlans.FindByStatus(ctx, entity.TravelPlanDraft)
	require.NoError(t, err)
	assert.Len(t, drafts, 2)

	jeju, err := set.TravelPlans.FindByDestination(ctx, "Jeju")
	require.NoError(t, err)
	assert.Len(t, jeju, 2)
}

func TestItineraryItemRepository_OrdersByDayThenSequence(t *testing.T) {
	ctx := context.Background()
	set, _ := newTestSet(t)

	items := []*entity.ItineraryItem{
		{ID: "i-1", TravelPlanID: "t1", PlaceID: "p1", Title: "d2s1", DayNumber: 2, Sequence: 1},
		{ID: "i-2", TravelPlanID: "t1", Title: "d1s10", DayNumber: 1, Sequence: 10},
		{ID: "i-3", TravelPlanID: "t1", PlaceID: "p1", Title: "d1s2", DayNumber: 1, Sequence: 2},
		{ID: "i-4", TravelPlanID: "t2", Title: "other", DayNumber: 1, Sequence: 1},
	}
	for _, i := range items {
		require.NoError(t, set.ItineraryItems.Save(ctx, i))
	}

	got, err := set.ItineraryItems.FindByTravelPlanID(ctx, "t1")
	require.NoError(t, err)

	titles := make([]string, len(got))
	for i, item := range got {
		titles[i] = item.Title
	}
	assert.Equal(t, []string{"d1s2", "d1s10", "d2s1"}, titles)

	atPlace, err := set.ItineraryItems.FindByPlaceID(ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, atPlace, 2)
}

func TestReviewRepository_PlaceQueries(t *testing.T) {
	ctx := context.Background()
	set, _ := newTestSet(t)

	base := fixedTime()
	reviews := []*entity.Review{
		{ID: "r-1", PlaceID: "P1", UserID: "u1", Rating: 5, Audit: entity.Audit{CreatedAt: base}},
		{ID: "r-2", PlaceID: "P1", UserID: "u2", Rating: 3, Audit: entity.Audit{CreatedAt: base.Add(time.Hour)}},
		{ID: "r-3", PlaceID: "P1", UserID: "u3", Rating: 5, Audit: entity.Audit{CreatedAt: base.Add(2 * time.Hour)}},
		{ID: "r-4", PlaceID: "P2", UserID: "u1", Rating: 5, Audit: entity.Audit{CreatedAt: base}},
	}
	for _, r := range reviews {
		require.NoError(t, set.Reviews.Save(ctx, r))
	}

	fives, err := set.Reviews.FindByPlaceAndRating(ctx, "P1", 5)
	require.NoError(t, err)
	require.Len(t, fives, 2)
	assert.Equal(t, "r-1", fives[0].ID)
	assert.Equal(t, "r-3", fives[1].ID)

	window, err := set.Reviews.FindByPlaceBetween(ctx, "P1", base.Add(30*time.Minute), base.Add(2*time.Hour))
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, "r-2", window[0].ID)
	assert.Equal(t, "r-3", window[1].ID)

	byPlace, err := set.Reviews.FindByPlaceID(ctx, "P1")
	require.NoError(t, err)
	assert.Len(t, byPlace, 3)

	byUser, err := set.Reviews.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, byUser, 2)
}

func TestSavedPlanRepository_CompositeKeys(t *testing.T) {
	ctx := context.Background()
	set, _ := newTestSet(t)

	require.NoError(t, set.SavedPlans.Save(ctx, &entity.SavedPlan{ID: "s-1", UserID: "u1", TravelPlanID: "t1"}))
	require.NoError(t, set.SavedPlans.Save(ctx, &entity.SavedPlan{ID: "s-2", UserID: "u2", TravelPlanID: "t1"}))
	require.NoError(t, set.SavedPlans.Save(ctx, &entity.SavedPlan{ID: "s-3", UserID: "u1", TravelPlanID: "t2"}))

	byID, err := set.SavedPlans.FindByID(ctx, "s-2")
	require.NoError(t, err)
	assert.Equal(t, "u2", byID.UserID)

	found, err := set.SavedPlans.Find(ctx, "u1", "t2")
	require.NoError(t, err)
	assert.Equal(t, "s-3", found.ID)

	savers, err := set.SavedPlans.FindByTravelPlanID(ctx, "t1")
	require.NoError(t, err)
	require.Len(t, savers, 2)
	assert.Equal(t, "u1", savers[0].UserID)
	assert.Equal(t, "u2", savers[1].UserID)

	mine, err := set.SavedPlans.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	require.NoError(t, set.SavedPlans.Delete(ctx, "s-1"))
	_, err = set.SavedPlans.Find(ctx, "u1", "t1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	n, err := set.SavedPlans.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestHealthChecker_Ping(t *testing.T) {
	set, _ := newTestSet(t)

	assert.NoError(t, set.Health.Ping(context.Background()))
}

func TestStoredItemCarriesDerivedKeys(t *testing.T) {
	ctx := context.Background()
	set, c := newTestSet(t)

	require.NoError(t, set.Reviews.Save(ctx, &entity.Review{
		ID: "r-1", PlaceID: "P1", UserID: "u1", Rating: 4, Audit: entity.Audit{CreatedAt: fixedTime()},
	}))

	coll, _ := c.Get(entity.TypeReview)
	item := map[string]any{"id": "r-1"}
	require.NoError(t, coll.Get(ctx, item, docstore.FieldPath(schema.AttrPlaceRating), docstore.FieldPath(schema.AttrReviewDate)))
	assert.Equal(t, "P1#4", item[schema.AttrPlaceRating])
	assert.Equal(t, "2024-03-01T09:30:00.123456Z", item[schema.AttrReviewDate])
}
