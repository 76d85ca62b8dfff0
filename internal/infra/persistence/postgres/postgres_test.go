package postgres

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"tripstore/internal/domain/entity"
	domainerrors "tripstore/internal/domain/errors"
	"tripstore/internal/domain/repository"
	"tripstore/internal/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(context.Background(), db))

	return db
}

func ptrFloat(v float64) *float64 { return &v }

func fixedTime() time.Time {
	return time.Date(2024, 3, 1, 9, 30, 0, 123456000, time.UTC)
}

func TestUserRepository_SaveAndLookups(t *testing.T) {
	ctx := context.Background()
	set := NewSet(newTestDB(t))

	alice := &entity.User{
		ID:           "u-alice",
		Email:        "alice@example.com",
		Username:     "alice",
		Provider:     "google",
		ProviderID:   "g-1",
		Preferences:  map[string]string{"lang": "ko"},
		IsActive:     true,
		FollowingIDs: []string{"u-bob"},
		FollowerIDs:  []string{"u-carol"},
	}
	require.NoError(t, set.Users.Save(ctx, alice))
	assert.Equal(t, int64(1), alice.Version)
	assert.False(t, alice.CreatedAt.IsZero())

	require.NoError(t, set.TravelPlans.Save(ctx, &entity.TravelPlan{
		ID: "tp-1", UserID: "u-alice", Title: "Busan", Destination: "Busan", Status: entity.TravelPlanDraft,
	}))
	require.NoError(t, set.Reviews.Save(ctx, &entity.Review{ID: "rv-1", PlaceID: "p-1", UserID: "u-alice", Rating: 4}))

	got, err := set.Users.FindByID(ctx, "u-alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", got.Email)
	assert.Equal(t, map[string]string{"lang": "ko"}, got.Preferences)
	assert.Equal(t, []string{"u-bob"}, got.FollowingIDs)
	assert.Equal(t, []string{"u-carol"}, got.FollowerIDs)
	assert.Equal(t, []string{"tp-1"}, got.TravelPlanIDs)
	assert.Equal(t, []string{"rv-1"}, got.ReviewIDs)

	byEmail, err := set.Users.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u-alice", byEmail.ID)

	byProvider, err := set.Users.FindByProvider(ctx, "google", "g-1")
	require.NoError(t, err)
	assert.Equal(t, "u-alice", byProvider.ID)

	byUsername, err := set.Users.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "u-alice", byUsername.ID)

	_, err = set.Users.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_UpsertIsIdempotent(t *testing.T) {
	ctx := context.Background()
	set := NewSet(newTestDB(t))

	u := &entity.User{ID: "u-1", Email: "a@example.com", Provider: "google", ProviderID: "1"}
	require.NoError(t, set.Users.Save(ctx, u))
	u.Nickname = "renamed"
	require.NoError(t, set.Users.Save(ctx, u))

	n, err := set.Users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := set.Users.FindByID(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Nickname)
	assert.Equal(t, int64(2), got.Version)
}

func TestTable_CopyWritesKeepUpdatedAt(t *testing.T) {
	ctx := context.Background()
	set := NewSet(newTestDB(t))

	r := &entity.Review{ID: "r-1", PlaceID: "P1", UserID: "u-1", Rating: 4}
	r.CreatedAt = fixedTime()
	r.UpdatedAt = fixedTime()
	require.NoError(t, set.Reviews.Save(repository.WithCopyWrites(ctx), r))

	got, err := set.Reviews.FindByID(ctx, "r-1")
	require.NoError(t, err)
	assert.True(t, fixedTime().Equal(got.UpdatedAt), "copied history is kept")

	got.Content = "edited"
	require.NoError(t, set.Reviews.Save(ctx, got))

	edited, err := set.Reviews.FindByID(ctx, "r-1")
	require.NoError(t, err)
	assert.True(t, edited.UpdatedAt.After(fixedTime()))
	assert.True(t, fixedTime().Equal(edited.CreatedAt))
}

func TestUserRepository_UniqueEmailConflict(t *testing.T) {
	ctx := context.Background()
	set := NewSet(newTestDB(t))

	require.NoError(t, set.Users.Save(ctx, &entity.User{ID: "u-1", Email: "dup@example.com", Provider: "google", ProviderID: "1"}))

	second := &entity.User{ID: "u-2", Email: "dup@example.com", Provider: "google", ProviderID: "2"}
	err := set.Users.Save(ctx, second)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrConflict))
	assert.Equal(t, int64(0), second.Version, "audit block is restored after a failed save")
}

func TestTable_SoftDelete(t *testing.T) {
	ctx := context.Background()
	set := NewSet(newTestDB(t))

	require.NoError(t, set.SavedPlans.Save(ctx, &entity.SavedPlan{ID: "s-1", UserID: "u-1", TravelPlanID: "tp-1"}))
	require.NoError(t, set.SavedPlans.Delete(ctx, "s-1"))

	_, err := set.SavedPlans.FindByID(ctx, "s-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = set.SavedPlans.Find(ctx, "u-1", "tp-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	n, err := set.SavedPlans.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "tombstones are still counted")

	assert.ErrorIs(t, set.SavedPlans.Delete(ctx, "s-1"), repository.ErrNotFound)
	assert.ErrorIs(t, set.SavedPlans.Delete(ctx, "missing"), repository.ErrNotFound)

	pager := set.SavedPlans.Scan(ctx, 10)
	defer pager.Close()
	page, err := pager.Next(ctx)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.True(t, page[0].Value.Deleted)
	assert.NotNil(t, page[0].Value.DeletedAt)
}

func TestTable_ScanPages(t *testing.T) {
	ctx := context.Background()
	set := NewSet(newTestDB(t))

	for i := range 5 {
		require.NoError(t, set.Places.Save(ctx, &entity.Place{
			ID:       fmt.Sprintf("p-%d", i),
			Name:     "place",
			Category: "cafe",
		}))
	}

	pager := set.Places.Scan(ctx, 2)
	defer pager.Close()

	var sizes []int
	var ids []string
	for {
		page, err := pager.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		sizes = append(sizes, len(page))
		for _, r := range page {
			require.NoError(t, r.Err)
			ids = append(ids, r.ID)
		}
	}

	assert.Equal(t, []int{2, 2, 1}, sizes)
	assert.Equal(t, []string{"p-0", "p-1", "p-2", "p-3", "p-4"}, ids)
}

func TestTable_ScanSkipsTimedOutPage(t *testing.T) {
	ctx := context.Background()
	set := NewSet(newTestDB(t))

	for i := range 5 {
		require.NoError(t, set.Places.Save(ctx, &entity.Place{
			ID:       fmt.Sprintf("p-%d", i),
			Name:     "place",
			Category: "cafe",
		}))
	}

	pager := set.Places.Scan(ctx, 2)
	defer pager.Close()

	expired, cancel := context.WithDeadline(ctx, time.Now().Add(-time.Second))
	defer cancel()

	_, err := pager.Next(expired)
	require.Error(t, err)
	assert.True(t, errors.IsTimeout(err))
	assert.False(t, errors.Is(err, repository.ErrUnavailable), "a timeout is not an outage")

	resumable, ok := pager.(repository.Resumable)
	require.True(t, ok)
	assert.Equal(t, "offset 0", resumable.Skip())

	page, err := pager.Next(ctx)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "p-2", page[0].ID)
}

func TestPlaceRepository_Geo(t *testing.T) {
	ctx := context.Background()
	set := NewSet(newTestDB(t))

	places := []*entity.Place{
		{ID: "city-hall", Name: "City Hall", Category: "landmark", Latitude: ptrFloat(37.5665), Longitude: ptrFloat(126.9780), PopularityScore: 90},
		{ID: "gwanghwamun", Name: "Gwanghwamun", Category: "landmark", Latitude: ptrFloat(37.5759), Longitude: ptrFloat(126.9768), PopularityScore: 95},
		{ID: "busan", Name: "Haeundae", Category: "beach", Latitude: ptrFloat(35.1587), Longitude: ptrFloat(129.1604), PopularityScore: 80},
		{ID: "nowhere", Name: "Unknown", Category: "landmark", PopularityScore: 10},
	}
	for _, p := range places {
		require.NoError(t, set.Places.Save(ctx, p))
	}
	assert.Equal(t, "37.57,126.98", places[0].Geohash)
	assert.Empty(t, places[3].Geohash)

	nearby, err := set.Places.FindNearby(ctx, 37.5665, 126.9780, 2)
	require.NoError(t, err)
	require.Len(t, nearby, 2)
	assert.Equal(t, "city-hall", nearby[0].ID)
	assert.Equal(t, "gwanghwamun", nearby[1].ID)

	bucket, err := set.Places.FindByGeohash(ctx, "37.57,126.98")
	require.NoError(t, err)
	require.Len(t, bucket, 1)
	assert.Equal(t, "city-hall", bucket[0].ID)

	top, err := set.Places.FindTopByCategory(ctx, "landmark", 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "gwanghwamun", top[0].ID)
	assert.Equal(t, "city-hall", top[1].ID)
}

func TestItineraryItemRepository_Order(t *testing.T) {
	ctx := context.Background()
	set := NewSet(newTestDB(t))

	items := []*entity.ItineraryItem{
		{ID: "i-3", TravelPlanID: "tp-1", DayNumber: 2, Sequence: 1, Title: "c"},
		{ID: "i-2", TravelPlanID: "tp-1", DayNumber: 1, Sequence: 2, Title: "b"},
		{ID: "i-1", TravelPlanID: "tp-1", DayNumber: 1, Sequence: 1, Title: "a", PlaceID: "p-1"},
	}
	for _, item := range items {
		require.NoError(t, set.ItineraryItems.Save(ctx, item))
	}

	got, err := set.ItineraryItems.FindByTravelPlanID(ctx, "tp-1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"i-1", "i-2", "i-3"}, []string{got[0].ID, got[1].ID, got[2].ID})

	byPlace, err := set.ItineraryItems.FindByPlaceID(ctx, "p-1")
	require.NoError(t, err)
	require.Len(t, byPlace, 1)

	dup := &entity.ItineraryItem{ID: "i-4", TravelPlanID: "tp-1", DayNumber: 1, Sequence: 1, Title: "dup"}
	err = set.ItineraryItems.Save(ctx, dup)
	assert.True(t, errors.Is(err, domainerrors.ErrConflict))
}

func TestReviewRepository_Queries(t *testing.T) {
	ctx := context.Background()
	set := NewSet(newTestDB(t))
	base := fixedTime()

	for i, rating := range []int{5, 5, 3} {
		r := &entity.Review{
			ID:      fmt.Sprintf("r-%d", i),
			PlaceID: "P1",
			UserID:  "u-1",
			Rating:  rating,
		}
		r.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, set.Reviews.Save(ctx, r))
	}

	fives, err := set.Reviews.FindByPlaceAndRating(ctx, "P1", 5)
	require.NoError(t, err)
	assert.Len(t, fives, 2)

	threes, err := set.Reviews.FindByPlaceAndRating(ctx, "P1", 3)
	require.NoError(t, err)
	assert.Len(t, threes, 1)

	window, err := set.Reviews.FindByPlaceBetween(ctx, "P1", base, base.Add(90*time.Minute))
	require.NoError(t, err)
	require.Len(t, window, 2)
	assert.Equal(t, "r-0", window[0].ID)
	assert.True(t, window[0].CreatedAt.Equal(base))

	byUser, err := set.Reviews.FindByUserID(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, byUser, 3)
}

func TestTravelPlanRepository_Collaborators(t *testing.T) {
	ctx := context.Background()
	set := NewSet(newTestDB(t))

	plan := &entity.TravelPlan{
		ID:              "tp-1",
		UserID:          "u-1",
		Title:           "Jeju",
		Destination:     "Jeju",
		Status:          entity.TravelPlanConfirmed,
		IsPublic:        true,
		StartDate:       fixedTime(),
		Tags:            []string{"island"},
		CollaboratorIDs: []string{"u-3", "u-2"},
	}
	require.NoError(t, set.TravelPlans.Save(ctx, plan))

	got, err := set.TravelPlans.FindByID(ctx, "tp-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u-2", "u-3"}, got.CollaboratorIDs)
	assert.Equal(t, []string{"island"}, got.Tags)
	assert.True(t, got.StartDate.Equal(fixedTime()))

	plan.CollaboratorIDs = []string{"u-2"}
	require.NoError(t, set.TravelPlans.Save(ctx, plan))
	got, err = set.TravelPlans.FindByID(ctx, "tp-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u-2"}, got.CollaboratorIDs)

	public, err := set.TravelPlans.FindPublic(ctx)
	require.NoError(t, err)
	assert.Len(t, public, 1)

	byStatus, err := set.TravelPlans.FindByStatus(ctx, entity.TravelPlanConfirmed)
	require.NoError(t, err)
	assert.Len(t, byStatus, 1)

	byDest, err := set.TravelPlans.FindByDestination(ctx, "Jeju")
	require.NoError(t, err)
	assert.Len(t, byDest, 1)

	byUser, err := set.TravelPlans.FindByUserID(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, byUser, 1)
}

func TestSavedPlanRepository_Lookups(t *testing.T) {
	ctx := context.Background()
	set := NewSet(newTestDB(t))

	require.NoError(t, set.SavedPlans.Save(ctx, &entity.SavedPlan{ID: "s-1", UserID: "u-1", TravelPlanID: "tp-1"}))
	require.NoError(t, set.SavedPlans.Save(ctx, &entity.SavedPlan{ID: "s-2", UserID: "u-2", TravelPlanID: "tp-1"}))

	got, err := set.SavedPlans.Find(ctx, "u-2", "tp-1")
	require.NoError(t, err)
	assert.Equal(t, "s-2", got.ID)

	savers, err := set.SavedPlans.FindByTravelPlanID(ctx, "tp-1")
	require.NoError(t, err)
	assert.Len(t, savers, 2)

	mine, err := set.SavedPlans.FindByUserID(ctx, "u-1")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	err = set.SavedPlans.Save(ctx, &entity.SavedPlan{ID: "s-3", UserID: "u-1", TravelPlanID: "tp-1"})
	assert.True(t, errors.Is(err, domainerrors.ErrConflict))
}

func TestSetBuilder(t *testing.T) {
	unconfigured := NewSetBuilder(nil)
	assert.False(t, unconfigured.Builder.Configured())

	configured := NewSetBuilder(newTestDB(t))
	require.True(t, configured.Builder.Configured())

	set, err := configured.Builder.Build(context.Background())
	require.NoError(t, err)
	require.NoError(t, set.Health.Ping(context.Background()))
}

func TestTable_ClosedDatabaseIsUnavailable(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	set := NewSet(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = set.Places.Count(ctx)
	assert.ErrorIs(t, err, repository.ErrUnavailable)

	err = set.Places.Save(ctx, &entity.Place{ID: "p-1", Name: "x", Category: "cafe"})
	assert.ErrorIs(t, err, repository.ErrUnavailable)
}
