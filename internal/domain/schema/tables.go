package schema

import (
	"tripstore/internal/domain/entity"
)

// Attribute names shared by the document codecs and the tables below.
const (
	AttrID           = "id"
	AttrEmail        = "email"
	AttrUsername     = "username"
	AttrProvider     = "provider"
	AttrProviderID   = "providerId"
	AttrNaverPlaceID = "naverPlaceId"
	AttrCategory     = "category"
	AttrLatitude     = "latitude"
	AttrLongitude    = "longitude"
	AttrGeohash      = "geohash"
	AttrRating       = "rating"
	AttrRatingBucket = "ratingBucket"
	AttrPopularity   = "popularityScore"
	AttrUserID       = "userId"
	AttrDestination  = "destination"
	AttrStatus       = "status"
	AttrStartDate    = "startDate"
	AttrStartSort    = "startDateSort"
	AttrIsPublic     = "isPublic"
	AttrPublicFlag   = "publicFlag"
	AttrTravelPlanID = "travelPlanId"
	AttrPlaceID      = "placeId"
	AttrDayNumber    = "dayNumber"
	AttrSequence     = "sequence"
	AttrDaySequence  = "daySequence"
	AttrCreatedAt    = "createdAt"
	AttrPlaceRating  = "placeRatingComposite"
	AttrReviewDate   = "reviewDateSort"
	AttrComposite    = "compositeKey"
	AttrPlanReverse  = "travelPlanIdReverse"
	AttrUserReverse  = "userIdReverse"
	AttrDeleted      = "deleted"
)

// Index names.
const (
	IndexUserEmail          = "email-index"
	IndexUserProvider       = "provider-index"
	IndexUserUsername       = "username-index"
	IndexPlaceNaver         = "naver-place-index"
	IndexPlaceCategory      = "category-index"
	IndexPlaceGeohash       = "geohash-index"
	IndexPlaceRating        = "rating-index"
	IndexPlacePopularity    = "category-popularity-index"
	IndexPlanUser           = "userId-index"
	IndexPlanDestination    = "destination-index"
	IndexPlanStatus         = "status-index"
	IndexPlanPublic         = "public-plans-index"
	IndexItemTravelPlan     = "travelPlan-index"
	IndexItemPlace          = "place-index"
	IndexReviewPlace        = "place-index"
	IndexReviewUser         = "user-index"
	IndexReviewRating       = "rating-index"
	IndexReviewPlaceRating  = "place-rating-index"
	IndexReviewPlaceDate    = "place-date-index"
	IndexSavedPlanID        = "savedPlan-index"
	IndexSavedPlanPlanUsers = "travelPlan-users-index"
)

func str(name string) Key { return Key{Name: name, Type: TypeString} }
func num(name string) Key { return Key{Name: name, Type: TypeNumber} }
func ptr(k Key) *Key      { return &k }

var tables = map[entity.EntityType]Table{
	entity.TypeUser: {
		Entity:       entity.TypeUser,
		Name:         "users",
		PartitionKey: str(AttrID),
		Attributes: []string{
			"id", "email", "username", "nickname", "bio", "profileImageUrl", "provider", "providerId",
			"preferences", "travelPreferences", "isEmailVerified", "isPremium", "isActive", "lastLoginAt",
			"travelPlanIds", "reviewIds", "followerIds", "followingIds",
			"createdAt", "updatedAt", "version", "deleted", "deletedAt",
		},
		Indexes: []Index{
			{Name: IndexUserEmail, PartitionKey: str(AttrEmail)},
			{Name: IndexUserProvider, PartitionKey: str(AttrProvider), SortKey: ptr(str(AttrProviderID))},
			{Name: IndexUserUsername, PartitionKey: str(AttrUsername)},
		},
	},
	entity.TypePlace: {
		Entity:       entity.TypePlace,
		Name:         "places",
		PartitionKey: str(AttrID),
		Attributes: []string{
			"id", "naverPlaceId", "name", "category", "description", "address", "roadAddress",
			"latitude", "longitude", "phoneNumber", "website", "tags", "images",
			"rating", "reviewCount", "bookmarkCount", "popularityScore", "isVerified",
			"createdAt", "updatedAt", "version", "deleted", "deletedAt",
		},
		Derived: []Derived{
			{Attribute: AttrGeohash, Sources: []string{AttrLatitude, AttrLongitude}, Rule: RuleGeohash},
			{Attribute: AttrRatingBucket, Sources: []string{AttrRating}, Rule: RulePaddedConcat},
		},
		Indexes: []Index{
			{Name: IndexPlaceNaver, PartitionKey: str(AttrNaverPlaceID)},
			{Name: IndexPlaceCategory, PartitionKey: str(AttrCategory)},
			{Name: IndexPlaceGeohash, PartitionKey: str(AttrGeohash)},
			{Name: IndexPlaceRating, PartitionKey: str(AttrRatingBucket)},
			{Name: IndexPlacePopularity, PartitionKey: str(AttrCategory), SortKey: ptr(num(AttrPopularity))},
		},
	},
	entity.TypeTravelPlan: {
		Entity:       entity.TypeTravelPlan,
		Name:         "travel_plans",
		PartitionKey: str(AttrID),
		Attributes: []string{
			"id", "userId", "title", "description", "destination", "startDate", "endDate",
			"numberOfPeople", "budget", "status", "isPublic", "isAiGenerated", "tags", "coverImageUrl",
			"viewCount", "likeCount", "shareCount", "saveCount", "collaboratorIds",
			"createdAt", "updatedAt", "version", "deleted", "deletedAt",
		},
		Derived: []Derived{
			{Attribute: AttrStartSort, Sources: []string{AttrStartDate}, Rule: RuleDateSort},
			{Attribute: AttrPublicFlag, Sources: []string{AttrIsPublic}, Rule: RuleFlag},
		},
		Indexes: []Index{
			{Name: IndexPlanUser, PartitionKey: str(AttrUserID), SortKey: ptr(str(AttrStartSort))},
			{Name: IndexPlanDestination, PartitionKey: str(AttrDestination)},
			{Name: IndexPlanStatus, PartitionKey: str(AttrStatus)},
			{Name: IndexPlanPublic, PartitionKey: str(AttrPublicFlag)},
		},
	},
	entity.TypeItineraryItem: {
		Entity:       entity.TypeItineraryItem,
		Name:         "itinerary_items",
		PartitionKey: str(AttrID),
		Attributes: []string{
			"id", "travelPlanId", "placeId", "dayNumber", "sequence", "startTime", "endTime",
			"title", "description", "placeName", "address", "estimatedCost", "durationMinutes",
			"transportMode", "notes", "isCompleted",
			"createdAt", "updatedAt", "version", "deleted", "deletedAt",
		},
		Derived: []Derived{
			{Attribute: AttrDaySequence, Sources: []string{AttrDayNumber, AttrSequence}, Rule: RulePaddedConcat},
		},
		Indexes: []Index{
			{Name: IndexItemTravelPlan, PartitionKey: str(AttrTravelPlanID), SortKey: ptr(str(AttrDaySequence))},
			{Name: IndexItemPlace, PartitionKey: str(AttrPlaceID)},
		},
	},
	entity.TypeReview: {
		Entity:       entity.TypeReview,
		Name:         "reviews",
		PartitionKey: str(AttrID),
		Attributes: []string{
			"id", "placeId", "userId", "rating", "content", "images", "visitDate", "likesCount", "isVerifiedPurchase",
			"createdAt", "updatedAt", "version", "deleted", "deletedAt",
		},
		Derived: []Derived{
			{Attribute: AttrPlaceRating, Sources: []string{AttrPlaceID, AttrRating}, Rule: RuleConcat},
			{Attribute: AttrReviewDate, Sources: []string{AttrCreatedAt}, Rule: RuleDateSort},
		},
		Indexes: []Index{
			{Name: IndexReviewPlace, PartitionKey: str(AttrPlaceID)},
			{Name: IndexReviewUser, PartitionKey: str(AttrUserID)},
			{Name: IndexReviewRating, PartitionKey: num(AttrRating)},
			{Name: IndexReviewPlaceRating, PartitionKey: str(AttrPlaceRating)},
			{Name: IndexReviewPlaceDate, PartitionKey: str(AttrPlaceID), SortKey: ptr(str(AttrReviewDate))},
		},
	},
	entity.TypeSavedPlan: {
		Entity:       entity.TypeSavedPlan,
		Name:         "saved_plans",
		PartitionKey: str(AttrUserID),
		SortKey:      ptr(str(AttrTravelPlanID)),
		Attributes: []string{
			"id", "userId", "travelPlanId",
			"createdAt", "updatedAt", "version", "deleted", "deletedAt",
		},
		Derived: []Derived{
			{Attribute: AttrComposite, Sources: []string{AttrUserID, AttrTravelPlanID}, Rule: RuleConcat},
			{Attribute: AttrPlanReverse, Sources: []string{AttrTravelPlanID}, Rule: RuleCopy},
			{Attribute: AttrUserReverse, Sources: []string{AttrUserID}, Rule: RuleCopy},
		},
		Indexes: []Index{
			{Name: IndexSavedPlanID, PartitionKey: str(AttrID)},
			{Name: IndexSavedPlanPlanUsers, PartitionKey: str(AttrPlanReverse), SortKey: ptr(str(AttrUserReverse))},
		},
	},
}

// For returns the table of an entity type.
func For(t entity.EntityType) (Table, bool) {
	table, ok := tables[t]

	return table, ok
}

// MustFor is For for entity types known at compile time.
func MustFor(t entity.EntityType) Table {
	table, ok := tables[t]
	if !ok {
		panic("schema: no table for " + string(t))
	}

	return table
}

// All returns every table in entity declaration order.
func All() []Table {
	types := entity.AllEntityTypes()
	out := make([]Table, 0, len(types))
	for _, t := range types {
		out = append(out, tables[t])
	}

	return out
}
