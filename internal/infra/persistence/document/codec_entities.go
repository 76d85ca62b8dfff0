package document

import (
	"time"

	"tripstore/internal/domain/entity"
	"tripstore/internal/domain/schema"
)

// --- User ---

type userDoc struct {
	ID                string            `mapstructure:"id"`
	Email             string            `mapstructure:"email"`
	Username          string            `mapstructure:"username"`
	Nickname          string            `mapstructure:"nickname"`
	Bio               string            `mapstructure:"bio"`
	ProfileImageURL   string            `mapstructure:"profileImageUrl"`
	Provider          string            `mapstructure:"provider"`
	ProviderID        string            `mapstructure:"providerId"`
	Preferences       map[string]string `mapstructure:"preferences"`
	TravelPreferences map[string]string `mapstructure:"travelPreferences"`
	IsEmailVerified   bool              `mapstructure:"isEmailVerified"`
	IsPremium         bool              `mapstructure:"isPremium"`
	IsActive          bool              `mapstructure:"isActive"`
	LastLoginAt       *time.Time        `mapstructure:"lastLoginAt"`
	TravelPlanIDs     []string          `mapstructure:"travelPlanIds"`
	ReviewIDs         []string          `mapstructure:"reviewIds"`
	FollowerIDs       []string          `mapstructure:"followerIds"`
	FollowingIDs      []string          `mapstructure:"followingIds"`
	auditDoc          `mapstructure:",squash"`
}

func encodeUser(u *entity.User) schema.Item {
	item := schema.Item{}
	putString(item, "id", u.ID)
	putString(item, "email", u.Email)
	putString(item, "username", u.Username)
	putString(item, "nickname", u.Nickname)
	putString(item, "bio", u.Bio)
	putString(item, "profileImageUrl", u.ProfileImageURL)
	putString(item, "provider", u.Provider)
	putString(item, "providerId", u.ProviderID)
	putStringMap(item, "preferences", u.Preferences)
	putStringMap(item, "travelPreferences", u.TravelPreferences)
	item["isEmailVerified"] = u.IsEmailVerified
	item["isPremium"] = u.IsPremium
	item["isActive"] = u.IsActive
	putTimePtr(item, "lastLoginAt", u.LastLoginAt)
	putStrings(item, "travelPlanIds", u.TravelPlanIDs)
	putStrings(item, "reviewIds", u.ReviewIDs)
	putStrings(item, "followerIds", u.FollowerIDs)
	putStrings(item, "followingIds", u.FollowingIDs)
	putAudit(item, u.Audit)

	return item
}

func decodeUser(item map[string]any) (*entity.User, error) {
	var d userDoc
	if err := decodeInto(item, &d); err != nil {
		return nil, err
	}

	return &entity.User{
		ID:                d.ID,
		Email:             d.Email,
		Username:          d.Username,
		Nickname:          d.Nickname,
		Bio:               d.Bio,
		ProfileImageURL:   d.ProfileImageURL,
		Provider:          d.Provider,
		ProviderID:        d.ProviderID,
		Preferences:       d.Preferences,
		TravelPreferences: d.TravelPreferences,
		IsEmailVerified:   d.IsEmailVerified,
		IsPremium:         d.IsPremium,
		IsActive:          d.IsActive,
		LastLoginAt:       entity.NormalizeTimePtr(d.LastLoginAt),
		TravelPlanIDs:     d.TravelPlanIDs,
		ReviewIDs:         d.ReviewIDs,
		FollowerIDs:       d.FollowerIDs,
		FollowingIDs:      d.FollowingIDs,
		Audit:             d.toAudit(),
	}, nil
}

// --- Place ---

type placeDoc struct {
	ID              string   `mapstructure:"id"`
	NaverPlaceID    string   `mapstructure:"naverPlaceId"`
	Name            string   `mapstructure:"name"`
	Category        string   `mapstructure:"category"`
	Description     string   `mapstructure:"description"`
	Address         string   `mapstructure:"address"`
	RoadAddress     string   `mapstructure:"roadAddress"`
	Latitude        *float64 `mapstructure:"latitude"`
	Longitude       *float64 `mapstructure:"longitude"`
	Geohash         string   `mapstructure:"geohash"`
	PhoneNumber     string   `mapstructure:"phoneNumber"`
	Website         string   `mapstructure:"website"`
	Tags            []string `mapstructure:"tags"`
	Images          []string `mapstructure:"images"`
	Rating          float64  `mapstructure:"rating"`
	ReviewCount     int      `mapstructure:"reviewCount"`
	BookmarkCount   int      `mapstructure:"bookmarkCount"`
	PopularityScore float64  `mapstructure:"popularityScore"`
	IsVerified      bool     `mapstructure:"isVerified"`
	auditDoc        `mapstructure:",squash"`
}

func encodePlace(p *entity.Place) schema.Item {
	item := schema.Item{}
	putString(item, "id", p.ID)
	putString(item, "naverPlaceId", p.NaverPlaceID)
	putString(item, "name", p.Name)
	putString(item, "category", p.Category)
	putString(item, "description", p.Description)
	putString(item, "address", p.Address)
	putString(item, "roadAddress", p.RoadAddress)
	putFloatPtr(item, "latitude", p.Latitude)
	putFloatPtr(item, "longitude", p.Longitude)
	putString(item, "phoneNumber", p.PhoneNumber)
	putString(item, "website", p.Website)
	putStrings(item, "tags", p.Tags)
	putStrings(item, "images", p.Images)
	item["rating"] = p.Rating
	item["reviewCount"] = p.ReviewCount
	item["bookmarkCount"] = p.BookmarkCount
	item["popularityScore"] = p.PopularityScore
	item["isVerified"] = p.IsVerified
	putAudit(item, p.Audit)

	return item
}

func decodePlace(item map[string]any) (*entity.Place, error) {
	var d placeDoc
	if err := decodeInto(item, &d); err != nil {
		return nil, err
	}

	return &entity.Place{
		ID:              d.ID,
		NaverPlaceID:    d.NaverPlaceID,
		Name:            d.Name,
		Category:        d.Category,
		Description:     d.Description,
		Address:         d.Address,
		RoadAddress:     d.RoadAddress,
		Latitude:        d.Latitude,
		Longitude:       d.Longitude,
		Geohash:         d.Geohash,
		PhoneNumber:     d.PhoneNumber,
		Website:         d.Website,
		Tags:            d.Tags,
		Images:          d.Images,
		Rating:          d.Rating,
		ReviewCount:     d.ReviewCount,
		BookmarkCount:   d.BookmarkCount,
		PopularityScore: d.PopularityScore,
		IsVerified:      d.IsVerified,
		Audit:           d.toAudit(),
	}, nil
}

// --- TravelPlan ---

type travelPlanDoc struct {
	ID              string    `mapstructure:"id"`
	UserID          string    `mapstructure:"userId"`
	Title           string    `mapstructure:"title"`
	Description     string    `mapstructure:"description"`
	Destination     string    `mapstructure:"destination"`
	StartDate       time.Time `mapstructure:"startDate"`
	EndDate         time.Time `mapstructure:"endDate"`
	NumberOfPeople  int       `mapstructure:"numberOfPeople"`
	Budget          float64   `mapstructure:"budget"`
	Status          string    `mapstructure:"status"`
	IsPublic        bool      `mapstructure:"isPublic"`
	IsAIGenerated   bool      `mapstructure:"isAiGenerated"`
	Tags            []string  `mapstructure:"tags"`
	CoverImageURL   string    `mapstructure:"coverImageUrl"`
	ViewCount       int64     `mapstructure:"viewCount"`
	LikeCount       int64     `mapstructure:"likeCount"`
	ShareCount      int64     `mapstructure:"shareCount"`
	SaveCount       int64     `mapstructure:"saveCount"`
	CollaboratorIDs []string  `mapstructure:"collaboratorIds"`
	auditDoc        `mapstructure:",squash"`
}

func encodeTravelPlan(p *entity.TravelPlan) schema.Item {
	item := schema.Item{}
	putString(item, "id", p.ID)
	putString(item, "userId", p.UserID)
	putString(item, "title", p.Title)
	putString(item, "description", p.Description)
	putString(item, "destination", p.Destination)
	putTime(item, "startDate", p.StartDate)
	putTime(item, "endDate", p.EndDate)
	item["numberOfPeople"] = p.NumberOfPeople
	item["budget"] = p.Budget
	putString(item, "status", string(p.Status))
	item["isPublic"] = p.IsPublic
	item["isAiGenerated"] = p.IsAIGenerated
	putStrings(item, "tags", p.Tags)
	putString(item, "coverImageUrl", p.CoverImageURL)
	item["viewCount"] = p.ViewCount
	item["likeCount"] = p.LikeCount
	item["shareCount"] = p.ShareCount
	item["saveCount"] = p.SaveCount
	putStrings(item, "collaboratorIds", p.CollaboratorIDs)
	putAudit(item, p.Audit)

	return item
}

func decodeTravelPlan(item map[string]any) (*entity.TravelPlan, error) {
	var d travelPlanDoc
	if err := decodeInto(item, &d); err != nil {
		return nil, err
	}

	return &entity.TravelPlan{
		ID:              d.ID,
		UserID:          d.UserID,
		Title:           d.Title,
		Description:     d.Description,
		Destination:     d.Destination,
		StartDate:       entity.NormalizeTime(d.StartDate),
		EndDate:         entity.NormalizeTime(d.EndDate),
		NumberOfPeople:  d.NumberOfPeople,
		Budget:          d.Budget,
		Status:          entity.TravelPlanStatus(d.Status),
		IsPublic:        d.IsPublic,
		IsAIGenerated:   d.IsAIGenerated,
		Tags:            d.Tags,
		CoverImageURL:   d.CoverImageURL,
		ViewCount:       d.ViewCount,
		LikeCount:       d.LikeCount,
		ShareCount:      d.ShareCount,
		SaveCount:       d.SaveCount,
		CollaboratorIDs: d.CollaboratorIDs,
		Audit:           d.toAudit(),
	}, nil
}

// --- ItineraryItem ---

type itineraryItemDoc struct {
	ID              string     `mapstructure:"id"`
	TravelPlanID    string     `mapstructure:"travelPlanId"`
	PlaceID         string     `mapstructure:"placeId"`
	DayNumber       int        `mapstructure:"dayNumber"`
	Sequence        int        `mapstructure:"sequence"`
	StartTime       *time.Time `mapstructure:"startTime"`
	EndTime         *time.Time `mapstructure:"endTime"`
	Title           string     `mapstructure:"title"`
	Description     string     `mapstructure:"description"`
	PlaceName       string     `mapstructure:"placeName"`
	Address         string     `mapstructure:"address"`
	EstimatedCost   float64    `mapstructure:"estimatedCost"`
	DurationMinutes int        `mapstructure:"durationMinutes"`
	TransportMode   string     `mapstructure:"transportMode"`
	Notes           string     `mapstructure:"notes"`
	IsCompleted     bool       `mapstructure:"isCompleted"`
	auditDoc        `mapstructure:",squash"`
}

func encodeItineraryItem(i *entity.ItineraryItem) schema.Item {
	item := schema.Item{}
	putString(item, "id", i.ID)
	putString(item, "travelPlanId", i.TravelPlanID)
	putString(item, "placeId", i.PlaceID)
	item["dayNumber"] = i.DayNumber
	item["sequence"] = i.Sequence
	putTimePtr(item, "startTime", i.StartTime)
	putTimePtr(item, "endTime", i.EndTime)
	putString(item, "title", i.Title)
	putString(item, "description", i.Description)
	putString(item, "placeName", i.PlaceName)
	putString(item, "address", i.Address)
	item["estimatedCost"] = i.EstimatedCost
	item["durationMinutes"] = i.DurationMinutes
	putString(item, "transportMode", i.TransportMode)
	putString(item, "notes", i.Notes)
	item["isCompleted"] = i.IsCompleted
	putAudit(item, i.Audit)

	return item
}

func decodeItineraryItem(item map[string]any) (*entity.ItineraryItem, error) {
	var d itineraryItemDoc
	if err := decodeInto(item, &d); err != nil {
		return nil, err
	}

	return &entity.ItineraryItem{
		ID:              d.ID,
		TravelPlanID:    d.TravelPlanID,
		PlaceID:         d.PlaceID,
		DayNumber:       d.DayNumber,
		Sequence:        d.Sequence,
		StartTime:       entity.NormalizeTimePtr(d.StartTime),
		EndTime:         entity.NormalizeTimePtr(d.EndTime),
		Title:           d.Title,
		Description:     d.Description,
		PlaceName:       d.PlaceName,
		Address:         d.Address,
		EstimatedCost:   d.EstimatedCost,
		DurationMinutes: d.DurationMinutes,
		TransportMode:   d.TransportMode,
		Notes:           d.Notes,
		IsCompleted:     d.IsCompleted,
		Audit:           d.toAudit(),
	}, nil
}

// --- Review ---

type reviewDoc struct {
	ID                 string     `mapstructure:"id"`
	PlaceID            string     `mapstructure:"placeId"`
	UserID             string     `mapstructure:"userId"`
	Rating             int        `mapstructure:"rating"`
	Content            string     `mapstructure:"content"`
	Images             []string   `mapstructure:"images"`
	VisitDate          *time.Time `mapstructure:"visitDate"`
	LikesCount         int        `mapstructure:"likesCount"`
	IsVerifiedPurchase bool       `mapstructure:"isVerifiedPurchase"`
	auditDoc           `mapstructure:",squash"`
}

func encodeReview(r *entity.Review) schema.Item {
	item := schema.Item{}
	putString(item, "id", r.ID)
	putString(item, "placeId", r.PlaceID)
	putString(item, "userId", r.UserID)
	item["rating"] = r.Rating
	putString(item, "content", r.Content)
	putStrings(item, "images", r.Images)
	putTimePtr(item, "visitDate", r.VisitDate)
	item["likesCount"] = r.LikesCount
	item["isVerifiedPurchase"] = r.IsVerifiedPurchase
	putAudit(item, r.Audit)

	return item
}

func decodeReview(item map[string]any) (*entity.Review, error) {
	var d reviewDoc
	if err := decodeInto(item, &d); err != nil {
		return nil, err
	}

	return &entity.Review{
		ID:                 d.ID,
		PlaceID:            d.PlaceID,
		UserID:             d.UserID,
		Rating:             d.Rating,
		Content:            d.Content,
		Images:             d.Images,
		VisitDate:          entity.NormalizeTimePtr(d.VisitDate),
		LikesCount:         d.LikesCount,
		IsVerifiedPurchase: d.IsVerifiedPurchase,
		Audit:              d.toAudit(),
	}, nil
}

// --- SavedPlan ---

type savedPlanDoc struct {
	ID           string `mapstructure:"id"`
	UserID       string `mapstructure:"userId"`
	TravelPlanID string `mapstructure:"travelPlanId"`
	auditDoc     `mapstructure:",squash"`
}

func encodeSavedPlan(s *entity.SavedPlan) schema.Item {
	item := schema.Item{}
	putString(item, "id", s.ID)
	putString(item, "userId", s.UserID)
	putString(item, "travelPlanId", s.TravelPlanID)
	putAudit(item, s.Audit)

	return item
}

func decodeSavedPlan(item map[string]any) (*entity.SavedPlan, error) {
	var d savedPlanDoc
	if err := decodeInto(item, &d); err != nil {
		return nil, err
	}

	return &entity.SavedPlan{
		ID:           d.ID,
		UserID:       d.UserID,
		TravelPlanID: d.TravelPlanID,
		Audit:        d.toAudit(),
	}, nil
}
