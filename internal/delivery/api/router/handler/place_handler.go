package handler

import (
	"time"

	"tripstore/internal/delivery/api/response"
	"tripstore/internal/domain/entity"
	"tripstore/internal/domain/repository"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const defaultRadiusKm = 1.0

// PlaceQueries is the slice of the registry the place routes read.
type PlaceQueries interface {
	Places() repository.PlaceRepository
	Reviews() repository.ReviewRepository
}

// PlaceHandlerParams holds dependencies for PlaceHandler, injected by Fx.
type PlaceHandlerParams struct {
	fx.In

	Queries PlaceQueries
}

// PlaceHandler serves read-only place queries from whichever backend owns them.
type PlaceHandler struct {
	queries PlaceQueries
}

// NewPlaceHandler is the constructor for PlaceHandler
func NewPlaceHandler(params PlaceHandlerParams) *PlaceHandler {
	return &PlaceHandler{queries: params.Queries}
}

// NearbyRequest represents the query of a proximity search
type NearbyRequest struct {
	Lat      *float64 `query:"lat" validate:"required,min=-90,max=90"`
	Lng      *float64 `query:"lng" validate:"required,min=-180,max=180"`
	RadiusKm *float64 `query:"radiusKm" validate:"omitempty,gt=0,max=100"`
}

// ReviewsRequest represents the query of a place's reviews
type ReviewsRequest struct {
	PlaceID string `param:"id" validate:"required"`
	Rating  *int   `query:"rating" validate:"omitempty,min=1,max=5"`
	From    string `query:"from" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To      string `query:"to" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

type placeView struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Address         string   `json:"address,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	Geohash         string   `json:"geohash,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Rating          float64  `json:"rating"`
	ReviewCount     int      `json:"reviewCount"`
	PopularityScore float64  `json:"popularityScore"`
}

type reviewView struct {
	ID         string    `json:"id"`
	PlaceID    string    `json:"placeId"`
	UserID     string    `json:"userId"`
	Rating     int       `json:"rating"`
	Content    string    `json:"content,omitempty"`
	LikesCount int       `json:"likesCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

func toPlaceView(p *entity.Place) placeView {
	return placeView{
		ID:              p.ID,
		Name:            p.Name,
		Category:        p.Category,
		Address:         p.Address,
		Latitude:        p.Latitude,
		Longitude:       p.Longitude,
		Geohash:         p.Geohash,
		Tags:            p.Tags,
		Rating:          p.Rating,
		ReviewCount:     p.ReviewCount,
		PopularityScore: p.PopularityScore,
	}
}

func toReviewView(r *entity.Review) reviewView {
	return reviewView{
		ID:         r.ID,
		PlaceID:    r.PlaceID,
		UserID:     r.UserID,
		Rating:     r.Rating,
		Content:    r.Content,
		LikesCount: r.LikesCount,
		CreatedAt:  r.CreatedAt,
	}
}

// Nearby returns places within radiusKm of a point, nearest first.
func (h *PlaceHandler) Nearby(c echo.Context) error {
	var req NearbyRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid nearby query")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	radius := defaultRadiusKm
	if req.RadiusKm != nil {
		radius = *req.RadiusKm
	}

	places, err := h.queries.Places().FindNearby(c.Request().Context(), *req.Lat, *req.Lng, radius)
	if err != nil {
		return err
	}

	views := make([]placeView, 0, len(places))
	for _, p := range places {
		views = append(views, toPlaceView(p))
	}

	return response.List(c, views)
}

// Reviews returns the reviews of a place, optionally narrowed to one rating
// or to a creation time window given as RFC 3339 from and to.
func (h *PlaceHandler) Reviews(c echo.Context) error {
	var req ReviewsRequest
	if err := c.Bind(&req); err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid reviews query")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	if (req.From == "") != (req.To == "") {
		return response.BadRequestWithDetails(c, "VALIDATION_FAILED", "from and to must be given together",
			map[string]string{"from": "required_with=to", "to": "required_with=from"})
	}

	reviews, err := h.findReviews(c, req)
	if err != nil {
		return err
	}

	views := make([]reviewView, 0, len(reviews))
	for _, r := range reviews {
		if req.Rating != nil && r.Rating != *req.Rating {
			continue
		}
		views = append(views, toReviewView(r))
	}

	return response.List(c, views)
}

func (h *PlaceHandler) findReviews(c echo.Context, req ReviewsRequest) ([]*entity.Review, error) {
	ctx := c.Request().Context()
	repo := h.queries.Reviews()

	switch {
	case req.From != "":
		// Both parse: the validator already checked the layout.
		from, _ := time.Parse(time.RFC3339, req.From)
		to, _ := time.Parse(time.RFC3339, req.To)

		return repo.FindByPlaceBetween(ctx, req.PlaceID, from, to)
	case req.Rating != nil:
		return repo.FindByPlaceAndRating(ctx, req.PlaceID, *req.Rating)
	}

	return repo.FindByPlaceID(ctx, req.PlaceID)
}
