package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"tripstore/internal/domain/entity"
	"tripstore/internal/domain/repository"
	"tripstore/internal/errors"
	"tripstore/internal/usecase"

	"go.uber.org/fx"
)

// validationService implements the ValidationUsecase interface.
type validationService struct {
	logger *slog.Logger
}

// ValidationServiceParams holds dependencies for ValidationService, injected by Fx.
type ValidationServiceParams struct {
	fx.In

	Logger *slog.Logger
}

// NewValidationService is the constructor for validationService.
func NewValidationService(params ValidationServiceParams) usecase.ValidationUsecase {
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &validationService{logger: logger}
}

// Validate checks each job's counts and sampled records. It never fails as a
// whole: per-entity problems are reported in the verdicts.
func (s *validationService) Validate(ctx context.Context, req usecase.ValidationRequest) *usecase.ValidationResult {
	result := &usecase.ValidationResult{Entities: make([]usecase.EntityValidation, 0, len(req.Jobs))}

	for _, job := range req.Jobs {
		v := s.validateJob(ctx, req, job)
		if len(v.Discrepancies) > 0 || v.Verdict != usecase.VerdictValid {
			s.logger.Warn("Migration validation found problems",
				slog.String("entity_type", string(job.EntityType)),
				slog.String("verdict", string(v.Verdict)),
				slog.Int("discrepancies", len(v.Discrepancies)),
				slog.String("error", v.Error),
			)
		}
		result.Entities = append(result.Entities, v)
	}
	result.Verdict = overallVerdict(result.Entities)

	return result
}

func (s *validationService) validateJob(ctx context.Context, req usecase.ValidationRequest, job usecase.EntityResult) usecase.EntityValidation {
	src, dst := req.Source, req.Target

	switch job.EntityType {
	case entity.TypeUser:
		return validateEntity(ctx, job, req.Strict, src.Users, dst.Users, userFields, nil)
	case entity.TypePlace:
		return validateEntity(ctx, job, req.Strict, src.Places, dst.Places, placeFields, nil)
	case entity.TypeTravelPlan:
		return validateEntity(ctx, job, req.Strict, src.TravelPlans, dst.TravelPlans, travelPlanFields, nil)
	case entity.TypeItineraryItem:
		return validateEntity(ctx, job, req.Strict, src.ItineraryItems, dst.ItineraryItems, itineraryItemFields,
			sequenceCheck(dst.ItineraryItems))
	case entity.TypeReview:
		return validateEntity(ctx, job, req.Strict, src.Reviews, dst.Reviews, reviewFields, nil)
	case entity.TypeSavedPlan:
		return validateEntity(ctx, job, req.Strict, src.SavedPlans, dst.SavedPlans, savedPlanFields, nil)
	}

	return usecase.EntityValidation{
		EntityType: job.EntityType,
		Verdict:    usecase.VerdictFailed,
		Error:      fmt.Sprintf("no validation for entity type %q", job.EntityType),
	}
}

// field is one named, normalized value compared across backends.
type field struct {
	name  string
	value string
}

// extraCheck inspects the target and returns discrepancies. It receives the
// sampled target records and the target's recount.
type extraCheck[T any] func(ctx context.Context, sampled []*T, targetCount int64) ([]string, error)

func validateEntity[T any, R repository.Store[T]](
	ctx context.Context,
	job usecase.EntityResult,
	strict bool,
	source, target R,
	fieldsOf func(*T) []field,
	extra extraCheck[T],
) usecase.EntityValidation {
	v := usecase.EntityValidation{
		EntityType:    job.EntityType,
		Expected:      job.TotalCount,
		Processed:     job.ProcessedCount,
		Discrepancies: []string{},
	}

	actual, err := target.Count(ctx)
	if err != nil {
		v.Verdict = usecase.VerdictFailed
		v.Error = errors.Wrap(err, "recount target").Error()

		return v
	}
	v.Actual = actual

	countsMatch := true
	if job.ProcessedCount != job.TotalCount {
		countsMatch = false
		v.Discrepancies = append(v.Discrepancies,
			fmt.Sprintf("count: expected %d, processed %d", job.TotalCount, job.ProcessedCount))
	}
	if actual < job.ProcessedCount {
		countsMatch = false
		v.Discrepancies = append(v.Discrepancies,
			fmt.Sprintf("count: target holds %d, fewer than the %d processed", actual, job.ProcessedCount))
	}

	sampled := make([]*T, 0, len(job.SampledIDs))
	for _, id := range job.SampledIDs {
		diffs, dstValue, err := compareRecord(ctx, id, source, target, fieldsOf)
		if err != nil {
			v.Verdict = usecase.VerdictFailed
			v.Error = err.Error()

			return v
		}
		v.Sampled++
		v.Discrepancies = append(v.Discrepancies, diffs...)
		if dstValue != nil {
			sampled = append(sampled, dstValue)
		}
	}

	if extra != nil {
		diffs, err := extra(ctx, sampled, actual)
		if err != nil {
			v.Verdict = usecase.VerdictFailed
			v.Error = err.Error()

			return v
		}
		v.Discrepancies = append(v.Discrepancies, diffs...)
	}

	switch {
	case !countsMatch:
		v.Verdict = usecase.VerdictInvalid
	case strict && len(v.Discrepancies) > 0:
		v.Verdict = usecase.VerdictInvalid
	default:
		v.Verdict = usecase.VerdictValid
	}

	return v
}

// compareRecord fetches id from both stores. A record hidden on both sides,
// such as a migrated tombstone, is consistent.
func compareRecord[T any, R repository.Store[T]](ctx context.Context, id string, source, target R, fieldsOf func(*T) []field) ([]string, *T, error) {
	src, err := findOptional(ctx, source, id)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "fetch %s from source", id)
	}
	dst, err := findOptional(ctx, target, id)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "fetch %s from target", id)
	}

	switch {
	case src == nil && dst == nil:
		return nil, nil, nil
	case dst == nil:
		return []string{id + ": missing in target"}, nil, nil
	case src == nil:
		return []string{id + ": missing in source"}, dst, nil
	}

	return diffFields(id, fieldsOf(src), fieldsOf(dst)), dst, nil
}

func findOptional[T any, R repository.Store[T]](ctx context.Context, store R, id string) (*T, error) {
	v, err := store.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}

	return v, err
}

func diffFields(id string, want, got []field) []string {
	var diffs []string
	for i := range want {
		if i >= len(got) || want[i] != got[i] {
			diffs = append(diffs, id+": "+want[i].name)
		}
	}

	return diffs
}

// overallVerdict is valid only when every entity is valid, failed if any
// entity failed, and invalid otherwise.
func overallVerdict(entities []usecase.EntityValidation) usecase.Verdict {
	verdict := usecase.VerdictValid
	for _, e := range entities {
		switch e.Verdict {
		case usecase.VerdictFailed:
			return usecase.VerdictFailed
		case usecase.VerdictInvalid:
			verdict = usecase.VerdictInvalid
		}
	}

	return verdict
}

// sequenceScanLimit bounds the full itinerary scan. Larger targets are only
// checked for the plans reached by the sample.
const sequenceScanLimit = 10000

const sequenceScanPage = 500

// sequenceCheck reports non-contiguous day sequences in the target itinerary.
func sequenceCheck(items repository.ItineraryItemRepository) extraCheck[entity.ItineraryItem] {
	return func(ctx context.Context, sampled []*entity.ItineraryItem, targetCount int64) ([]string, error) {
		if targetCount <= sequenceScanLimit {
			all, err := scanItinerary(ctx, items)
			if err != nil {
				return nil, err
			}

			return entity.SequenceGaps(all), nil
		}

		plans := make(map[string]struct{})
		for _, item := range sampled {
			plans[item.TravelPlanID] = struct{}{}
		}

		var all []*entity.ItineraryItem
		for _, planID := range slices.Sorted(maps.Keys(plans)) {
			planItems, err := items.FindByTravelPlanID(ctx, planID)
			if err != nil {
				return nil, errors.Wrapf(err, "load itinerary of plan %s", planID)
			}
			all = append(all, planItems...)
		}

		return entity.SequenceGaps(all), nil
	}
}

// scanItinerary reads every decodable target item; SequenceGaps skips tombstones.
func scanItinerary(ctx context.Context, items repository.ItineraryItemRepository) ([]*entity.ItineraryItem, error) {
	pager := items.Scan(ctx, sequenceScanPage)
	defer pager.Close()

	var all []*entity.ItineraryItem
	for {
		page, err := pager.Next(ctx)
		if errors.Is(err, io.EOF) {
			return all, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "scan target itinerary")
		}
		for _, rec := range page {
			if rec.Err == nil {
				all = append(all, rec.Value)
			}
		}
	}
}

func userFields(u *entity.User) []field {
	return []field{
		{"email", u.Email},
		{"username", u.Username},
		{"nickname", u.Nickname},
		{"provider", u.Provider},
		{"providerId", u.ProviderID},
		{"preferences", fmtMap(u.Preferences)},
		{"travelPreferences", fmtMap(u.TravelPreferences)},
		{"isEmailVerified", strconv.FormatBool(u.IsEmailVerified)},
		{"isPremium", strconv.FormatBool(u.IsPremium)},
		{"isActive", strconv.FormatBool(u.IsActive)},
		{"lastLoginAt", fmtTimePtr(u.LastLoginAt)},
		{"followerIds", fmtSet(u.FollowerIDs)},
		{"followingIds", fmtSet(u.FollowingIDs)},
		{"createdAt", fmtTime(u.CreatedAt)},
	}
}

func placeFields(p *entity.Place) []field {
	return []field{
		{"name", p.Name},
		{"category", p.Category},
		{"address", p.Address},
		{"latitude", fmtFloatPtr(p.Latitude)},
		{"longitude", fmtFloatPtr(p.Longitude)},
		{"geohash", p.Geohash},
		{"tags", fmtSet(p.Tags)},
		{"rating", fmtFloat(p.Rating)},
		{"reviewCount", strconv.Itoa(p.ReviewCount)},
		{"popularityScore", fmtFloat(p.PopularityScore)},
		{"isVerified", strconv.FormatBool(p.IsVerified)},
		{"createdAt", fmtTime(p.CreatedAt)},
	}
}

func travelPlanFields(p *entity.TravelPlan) []field {
	return []field{
		{"userId", p.UserID},
		{"title", p.Title},
		{"destination", p.Destination},
		{"startDate", fmtTime(p.StartDate)},
		{"endDate", fmtTime(p.EndDate)},
		{"status", string(p.Status)},
		{"isPublic", strconv.FormatBool(p.IsPublic)},
		{"budget", fmtFloat(p.Budget)},
		{"tags", fmtSet(p.Tags)},
		{"collaboratorIds", fmtSet(p.CollaboratorIDs)},
		{"createdAt", fmtTime(p.CreatedAt)},
	}
}

func itineraryItemFields(i *entity.ItineraryItem) []field {
	return []field{
		{"travelPlanId", i.TravelPlanID},
		{"placeId", i.PlaceID},
		{"dayNumber", strconv.Itoa(i.DayNumber)},
		{"sequence", strconv.Itoa(i.Sequence)},
		{"title", i.Title},
		{"startTime", fmtTimePtr(i.StartTime)},
		{"endTime", fmtTimePtr(i.EndTime)},
		{"estimatedCost", fmtFloat(i.EstimatedCost)},
		{"isCompleted", strconv.FormatBool(i.IsCompleted)},
	}
}

func reviewFields(r *entity.Review) []field {
	return []field{
		{"placeId", r.PlaceID},
		{"userId", r.UserID},
		{"rating", strconv.Itoa(r.Rating)},
		{"content", r.Content},
		{"visitDate", fmtTimePtr(r.VisitDate)},
		{"likesCount", strconv.Itoa(r.LikesCount)},
		{"createdAt", fmtTime(r.CreatedAt)},
	}
}

func savedPlanFields(s *entity.SavedPlan) []field {
	return []field{
		{"userId", s.UserID},
		{"travelPlanId", s.TravelPlanID},
		{"createdAt", fmtTime(s.CreatedAt)},
	}
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return entity.NormalizeTime(t).Format(time.RFC3339Nano)
}

func fmtTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}

	return fmtTime(*t)
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func fmtFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}

	return fmtFloat(*v)
}

// fmtSet renders a list as a sorted set, so ordering and nil versus empty never differ.
func fmtSet(values []string) string {
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	return strings.Join(sorted, ",")
}

func fmtMap(m map[string]string) string {
	pairs := make([]string, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		pairs = append(pairs, k+"="+m[k])
	}

	return strings.Join(pairs, ",")
}
