package impl

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"tripstore/internal/domain/entity"
	"tripstore/internal/domain/repository"
	"tripstore/internal/errors"
	"tripstore/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var createdAt = time.Date(2024, 3, 1, 9, 30, 0, 123456000, time.UTC)

func newValidator() usecase.ValidationUsecase {
	return NewValidationService(ValidationServiceParams{Logger: slog.Default()})
}

func reviewJob(ids ...string) usecase.EntityResult {
	return usecase.EntityResult{
		EntityType:     entity.TypeReview,
		TotalCount:     int64(len(ids)),
		ProcessedCount: int64(len(ids)),
		Status:         usecase.StatusCompleted,
		SampledIDs:     ids,
	}
}

func TestValidationService_StrictnessDecidesOnDiscrepancies(t *testing.T) {
	ctx := context.Background()
	source := newRelationalSet(t)
	target := newDocumentSet(t)

	review := &entity.Review{ID: "r-1", PlaceID: "P1", UserID: "u-1", Rating: 5, Content: "great"}
	review.CreatedAt = createdAt
	require.NoError(t, source.Reviews.Save(ctx, review.Clone()))

	drifted := review.Clone()
	drifted.Content = "edited later"
	require.NoError(t, target.Reviews.Save(ctx, drifted))

	tests := []struct {
		name   string
		strict bool
		want   usecase.Verdict
	}{
		{name: "lenient", strict: false, want: usecase.VerdictValid},
		{name: "strict", strict: true, want: usecase.VerdictInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := newValidator().Validate(ctx, usecase.ValidationRequest{
				Source: *source,
				Target: *target,
				Jobs:   []usecase.EntityResult{reviewJob("r-1")},
				Strict: tt.strict,
			})

			assert.Equal(t, tt.want, result.Verdict)
			require.Len(t, result.Entities, 1)
			v := result.Entities[0]
			assert.Equal(t, 1, v.Sampled)
			assert.Equal(t, int64(1), v.Actual)
			assert.Equal(t, []string{"r-1: content"}, v.Discrepancies)
		})
	}
}

func TestValidationService_MissingInTarget(t *testing.T) {
	ctx := context.Background()
	source := newRelationalSet(t)
	target := newDocumentSet(t)

	require.NoError(t, source.Reviews.Save(ctx, &entity.Review{ID: "r-1", PlaceID: "P1", UserID: "u-1", Rating: 4}))

	result := newValidator().Validate(ctx, usecase.ValidationRequest{
		Source: *source,
		Target: *target,
		Jobs:   []usecase.EntityResult{reviewJob("r-1")},
	})

	// The target recount is below what the job claims to have written.
	assert.Equal(t, usecase.VerdictInvalid, result.Verdict)
	assert.Contains(t, result.Entities[0].Discrepancies, "r-1: missing in target")
}

func TestValidationService_SequenceGaps(t *testing.T) {
	ctx := context.Background()
	source := newRelationalSet(t)
	target := newDocumentSet(t)

	for _, seq := range []int{1, 3} {
		item := &entity.ItineraryItem{
			ID: fmt.Sprintf("ii-%d", seq), TravelPlanID: "tp-1", DayNumber: 2, Sequence: seq, Title: "stop",
		}
		item.CreatedAt = createdAt
		require.NoError(t, source.ItineraryItems.Save(ctx, item.Clone()))
		require.NoError(t, target.ItineraryItems.Save(ctx, item))
	}

	job := usecase.EntityResult{
		EntityType:     entity.TypeItineraryItem,
		TotalCount:     2,
		ProcessedCount: 2,
		SampledIDs:     []string{"ii-1"},
	}

	lenient := newValidator().Validate(ctx, usecase.ValidationRequest{Source: *source, Target: *target, Jobs: []usecase.EntityResult{job}})
	assert.Equal(t, usecase.VerdictValid, lenient.Verdict)
	require.Len(t, lenient.Entities[0].Discrepancies, 1)
	assert.Contains(t, lenient.Entities[0].Discrepancies[0], "plan tp-1 day 2")

	strict := newValidator().Validate(ctx, usecase.ValidationRequest{Source: *source, Target: *target, Jobs: []usecase.EntityResult{job}, Strict: true})
	assert.Equal(t, usecase.VerdictInvalid, strict.Verdict)
}

func TestValidationService_SequenceGapsWithoutSample(t *testing.T) {
	ctx := context.Background()
	source := newRelationalSet(t)
	target := newDocumentSet(t)

	for _, seq := range []int{1, 2, 4} {
		item := &entity.ItineraryItem{
			ID: fmt.Sprintf("ii-%d", seq), TravelPlanID: "tp-9", DayNumber: 1, Sequence: seq, Title: "stop",
		}
		require.NoError(t, source.ItineraryItems.Save(ctx, item.Clone()))
		require.NoError(t, target.ItineraryItems.Save(ctx, item))
	}

	job := usecase.EntityResult{
		EntityType:     entity.TypeItineraryItem,
		TotalCount:     3,
		ProcessedCount: 3,
	}

	result := newValidator().Validate(ctx, usecase.ValidationRequest{
		Source: *source,
		Target: *target,
		Jobs:   []usecase.EntityResult{job},
		Strict: true,
	})

	assert.Equal(t, usecase.VerdictInvalid, result.Verdict)
	require.Len(t, result.Entities[0].Discrepancies, 1)
	assert.Contains(t, result.Entities[0].Discrepancies[0], "plan tp-9 day 1")
	assert.Zero(t, result.Entities[0].Sampled)
}

// failingCountReviews cannot be recounted.
type failingCountReviews struct {
	repository.ReviewRepository
}

func (failingCountReviews) Count(context.Context) (int64, error) {
	return 0, errors.Wrap(repository.ErrUnavailable, "timeout")
}

func TestValidationService_RecountFailure(t *testing.T) {
	ctx := context.Background()
	source := newRelationalSet(t)
	target := newDocumentSet(t)
	broken := *target
	broken.Reviews = failingCountReviews{ReviewRepository: target.Reviews}

	result := newValidator().Validate(ctx, usecase.ValidationRequest{
		Source: *source,
		Target: broken,
		Jobs: []usecase.EntityResult{
			reviewJob(),
			{EntityType: entity.TypeSavedPlan, Status: usecase.StatusCompleted},
		},
	})

	assert.Equal(t, usecase.VerdictFailed, result.Verdict)
	assert.Equal(t, usecase.VerdictFailed, result.Entities[0].Verdict)
	assert.Contains(t, result.Entities[0].Error, "recount target")
	assert.Equal(t, usecase.VerdictValid, result.Entities[1].Verdict)
}

func TestOverallVerdict(t *testing.T) {
	valid := usecase.EntityValidation{Verdict: usecase.VerdictValid}
	invalid := usecase.EntityValidation{Verdict: usecase.VerdictInvalid}
	failed := usecase.EntityValidation{Verdict: usecase.VerdictFailed}

	assert.Equal(t, usecase.VerdictValid, overallVerdict(nil))
	assert.Equal(t, usecase.VerdictValid, overallVerdict([]usecase.EntityValidation{valid, valid}))
	assert.Equal(t, usecase.VerdictInvalid, overallVerdict([]usecase.EntityValidation{valid, invalid}))
	assert.Equal(t, usecase.VerdictFailed, overallVerdict([]usecase.EntityValidation{invalid, failed, valid}))
}

func TestDiffFields_NormalizesValues(t *testing.T) {
	a := &entity.Place{ID: "p", Name: "n", Category: "c", Tags: []string{"b", "a"}}
	b := &entity.Place{ID: "p", Name: "n", Category: "c", Tags: []string{"a", "b"}}
	assert.Empty(t, diffFields("p", placeFields(a), placeFields(b)))

	b.Rating = 4.5
	assert.Equal(t, []string{"p: rating"}, diffFields("p", placeFields(a), placeFields(b)))
}
