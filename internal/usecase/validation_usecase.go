package usecase

import (
	"context"

	"tripstore/internal/domain/entity"
	"tripstore/internal/domain/repository"
)

// Verdict is the outcome of validating one entity type or a whole run.
type Verdict string

const (
	VerdictValid   Verdict = "valid"
	VerdictInvalid Verdict = "invalid"
	VerdictFailed  Verdict = "failed"
)

// EntityValidation is the verdict for one entity type.
type EntityValidation struct {
	EntityType    entity.EntityType `json:"entityType"`
	Verdict       Verdict           `json:"verdict"`
	Expected      int64             `json:"expected"`  // Source total seen by the job.
	Processed     int64             `json:"processed"` // Records the job wrote.
	Actual        int64             `json:"actual"`    // Fresh recount of the target.
	Sampled       int               `json:"sampled"`
	Discrepancies []string          `json:"discrepancies"`
	Error         string            `json:"error,omitempty"`
}

// ValidationResult aggregates the per-entity verdicts.
type ValidationResult struct {
	Verdict  Verdict            `json:"verdict"`
	Entities []EntityValidation `json:"entities"`
}

// ValidationRequest checks the outcome of a finished migration.
type ValidationRequest struct {
	Source repository.Set
	Target repository.Set
	Jobs   []EntityResult
	Strict bool
}

// ValidationUsecase verifies that a migration reproduced the source in the target.
type ValidationUsecase interface {
	Validate(ctx context.Context, req ValidationRequest) *ValidationResult
}
