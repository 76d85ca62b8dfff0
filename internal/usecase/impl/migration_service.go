package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tripstore/config"
	"tripstore/internal/backend"
	deliverycontext "tripstore/internal/delivery/context"
	"tripstore/internal/domain/entity"
	domainerrors "tripstore/internal/domain/errors"
	"tripstore/internal/domain/repository"
	"tripstore/internal/domain/service"
	"tripstore/internal/errors"
	"tripstore/internal/usecase"

	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

// StoreProvider resolves the repository set of a backend kind.
// *backend.Registry implements it.
type StoreProvider interface {
	Store(ctx context.Context, kind backend.Kind) (*repository.Set, error)
	CanMigrate(d backend.Direction) bool
	MigrationCapability() backend.MigrationCapability
}

// migrationService implements the MigrationUsecase interface.
type migrationService struct {
	stores    StoreProvider
	validator usecase.ValidationUsecase
	publisher service.EventPublisher
	defaults  config.MigrationConfig
	now       func() time.Time
	logger    *slog.Logger
}

// MigrationServiceParams holds dependencies for MigrationService, injected by Fx.
type MigrationServiceParams struct {
	fx.In

	Registry  *backend.Registry
	Validator usecase.ValidationUsecase
	Publisher service.EventPublisher `optional:"true"`
	Config    *config.Config
	Logger    *slog.Logger
}

// NewMigrationService is the constructor for migrationService.
func NewMigrationService(params MigrationServiceParams) usecase.MigrationUsecase {
	var defaults config.MigrationConfig
	if params.Config != nil && params.Config.Migration != nil {
		defaults = *params.Config.Migration
	}

	return newMigrationService(params.Registry, params.Validator, params.Publisher, defaults, params.Logger)
}

func newMigrationService(
	stores StoreProvider,
	validator usecase.ValidationUsecase,
	publisher service.EventPublisher,
	defaults config.MigrationConfig,
	logger *slog.Logger,
) *migrationService {
	if logger == nil {
		logger = slog.Default()
	}

	return &migrationService{
		stores:    stores,
		validator: validator,
		publisher: publisher,
		defaults:  defaults,
		now:       time.Now,
		logger:    logger,
	}
}

func (s *migrationService) Capability() backend.MigrationCapability {
	return s.stores.MigrationCapability()
}

func (s *migrationService) DefaultOptions(d backend.Direction) usecase.MigrationOptions {
	opts := usecase.DefaultMigrationOptions(d)
	if s.defaults.BatchSize > 0 {
		opts.BatchSize = s.defaults.BatchSize
	}
	if s.defaults.SampleSize > 0 {
		opts.SampleSize = s.defaults.SampleSize
	}
	if s.defaults.PageTimeout > 0 {
		opts.PageTimeout = s.defaults.PageTimeout
	}
	if s.defaults.Workers > 0 {
		opts.Workers = s.defaults.Workers
	}

	return opts
}

// Migrate runs every requested entity job in a bounded pool and assembles
// the result after all of them have finished.
func (s *migrationService) Migrate(ctx context.Context, opts usecase.MigrationOptions) (*usecase.MigrationResult, error) {
	opts = opts.Resolve()
	logger := deliverycontext.GetLoggerOrDefault(ctx, s.logger)

	result := &usecase.MigrationResult{
		MigrationID: entity.NewID(),
		StartTime:   s.now().UTC(),
		Direction:   opts.Direction,
		Entities:    []usecase.EntityResult{},
	}
	logger = logger.With(
		slog.String("migration_id", result.MigrationID),
		slog.String("direction", string(opts.Direction)),
	)

	source, target, err := s.resolveStores(ctx, opts.Direction)
	if err != nil {
		s.finishFailed(ctx, result, opts, err, logger)
		return result, err
	}

	jobs, err := newJobs(opts.EntityTypes, source, target)
	if err != nil {
		s.finishFailed(ctx, result, opts, err, logger)
		return result, err
	}

	logger.Info("Migration started",
		slog.Int("entity_types", len(jobs)),
		slog.Int("batch_size", opts.BatchSize),
		slog.Int("workers", opts.Workers),
		slog.Bool("continue_on_error", opts.ContinueOnError),
	)

	result.Entities = s.runJobs(ctx, jobs, opts, logger)
	result.Status = overallStatus(result.Entities)
	for _, e := range result.Entities {
		result.Cancelled = result.Cancelled || e.Cancelled
	}

	if opts.ValidateAfter && s.validator != nil {
		result.Validation = s.validator.Validate(ctx, usecase.ValidationRequest{
			Source: *source,
			Target: *target,
			Jobs:   result.Entities,
			Strict: opts.Strict,
		})
	}

	s.finish(ctx, result, opts, logger)

	return result, nil
}

func (s *migrationService) resolveStores(ctx context.Context, d backend.Direction) (*repository.Set, *repository.Set, error) {
	if !d.IsValid() {
		return nil, nil, errors.Wrapf(domainerrors.ErrValidationFailed, "unknown direction %q", d)
	}
	if !s.stores.CanMigrate(d) {
		return nil, nil, errors.Wrapf(domainerrors.ErrMigrationNotSupported,
			"%s is not possible with capability %s", d, s.stores.MigrationCapability())
	}

	source, err := s.stores.Store(ctx, d.Source())
	if err != nil {
		return nil, nil, errors.Wrapf(domainerrors.ErrSourceUnavailable, "%s backend: %v", d.Source(), err)
	}
	target, err := s.stores.Store(ctx, d.Target())
	if err != nil {
		return nil, nil, errors.Wrapf(domainerrors.ErrTargetUnavailable, "%s backend: %v", d.Target(), err)
	}

	return source, target, nil
}

// runJobs fans the jobs out to at most opts.Workers goroutines. Each job
// writes only its own slot, so the slice is safe to read after Wait.
func (s *migrationService) runJobs(ctx context.Context, jobs []migrationJob, opts usecase.MigrationOptions, logger *slog.Logger) []usecase.EntityResult {
	results := make([]usecase.EntityResult, len(jobs))

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for i, job := range jobs {
		g.Go(func() error {
			results[i] = job.Run(ctx, opts, logger)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// overallStatus is failed when every job failed, completed_with_errors when
// any job failed or recorded errors, and completed otherwise.
func overallStatus(results []usecase.EntityResult) usecase.MigrationStatus {
	if len(results) == 0 {
		return usecase.StatusCompleted
	}

	failed := 0
	withErrors := false
	for _, r := range results {
		switch {
		case r.Status == usecase.StatusFailed:
			failed++
		case r.ErrorCount > 0:
			withErrors = true
		}
	}

	switch {
	case failed == len(results):
		return usecase.StatusFailed
	case failed > 0 || withErrors:
		return usecase.StatusCompletedWithErrors
	}

	return usecase.StatusCompleted
}

func (s *migrationService) finishFailed(ctx context.Context, result *usecase.MigrationResult, opts usecase.MigrationOptions, err error, logger *slog.Logger) {
	result.Status = usecase.StatusFailed
	result.ErrorMessage = err.Error()
	s.finish(ctx, result, opts, logger)
}

func (s *migrationService) finish(ctx context.Context, result *usecase.MigrationResult, opts usecase.MigrationOptions, logger *slog.Logger) {
	result.EndTime = s.now().UTC()
	result.Summary = fmt.Sprintf("Migration %s - Processed: %d, Errors: %d, Status: %s",
		result.MigrationID, result.TotalProcessed(), result.TotalErrors(), result.Status)
	if result.Cancelled {
		result.Summary += " (cancelled)"
	}

	attrs := []any{
		slog.String("status", string(result.Status)),
		slog.Int64("processed", result.TotalProcessed()),
		slog.Int64("errors", result.TotalErrors()),
		slog.Bool("cancelled", result.Cancelled),
		slog.Duration("duration", result.EndTime.Sub(result.StartTime)),
	}
	if result.Validation != nil {
		attrs = append(attrs, slog.String("validation", string(result.Validation.Verdict)))
	}
	if result.Status == usecase.StatusFailed {
		logger.Error(result.Summary, append(attrs, slog.String("error", result.ErrorMessage))...)
	} else {
		logger.Info(result.Summary, attrs...)
	}

	s.publish(ctx, result, opts, logger)
}

func (s *migrationService) publish(ctx context.Context, result *usecase.MigrationResult, opts usecase.MigrationOptions, logger *slog.Logger) {
	if s.publisher == nil {
		return
	}

	types := make([]string, len(opts.EntityTypes))
	for i, t := range opts.EntityTypes {
		types[i] = string(t)
	}

	event := &service.MigrationCompletedEvent{
		RequestID:   deliverycontext.GetRequestIDFromContext(ctx),
		MigrationID: result.MigrationID,
		Direction:   string(result.Direction),
		Status:      string(result.Status),
		EntityTypes: types,
		Processed:   result.TotalProcessed(),
		Errors:      result.TotalErrors(),
		Cancelled:   result.Cancelled,
		StartTime:   result.StartTime,
		EndTime:     result.EndTime,
		Summary:     result.Summary,
	}
	if result.Validation != nil {
		event.Validation = string(result.Validation.Verdict)
	}

	// Published even when the request ctx is already cancelled.
	if err := s.publisher.PublishMigrationCompleted(context.WithoutCancel(ctx), event); err != nil {
		logger.Warn("Failed to publish migration completed event", slog.Any("error", err))
	}
}
