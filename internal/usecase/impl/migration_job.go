package impl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"time"

	"tripstore/internal/domain/entity"
	domainerrors "tripstore/internal/domain/errors"
	"tripstore/internal/domain/repository"
	"tripstore/internal/domain/schema"
	"tripstore/internal/errors"
	"tripstore/internal/usecase"
)

// maxRecordedErrors bounds the error list of one job. ErrorCount keeps
// counting past it; a skipped page counts as one error.
const maxRecordedErrors = 1000

// migratable is implemented by every entity pointer type.
type migratable[T any] interface {
	*T
	Clone() *T
	Validate() error
	Normalize()
}

// migrationJob copies one entity type from the source to the target store.
type migrationJob interface {
	EntityType() entity.EntityType
	Run(ctx context.Context, opts usecase.MigrationOptions, logger *slog.Logger) usecase.EntityResult
}

type entityJob[T any, P migratable[T]] struct {
	entityType entity.EntityType
	source     repository.Store[T]
	target     repository.Store[T]

	// refresh recomputes derived fields after normalization. Optional.
	refresh func(*T)
}

func newEntityJob[T any, P migratable[T]](t entity.EntityType, source, target repository.Store[T], refresh func(*T)) *entityJob[T, P] {
	return &entityJob[T, P]{entityType: t, source: source, target: target, refresh: refresh}
}

// newJobs builds one job per requested entity type.
func newJobs(types []entity.EntityType, source, target *repository.Set) ([]migrationJob, error) {
	jobs := make([]migrationJob, 0, len(types))
	for _, t := range types {
		var job migrationJob
		switch t {
		case entity.TypeUser:
			job = newEntityJob[entity.User](t, source.Users, target.Users, nil)
		case entity.TypePlace:
			job = newEntityJob[entity.Place](t, source.Places, target.Places, func(p *entity.Place) {
				p.Geohash = schema.GeohashOf(p.Latitude, p.Longitude)
			})
		case entity.TypeTravelPlan:
			job = newEntityJob[entity.TravelPlan](t, source.TravelPlans, target.TravelPlans, nil)
		case entity.TypeItineraryItem:
			job = newEntityJob[entity.ItineraryItem](t, source.ItineraryItems, target.ItineraryItems, nil)
		case entity.TypeReview:
			job = newEntityJob[entity.Review](t, source.Reviews, target.Reviews, nil)
		case entity.TypeSavedPlan:
			job = newEntityJob[entity.SavedPlan](t, source.SavedPlans, target.SavedPlans, nil)
		default:
			return nil, errors.Wrapf(domainerrors.ErrUnknownEntityType, "no migration for entity type %q", t)
		}
		jobs = append(jobs, job)
	}

	return jobs, nil
}

func (j *entityJob[T, P]) EntityType() entity.EntityType {
	return j.entityType
}

// mapRecord turns a source record into the value written to the target.
// The source value is never modified.
func (j *entityJob[T, P]) mapRecord(v *T) (*T, error) {
	out := P(v).Clone()
	if err := P(out).Validate(); err != nil {
		return nil, errors.Wrap(domainerrors.ErrRecordMapping, err.Error())
	}
	P(out).Normalize()
	if j.refresh != nil {
		j.refresh(out)
	}

	return out, nil
}

// jobState is the counter block of one running job.
type jobState struct {
	result  usecase.EntityResult
	sampler *reservoir
	aborted bool
}

func (s *jobState) recordError(id string, err error) {
	s.result.ErrorCount++
	if len(s.result.Errors) < maxRecordedErrors {
		s.result.Errors = append(s.result.Errors, usecase.RecordError{ID: id, Message: err.Error()})
	}
}

func (s *jobState) fail(err error) {
	s.result.Status = usecase.StatusFailed
	s.result.FatalError = err.Error()
	s.aborted = true
}

// Run executes the job: count, then page, map and upsert until the source is
// exhausted, the job aborts or ctx is cancelled.
func (j *entityJob[T, P]) Run(ctx context.Context, opts usecase.MigrationOptions, logger *slog.Logger) usecase.EntityResult {
	start := time.Now()
	state := &jobState{
		result:  usecase.EntityResult{EntityType: j.entityType, Errors: []usecase.RecordError{}},
		sampler: newReservoir(opts.SampleSize),
	}
	logger = logger.With(slog.String("entity_type", string(j.entityType)))

	j.run(ctx, opts, state, logger)

	if state.result.Status == "" {
		state.result.Status = usecase.StatusCompleted
		if state.result.ErrorCount > 0 {
			state.result.Status = usecase.StatusCompletedWithErrors
		}
	}
	state.result.SampledIDs = state.sampler.ids
	state.result.Duration = time.Since(start)

	logger.Info("Entity migration finished",
		slog.String("status", string(state.result.Status)),
		slog.Int64("total", state.result.TotalCount),
		slog.Int64("processed", state.result.ProcessedCount),
		slog.Int64("errors", state.result.ErrorCount),
		slog.Bool("cancelled", state.result.Cancelled),
		slog.Duration("duration", state.result.Duration),
	)

	return state.result
}

func (j *entityJob[T, P]) run(ctx context.Context, opts usecase.MigrationOptions, state *jobState, logger *slog.Logger) {
	if ctx.Err() != nil {
		state.result.Cancelled = true
		return
	}

	countCtx, cancel := context.WithTimeout(ctx, opts.PageTimeout)
	total, err := j.source.Count(countCtx)
	cancel()
	if err != nil {
		state.fail(errors.Wrapf(domainerrors.ErrSourceUnavailable, "count %s: %v", j.entityType, err))
		return
	}
	state.result.TotalCount = total

	pager := j.source.Scan(ctx, opts.BatchSize)
	defer pager.Close()

	for page := 1; ; page++ {
		if ctx.Err() != nil {
			state.result.Cancelled = true
			logger.Warn("Migration cancelled, no further pages started", slog.Int("page", page))

			return
		}

		// A page in flight finishes even if ctx is cancelled meanwhile.
		pageCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), opts.PageTimeout)
		done := j.migratePage(pageCtx, pager, page, opts, state, logger)
		cancel()

		if done || state.aborted {
			return
		}
	}
}

// migratePage reads one page and writes its records. It reports true once
// the source is exhausted or the job has aborted.
func (j *entityJob[T, P]) migratePage(ctx context.Context, pager repository.Pager[T], page int, opts usecase.MigrationOptions, state *jobState, logger *slog.Logger) bool {
	records, err := pager.Next(ctx)
	if errors.Is(err, io.EOF) {
		return true
	}
	if err != nil {
		return j.pageReadFailed(pager, page, err, opts, state, logger)
	}

	var pageErrors int64
	for _, rec := range records {
		if err := j.migrateRecord(ctx, rec); err != nil {
			// A page timeout fails the rest of the page, not the job.
			if !errors.IsTimeout(err) && errors.Is(err, repository.ErrUnavailable) {
				state.fail(errors.Wrapf(domainerrors.ErrTargetUnavailable, "write %s %s: %v", j.entityType, rec.ID, err))
				return true
			}

			pageErrors++
			state.recordError(rec.ID, err)
			if !opts.ContinueOnError {
				state.fail(errors.Wrapf(err, "aborted after first failure on %s", rec.ID))
				return true
			}

			continue
		}

		state.result.ProcessedCount++
		state.sampler.offer(rec.ID)
	}

	logger.Debug("Migrated page",
		slog.Int("page", page),
		slog.Int("records", len(records)),
		slog.Int64("page_errors", pageErrors),
		slog.Int64("processed", state.result.ProcessedCount),
	)

	return false
}

// pageReadFailed handles a page that could not be read. A timed-out page is
// skipped when the pager can resume past it and the job continues on errors;
// anything else leaves the source position unknown and fails the job.
func (j *entityJob[T, P]) pageReadFailed(pager repository.Pager[T], page int, err error, opts usecase.MigrationOptions, state *jobState, logger *slog.Logger) bool {
	resumable, ok := pager.(repository.Resumable)
	if !ok || !opts.ContinueOnError || !errors.IsTimeout(err) {
		state.fail(errors.Wrapf(domainerrors.ErrSourceUnavailable, "read %s page %d: %v", j.entityType, page, err))
		return true
	}

	id := fmt.Sprintf("page %d @ %s", page, resumable.Skip())
	state.recordError(id, err)
	logger.Warn("Skipped unreadable page", slog.String("page", id), slog.String("error", err.Error()))

	return false
}

func (j *entityJob[T, P]) migrateRecord(ctx context.Context, rec repository.Record[T]) error {
	if rec.Err != nil {
		return errors.Wrap(domainerrors.ErrRecordMapping, rec.Err.Error())
	}
	if err := ctx.Err(); errors.IsTimeout(err) {
		return errors.Wrap(err, "page timed out before write")
	}

	mapped, err := j.mapRecord(rec.Value)
	if err != nil {
		return err
	}

	if err := j.target.Save(repository.WithCopyWrites(ctx), mapped); err != nil {
		return errors.Wrapf(err, "write %s", rec.ID)
	}

	return nil
}

// reservoir keeps a uniform sample of up to size ids from a stream.
type reservoir struct {
	size int
	seen int
	ids  []string
}

func newReservoir(size int) *reservoir {
	return &reservoir{size: max(size, 0)}
}

func (r *reservoir) offer(id string) {
	r.seen++
	if len(r.ids) < r.size {
		r.ids = append(r.ids, id)
		return
	}
	if r.size == 0 {
		return
	}
	if k := rand.IntN(r.seen); k < r.size {
		r.ids[k] = id
	}
}
