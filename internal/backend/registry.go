package backend

import (
	"context"
	"log/slog"
	"sync"

	"tripstore/config"
	domainerrors "tripstore/internal/domain/errors"
	"tripstore/internal/domain/lifecycle"
	"tripstore/internal/domain/repository"
	"tripstore/internal/errors"

	"go.uber.org/fx"
)

// SetBuilder builds the repository set of one backend kind. A builder with a
// nil Build means the backend is not configured in this deployment.
type SetBuilder struct {
	Kind  Kind
	Build func(ctx context.Context) (*repository.Set, error)
}

// Configured reports whether the builder can produce a set.
func (b SetBuilder) Configured() bool {
	return b.Build != nil
}

// Params defines the registry dependencies
type Params struct {
	fx.In

	Config   *config.Config
	Logger   *slog.Logger
	Builders []SetBuilder `group:"set_builders"`
}

// Registry holds exactly one repository implementation per capability group.
type Registry struct {
	selection Selection
	builders  map[Kind]SetBuilder
	logger    *slog.Logger

	mu   sync.Mutex
	sets map[Kind]*repository.Set

	groups map[Group]*repository.Set
}

// New resolves the configured profile and builds the sets it needs.
func New(params Params) (*Registry, error) {
	selection, err := Select(params.Config.Env.Profile)
	if err != nil {
		return nil, err
	}

	r := NewWithBuilders(selection, params.Logger, params.Builders...)

	ctx, cancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
	defer cancel()

	if err := r.populate(ctx); err != nil {
		return nil, err
	}

	return r, nil
}

// NewWithBuilders creates an unpopulated registry; call Populate before use.
func NewWithBuilders(selection Selection, logger *slog.Logger, builders ...SetBuilder) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	byKind := make(map[Kind]SetBuilder, len(builders))
	for _, b := range builders {
		if b.Configured() {
			byKind[b.Kind] = b
		}
	}

	return &Registry{
		selection: selection,
		builders:  byKind,
		logger:    logger,
		sets:      make(map[Kind]*repository.Set),
	}
}

// Populate builds the set of every kind the selection uses. It is idempotent.
func (r *Registry) Populate(ctx context.Context) error {
	return r.populate(ctx)
}

func (r *Registry) populate(ctx context.Context) error {
	groups := make(map[Group]*repository.Set, len(AllGroups()))
	for _, g := range AllGroups() {
		kind := r.selection.Kind(g)
		if _, ok := r.builders[kind]; !ok {
			return errors.Wrapf(domainerrors.ErrBackendConfiguration, "group %q needs the %s backend, which is not configured", g, kind)
		}

		set, err := r.Store(ctx, kind)
		if err != nil {
			return err
		}
		groups[g] = set
	}

	r.mu.Lock()
	r.groups = groups
	r.mu.Unlock()

	r.logger.Info("Backend selection resolved",
		slog.String("profile", r.selection.Profile),
		slog.Any("kinds", r.selection.Kinds),
	)

	return nil
}

// Store returns the full repository set of a backend kind, building it on
// first use. Migrations use it to reach both stores regardless of the selection.
func (r *Registry) Store(ctx context.Context, kind Kind) (*repository.Set, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if set, ok := r.sets[kind]; ok {
		return set, nil
	}

	builder, ok := r.builders[kind]
	if !ok {
		return nil, errors.Wrapf(domainerrors.ErrBackendConfiguration, "%s backend is not configured", kind)
	}

	set, err := builder.Build(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to build %s repositories", kind)
	}
	r.sets[kind] = set

	return set, nil
}

// Configured reports whether a backend kind can be built.
func (r *Registry) Configured(kind Kind) bool {
	_, ok := r.builders[kind]

	return ok
}

// Selection returns the resolved profile selection.
func (r *Registry) Selection() Selection {
	return r.selection
}

// Supports reports whether the backend serving the group has the feature.
func (r *Registry) Supports(g Group, f Feature) bool {
	return r.selection.Kind(g).Supports(f)
}

func (r *Registry) group(g Group) *repository.Set {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.groups[g]
}

func (r *Registry) Users() repository.UserRepository {
	return r.group(GroupUsers).Users
}

func (r *Registry) Places() repository.PlaceRepository {
	return r.group(GroupPlaces).Places
}

func (r *Registry) TravelPlans() repository.TravelPlanRepository {
	return r.group(GroupTravel).TravelPlans
}

func (r *Registry) ItineraryItems() repository.ItineraryItemRepository {
	return r.group(GroupTravel).ItineraryItems
}

func (r *Registry) SavedPlans() repository.SavedPlanRepository {
	return r.group(GroupTravel).SavedPlans
}

func (r *Registry) Reviews() repository.ReviewRepository {
	return r.group(GroupReviews).Reviews
}

// Ping checks every backend in use.
func (r *Registry) Ping(ctx context.Context) error {
	r.mu.Lock()
	sets := make(map[Kind]*repository.Set, len(r.sets))
	for k, s := range r.sets {
		sets[k] = s
	}
	r.mu.Unlock()

	for kind, set := range sets {
		if set.Health == nil {
			continue
		}
		if err := set.Health.Ping(ctx); err != nil {
			return errors.Wrapf(err, "%s backend is unhealthy", kind)
		}
	}

	return nil
}
