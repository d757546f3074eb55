package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hb-platform/guidesync/internal/bridge"
	"github.com/hb-platform/guidesync/internal/effects"
	"github.com/hb-platform/guidesync/internal/tour"
)

// DefaultCleanupDelay is the grace period between a tour ending and its
// lingering ids being cleared. Long enough for an exit animation, short
// enough to be invisible otherwise.
const DefaultCleanupDelay = 300 * time.Millisecond

// PreferenceStore is the durable storage the engine needs. Implemented by
// *store.Store.
type PreferenceStore interface {
	TourAvailable(ctx context.Context) (bool, error)
	SetTourAvailable(ctx context.Context, available bool) error
	DeletePreferencesByPrefix(ctx context.Context, prefixes ...string) error
}

// SessionStore is the session-scoped marker storage the engine needs.
// Implemented by *store.SessionStore.
type SessionStore interface {
	Mark(key string)
	Seen(key string) bool
	DeleteByPrefix(prefixes ...string)
}

// State is a read-only snapshot of the engine's runtime state.
//
// TourID may outlive Active briefly: after a tour ends it lingers until
// the deferred cleanup fires, so exit animations can still resolve the
// definition. Derived queries treat the engine as Idle regardless.
type State struct {
	Active    bool   `json:"active"`
	TourID    string `json:"tour_id,omitempty"`
	StepIndex int    `json:"step_index"`
}

// Engine drives guided tours over an immutable registry.
//
// All state mutations happen under the engine mutex; side effects and
// bridge calls run outside it (see package documentation for the version
// check that keeps the two honest).
type Engine struct {
	registry *tour.Registry
	effects  *effects.Registry
	bridge   *trackingBridge
	prefs    PreferenceStore
	session  SessionStore
	logger   *slog.Logger

	cleanupDelay time.Duration
	schedule     Scheduler

	mu            sync.Mutex
	active        bool
	tourID        string
	stepIndex     int
	version       int64
	available     bool
	cancelCleanup func()
}

// Option configures an Engine.
type Option func(*Engine)

// WithBridge sets the UI bridge side effects and cleanup act through.
// Defaults to bridge.Noop.
func WithBridge(b bridge.Bridge) Option {
	return func(e *Engine) {
		if b != nil {
			e.bridge = newTrackingBridge(b)
		}
	}
}

// WithEffects sets the side-effect handler registry. Without one, steps
// that name effects log a warning when the transition fires.
func WithEffects(r *effects.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.effects = r
		}
	}
}

// WithLogger sets the engine logger. Defaults to slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithCleanupDelay overrides the deferred cleanup grace period.
func WithCleanupDelay(d time.Duration) Option {
	return func(e *Engine) { e.cleanupDelay = d }
}

// WithScheduler overrides how deferred cleanup is scheduled. Tests inject
// a manual scheduler to fire cleanups deterministically.
func WithScheduler(s Scheduler) Option {
	return func(e *Engine) {
		if s != nil {
			e.schedule = s
		}
	}
}

// New constructs an Engine over the given registry and stores.
//
// The availability preference is read once here; ToggleAvailability keeps
// the cached value and the store in step afterwards. A preference read
// failure falls back to available (the default) and is logged, not fatal.
func New(ctx context.Context, reg *tour.Registry, prefs PreferenceStore, session SessionStore, opts ...Option) *Engine {
	e := &Engine{
		registry:     reg,
		effects:      effects.NewRegistry(),
		bridge:       newTrackingBridge(bridge.Noop{}),
		prefs:        prefs,
		session:      session,
		logger:       slog.Default(),
		cleanupDelay: DefaultCleanupDelay,
		schedule:     defaultScheduler,
		available:    true,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.prefs != nil {
		available, err := e.prefs.TourAvailable(ctx)
		if err != nil {
			e.logger.Warn("tour availability read failed, defaulting to available", "error", err)
			available = true
		}
		e.available = available
	}
	return e
}

// State returns a snapshot of the runtime state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{Active: e.active, TourID: e.tourID, StepIndex: e.stepIndex}
}

// Available reports the cached availability preference.
func (e *Engine) Available() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.available
}

// CurrentTour returns the definition of the active tour, or false when
// Idle.
func (e *Engine) CurrentTour() (tour.Definition, bool) {
	e.mu.Lock()
	active, id := e.active, e.tourID
	e.mu.Unlock()
	if !active {
		return tour.Definition{}, false
	}
	return e.registry.Get(id)
}

// CurrentStep returns the step at the current index of the active tour, or
// false when Idle or out of range.
func (e *Engine) CurrentStep() (tour.Step, bool) {
	e.mu.Lock()
	active, id, idx := e.active, e.tourID, e.stepIndex
	e.mu.Unlock()
	if !active {
		return tour.Step{}, false
	}
	def, ok := e.registry.Get(id)
	if !ok || idx < 0 || idx >= len(def.Steps) {
		return tour.Step{}, false
	}
	return def.Steps[idx], true
}

// AvailableTours returns the catalog filtered to the given role, or nil
// when tours are disabled.
func (e *Engine) AvailableTours(role string) []tour.Definition {
	if !e.Available() {
		return nil
	}
	return e.registry.ForRole(role)
}
