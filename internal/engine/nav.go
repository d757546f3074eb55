package engine

import (
	"context"
	"fmt"

	"github.com/hb-platform/guidesync/internal/store"
	"github.com/hb-platform/guidesync/internal/tour"
)

// Start begins the named tour at step 0 and returns the resulting state.
//
// Auto-starts are suppressed when the tour has already been auto-started
// this session, or when tours are disabled; the session marker is set
// before the transition so a racing second auto-start loses. Explicit
// starts ignore both gates' history (a disabled engine still honors an
// explicit user request). Unknown tour ids are no-ops.
func (e *Engine) Start(ctx context.Context, tourID string, autoStart bool) State {
	def, ok := e.registry.Get(tourID)
	if !ok {
		e.logger.Debug("start ignored: unknown tour", "tour", tourID)
		return e.State()
	}

	e.mu.Lock()
	if autoStart {
		if !e.available {
			e.mu.Unlock()
			e.logger.Debug("auto-start suppressed: tours disabled", "tour", tourID)
			return e.State()
		}
		marker := store.SessionMarkerKey(tourID)
		if e.session != nil && e.session.Seen(marker) {
			e.mu.Unlock()
			e.logger.Debug("auto-start suppressed: already shown this session", "tour", tourID)
			return e.State()
		}
		if e.session != nil {
			e.session.Mark(marker)
		}
	}

	e.cancelPendingCleanupLocked()
	e.active = true
	e.tourID = tourID
	e.stepIndex = 0
	e.version++
	e.mu.Unlock()

	e.logger.Info("tour started", "tour", tourID, "auto", autoStart, "steps", len(def.Steps))
	e.anchorStep(ctx, def, 0)
	return e.State()
}

// Next fires the current step's onNext effect, then advances. Advancing
// past the last step completes the tour. No-op while Idle.
func (e *Engine) Next(ctx context.Context) State {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		e.logger.Debug("next ignored: no active tour")
		return e.State()
	}
	tourID, idx, v := e.tourID, e.stepIndex, e.version
	e.mu.Unlock()

	def, step, ok := e.stepAt(tourID, idx)
	if ok {
		e.runEffect(ctx, step, tour.TransitionNext)
	}

	e.mu.Lock()
	if e.version != v {
		// A side effect re-entered the engine; its transition wins.
		e.mu.Unlock()
		return e.State()
	}
	completed := idx+1 >= len(def.Steps)
	if completed {
		e.finishLocked()
		e.logger.Info("tour completed", "tour", tourID)
	} else {
		e.stepIndex = idx + 1
		e.version++
	}
	e.mu.Unlock()

	if completed {
		e.cleanupUI(ctx)
	} else {
		e.anchorStep(ctx, def, idx+1)
	}
	return e.State()
}

// Prev fires the current step's onPrev effect, then steps back. The effect
// fires even at step 0, where the index stays put. No-op while Idle.
func (e *Engine) Prev(ctx context.Context) State {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		e.logger.Debug("prev ignored: no active tour")
		return e.State()
	}
	tourID, idx, v := e.tourID, e.stepIndex, e.version
	e.mu.Unlock()

	def, step, ok := e.stepAt(tourID, idx)
	if ok {
		e.runEffect(ctx, step, tour.TransitionPrev)
	}
	if idx == 0 {
		return e.State()
	}

	e.mu.Lock()
	if e.version != v {
		e.mu.Unlock()
		return e.State()
	}
	e.stepIndex = idx - 1
	e.version++
	e.mu.Unlock()

	e.anchorStep(ctx, def, idx-1)
	return e.State()
}

// Skip fires the current step's onSkip effect, then stops the tour
// unconditionally. No-op while Idle.
func (e *Engine) Skip(ctx context.Context) State {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		e.logger.Debug("skip ignored: no active tour")
		return e.State()
	}
	tourID, idx, v := e.tourID, e.stepIndex, e.version
	e.mu.Unlock()

	if _, step, ok := e.stepAt(tourID, idx); ok {
		e.runEffect(ctx, step, tour.TransitionSkip)
	}

	e.mu.Lock()
	if e.version != v {
		e.mu.Unlock()
		return e.State()
	}
	e.finishLocked()
	e.mu.Unlock()

	e.logger.Info("tour skipped", "tour", tourID, "step", idx)
	e.cleanupUI(ctx)
	return e.State()
}

// GoTo jumps to the given step index. Out-of-range requests are ignored.
// No-op while Idle.
func (e *Engine) GoTo(ctx context.Context, index int) State {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		e.logger.Debug("goto ignored: no active tour")
		return e.State()
	}
	def, ok := e.registry.Get(e.tourID)
	if !ok || index < 0 || index >= len(def.Steps) {
		e.mu.Unlock()
		e.logger.Debug("goto ignored: index out of range", "index", index)
		return e.State()
	}
	e.stepIndex = index
	e.version++
	e.mu.Unlock()

	e.anchorStep(ctx, def, index)
	return e.State()
}

// Stop ends any active tour and runs best-effort UI cleanup. Idempotent:
// stopping an idle engine leaves state unchanged beyond the redundant
// cleanup.
func (e *Engine) Stop(ctx context.Context) State {
	e.mu.Lock()
	wasActive := e.active
	tourID := e.tourID
	if wasActive {
		e.finishLocked()
	}
	e.mu.Unlock()

	if wasActive {
		e.logger.Info("tour stopped", "tour", tourID)
	}
	e.cleanupUI(ctx)
	return e.State()
}

// ToggleAvailability flips the persisted availability preference and
// returns the new value. Disabling while a tour is running forces a stop.
func (e *Engine) ToggleAvailability(ctx context.Context) (bool, error) {
	e.mu.Lock()
	next := !e.available
	if e.prefs != nil {
		if err := e.prefs.SetTourAvailable(ctx, next); err != nil {
			e.mu.Unlock()
			return e.Available(), fmt.Errorf("persist tour availability: %w", err)
		}
	}
	e.available = next
	e.mu.Unlock()

	e.logger.Info("tour availability toggled", "available", next)
	if !next {
		e.Stop(ctx)
	}
	return next, nil
}

// ResetAll wipes every piece of tour state: the engine goes Idle, any
// pending deferred cleanup is cancelled, all tour-related session markers
// and durable preferences are removed, and availability returns to its
// default (true).
func (e *Engine) ResetAll(ctx context.Context) error {
	e.mu.Lock()
	e.cancelPendingCleanupLocked()
	e.active = false
	e.tourID = ""
	e.stepIndex = 0
	e.version++
	e.available = true
	e.mu.Unlock()

	if e.session != nil {
		e.session.DeleteByPrefix(store.ResetPrefixes...)
	}
	if e.prefs != nil {
		if err := e.prefs.DeletePreferencesByPrefix(ctx, store.ResetPrefixes...); err != nil {
			return fmt.Errorf("reset durable tour state: %w", err)
		}
	}
	e.logger.Info("tour state reset")
	e.cleanupUI(ctx)
	return nil
}

// finishLocked transitions to Idle, retaining the tour id until the
// deferred cleanup fires. Caller holds the mutex.
func (e *Engine) finishLocked() {
	e.active = false
	e.stepIndex = 0
	e.version++
	e.cancelPendingCleanupLocked()

	v := e.version
	e.cancelCleanup = e.schedule(e.cleanupDelay, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		// A newer transition owns the state now; leave it alone.
		if e.version != v {
			return
		}
		e.tourID = ""
		e.cancelCleanup = nil
	})
}

// cancelPendingCleanupLocked stops any scheduled cleanup. Caller holds the
// mutex.
func (e *Engine) cancelPendingCleanupLocked() {
	if e.cancelCleanup != nil {
		e.cancelCleanup()
		e.cancelCleanup = nil
	}
}

// stepAt resolves a step by tour id and index.
func (e *Engine) stepAt(tourID string, idx int) (tour.Definition, tour.Step, bool) {
	def, ok := e.registry.Get(tourID)
	if !ok || idx < 0 || idx >= len(def.Steps) {
		return tour.Definition{}, tour.Step{}, false
	}
	return def, def.Steps[idx], true
}

// runEffect resolves and invokes the side effect bound to the step's
// transition. Handler errors and panics are logged and swallowed - the
// transition always continues.
func (e *Engine) runEffect(ctx context.Context, step tour.Step, t tour.Transition) {
	name := step.EffectFor(t)
	if name == "" {
		return
	}
	handler := e.effects.Resolve(name)
	if handler == nil {
		e.logger.Warn("effect not registered", "effect", name, "step", step.ID, "transition", string(t))
		return
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("effect panicked", "effect", name, "step", step.ID, "panic", fmt.Sprint(r))
		}
	}()
	if err := handler(ctx, e.bridge); err != nil {
		e.logger.Warn("effect failed", "effect", name, "step", step.ID, "error", err)
	}
}

// anchorStep points the UI at the step entered by a committed transition.
// Best-effort: a target that resolves to nothing is not an error for the
// overlay.
func (e *Engine) anchorStep(ctx context.Context, def tour.Definition, idx int) {
	if idx < 0 || idx >= len(def.Steps) {
		return
	}
	step := def.Steps[idx]
	if err := e.bridge.ScrollIntoView(ctx, step.Target); err != nil {
		e.logger.Debug("scroll into view failed", "target", step.Target, "error", err)
	}
	if err := e.bridge.Highlight(ctx, step.Target); err != nil {
		e.logger.Debug("highlight failed", "target", step.Target, "error", err)
	}
}

// cleanupUI closes tour-opened affordances and clears the highlight.
func (e *Engine) cleanupUI(ctx context.Context) {
	for _, err := range e.bridge.closeAll(ctx) {
		e.logger.Debug("ui cleanup", "error", err)
	}
}
