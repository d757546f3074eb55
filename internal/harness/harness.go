// Package harness executes walkthrough scenarios against the tour engine.
//
// A scenario is a YAML file naming a CUE catalog, an ordered list of engine
// operations, and assertions over the resulting trace. Execution is fully
// deterministic: each run gets a fresh in-memory preference store, a manual
// scheduler so deferred cleanup fires only at an explicit fire_cleanup step,
// and a recording bridge whose calls become part of the trace. Deterministic
// traces make golden-file comparison meaningful.
package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/hb-platform/guidesync/internal/bridge"
	"github.com/hb-platform/guidesync/internal/compiler"
	"github.com/hb-platform/guidesync/internal/effects"
	"github.com/hb-platform/guidesync/internal/engine"
	"github.com/hb-platform/guidesync/internal/store"
	"github.com/hb-platform/guidesync/internal/testutil"
	"github.com/hb-platform/guidesync/internal/tour"
)

// Harness drives one scenario execution.
type Harness struct {
	engine   *engine.Engine
	recorder *bridge.Recorder
	sched    *testutil.ManualScheduler
	logger   *slog.Logger
	seen     int // bridge calls already attributed to earlier ops
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory database for isolation.
//
// Execution flow:
//  1. Load and validate the CUE catalog
//  2. Build an effects registry for every referenced effect name
//  3. Seed availability and session markers
//  4. Execute each operation, validating expect clauses
//  5. Evaluate assertions against trace and final state
func Run(scenario *Scenario) (*Result, error) {
	loaded, loadErrs := compiler.LoadCatalogDir(scenario.Catalog, compiler.LoadModeCollectAll, nil)
	if len(loadErrs) > 0 {
		return nil, fmt.Errorf("loading catalog: %w", errors.Join(loadErrs...))
	}

	reg, err := tour.NewRegistry(loaded.Defs)
	if err != nil {
		return nil, fmt.Errorf("building registry: %w", err)
	}

	fx, err := EffectsForCatalog(loaded.Defs)
	if err != nil {
		return nil, fmt.Errorf("building effects: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory store: %w", err)
	}
	defer st.Close()
	session := store.NewSessionStore()

	ctx := context.Background()
	if scenario.Available != nil {
		if err := st.SetTourAvailable(ctx, *scenario.Available); err != nil {
			return nil, fmt.Errorf("seeding availability: %w", err)
		}
	}
	for _, id := range scenario.SeenTours {
		session.Mark(store.SessionMarkerKey(id))
	}

	rec := bridge.NewRecorder()
	sched := testutil.NewManualScheduler()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // suppress logs in tests

	eng := engine.New(ctx, reg, st, session,
		engine.WithBridge(rec),
		engine.WithEffects(fx),
		engine.WithScheduler(sched.Schedule),
		engine.WithLogger(logger),
	)

	h := &Harness{
		engine:   eng,
		recorder: rec,
		sched:    sched,
		logger:   logger,
	}

	result := NewResult()
	for i, op := range scenario.Ops {
		if err := h.executeOp(ctx, i, op, result); err != nil {
			return nil, err
		}
	}

	result.Final = eng.State()
	result.Available = eng.Available()

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}
	return result, nil
}

// executeOp runs one operation, records its trace event, and validates the
// expect clause if present.
func (h *Harness) executeOp(ctx context.Context, i int, op OpStep, result *Result) error {
	var state engine.State
	switch op.Op {
	case OpStart:
		state = h.engine.Start(ctx, op.Tour, false)
	case OpAutoStart:
		state = h.engine.Start(ctx, op.Tour, true)
	case OpNext:
		state = h.engine.Next(ctx)
	case OpPrev:
		state = h.engine.Prev(ctx)
	case OpSkip:
		state = h.engine.Skip(ctx)
	case OpGoTo:
		state = h.engine.GoTo(ctx, op.Index)
	case OpStop:
		state = h.engine.Stop(ctx)
	case OpToggle:
		if _, err := h.engine.ToggleAvailability(ctx); err != nil {
			result.AddError(fmt.Sprintf("ops[%d] toggle: %v", i, err))
		}
		state = h.engine.State()
	case OpReset:
		if err := h.engine.ResetAll(ctx); err != nil {
			result.AddError(fmt.Sprintf("ops[%d] reset: %v", i, err))
		}
		state = h.engine.State()
	case OpFireCleanup:
		h.sched.FirePending()
		state = h.engine.State()
	default:
		return fmt.Errorf("ops[%d]: unknown op %q", i, op.Op)
	}

	calls := h.recorder.Calls()
	event := TraceEvent{
		Op:     op.Op,
		Tour:   op.Tour,
		Index:  op.Index,
		State:  state,
		Bridge: calls[h.seen:],
		Seq:    i,
	}
	h.seen = len(calls)
	result.Trace = append(result.Trace, event)

	if op.Expect != nil {
		h.checkExpect(i, op, state, result)
	}
	return nil
}

// checkExpect validates an expect clause against the post-op state.
func (h *Harness) checkExpect(i int, op OpStep, state engine.State, result *Result) {
	exp := op.Expect
	if exp.Active != nil && state.Active != *exp.Active {
		result.AddError(fmt.Sprintf("ops[%d] %s: expected active=%v, got %v", i, op.Op, *exp.Active, state.Active))
	}
	if exp.Tour != "" && state.TourID != exp.Tour {
		result.AddError(fmt.Sprintf("ops[%d] %s: expected tour=%q, got %q", i, op.Op, exp.Tour, state.TourID))
	}
	if exp.Step != nil && state.StepIndex != *exp.Step {
		result.AddError(fmt.Sprintf("ops[%d] %s: expected step=%d, got %d", i, op.Op, *exp.Step, state.StepIndex))
	}
	if exp.Available != nil && h.engine.Available() != *exp.Available {
		result.AddError(fmt.Sprintf("ops[%d] %s: expected available=%v, got %v", i, op.Op, *exp.Available, h.engine.Available()))
	}
}

// EffectsForCatalog builds a registry covering every effect name a catalog
// references. Handlers are derived from the name by convention:
//
//	open-<affordance>   opens the affordance
//	close-<affordance>  closes the affordance
//	scroll-<target>     scrolls the target into view
//
// Any other name opens an affordance of that name.
func EffectsForCatalog(defs []tour.Definition) (*effects.Registry, error) {
	fx := effects.NewRegistry()
	for _, def := range defs {
		for _, step := range def.Steps {
			for _, name := range []string{step.OnNext, step.OnPrev, step.OnSkip} {
				if name == "" || fx.Has(name) {
					continue
				}
				if err := fx.Register(name, handlerFor(name)); err != nil {
					return nil, err
				}
			}
		}
	}
	return fx, nil
}

func handlerFor(name string) effects.Handler {
	switch {
	case strings.HasPrefix(name, "open-"):
		return effects.OpenAffordance(strings.TrimPrefix(name, "open-"))
	case strings.HasPrefix(name, "close-"):
		return effects.CloseAffordance(strings.TrimPrefix(name, "close-"))
	case strings.HasPrefix(name, "scroll-"):
		return effects.ScrollTo(strings.TrimPrefix(name, "scroll-"))
	default:
		return effects.OpenAffordance(name)
	}
}
