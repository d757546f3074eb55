package engine

import (
	"context"
	"sort"
	"sync"

	"github.com/hb-platform/guidesync/internal/bridge"
)

// trackingBridge wraps the configured bridge and remembers which
// affordances tour side effects opened, so Stop can close them again.
// The underlying bridge treats redundant closes as no-ops, making the
// cleanup safe to run on an already-idle engine.
type trackingBridge struct {
	bridge.Bridge

	mu     sync.Mutex
	opened map[string]bool
}

func newTrackingBridge(b bridge.Bridge) *trackingBridge {
	return &trackingBridge{Bridge: b, opened: make(map[string]bool)}
}

func (t *trackingBridge) EnsureOpen(ctx context.Context, affordanceID string) error {
	t.mu.Lock()
	t.opened[affordanceID] = true
	t.mu.Unlock()
	return t.Bridge.EnsureOpen(ctx, affordanceID)
}

func (t *trackingBridge) CloseAffordance(ctx context.Context, affordanceID string) error {
	t.mu.Lock()
	delete(t.opened, affordanceID)
	t.mu.Unlock()
	return t.Bridge.CloseAffordance(ctx, affordanceID)
}

// closeAll closes every affordance opened since the last cleanup and
// clears the highlight. Errors are returned for the caller to log; cleanup
// is best-effort.
func (t *trackingBridge) closeAll(ctx context.Context) []error {
	t.mu.Lock()
	ids := make([]string, 0, len(t.opened))
	for id := range t.opened {
		ids = append(ids, id)
	}
	t.opened = make(map[string]bool)
	t.mu.Unlock()
	sort.Strings(ids)

	var errs []error
	for _, id := range ids {
		if err := t.Bridge.CloseAffordance(ctx, id); err != nil {
			errs = append(errs, err)
		}
	}
	if err := t.Bridge.ClearHighlight(ctx); err != nil {
		errs = append(errs, err)
	}
	return errs
}
