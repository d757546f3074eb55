// Package effects maps tour step transitions to runtime side-effect
// handlers. Tour definitions reference handlers by name, so catalogs stay
// serializable; the registry resolves names to functions when a transition
// actually fires.
package effects

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/hb-platform/guidesync/internal/bridge"
)

// Handler performs a navigation side effect. Handlers act on the UI only
// through the bridge; they are fire-and-forget from the engine's point of
// view - a returned error is logged, never propagated to the caller.
type Handler func(ctx context.Context, b bridge.Bridge) error

// Registry stores side-effect handlers keyed by name.
//
// Thread-safety: all methods are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register stores fn under name, guarding against duplicates.
func (r *Registry) Register(name string, fn Handler) error {
	if fn == nil {
		return fmt.Errorf("effects: handler %q is nil", name)
	}
	if name == "" {
		return fmt.Errorf("effects: handler name must not be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handlers == nil {
		r.handlers = make(map[string]Handler)
	}
	key := strings.ToLower(name)
	if _, exists := r.handlers[key]; exists {
		return fmt.Errorf("effects: handler %q already registered", name)
	}
	r.handlers[key] = fn
	return nil
}

// Resolve returns the handler registered under name, or nil when unknown.
// A nil registry resolves nothing.
func (r *Registry) Resolve(name string) Handler {
	if r == nil || name == "" {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.handlers[strings.ToLower(name)]
}

// Has reports whether a handler is registered under name.
func (r *Registry) Has(name string) bool {
	return r.Resolve(name) != nil
}

// Names returns registered handler names sorted alphabetically.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OpenAffordance returns a handler that opens the named affordance. The
// common tour side effect - a step that needs a dropdown or panel open
// before the next step can anchor to something inside it.
func OpenAffordance(affordanceID string) Handler {
	return func(ctx context.Context, b bridge.Bridge) error {
		return b.EnsureOpen(ctx, affordanceID)
	}
}

// CloseAffordance returns a handler that closes the named affordance.
func CloseAffordance(affordanceID string) Handler {
	return func(ctx context.Context, b bridge.Bridge) error {
		return b.CloseAffordance(ctx, affordanceID)
	}
}

// ScrollTo returns a handler that scrolls the target into view.
func ScrollTo(target string) Handler {
	return func(ctx context.Context, b bridge.Bridge) error {
		return b.ScrollIntoView(ctx, target)
	}
}
