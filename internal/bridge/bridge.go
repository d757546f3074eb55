// Package bridge abstracts the UI surface the tour engine acts on.
//
// The engine and side-effect handlers never touch the rendering layer
// directly; they call the Bridge interface and a platform adapter (browser
// overlay, console, test recorder) carries the operations out. All bridge
// operations are best-effort: a target that no longer exists is not an
// error condition for a tour overlay.
package bridge

import (
	"context"
	"log/slog"
)

// Bridge is the capability surface tours act through.
//
// AffordanceID names an openable UI element (dropdown, side panel);
// target is a selector for the element a step anchors to.
type Bridge interface {
	// EnsureOpen opens the named affordance if it is not already open.
	EnsureOpen(ctx context.Context, affordanceID string) error

	// CloseAffordance closes the named affordance. Closing an affordance
	// that is not open is a no-op, so cleanup is safe to run redundantly.
	CloseAffordance(ctx context.Context, affordanceID string) error

	// ScrollIntoView brings the target element into the viewport.
	ScrollIntoView(ctx context.Context, target string) error

	// Highlight anchors the tour highlight to the target element.
	Highlight(ctx context.Context, target string) error

	// ClearHighlight removes any active highlight.
	ClearHighlight(ctx context.Context) error
}

// Noop is a Bridge that does nothing. Used when the engine runs without a
// UI surface (validation, headless walkthroughs).
type Noop struct{}

func (Noop) EnsureOpen(context.Context, string) error      { return nil }
func (Noop) CloseAffordance(context.Context, string) error { return nil }
func (Noop) ScrollIntoView(context.Context, string) error  { return nil }
func (Noop) Highlight(context.Context, string) error       { return nil }
func (Noop) ClearHighlight(context.Context) error          { return nil }

// Console logs every bridge operation. Used by the CLI `play` command to
// make tour side effects visible in a terminal session.
type Console struct {
	Logger *slog.Logger
}

func (c Console) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

func (c Console) EnsureOpen(_ context.Context, affordanceID string) error {
	c.logger().Info("bridge: ensure open", "affordance", affordanceID)
	return nil
}

func (c Console) CloseAffordance(_ context.Context, affordanceID string) error {
	c.logger().Info("bridge: close affordance", "affordance", affordanceID)
	return nil
}

func (c Console) ScrollIntoView(_ context.Context, target string) error {
	c.logger().Info("bridge: scroll into view", "target", target)
	return nil
}

func (c Console) Highlight(_ context.Context, target string) error {
	c.logger().Info("bridge: highlight", "target", target)
	return nil
}

func (c Console) ClearHighlight(context.Context) error {
	c.logger().Info("bridge: clear highlight")
	return nil
}
