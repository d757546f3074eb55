// Package engine implements the guided tour state machine.
//
// The engine owns a single piece of runtime state - Idle, or
// Running(tourID, stepIndex) - and mutates it exclusively through the
// navigation operations (Start, Next, Prev, Skip, GoTo, Stop). UI code
// reads state through derived queries and never writes it directly.
//
// ARCHITECTURE:
//
// Invalid operations are no-ops, not errors. A tour overlay must never
// break the page hosting it, so unknown tour ids, navigation while idle,
// and out-of-range jumps are swallowed (logged at debug) rather than
// raised. Side-effect handler failures follow the same rule: caught,
// logged, and the transition continues.
//
// Versioned transitions:
// Every committed transition bumps a version counter. Side effects run
// outside the engine lock, between a state snapshot and a version-checked
// commit. A handler that synchronously calls back into the engine wins;
// the outer transition observes the version change and aborts as a no-op.
// The same check makes a stale deferred-cleanup timer harmless after a
// newer tour has started.
//
// Deferred cleanup:
// Completing, skipping, or stopping a tour leaves the engine Idle
// immediately but retains the last tour id for a short grace delay so exit
// animations have something to render. The cleanup is scheduled through an
// injectable Scheduler and cancelled by any newer Start or ResetAll.
//
// Session suppression:
// Auto-started tours set a session marker before transitioning; a second
// auto-start of the same tour in one session is a no-op. Explicit starts
// never consult markers.
package engine
