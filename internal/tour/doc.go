// Package tour provides the serializable data model for guided product
// tours: tour definitions, ordered steps, and the registry that exposes
// them to the rest of the application.
//
// This package contains data types and lookups only. Engine, compiler, and
// CLI all import tour; tour imports nothing internal. Definitions are
// read-only after load - step order is fixed at definition time.
//
// Step side effects are referenced by name (onNext/onPrev/onSkip fields
// hold effect names, never function values), so catalogs remain fully
// serializable and can be loaded from configuration.
package tour
