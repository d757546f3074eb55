// Package store provides the persistence layer for guidesync state.
//
// Three concerns live here:
//
//   - Durable preferences: a SQLite-backed key/value table holding the tour
//     availability preference (key "hb-tour-available", absent means true)
//     and any other hb- prefixed client state.
//   - Session markers: an in-memory, session-lifetime set recording which
//     tours have already been auto-started (keys "hb-tour-shown-<tourId>").
//     Markers vanish with the process, matching session-scoped storage.
//   - Sync journal: an audit table of data synchronization jobs submitted
//     through the sync façade.
//
// Reset semantics follow the client storage contract: clearing removes every
// key whose name starts with "hb-tour-" or "hb-welcome-" from both durable
// and session storage.
package store
