// Package syncer is the data synchronization façade against the remote
// project-management API.
//
// It provides cached, tag-invalidated reads of domain resources (projects,
// commitments, buyout data, budget details and line items) and explicit
// mutation operations (server-side sync jobs, buyout upsert) that
// invalidate the affected cache tags.
//
// Consistency contract: invalidation happens only after a mutating request
// succeeds. A failed sync leaves prior cached reads valid and unchanged.
//
// This is a thin fetch-and-cache wrapper, not a resilient client: no
// retry, no backoff, no circuit breaking. Network and auth failures
// surface to the caller, which owns any retry policy. Concurrent reads of
// the same cache key collapse into a single in-flight request.
package syncer
