// Package reconciler keeps the avatar endpoint's custom parameter set
// aligned with a desired parameter list.
//
// Synchronize fetches the endpoint's current parameters, then upserts
// each desired parameter in list order: an Update when the name already
// exists remotely, a Create when it does not. Both intents use the same
// upsert wire message; the endpoint is the source of truth for whether
// the name existed. Remote parameters absent from the desired list are
// left untouched; deletion is a separate, explicitly invoked capability.
//
// Failures are logged once, with the causing message, and returned to
// the caller unchanged. The caller owns retry policy.
package reconciler
