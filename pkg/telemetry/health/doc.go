// Package health exposes liveness and readiness probes for the bridge.
//
// Components register named check functions; the readiness endpoint
// runs them all and degrades to 503 when any fails. Typical checks are
// the tracking receiver's frame freshness and the journal database.
package health
