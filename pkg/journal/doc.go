// Package journal persists synchronization history.
//
// Every reconciliation cycle is recorded as one row: when it started,
// how long it took, how many parameters were desired, created, and
// updated, and the failure message if the cycle aborted. The journal
// backs the status display and post-hoc debugging of a misbehaving
// rule file; the bridge runs fine without it when disabled.
//
// Storage is a single SQLite database (pure-Go driver) with WAL mode
// enabled for concurrent readers.
package journal
