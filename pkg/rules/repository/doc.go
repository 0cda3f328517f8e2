// Package repository loads, validates, caches, and hot-reloads
// transformation rules from a JSON rule file.
//
// The Repository turns a rule-file path into a validated rule set and
// tracks whether that cached set still reflects the file on disk. A load
// validates every entry independently and partitions the batch into
// valid and invalid rules; per-rule failures never abort a load.
//
// File-level failures (missing file, read error, malformed JSON) degrade
// gracefully: when a previous successful load exists its snapshot backs
// the returned result, flagged with LoadedFromCache, and the repository
// is marked stale. The snapshot is only replaced by the next successful
// load.
//
// A Watcher owned by the repository reports external changes to the
// tracked file. A change notification does not trigger a reload: it
// flips the freshness flag and fans out a RulesChanged event, leaving
// the decision to reload to the subscriber. The fsnotify-backed
// FileWatcher is the production Watcher; tests drive OnFileChanged
// directly.
package repository
