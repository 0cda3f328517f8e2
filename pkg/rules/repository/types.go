package repository

import (
	"time"

	"facelink/hermes/pkg/rules"
)

// LoadResult is the outcome of one load attempt. It is created once per
// call to LoadRules and never mutated after return.
type LoadResult struct {
	// ValidRules are the rules that validated and compiled cleanly.
	ValidRules []*rules.CompiledRule

	// InvalidRules are the entries that failed validation, each with
	// its failure message.
	InvalidRules []rules.InvalidRule

	// ValidationErrors collects the failure message of every invalid
	// rule, one string per entry, in file order.
	ValidationErrors []string

	// LoadedFromCache is true when a file-level failure was absorbed by
	// serving the previous successful snapshot.
	LoadedFromCache bool

	// LoadError is the file-level failure description, empty on a
	// successful load.
	LoadError string
}

// State describes the repository's tracking of its rule file.
type State struct {
	// CurrentFilePath is the absolute path of the tracked file, empty
	// before the first successful load.
	CurrentFilePath string

	// IsUpToDate is true only immediately after a successful load; it
	// turns false on a load failure or an external change notification
	// for the tracked path.
	IsUpToDate bool

	// LastLoadTime is the wall-clock time of the last successful load.
	// Zero if no load has ever succeeded.
	LastLoadTime time.Time
}

// RulesChangedEvent notifies subscribers that the tracked rule file
// changed on disk. The cached snapshot is stale until the next
// successful load.
type RulesChangedEvent struct {
	// Path is the absolute path of the changed file.
	Path string
}
