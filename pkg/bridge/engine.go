package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"facelink/hermes/pkg/avatar"
	"facelink/hermes/pkg/avatar/reconciler"
	"facelink/hermes/pkg/journal"
	"facelink/hermes/pkg/rules"
	"facelink/hermes/pkg/rules/repository"
	"facelink/hermes/pkg/telemetry/metrics"
)

// RuleSource supplies compiled rule snapshots and change notifications.
// *repository.Repository satisfies this.
type RuleSource interface {
	LoadRules(ctx context.Context, path string) (*repository.LoadResult, error)
	Subscribe(handler func(repository.RulesChangedEvent))
}

// Synchronizer reconciles and injects parameters on the avatar
// endpoint. *reconciler.Reconciler satisfies this.
type Synchronizer interface {
	Synchronize(ctx context.Context, desired []avatar.Parameter) (reconciler.Stats, error)
	InjectValues(ctx context.Context, parameters []avatar.Parameter) error
}

// TrackingSource supplies the latest tracking values.
// *tracking.Receiver satisfies this.
type TrackingSource interface {
	Latest() (map[string]float64, time.Time)
	Stale(maxAge time.Duration) bool
}

// Recorder persists completed synchronization passes.
// *journal.Journal satisfies this.
type Recorder interface {
	Record(ctx context.Context, entry *journal.Entry) error
}

// Config contains configuration for the Engine.
type Config struct {
	// RulesPath is the rule file loaded on start and on change
	// notifications.
	RulesPath string

	// SyncInterval is how often live values are pushed to the endpoint.
	// Default: 50 milliseconds.
	SyncInterval time.Duration

	// FullResyncSchedule is an optional cron expression for periodic
	// full reconciliation passes. Empty disables the schedule.
	FullResyncSchedule string

	// StaleAfter is how old the latest tracking frame may be before
	// injection is skipped. Default: 2 seconds.
	StaleAfter time.Duration
}

func (c *Config) applyDefaults() {
	if c.SyncInterval <= 0 {
		c.SyncInterval = 50 * time.Millisecond
	}
	if c.StaleAfter <= 0 {
		c.StaleAfter = 2 * time.Second
	}
}

// Dependencies are the Engine's collaborators. Rules and Reconciler are
// required; Tracking, Journal, and Metrics may be nil, disabling
// injection, history, and instrumentation respectively.
type Dependencies struct {
	Rules      RuleSource
	Reconciler Synchronizer
	Tracking   TrackingSource
	Journal    Recorder
	Metrics    *metrics.Collector
}

// Engine drives the tracking-to-avatar pipeline.
type Engine struct {
	cfg    Config
	deps   Dependencies
	logger *slog.Logger

	// mu guards compiled, the current rule snapshot.
	mu       sync.Mutex
	compiled []*rules.CompiledRule

	// reloadCh and resyncCh coalesce pending work for the run loop.
	reloadCh chan struct{}
	resyncCh chan struct{}
}

// New creates an Engine. Rules and Reconciler must be set.
func New(cfg Config, deps Dependencies, logger *slog.Logger) (*Engine, error) {
	if deps.Rules == nil {
		return nil, fmt.Errorf("rule source cannot be nil")
	}
	if deps.Reconciler == nil {
		return nil, fmt.Errorf("reconciler cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	cfg.applyDefaults()

	return &Engine{
		cfg:      cfg,
		deps:     deps,
		logger:   logger.With("component", "bridge"),
		reloadCh: make(chan struct{}, 1),
		resyncCh: make(chan struct{}, 1),
	}, nil
}

// Reload loads the rule file and swaps in the new snapshot. A failed
// load without a cached snapshot keeps the engine's previous rules.
func (e *Engine) Reload(ctx context.Context) error {
	result, err := e.deps.Rules.LoadRules(ctx, e.cfg.RulesPath)
	if err != nil {
		return err
	}

	outcome := "success"
	switch {
	case result.LoadedFromCache:
		outcome = "cached"
	case result.LoadError != "":
		outcome = "failure"
	}

	if e.deps.Metrics != nil {
		e.deps.Metrics.Rules.RecordLoad(outcome, len(result.ValidRules), len(result.InvalidRules))
	}

	for _, invalid := range result.InvalidRules {
		e.logger.Warn("rule rejected",
			"rule", invalid.Name,
			"error", invalid.Err)
	}

	if result.LoadError != "" && !result.LoadedFromCache {
		e.logger.Error("rule load failed, keeping previous rules",
			"path", e.cfg.RulesPath,
			"error", result.LoadError)
		return nil
	}

	e.mu.Lock()
	e.compiled = result.ValidRules
	e.mu.Unlock()

	e.logger.Info("rules loaded",
		"path", e.cfg.RulesPath,
		"valid", len(result.ValidRules),
		"invalid", len(result.InvalidRules),
		"cached", result.LoadedFromCache)

	return nil
}

// Desired evaluates every rule against the given tracking values and
// returns the desired parameter list, in rule order.
func (e *Engine) Desired(values map[string]float64) []avatar.Parameter {
	e.mu.Lock()
	compiled := e.compiled
	e.mu.Unlock()

	desired := make([]avatar.Parameter, 0, len(compiled))
	for _, rule := range compiled {
		desired = append(desired, avatar.Parameter{
			Name:         rule.Name,
			Min:          rule.Min,
			Max:          rule.Max,
			DefaultValue: rule.DefaultValue,
			Value:        rule.Evaluate(values),
		})
	}
	return desired
}

// FullSync runs one reconciliation pass against the endpoint and
// records it in the journal.
func (e *Engine) FullSync(ctx context.Context) error {
	values := e.trackingValues()
	desired := e.Desired(values)

	started := time.Now()
	stats, err := e.deps.Reconciler.Synchronize(ctx, desired)
	elapsed := time.Since(started)

	outcome := "success"
	failure := ""
	if err != nil {
		outcome = "failure"
		failure = err.Error()
	}

	if e.deps.Metrics != nil {
		e.deps.Metrics.Sync.RecordCycle(outcome, stats.Created, stats.Updated, elapsed)
	}

	if e.deps.Journal != nil {
		entry := &journal.Entry{
			StartedAt: started,
			Duration:  elapsed,
			Desired:   stats.Desired,
			Created:   stats.Created,
			Updated:   stats.Updated,
			Error:     failure,
		}
		if recordErr := e.deps.Journal.Record(ctx, entry); recordErr != nil {
			e.logger.Warn("failed to record sync cycle", "error", recordErr)
		}
	}

	if err != nil {
		return err
	}

	e.logger.Debug("reconciliation pass complete",
		"desired", stats.Desired,
		"created", stats.Created,
		"updated", stats.Updated,
		"duration", elapsed)

	return nil
}

// inject pushes one batch of live values. Skipped when no tracking
// source is wired or the latest frame is stale.
func (e *Engine) inject(ctx context.Context) {
	if e.deps.Tracking == nil || e.deps.Tracking.Stale(e.cfg.StaleAfter) {
		return
	}

	values, _ := e.deps.Tracking.Latest()
	desired := e.Desired(values)
	if len(desired) == 0 {
		return
	}

	if err := e.deps.Reconciler.InjectValues(ctx, desired); err != nil {
		e.logger.Warn("value injection failed", "error", err)
		return
	}

	if e.deps.Metrics != nil {
		e.deps.Metrics.Sync.RecordInjection(len(desired))
	}
}

// trackingValues returns the latest frame's values, or an empty binding
// set when tracking is absent or stale. Rules still evaluate; unbound
// identifiers read as zero.
func (e *Engine) trackingValues() map[string]float64 {
	if e.deps.Tracking == nil || e.deps.Tracking.Stale(e.cfg.StaleAfter) {
		return nil
	}
	values, _ := e.deps.Tracking.Latest()
	return values
}

// Run loads the rules, performs an initial reconciliation pass, and
// then drives the pipeline until ctx is cancelled: live values on every
// tick, a reload plus full pass on rule-file changes, and a full pass
// on the cron schedule. The initial reconciliation failure is returned;
// later failures are logged and retried on the next trigger.
func (e *Engine) Run(ctx context.Context) error {
	e.deps.Rules.Subscribe(func(repository.RulesChangedEvent) {
		select {
		case e.reloadCh <- struct{}{}:
		default:
		}
	})

	if err := e.Reload(ctx); err != nil {
		return fmt.Errorf("initial rule load: %w", err)
	}
	if err := e.FullSync(ctx); err != nil {
		return fmt.Errorf("initial reconciliation: %w", err)
	}

	var scheduler *cron.Cron
	if e.cfg.FullResyncSchedule != "" {
		scheduler = cron.New()
		_, err := scheduler.AddFunc(e.cfg.FullResyncSchedule, func() {
			select {
			case e.resyncCh <- struct{}{}:
			default:
			}
		})
		if err != nil {
			return fmt.Errorf("invalid resync schedule %q: %w", e.cfg.FullResyncSchedule, err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	ticker := time.NewTicker(e.cfg.SyncInterval)
	defer ticker.Stop()

	e.logger.Info("bridge running",
		"sync_interval", e.cfg.SyncInterval,
		"resync_schedule", e.cfg.FullResyncSchedule)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-e.reloadCh:
			if err := e.Reload(ctx); err != nil {
				e.logger.Error("rule reload failed", "error", err)
				continue
			}
			if err := e.FullSync(ctx); err != nil {
				e.logger.Error("reconciliation after reload failed", "error", err)
			}

		case <-e.resyncCh:
			if err := e.FullSync(ctx); err != nil {
				e.logger.Error("scheduled reconciliation failed", "error", err)
			}

		case <-ticker.C:
			e.inject(ctx)
		}
	}
}
