// Package engine runs the reminder cycle: collect tasks, gate on
// pacing, pick the fairest candidate, notify, record.
package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nudgeapp/nudge/pkg/collect"
	"github.com/nudgeapp/nudge/pkg/notify"
	"github.com/nudgeapp/nudge/pkg/state"
	"github.com/nudgeapp/nudge/pkg/task"
)

// DefaultCheckInterval is how often the background loop looks for a
// reminder to send.
const DefaultCheckInterval = 10 * time.Minute

// Options configures an Engine. Collector, Notifier, and Store are
// required; zero durations fall back to package defaults.
type Options struct {
	Collector collect.Collector
	Notifier  notify.Notifier
	Store     *state.Store
	Log       *zap.Logger

	CheckInterval   time.Duration
	ReminderSpacing time.Duration
	TaskCooldown    time.Duration
}

// SkipReason says why a check cycle sent nothing.
type SkipReason string

const (
	SkipGlobalCooldown SkipReason = "global_cooldown"
	SkipNoEligible     SkipReason = "no_eligible_tasks"
)

// Outcome reports what one reminder cycle did.
type Outcome struct {
	Sent     bool
	Task     task.Task
	Category task.Category
	Reason   SkipReason
	Err      error
}

// String renders the outcome for status surfaces.
func (o Outcome) String() string {
	switch {
	case o.Sent:
		return "reminder sent: " + o.Task.Text
	case o.Err != nil:
		return "reminder check failed: " + o.Err.Error()
	case o.Reason == SkipGlobalCooldown:
		return "skipped: waiting out the reminder spacing"
	case o.Reason == SkipNoEligible:
		return "skipped: no eligible tasks right now"
	default:
		return "nothing to do"
	}
}

// Engine ties the collector, categorizer, reminder state, and notifier
// together. One mutex serializes every state read-modify-write;
// collection and categorization run outside it.
type Engine struct {
	collector collect.Collector
	notifier  notify.Notifier
	store     *state.Store
	log       *zap.Logger

	interval time.Duration
	spacing  time.Duration
	cooldown time.Duration

	now func() time.Time

	mu    sync.Mutex
	st    *state.AppState
	tasks []task.Task
}

// New loads persisted state and returns a ready engine. A state file
// that cannot be read degrades to empty state with a logged warning.
func New(opts Options) *Engine {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		collector: opts.Collector,
		notifier:  opts.Notifier,
		store:     opts.Store,
		log:       log,
		interval:  opts.CheckInterval,
		spacing:   opts.ReminderSpacing,
		cooldown:  opts.TaskCooldown,
		now:       time.Now,
	}
	if e.interval <= 0 {
		e.interval = DefaultCheckInterval
	}
	if e.spacing <= 0 {
		e.spacing = state.DefaultReminderSpacing
	}
	if e.cooldown <= 0 {
		e.cooldown = state.DefaultTaskCooldown
	}

	st, err := e.store.Load()
	if err != nil {
		log.Warn("starting with empty reminder state", zap.Error(err))
	}
	e.st = st
	return e
}

// Refresh collects the current task set and reconciles reminder history
// against it. A collection failure zeroes the snapshot for this cycle
// but leaves reminder history untouched.
func (e *Engine) Refresh(ctx context.Context) error {
	tasks, err := e.collector.Collect(ctx)
	if err != nil {
		var srcErr *collect.SourceError
		if errors.As(err, &srcErr) && srcErr.Hint != "" {
			e.log.Error("task collection failed",
				zap.Error(err), zap.String("hint", srcErr.Hint))
		} else {
			e.log.Error("task collection failed", zap.Error(err))
		}
		e.mu.Lock()
		e.tasks = nil
		e.mu.Unlock()
		return err
	}

	e.mu.Lock()
	e.tasks = tasks
	e.st.Cleanup(tasks)
	e.save()
	e.mu.Unlock()

	e.log.Debug("task snapshot refreshed", zap.Int("tasks", len(tasks)))
	return nil
}

// CheckAndRemind is the periodic cadence: refresh, then the reminder
// sequence. A failed refresh leaves the cycle with zero tasks and rides
// along on the outcome.
func (e *Engine) CheckAndRemind(ctx context.Context) Outcome {
	refreshErr := e.Refresh(ctx)
	out := e.check(ctx, "periodic")
	if out.Err == nil {
		out.Err = refreshErr
	}
	return out
}

// TriggerNow is the on-demand cadence. It runs the same sequence as the
// periodic one against the current snapshot.
func (e *Engine) TriggerNow(ctx context.Context) Outcome {
	return e.check(ctx, "manual")
}

// check runs the gate, select, notify, record sequence. Both cadences
// use it unchanged. The reminder is recorded only after the notifier
// accepts it.
func (e *Engine) check(ctx context.Context, cadence string) Outcome {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	log := e.log.With(zap.String("cadence", cadence))

	if !e.st.CanRemindAny(now, e.spacing) {
		log.Debug("reminder blocked by global spacing")
		return Outcome{Reason: SkipGlobalCooldown}
	}

	eligible := task.EligibleTasks(e.tasks, now)
	selected, ok := e.st.SelectCandidate(eligible, now, e.cooldown)
	if !ok {
		log.Debug("no task eligible for reminder",
			zap.Int("tasks", len(e.tasks)), zap.Int("in_window", len(eligible)))
		return Outcome{Reason: SkipNoEligible}
	}

	if err := e.notifier.Notify(ctx, notify.ForTask(selected.Task)); err != nil {
		log.Error("notification failed",
			zap.Error(err), zap.String("task", selected.Task.Text))
		return Outcome{Task: selected.Task, Category: selected.Category, Err: err}
	}

	e.st.RecordReminder(selected.Task, now)
	e.save()

	log.Info("reminder sent",
		zap.String("task", selected.Task.Text),
		zap.String("category", string(selected.Category)),
		zap.Int("count", e.st.Count(selected.Task)))
	return Outcome{Sent: true, Task: selected.Task, Category: selected.Category}
}

// TestNotification sends the delivery check notification.
func (e *Engine) TestNotification(ctx context.Context) error {
	return e.notifier.Notify(ctx, notify.ForTest())
}

// Snapshot is a point-in-time copy of engine state for rendering.
type Snapshot struct {
	Tasks        []task.Task
	Counts       map[string]int
	LastReminder *time.Time
}

// Snapshot copies the current tasks and reminder bookkeeping. The
// result shares nothing mutable with the engine.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		Tasks:  make([]task.Task, len(e.tasks)),
		Counts: make(map[string]int, len(e.tasks)),
	}
	copy(s.Tasks, e.tasks)
	for _, t := range e.tasks {
		s.Counts[t.Key()] = e.st.Count(t)
	}
	if e.st.LastAnyReminder != nil {
		ts := *e.st.LastAnyReminder
		s.LastReminder = &ts
	}
	return s
}

// Flush persists the current state. Called on shutdown.
func (e *Engine) Flush() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.store.Save(e.st)
}

// Run drives the periodic cadence until ctx is canceled, then flushes
// state one final time.
func (e *Engine) Run(ctx context.Context) error {
	e.log.Info("reminder loop started", zap.Duration("interval", e.interval))
	e.Refresh(ctx)

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			if err := e.Flush(); err != nil {
				e.log.Error("final state flush failed", zap.Error(err))
			}
			return nil
		case <-ticker.C:
			e.CheckAndRemind(ctx)
		}
	}
}

// save persists state. Callers hold mu. A failed save keeps the
// in-memory state authoritative; the next mutation retries.
func (e *Engine) save() {
	if err := e.store.Save(e.st); err != nil {
		e.log.Error("saving reminder state failed", zap.Error(err))
	}
}
