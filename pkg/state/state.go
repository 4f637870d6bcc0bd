// Package state tracks reminder history and decides which task gets the
// next reminder.
package state

import (
	"time"

	"github.com/nudgeapp/nudge/pkg/task"
)

// Default pacing thresholds.
const (
	// DefaultReminderSpacing is the minimum gap between any two reminders.
	DefaultReminderSpacing = 45 * time.Minute

	// DefaultTaskCooldown is how long a single task stays quiet after a
	// reminder.
	DefaultTaskCooldown = 4 * time.Hour
)

// ReminderRecord is the reminder history for a single task.
type ReminderRecord struct {
	TaskText      string    `json:"task_text"`
	NoteTitle     string    `json:"note_title"`
	LastReminded  time.Time `json:"last_reminded"`
	ReminderCount int       `json:"reminder_count"`
}

// AppState is the complete persisted application state. TaskStates is
// keyed by task.Key().
type AppState struct {
	TaskStates      map[string]ReminderRecord `json:"task_states"`
	LastAnyReminder *time.Time                `json:"last_any_reminder"`
}

// New returns an empty state.
func New() *AppState {
	return &AppState{TaskStates: make(map[string]ReminderRecord)}
}

// CanRemindAny reports whether the global spacing gate is open at now.
func (s *AppState) CanRemindAny(now time.Time, spacing time.Duration) bool {
	if s.LastAnyReminder == nil {
		return true
	}
	return now.Sub(*s.LastAnyReminder) >= spacing
}

// CanRemindTask reports whether the per-task cooldown has elapsed for t.
// Tasks without a record can always be reminded.
func (s *AppState) CanRemindTask(t task.Task, now time.Time, cooldown time.Duration) bool {
	rec, ok := s.TaskStates[t.Key()]
	if !ok {
		return true
	}
	return now.Sub(rec.LastReminded) >= cooldown
}

// SelectCandidate picks the task that has been reminded about the fewest
// times among those past their cooldown. Ties go to the earliest task in
// input order, so rotation is fair and deterministic.
func (s *AppState) SelectCandidate(eligible []task.Categorized, now time.Time, cooldown time.Duration) (task.Categorized, bool) {
	var best task.Categorized
	bestCount := -1

	for _, ct := range eligible {
		if !s.CanRemindTask(ct.Task, now, cooldown) {
			continue
		}
		count := s.Count(ct.Task)
		if bestCount == -1 || count < bestCount {
			best = ct
			bestCount = count
		}
	}

	return best, bestCount >= 0
}

// RecordReminder upserts the record for t and advances the global
// reminder clock. LastAnyReminder never moves backwards.
func (s *AppState) RecordReminder(t task.Task, now time.Time) {
	key := t.Key()
	if rec, ok := s.TaskStates[key]; ok {
		rec.LastReminded = now
		rec.ReminderCount++
		s.TaskStates[key] = rec
	} else {
		s.TaskStates[key] = ReminderRecord{
			TaskText:      t.Text,
			NoteTitle:     t.NoteTitle,
			LastReminded:  now,
			ReminderCount: 1,
		}
	}

	if s.LastAnyReminder == nil || now.After(*s.LastAnyReminder) {
		ts := now
		s.LastAnyReminder = &ts
	}
}

// Cleanup drops records for tasks absent from the current snapshot; a
// missing task was checked off or deleted upstream.
func (s *AppState) Cleanup(current []task.Task) {
	keep := make(map[string]bool, len(current))
	for _, t := range current {
		keep[t.Key()] = true
	}
	for key := range s.TaskStates {
		if !keep[key] {
			delete(s.TaskStates, key)
		}
	}
}

// Count returns how many reminders t has received.
func (s *AppState) Count(t task.Task) int {
	return s.TaskStates[t.Key()].ReminderCount
}
