package state

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nudgeapp/nudge/pkg/task"
)

var base = time.Date(2025, 6, 3, 10, 0, 0, 0, time.Local)

func TestCanRemindAny(t *testing.T) {
	s := New()

	// Never reminded
	assert.True(t, s.CanRemindAny(base, DefaultReminderSpacing))

	s.RecordReminder(task.Task{Text: "a", NoteTitle: "n"}, base)

	// 10 minutes later: still inside the spacing window
	assert.False(t, s.CanRemindAny(base.Add(10*time.Minute), DefaultReminderSpacing))

	// Exactly at the threshold counts as elapsed
	assert.True(t, s.CanRemindAny(base.Add(45*time.Minute), DefaultReminderSpacing))

	// 50 minutes later: open
	assert.True(t, s.CanRemindAny(base.Add(50*time.Minute), DefaultReminderSpacing))
}

func TestCanRemindTask(t *testing.T) {
	s := New()
	a := task.Task{Text: "call dentist", NoteTitle: "Tasks"}

	// No record yet
	assert.True(t, s.CanRemindTask(a, base, DefaultTaskCooldown))

	s.RecordReminder(a, base)

	assert.False(t, s.CanRemindTask(a, base.Add(2*time.Hour), DefaultTaskCooldown))
	assert.True(t, s.CanRemindTask(a, base.Add(4*time.Hour), DefaultTaskCooldown))

	// A different task with the same text is unaffected
	b := task.Task{Text: "call dentist", NoteTitle: "Other"}
	assert.True(t, s.CanRemindTask(b, base.Add(time.Minute), DefaultTaskCooldown))
}

func eligible(tasks ...task.Task) []task.Categorized {
	cts := make([]task.Categorized, len(tasks))
	for i, tk := range tasks {
		cts[i] = task.Categorized{Task: tk, Category: task.CategoryGeneral}
	}
	return cts
}

func TestSelectCandidateLowestCount(t *testing.T) {
	s := New()
	a := task.Task{Text: "a", NoteTitle: "n"}
	b := task.Task{Text: "b", NoteTitle: "n"}

	s.RecordReminder(a, base.Add(-5*time.Hour))

	got, ok := s.SelectCandidate(eligible(a, b), base, DefaultTaskCooldown)
	require.True(t, ok)
	assert.Equal(t, "b", got.Task.Text)
}

func TestSelectCandidateTieGoesToInputOrder(t *testing.T) {
	s := New()
	a := task.Task{Text: "a", NoteTitle: "n"}
	b := task.Task{Text: "b", NoteTitle: "n"}

	got, ok := s.SelectCandidate(eligible(a, b), base, DefaultTaskCooldown)
	require.True(t, ok)
	assert.Equal(t, "a", got.Task.Text)

	got, ok = s.SelectCandidate(eligible(b, a), base, DefaultTaskCooldown)
	require.True(t, ok)
	assert.Equal(t, "b", got.Task.Text)
}

func TestSelectCandidateSkipsCooldown(t *testing.T) {
	s := New()
	a := task.Task{Text: "a", NoteTitle: "n"}
	b := task.Task{Text: "b", NoteTitle: "n"}

	// a was just reminded; b was reminded twice but long ago.
	s.RecordReminder(b, base.Add(-10*time.Hour))
	s.RecordReminder(b, base.Add(-5*time.Hour))
	s.RecordReminder(a, base.Add(-10*time.Minute))

	// a has the lower count but is in cooldown, so b wins.
	got, ok := s.SelectCandidate(eligible(a, b), base, DefaultTaskCooldown)
	require.True(t, ok)
	assert.Equal(t, "b", got.Task.Text)
}

func TestSelectCandidateNoneAvailable(t *testing.T) {
	s := New()
	a := task.Task{Text: "a", NoteTitle: "n"}
	s.RecordReminder(a, base)

	_, ok := s.SelectCandidate(eligible(a), base.Add(time.Minute), DefaultTaskCooldown)
	assert.False(t, ok)

	_, ok = s.SelectCandidate(nil, base, DefaultTaskCooldown)
	assert.False(t, ok)
}

func TestRecordReminderUpsert(t *testing.T) {
	s := New()
	a := task.Task{Text: "water plants", Section: "home", NoteTitle: "Chores"}

	s.RecordReminder(a, base)

	rec, ok := s.TaskStates[a.Key()]
	require.True(t, ok)
	assert.Equal(t, "water plants", rec.TaskText)
	assert.Equal(t, "Chores", rec.NoteTitle)
	assert.Equal(t, 1, rec.ReminderCount)
	assert.True(t, rec.LastReminded.Equal(base))

	later := base.Add(5 * time.Hour)
	s.RecordReminder(a, later)

	rec = s.TaskStates[a.Key()]
	assert.Equal(t, 2, rec.ReminderCount)
	assert.True(t, rec.LastReminded.Equal(later))
	assert.Equal(t, 2, s.Count(a))
}

func TestLastAnyReminderNeverMovesBackwards(t *testing.T) {
	s := New()
	a := task.Task{Text: "a", NoteTitle: "n"}
	b := task.Task{Text: "b", NoteTitle: "n"}

	s.RecordReminder(a, base)
	require.NotNil(t, s.LastAnyReminder)
	assert.True(t, s.LastAnyReminder.Equal(base))

	// Recording with an earlier timestamp keeps the newer clock value.
	s.RecordReminder(b, base.Add(-time.Hour))
	assert.True(t, s.LastAnyReminder.Equal(base))
}

func TestCleanup(t *testing.T) {
	s := New()
	a := task.Task{Text: "a", NoteTitle: "n"}
	b := task.Task{Text: "b", NoteTitle: "n"}

	s.RecordReminder(a, base)
	s.RecordReminder(b, base)
	require.Len(t, s.TaskStates, 2)

	s.Cleanup([]task.Task{a})
	assert.Len(t, s.TaskStates, 1)
	assert.Contains(t, s.TaskStates, a.Key())

	// Idempotent
	s.Cleanup([]task.Task{a})
	assert.Len(t, s.TaskStates, 1)

	s.Cleanup(nil)
	assert.Empty(t, s.TaskStates)
}

func TestCountUnknownTask(t *testing.T) {
	s := New()
	assert.Equal(t, 0, s.Count(task.Task{Text: "x", NoteTitle: "n"}))
}

func TestFairRotationSpread(t *testing.T) {
	s := New()

	tasks := make([]task.Task, 5)
	for i := range tasks {
		tasks[i] = task.Task{Text: fmt.Sprintf("task-%d", i), NoteTitle: "n"}
	}

	// Simulate 23 reminder cycles spaced past every cooldown.
	now := base
	for i := 0; i < 23; i++ {
		got, ok := s.SelectCandidate(eligible(tasks...), now, DefaultTaskCooldown)
		require.True(t, ok)
		s.RecordReminder(got.Task, now)
		now = now.Add(5 * time.Hour)
	}

	min, max := -1, 0
	for _, tk := range tasks {
		c := s.Count(tk)
		if min == -1 || c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	assert.LessOrEqual(t, max-min, 1, "reminder counts should stay within 1 of each other")
}
