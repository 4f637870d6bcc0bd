// Package task models the items collected from notes and decides which
// of them deserve attention at a given time of day.
package task

// Task is a single actionable item found in a note.
type Task struct {
	Text      string
	Section   string
	NoteTitle string
}

// Key identifies a task across collection cycles. The same text in two
// different notes is two different tasks.
func (t Task) Key() string {
	return t.Text + ":" + t.NoteTitle
}
