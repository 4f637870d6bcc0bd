// Package notify delivers reminder notifications to the user.
package notify

import (
	"context"

	"github.com/nudgeapp/nudge/pkg/task"
)

// Notification is one message for the user.
type Notification struct {
	Title    string
	Subtitle string
	Body     string
}

// Notifier delivers notifications. Implementations must be safe for
// concurrent use.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// ForTask builds the reminder notification for a task. The section
// rides in the subtitle unless it is the generic default.
func ForTask(t task.Task) Notification {
	subtitle := "From: " + t.NoteTitle
	if t.Section != "" && t.Section != "general" {
		subtitle += " (" + t.Section + ")"
	}
	return Notification{
		Title:    "Task Reminder",
		Subtitle: subtitle,
		Body:     t.Text,
	}
}

// ForTest builds the notification used to verify delivery works.
func ForTest() Notification {
	return Notification{
		Title:    "Task Reminder",
		Subtitle: "Test notification",
		Body:     "Task Reminder is running!",
	}
}
