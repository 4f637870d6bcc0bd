package notify

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

var scriptEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// OSAScript posts to macOS Notification Center by shelling out to
// osascript.
type OSAScript struct{}

// Notify runs a display notification command with the default sound.
func (OSAScript) Notify(ctx context.Context, n Notification) error {
	cmd := exec.CommandContext(ctx, "osascript", "-e", displayScript(n))
	if out, err := cmd.CombinedOutput(); err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("posting notification: %w: %s", err, msg)
		}
		return fmt.Errorf("posting notification: %w", err)
	}
	return nil
}

func displayScript(n Notification) string {
	return `display notification "` + scriptEscaper.Replace(n.Body) +
		`" with title "` + scriptEscaper.Replace(n.Title) +
		`" subtitle "` + scriptEscaper.Replace(n.Subtitle) +
		`" sound name "default"`
}
