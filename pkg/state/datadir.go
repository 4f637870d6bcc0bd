package state

import (
	"os"
	"path/filepath"
	"runtime"
)

// DefaultDataDir returns the data directory holding nudge's state, log,
// and config files.
//
//   - $NUDGE_DATA when set
//   - macOS:   ~/Library/Application Support/nudge
//   - Linux:   $XDG_DATA_HOME/nudge (fallback ~/.local/share/nudge)
//   - Windows: %LOCALAPPDATA%\nudge (fallback %APPDATA%\nudge)
func DefaultDataDir() string {
	if dir := os.Getenv("NUDGE_DATA"); dir != "" {
		return dir
	}
	return defaultDataDirForOS(runtime.GOOS)
}

func defaultDataDirForOS(goos string) string {
	home, _ := os.UserHomeDir()

	switch goos {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "nudge")
	case "windows":
		if dir := os.Getenv("LOCALAPPDATA"); dir != "" {
			return filepath.Join(dir, "nudge")
		}
		if dir := os.Getenv("APPDATA"); dir != "" {
			return filepath.Join(dir, "nudge")
		}
		return filepath.Join(home, "nudge")
	default: // linux, freebsd, etc.
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return filepath.Join(dir, "nudge")
		}
		return filepath.Join(home, ".local", "share", "nudge")
	}
}
