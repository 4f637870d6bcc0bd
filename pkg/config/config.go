// Package config loads nudge configuration from a YAML file and
// NUDGE_-prefixed environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap/zapcore"

	"github.com/nudgeapp/nudge/pkg/state"
)

// Collector backends.
const (
	BackendNotesDB = "notesdb"
	BackendScript  = "script"
)

// Notifier backends.
const (
	NotifierOSAScript = "osascript"
	NotifierLog       = "log"
)

// Config is the complete nudge configuration.
type Config struct {
	DataDir   string `koanf:"data_dir"`
	StateFile string `koanf:"state_file"`
	LogLevel  string `koanf:"log_level"`
	LogFile   string `koanf:"log_file"`

	CheckInterval   time.Duration `koanf:"check_interval"`
	ReminderSpacing time.Duration `koanf:"reminder_spacing"`
	TaskCooldown    time.Duration `koanf:"task_cooldown"`

	// DebugNotes dumps the decoded tree and extraction trace of the
	// first note each cycle.
	DebugNotes bool `koanf:"debug_notes"`

	Collector CollectorConfig `koanf:"collector"`
	Notifier  NotifierConfig  `koanf:"notifier"`
}

// CollectorConfig selects and parameterizes the task source.
type CollectorConfig struct {
	Backend string `koanf:"backend"`
	Folder  string `koanf:"folder"`

	// NotesDB is the database path for the notesdb backend. Empty means
	// the Apple Notes group container location.
	NotesDB string `koanf:"notes_db"`

	// ScriptCommand is the export argv for the script backend. Empty
	// means the built-in osascript exporter.
	ScriptCommand []string `koanf:"script_command"`
}

// NotifierConfig selects the notification sink.
type NotifierConfig struct {
	Backend string `koanf:"backend"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel:        "info",
		CheckInterval:   10 * time.Minute,
		ReminderSpacing: state.DefaultReminderSpacing,
		TaskCooldown:    state.DefaultTaskCooldown,
		Collector: CollectorConfig{
			Backend: BackendNotesDB,
			Folder:  "Tasks",
		},
		Notifier: NotifierConfig{
			Backend: NotifierOSAScript,
		},
	}
}

// Load merges, lowest precedence first: defaults, the YAML file at
// path, then environment overrides. An empty path means DefaultPath();
// a missing file is only an error when the path was given explicitly.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if path == "" {
		path = DefaultPath()
	}

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// no config file, run on defaults
	default:
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	if err := k.Load(env.Provider("NUDGE_", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("reading environment overrides: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envTransform maps NUDGE_COLLECTOR_BACKEND to collector.backend,
// NUDGE_NOTIFIER_BACKEND to notifier.backend, and everything else to a
// flat lowercased key (NUDGE_LOG_LEVEL to log_level).
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, "NUDGE_"))
	switch {
	case strings.HasPrefix(key, "collector_"):
		return "collector." + strings.TrimPrefix(key, "collector_")
	case strings.HasPrefix(key, "notifier_"):
		return "notifier." + strings.TrimPrefix(key, "notifier_")
	}
	return key
}

// Validate rejects unknown backends, non-positive pacing values, and
// unparseable log levels.
func (c *Config) Validate() error {
	switch c.Collector.Backend {
	case BackendNotesDB, BackendScript:
	default:
		return fmt.Errorf("unknown collector backend %q (want %s or %s)",
			c.Collector.Backend, BackendNotesDB, BackendScript)
	}
	switch c.Notifier.Backend {
	case NotifierOSAScript, NotifierLog:
	default:
		return fmt.Errorf("unknown notifier backend %q (want %s or %s)",
			c.Notifier.Backend, NotifierOSAScript, NotifierLog)
	}
	if c.CheckInterval <= 0 {
		return fmt.Errorf("check_interval must be positive, got %s", c.CheckInterval)
	}
	if c.ReminderSpacing <= 0 {
		return fmt.Errorf("reminder_spacing must be positive, got %s", c.ReminderSpacing)
	}
	if c.TaskCooldown <= 0 {
		return fmt.Errorf("task_cooldown must be positive, got %s", c.TaskCooldown)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return nil
}

// Dir returns the effective data directory.
func (c *Config) Dir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return state.DefaultDataDir()
}

// StatePath returns the effective state file location.
func (c *Config) StatePath() string {
	if c.StateFile != "" {
		return c.StateFile
	}
	return filepath.Join(c.Dir(), "state.json")
}

// LogPath returns the effective log file location.
func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(c.Dir(), "nudge.log")
}

// DefaultPath is where Load looks when no --config flag is given. It
// always sits under the default data directory; data_dir inside the
// file cannot move the file that defines it.
func DefaultPath() string {
	return filepath.Join(state.DefaultDataDir(), "config.yaml")
}
