package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("NUDGE_DATA", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, BackendNotesDB, cfg.Collector.Backend)
	assert.Equal(t, "Tasks", cfg.Collector.Folder)
	assert.Equal(t, NotifierOSAScript, cfg.Notifier.Backend)
	assert.Equal(t, 10*time.Minute, cfg.CheckInterval)
	assert.Equal(t, 45*time.Minute, cfg.ReminderSpacing)
	assert.Equal(t, 4*time.Hour, cfg.TaskCooldown)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DebugNotes)
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"log_level: debug\n"+
			"check_interval: 5m\n"+
			"collector:\n"+
			"  backend: script\n"+
			"  folder: Chores\n"), 0o644))

	t.Setenv("NUDGE_CHECK_INTERVAL", "2m")
	t.Setenv("NUDGE_NOTIFIER_BACKEND", "log")

	cfg, err := Load(path)
	require.NoError(t, err)

	// file beats defaults, env beats file
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2*time.Minute, cfg.CheckInterval)
	assert.Equal(t, BackendScript, cfg.Collector.Backend)
	assert.Equal(t, "Chores", cfg.Collector.Folder)
	assert.Equal(t, NotifierLog, cfg.Notifier.Backend)
	assert.Equal(t, 45*time.Minute, cfg.ReminderSpacing)
}

func TestLoadScriptCommandFromEnv(t *testing.T) {
	t.Setenv("NUDGE_DATA", t.TempDir())
	t.Setenv("NUDGE_COLLECTOR_BACKEND", "script")
	t.Setenv("NUDGE_COLLECTOR_SCRIPT_COMMAND", "/usr/local/bin/export-notes,--folder,Tasks")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, []string{"/usr/local/bin/export-notes", "--folder", "Tasks"},
		cfg.Collector.ScriptCommand)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("collector:\n  backend: imap\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "imap")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	bad := Default()
	bad.Collector.Backend = "imap"
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.Notifier.Backend = "growl"
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.CheckInterval = 0
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.TaskCooldown = -time.Hour
	assert.Error(t, bad.Validate())

	bad = Default()
	bad.LogLevel = "chatty"
	assert.Error(t, bad.Validate())
}

func TestEnvTransform(t *testing.T) {
	assert.Equal(t, "log_level", envTransform("NUDGE_LOG_LEVEL"))
	assert.Equal(t, "check_interval", envTransform("NUDGE_CHECK_INTERVAL"))
	assert.Equal(t, "collector.backend", envTransform("NUDGE_COLLECTOR_BACKEND"))
	assert.Equal(t, "collector.script_command", envTransform("NUDGE_COLLECTOR_SCRIPT_COMMAND"))
	assert.Equal(t, "notifier.backend", envTransform("NUDGE_NOTIFIER_BACKEND"))
}

func TestEffectivePaths(t *testing.T) {
	c := Default()
	c.DataDir = filepath.Join("/tmp", "nudge-cfg-test")
	assert.Equal(t, filepath.Join(c.DataDir, "state.json"), c.StatePath())
	assert.Equal(t, filepath.Join(c.DataDir, "nudge.log"), c.LogPath())

	c.StateFile = filepath.Join("/elsewhere", "s.json")
	c.LogFile = filepath.Join("/elsewhere", "n.log")
	assert.Equal(t, c.StateFile, c.StatePath())
	assert.Equal(t, c.LogFile, c.LogPath())
}

func TestRenderYAMLRoundTrip(t *testing.T) {
	out, err := RenderYAML(Default())
	require.NoError(t, err)
	assert.Contains(t, string(out), "notesdb | script")
	assert.Contains(t, string(out), "check_interval: 10m")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, out, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	want := Default()
	assert.Equal(t, want.CheckInterval, cfg.CheckInterval)
	assert.Equal(t, want.ReminderSpacing, cfg.ReminderSpacing)
	assert.Equal(t, want.TaskCooldown, cfg.TaskCooldown)
	assert.Equal(t, want.LogLevel, cfg.LogLevel)
	assert.Equal(t, want.Collector.Backend, cfg.Collector.Backend)
	assert.Equal(t, want.Collector.Folder, cfg.Collector.Folder)
	assert.Equal(t, want.Notifier.Backend, cfg.Notifier.Backend)
	assert.Empty(t, cfg.Collector.ScriptCommand)
}

func TestYAMLDuration(t *testing.T) {
	assert.Equal(t, "10m", yamlDuration(10*time.Minute))
	assert.Equal(t, "45m", yamlDuration(45*time.Minute))
	assert.Equal(t, "4h", yamlDuration(4*time.Hour))
	assert.Equal(t, "1m30s", yamlDuration(90*time.Second))
	assert.Equal(t, "1h30m", yamlDuration(90*time.Minute))
	assert.Equal(t, "1h0m30s", yamlDuration(time.Hour+30*time.Second))
}
