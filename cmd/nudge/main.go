// Nudge surfaces checklist items from Apple Notes as paced macOS
// notifications.
//
// The default command opens a terminal dashboard with the reminder
// loop inside it. One-shot subcommands cover scripted use:
//
//	nudge                # dashboard
//	nudge run --headless # reminder loop without a UI
//	nudge tasks          # print the current task table
//	nudge trigger        # run one reminder cycle now
//	nudge test           # check notification delivery
package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nudgeapp/nudge/pkg/collect"
	"github.com/nudgeapp/nudge/pkg/config"
	"github.com/nudgeapp/nudge/pkg/engine"
	"github.com/nudgeapp/nudge/pkg/logging"
	"github.com/nudgeapp/nudge/pkg/notify"
	"github.com/nudgeapp/nudge/pkg/state"
)

var (
	flagConfig   string
	flagDataDir  string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "nudge",
	Short: "Gentle task reminders from Apple Notes",
	Long: `Nudge reads checklist items from an Apple Notes folder and reminds
you about them at a humane pace: one task at a time, only inside that
task's time-of-day window.

Without a subcommand it opens the dashboard.`,
	Args:         cobra.NoArgs,
	RunE:         runRun,
	SilenceUsage: true,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "config file (default <data-dir>/config.yaml)")
	pf.StringVar(&flagDataDir, "data-dir", "", "directory for state, log, and config files")
	pf.StringVar(&flagLogLevel, "log-level", "", "log level override (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig merges the config file, environment, and global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagDataDir != "" {
		cfg.DataDir = flagDataDir
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildEngine wires the collector, notifier, store, and logger from the
// configuration. In dashboard mode logs go to the data-dir log file and
// the note debug dump stays off, since stdout belongs to the UI.
func buildEngine(cfg *config.Config, dashboard bool) (*engine.Engine, *zap.Logger, error) {
	logFile := ""
	if dashboard {
		logFile = cfg.LogPath()
	}
	log, err := logging.New(cfg.LogLevel, logFile)
	if err != nil {
		return nil, nil, err
	}

	eng := engine.New(engine.Options{
		Collector:       buildCollector(cfg, log, !dashboard),
		Notifier:        buildNotifier(cfg, log),
		Store:           state.NewStore(cfg.StatePath()),
		Log:             log,
		CheckInterval:   cfg.CheckInterval,
		ReminderSpacing: cfg.ReminderSpacing,
		TaskCooldown:    cfg.TaskCooldown,
	})
	return eng, log, nil
}

func buildCollector(cfg *config.Config, log *zap.Logger, allowDebug bool) collect.Collector {
	if cfg.Collector.Backend == config.BackendScript {
		return collect.NewScript(cfg.Collector.ScriptCommand, cfg.Collector.Folder, log)
	}

	c := collect.NewNotesDB(cfg.Collector.NotesDB, cfg.Collector.Folder, log)
	if cfg.DebugNotes && allowDebug {
		c.Debug = os.Stdout
	}
	return c
}

func buildNotifier(cfg *config.Config, log *zap.Logger) notify.Notifier {
	if cfg.Notifier.Backend == config.NotifierLog {
		return notify.NewLogger(log)
	}
	return notify.OSAScript{}
}
