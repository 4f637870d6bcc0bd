package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nudgeapp/nudge/pkg/collect"
	"github.com/nudgeapp/nudge/pkg/config"
	"github.com/nudgeapp/nudge/pkg/logging"
	"github.com/nudgeapp/nudge/pkg/task"
	"github.com/nudgeapp/nudge/pkg/tui"
)

var flagHeadless bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the reminder loop with the dashboard",
	Args:  cobra.NoArgs,
	RunE:  runRun,
}

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Collect tasks once and print them",
	Args:  cobra.NoArgs,
	RunE:  runTasks,
}

var triggerCmd = &cobra.Command{
	Use:   "trigger",
	Short: "Run one reminder cycle now",
	Args:  cobra.NoArgs,
	RunE:  runTrigger,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show task and reminder state",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var testCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test notification",
	Args:  cobra.NoArgs,
	RunE:  runTest,
}

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Decode the first note and print its structure",
	Long: `Dump prints the decoded document tree and the task extraction trace
of the first decodable note in the folder. It reads the Notes database
directly, regardless of the configured collector backend.`,
	Args: cobra.NoArgs,
	RunE: runDump,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the commented default config file",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func init() {
	runCmd.Flags().BoolVar(&flagHeadless, "headless", false, "run without the dashboard")
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(runCmd, tasksCmd, triggerCmd, statusCmd, testCmd, dumpCmd, configCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagHeadless {
		return runHeadless(cfg)
	}
	return runDashboard(cfg)
}

func runHeadless(cfg *config.Config) error {
	eng, log, err := buildEngine(cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return eng.Run(ctx)
}

func runDashboard(cfg *config.Config) error {
	eng, log, err := buildEngine(cfg, true)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	p := tea.NewProgram(tui.NewModel(eng, cfg.CheckInterval), tea.WithAltScreen())

	// Refresh automatically when Notes writes to its database.
	if cfg.Collector.Backend == config.BackendNotesDB {
		dbPath := cfg.Collector.NotesDB
		if dbPath == "" {
			dbPath = collect.DefaultNotesDBPath()
		}
		cleanup, err := tui.StartWatcher(dbPath, p)
		if err != nil {
			log.Warn("notes change watcher unavailable", zap.Error(err))
		} else {
			defer cleanup()
		}
	}

	if _, err := p.Run(); err != nil {
		return err
	}
	return eng.Flush()
}

func runTasks(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eng, log, err := buildEngine(cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := eng.Refresh(cmd.Context()); err != nil {
		return err
	}

	snap := eng.Snapshot()
	if len(snap.Tasks) == 0 {
		fmt.Printf("No tasks found in folder %q.\n", cfg.Collector.Folder)
		return nil
	}

	now := time.Now()
	tbl := table.New().Headers("TASK", "SECTION", "CATEGORY", "WINDOW", "SENT")
	for _, t := range snap.Tasks {
		cat := task.Categorize(t)
		window := "closed"
		if task.Eligible(cat, now) {
			window = "open"
		}
		tbl.Row(t.Text, t.Section, cat.DisplayName(), window, strconv.Itoa(snap.Counts[t.Key()]))
	}
	fmt.Println(tbl)
	return nil
}

func runTrigger(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eng, log, err := buildEngine(cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := eng.Refresh(cmd.Context()); err != nil {
		return err
	}

	out := eng.TriggerNow(cmd.Context())
	if out.Err != nil {
		return out.Err
	}
	fmt.Println(out.String())
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eng, log, err := buildEngine(cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := eng.Refresh(cmd.Context()); err != nil {
		return err
	}

	snap := eng.Snapshot()
	last := "never"
	if snap.LastReminder != nil {
		last = snap.LastReminder.Format("2006-01-02 15:04")
	}
	fmt.Printf("Tasks: %d\n", len(snap.Tasks))
	fmt.Printf("Last reminder: %s\n", last)

	if len(snap.Tasks) > 0 {
		fmt.Println("\nReminder counts:")
		for _, t := range snap.Tasks {
			fmt.Printf("%4d  %s\n", snap.Counts[t.Key()], t.Text)
		}
	}
	return nil
}

func runTest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	eng, log, err := buildEngine(cfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if err := eng.TestNotification(cmd.Context()); err != nil {
		return err
	}
	fmt.Println("Test notification sent.")
	return nil
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, "")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	c := collect.NewNotesDB(cfg.Collector.NotesDB, cfg.Collector.Folder, log)
	c.Debug = os.Stdout

	tasks, err := c.Collect(cmd.Context())
	if err != nil {
		var srcErr *collect.SourceError
		if errors.As(err, &srcErr) && srcErr.Hint != "" {
			fmt.Fprintln(os.Stderr, srcErr.Hint)
		}
		return err
	}

	fmt.Printf("%d tasks extracted\n", len(tasks))
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := flagConfig
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	out, err := config.RenderYAML(config.Default())
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	out, err := config.RenderYAML(*cfg)
	if err != nil {
		return err
	}
	os.Stdout.Write(out)
	return nil
}
