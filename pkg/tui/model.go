package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nudgeapp/nudge/pkg/engine"
)

// SourceChangedMsg is sent when the source watcher detects a change to
// the notes database.
type SourceChangedMsg struct{}

// RefreshDoneMsg is sent when a task refresh completes.
type RefreshDoneMsg struct {
	Err error
}

// CheckDoneMsg is sent when a periodic reminder check completes.
type CheckDoneMsg struct {
	Outcome engine.Outcome
}

// TriggerDoneMsg is sent when a manual reminder trigger completes.
type TriggerDoneMsg struct {
	Outcome engine.Outcome
}

// TestDoneMsg is sent when the test notification attempt finishes.
type TestDoneMsg struct {
	Err error
}

// checkTickMsg fires when the periodic check timer elapses.
type checkTickMsg struct{}

// Model is the Bubble Tea model for the reminder dashboard.
type Model struct {
	engine   *engine.Engine
	interval time.Duration
	keys     KeyMap
	width    int
	height   int

	snap   engine.Snapshot
	cursor int

	// One engine command runs at a time; the spinner shows it.
	busy    bool
	spinner spinner.Model

	showHelpModal bool

	// Status message
	statusMsg     string
	statusTimeout time.Time
}

// NewModel creates the dashboard model. The model owns the periodic
// check timer while the dashboard runs.
func NewModel(eng *engine.Engine, interval time.Duration) Model {
	if interval <= 0 {
		interval = engine.DefaultCheckInterval
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = SpinnerStyle

	return Model{
		engine:   eng,
		interval: interval,
		keys:     DefaultKeyMap(),
		spinner:  sp,
		busy:     true, // Init starts the first refresh
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tea.WindowSize(), m.spinner.Tick, m.doRefresh(), m.scheduleCheck())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, tea.ClearScreen

	case SourceChangedMsg:
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, m.doRefresh())

	case RefreshDoneMsg:
		m.busy = false
		m.resnapshot()
		if msg.Err != nil {
			m.setStatus("Refresh failed: " + msg.Err.Error())
		} else {
			m.setStatus(fmt.Sprintf("Refreshed: %d tasks", len(m.snap.Tasks)))
		}
		return m, nil

	case CheckDoneMsg:
		m.busy = false
		m.resnapshot()
		m.setStatus(msg.Outcome.String())
		return m, m.scheduleCheck()

	case TriggerDoneMsg:
		m.busy = false
		m.resnapshot()
		m.setStatus(msg.Outcome.String())
		return m, nil

	case TestDoneMsg:
		m.busy = false
		if msg.Err != nil {
			m.setStatus("Test notification failed: " + msg.Err.Error())
		} else {
			m.setStatus("Test notification sent")
		}
		return m, nil

	case checkTickMsg:
		if m.busy {
			// A manual command is in flight; skip this round.
			return m, m.scheduleCheck()
		}
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, m.doCheck())

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Help modal swallows keys until dismissed.
	if m.showHelpModal {
		if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) || msg.String() == "esc" {
			m.showHelpModal = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.snap.Tasks)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Refresh):
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, m.doRefresh())

	case key.Matches(msg, m.keys.Trigger):
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, m.doTrigger())

	case key.Matches(msg, m.keys.Test):
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.spinner.Tick, m.doTest())

	case key.Matches(msg, m.keys.Help):
		m.showHelpModal = true
	}

	return m, nil
}

// resnapshot copies the engine state for rendering and clamps the cursor.
func (m *Model) resnapshot() {
	m.snap = m.engine.Snapshot()

	if m.cursor >= len(m.snap.Tasks) {
		m.cursor = len(m.snap.Tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) setStatus(msg string) {
	m.statusMsg = msg
	m.statusTimeout = time.Now().Add(3 * time.Second)
}

func (m Model) doRefresh() tea.Cmd {
	return func() tea.Msg {
		return RefreshDoneMsg{Err: m.engine.Refresh(context.Background())}
	}
}

func (m Model) doCheck() tea.Cmd {
	return func() tea.Msg {
		return CheckDoneMsg{Outcome: m.engine.CheckAndRemind(context.Background())}
	}
}

func (m Model) doTrigger() tea.Cmd {
	return func() tea.Msg {
		return TriggerDoneMsg{Outcome: m.engine.TriggerNow(context.Background())}
	}
}

func (m Model) doTest() tea.Cmd {
	return func() tea.Msg {
		return TestDoneMsg{Err: m.engine.TestNotification(context.Background())}
	}
}

func (m Model) scheduleCheck() tea.Cmd {
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return checkTickMsg{}
	})
}
