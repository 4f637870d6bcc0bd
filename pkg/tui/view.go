package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nudgeapp/nudge/pkg/task"
)

const minWidth = 40
const minHeight = 8

// taskTextLimit is the rune count a task line's text is truncated to.
const taskTextLimit = 40

// View implements tea.Model.
func (m Model) View() string {
	w := m.width
	h := m.height
	if w < minWidth {
		w = minWidth
	}
	if h < minHeight {
		h = minHeight
	}

	if m.showHelpModal {
		modal := m.renderHelpModal()
		return placeOverlay(modal, w, h)
	}

	var b strings.Builder

	// Header
	b.WriteString(m.renderHeader(w))
	b.WriteString("\n")

	// Separator
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	headerLines := 2
	footerLines := 2
	contentHeight := h - headerLines - footerLines

	b.WriteString(m.renderTaskList(w, contentHeight))
	b.WriteString("\n")

	// Separator
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	// Footer
	b.WriteString(m.renderFooter(w))

	return b.String()
}

func (m Model) renderHeader(width int) string {
	title := HeaderStyle.Render("Nudge")

	stats := HeaderCountStyle.Render(fmt.Sprintf("%d tasks  Last reminder: %s",
		len(m.snap.Tasks), formatLastReminder(m.snap.LastReminder)))

	// Status message, or the spinner while a command runs
	status := ""
	if m.busy {
		status = "  " + m.spinner.View() + StatusStyle.Render("working")
	} else if m.statusMsg != "" && time.Now().Before(m.statusTimeout) {
		status = "  " + StatusStyle.Render(m.statusMsg)
	}

	gap := width - lipgloss.Width(title) - lipgloss.Width(stats) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}

	return title + strings.Repeat(" ", gap) + status + stats
}

func (m Model) renderTaskList(width, height int) string {
	var lines []string

	if len(m.snap.Tasks) == 0 {
		lines = append(lines, FooterStyle.Render("No tasks found. Add checklist items in Notes, then press 'r'."))
	}

	// Scrolling window
	startIdx := 0
	endIdx := len(m.snap.Tasks)
	if len(m.snap.Tasks) > height {
		half := height / 2
		startIdx = m.cursor - half
		if startIdx < 0 {
			startIdx = 0
		}
		endIdx = startIdx + height
		if endIdx > len(m.snap.Tasks) {
			endIdx = len(m.snap.Tasks)
			startIdx = endIdx - height
			if startIdx < 0 {
				startIdx = 0
			}
		}
	}

	now := time.Now()
	for i := startIdx; i < endIdx; i++ {
		lines = append(lines, m.renderTaskLine(m.snap.Tasks[i], i == m.cursor, width, now))
	}

	// Pad to height
	for len(lines) < height {
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderTaskLine(t task.Task, isSelected bool, width int, now time.Time) string {
	cat := task.Categorize(t)

	name := truncateRunes(t.Text, taskTextLimit)
	if t.Section != "" && t.Section != "general" {
		name += " [" + t.Section + "]"
	}
	if n := m.snap.Counts[t.Key()]; n > 0 {
		name += fmt.Sprintf(" ×%d", n)
	}

	line := " " + cat.Glyph() + " " + name

	// Pad to width
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		line += strings.Repeat(" ", width-lineWidth)
	}

	if isSelected {
		return SelectedStyle.Render(line)
	}
	if !task.Eligible(cat, now) {
		return DimTaskStyle.Render(line)
	}
	return line
}

func (m Model) renderFooter(width int) string {
	return FooterStyle.Render(m.keys.ShortHelp())
}

func (m Model) renderHelpModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(ColorBlue).Width(12)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	for _, binding := range m.keys.FullHelp() {
		b.WriteString(keyStyle.Render(binding[0]))
		b.WriteString(descStyle.Render(binding[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("Press Esc or ? to close"))

	return ModalStyle.Render(b.String())
}

func formatLastReminder(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Format("3:04 PM")
}

// truncateRunes cuts s to limit runes, appending an ellipsis when it
// was longer.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "…"
}

func placeOverlay(modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")

	topPadding := (height - len(modalLines)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	leftPadding := (width - lipgloss.Width(modalLines[0])) / 2
	if leftPadding < 0 {
		leftPadding = 0
	}

	var result strings.Builder
	for i := 0; i < topPadding; i++ {
		result.WriteString("\n")
	}

	for _, line := range modalLines {
		result.WriteString(strings.Repeat(" ", leftPadding))
		result.WriteString(line)
		result.WriteString("\n")
	}

	return result.String()
}
