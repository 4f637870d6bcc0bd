package collect

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/nudgeapp/nudge/pkg/task"
)

// Sentinels framing each note in the export stream. They only need to
// be unlikely as note content, not impossible.
const (
	noteStartMark = "===NOTE_START==="
	titleEndMark  = "===NOTE_TITLE_END==="
	noteEndMark   = "===NOTE_END==="
)

// Script collects tasks by running an export command, by default an
// osascript invocation that asks the Notes app for the folder's notes
// as plain text. It needs no Full Disk Access but is much slower than
// reading the database.
type Script struct {
	// Command overrides the default osascript invocation. The first
	// element is the binary, the rest its arguments; the command must
	// print a sentinel-framed note stream on stdout.
	Command []string
	Folder  string

	log *zap.Logger
}

// NewScript returns a script-based collector for the given folder. An
// empty folder falls back to "Tasks".
func NewScript(command []string, folder string, log *zap.Logger) *Script {
	if folder == "" {
		folder = "Tasks"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Script{Command: command, Folder: folder, log: log}
}

// exportScript builds the AppleScript that prints every note of the
// folder framed by sentinels.
func exportScript(folder string) string {
	esc := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(folder)
	return `try
	set output to ""
	tell application "Notes"
		repeat with n in notes of folder "` + esc + `"
			set output to output & "` + noteStartMark + `" & linefeed
			set output to output & (name of n) & linefeed
			set output to output & "` + titleEndMark + `" & linefeed
			set output to output & (plaintext of n) & linefeed
			set output to output & "` + noteEndMark + `" & linefeed
		end repeat
	end tell
	return output
on error errMsg
	return "ERROR: " & errMsg
end try`
}

// Collect runs the export command and parses its note stream.
func (c *Script) Collect(ctx context.Context) ([]task.Task, error) {
	argv := c.Command
	if len(argv) == 0 {
		argv = []string{"osascript", "-e", exportScript(c.Folder)}
	}

	out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).Output()
	if err != nil {
		return nil, &SourceError{Op: "run export command", Err: err}
	}

	tasks, err := parseNoteStream(string(out))
	if err != nil {
		return nil, err
	}
	c.log.Debug("collected tasks from export stream",
		zap.Int("tasks", len(tasks)), zap.String("folder", c.Folder))
	return tasks, nil
}

type streamState int

const (
	stateIdle streamState = iota
	stateTitle
	stateBody
)

// parseNoteStream walks the sentinel-framed export output and extracts
// tasks from each note body using the same checklist, bullet, and
// section rules the database backend applies to decoded notes.
func parseNoteStream(stream string) ([]task.Task, error) {
	if line, ok := firstNonBlankLine(stream); ok && strings.HasPrefix(line, "ERROR:") {
		return nil, &SourceError{
			Op:  "export notes",
			Err: errors.New(strings.TrimSpace(strings.TrimPrefix(line, "ERROR:"))),
		}
	}

	var (
		tasks      []task.Task
		state      = stateIdle
		titleLines []string
		noteTitle  string
		section    string
	)

	sc := bufio.NewScanner(strings.NewReader(stream))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		switch state {
		case stateIdle:
			if strings.TrimSpace(line) == noteStartMark {
				state = stateTitle
				titleLines = titleLines[:0]
			}
		case stateTitle:
			if strings.TrimSpace(line) == titleEndMark {
				noteTitle = strings.TrimSpace(strings.Join(titleLines, "\n"))
				section = "general"
				state = stateBody
				continue
			}
			titleLines = append(titleLines, line)
		case stateBody:
			if strings.TrimSpace(line) == noteEndMark {
				state = stateIdle
				continue
			}
			if t, ok := parseBodyLine(line, &section, noteTitle); ok {
				tasks = append(tasks, t)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, &SourceError{Op: "read export stream", Err: err}
	}
	if state != stateIdle {
		return nil, &SourceError{
			Op:  "parse export stream",
			Err: fmt.Errorf("stream ended inside a note block (missing %s)", noteEndMark),
		}
	}
	return tasks, nil
}

// parseBodyLine classifies one body line. Unchecked checklist items and
// bullet lines become tasks unless the current section is "meta"; short
// plain lines become the new section header.
func parseBodyLine(line string, section *string, noteTitle string) (task.Task, bool) {
	text := strings.TrimSpace(line)
	if text == "" {
		return task.Task{}, false
	}

	switch {
	case strings.HasPrefix(text, "- [x]"):
		return task.Task{}, false
	case strings.HasPrefix(text, "- [ ]"):
		body := strings.TrimSpace(strings.TrimPrefix(text, "- [ ]"))
		if body == "" || *section == "meta" {
			return task.Task{}, false
		}
		return task.Task{Text: body, Section: *section, NoteTitle: noteTitle}, true
	case strings.HasPrefix(text, "-"), strings.HasPrefix(text, "*"), strings.HasPrefix(text, "•"):
		_, size := utf8.DecodeRuneInString(text)
		body := strings.TrimSpace(text[size:])
		if body == "" || *section == "meta" {
			return task.Task{}, false
		}
		return task.Task{Text: body, Section: *section, NoteTitle: noteTitle}, true
	default:
		if utf8.RuneCountInString(text) < 50 {
			*section = strings.ToLower(text)
		}
		return task.Task{}, false
	}
}

func firstNonBlankLine(stream string) (string, bool) {
	for _, line := range strings.Split(stream, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			return t, true
		}
	}
	return "", false
}
