package notes

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/nudgeapp/nudge/pkg/task"
	"github.com/nudgeapp/nudge/pkg/wire"
)

// Paragraph styles observed in note documents. Checklist items carry a
// done flag; list items are always active.
const paraChecklist = 103

var listParaTypes = map[int64]bool{4: true, 5: true, 6: true}

// Plain paragraphs shorter than this many runes become section headers.
const maxHeaderRunes = 50

// ExtractTasks replays a decoded note's attribute runs into paragraphs
// and returns the active task items. Run lengths count runes of the flat
// note text, not bytes. trace, when non-nil, receives one line per run
// and per classified paragraph.
func ExtractTasks(noteTitle string, root *wire.Message, trace io.Writer) []task.Task {
	w := &runWalker{noteTitle: noteTitle, section: "general", trace: trace}

	doc, ok := FindDocument(root)
	if !ok {
		w.tracef("no note document found; root fields: %v", fieldNums(root))
		return nil
	}

	text := documentText(doc)
	if text == "" {
		w.tracef("no note text at document field 2; document fields: %v", fieldNums(doc))
		return nil
	}
	w.tracef("note text snippet: %q", snippet(text, 200))

	runs := doc.GetAll(5)
	w.tracef("attribute runs: %d", len(runs))

	// Invalid UTF-8 sequences become U+FFFD here, one per bad byte, so
	// run replay keeps a usable rune stream either way.
	runes := []rune(text)
	pos := 0

	for i, rv := range runs {
		run, ok := rv.Message()
		if !ok {
			continue
		}

		length := 1
		if v, ok := run.Get(1); ok {
			length = int(v.Int())
			if length < 0 {
				length = 0
			}
		}

		runText := string(runes[min(pos, len(runes)):min(pos+length, len(runes))])
		pos += length

		if attrs, ok := messageAt(run, 2); ok {
			if v, ok := attrs.Get(1); ok {
				w.pendingType = v.Int()
			}
			if checklist, ok := messageAt(attrs, 5); ok {
				if v, ok := checklist.Get(2); ok {
					w.pendingDone = v.Bool()
				}
			}
		}

		if strings.TrimSpace(runText) != "" {
			w.tracef("run %d: length=%d type=%d done=%v text=%q",
				i, length, w.pendingType, w.pendingDone, snippet(runText, 60))
		}

		w.consume(runText)
	}

	if strings.TrimSpace(w.pendingText) != "" {
		w.flush()
	}

	return w.tasks
}

// runWalker assembles run text into paragraphs and classifies each one at
// its newline boundary. Pending attributes describe the paragraph under
// assembly and reset at every flush.
type runWalker struct {
	noteTitle string
	trace     io.Writer

	section     string
	pendingText string
	pendingType int64
	pendingDone bool

	tasks []task.Task
}

// consume feeds one run's text slice into the assembler, flushing at
// every newline. A run may close several paragraphs.
func (w *runWalker) consume(runText string) {
	for {
		idx := strings.IndexByte(runText, '\n')
		if idx < 0 {
			break
		}
		w.pendingText += runText[:idx]
		w.flush()
		runText = runText[idx+1:]
	}
	w.pendingText += runText
}

// flush classifies the assembled paragraph: unchecked checklist items and
// list items become tasks, short plain text becomes the current section
// header. The meta section swallows its items.
func (w *runWalker) flush() {
	text := strings.TrimSpace(w.pendingText)

	if text != "" {
		switch {
		case w.pendingType == paraChecklist:
			w.tracef("checklist paragraph: done=%v text=%q", w.pendingDone, snippet(text, 60))
			if !w.pendingDone && w.section != "meta" {
				w.emit(text)
			}
		case listParaTypes[w.pendingType]:
			w.tracef("list paragraph: text=%q", snippet(text, 60))
			if w.section != "meta" {
				w.emit(text)
			}
		default:
			if utf8.RuneCountInString(text) < maxHeaderRunes && !hasBulletPrefix(text) {
				w.section = strings.ToLower(text)
				w.tracef("section: %q", w.section)
			}
		}
	}

	w.pendingText = ""
	w.pendingType = 0
	w.pendingDone = false
}

func (w *runWalker) emit(text string) {
	w.tasks = append(w.tasks, task.Task{Text: text, Section: w.section, NoteTitle: w.noteTitle})
}

func (w *runWalker) tracef(format string, args ...any) {
	if w.trace == nil {
		return
	}
	fmt.Fprintf(w.trace, format+"\n", args...)
}

// documentText returns the note's flat text. A non-bytes field 2 or a
// missing one yields "", which callers treat as an empty note.
func documentText(doc *wire.Message) string {
	v, ok := doc.Get(2)
	if !ok {
		return ""
	}
	return string(v.Bytes())
}

func hasBulletPrefix(s string) bool {
	return strings.HasPrefix(s, "-") || strings.HasPrefix(s, "*") || strings.HasPrefix(s, "•")
}

func snippet(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func fieldNums(m *wire.Message) []int32 {
	nums := make([]int32, 0, m.Len())
	for _, f := range m.Fields() {
		nums = append(nums, int32(f.Num))
	}
	return nums
}
