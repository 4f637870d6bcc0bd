package notes

import (
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/nudgeapp/nudge/pkg/wire"
)

// Candidate layouts for the note document inside its wrapper, newest
// format first: wrapper field 3, wrapper field 2, or the wrapper itself.
var documentSteps = []func(*wire.Message) (*wire.Message, bool){
	func(m *wire.Message) (*wire.Message, bool) { return messageAt(m, 3) },
	func(m *wire.Message) (*wire.Message, bool) { return messageAt(m, 2) },
	func(m *wire.Message) (*wire.Message, bool) { return m, true },
}

// FindDocument locates the note document inside a decoded tree. The
// document is the message holding the note's flat text (field 2) and its
// attribute runs (field 5); format versions differ in how deeply it is
// nested under the root's field 2.
func FindDocument(root *wire.Message) (*wire.Message, bool) {
	wrapper, ok := messageAt(root, 2)
	if !ok {
		return nil, false
	}

	for _, step := range documentSteps {
		if doc, ok := step(wrapper); ok && isDocument(doc) {
			return doc, true
		}
	}
	return nil, false
}

// isDocument reports whether the message exposes note text or runs.
func isDocument(m *wire.Message) bool {
	if _, ok := m.Get(2); ok {
		return true
	}
	_, ok := m.Get(5)
	return ok
}

func messageAt(m *wire.Message, num protowire.Number) (*wire.Message, bool) {
	v, ok := m.Get(num)
	if !ok {
		return nil, false
	}
	return v.Message()
}
