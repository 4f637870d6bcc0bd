package notes

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/nudgeapp/nudge/pkg/wire"
)

const (
	dumpMaxDepth    = 5
	dumpMaxRepeated = 10
)

// DumpTree writes an indented JSON rendering of a decoded tree, for
// working out field numbers when a note layout looks unfamiliar. Field
// numbers become keys and repeated fields become arrays. Bytes payloads
// that frame as nested messages are expanded; the rest print as UTF-8
// text when valid and as "<bytes:N>" otherwise. Output is capped at
// depth 5 and 10 entries per repeated field.
func DumpTree(w io.Writer, m *wire.Message) error {
	out, err := json.MarshalIndent(printableMessage(m, 0), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", out)
	return err
}

func printableMessage(m *wire.Message, depth int) any {
	if depth > dumpMaxDepth {
		return "..."
	}

	grouped := make(map[protowire.Number][]*wire.Value)
	for _, f := range m.Fields() {
		grouped[f.Num] = append(grouped[f.Num], f.Val)
	}

	out := make(map[string]any, len(grouped))
	for num, vals := range grouped {
		key := strconv.Itoa(int(num))
		if len(vals) == 1 {
			out[key] = printableValue(vals[0], depth+1)
			continue
		}
		if len(vals) > dumpMaxRepeated {
			vals = vals[:dumpMaxRepeated]
		}
		arr := make([]any, len(vals))
		for i, v := range vals {
			arr[i] = printableValue(v, depth+1)
		}
		out[key] = arr
	}
	return out
}

func printableValue(v *wire.Value, depth int) any {
	if depth > dumpMaxDepth {
		return "..."
	}
	if v.Kind() != wire.KindBytes {
		return v.Uint()
	}
	if m, ok := v.Message(); ok {
		return printableMessage(m, depth)
	}
	if s, ok := v.Text(); ok {
		return s
	}
	return fmt.Sprintf("<bytes:%d>", len(v.Bytes()))
}
