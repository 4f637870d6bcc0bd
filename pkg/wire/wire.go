// Package wire decodes protobuf-encoded bytes into a generic tagged tree
// without a schema. Structure is discovered from the tag/wire-type framing
// alone; whether a length-delimited payload is text or a nested message is
// decided by the caller through the accessor it uses, never guessed at
// decode time.
package wire

import (
	"fmt"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

// Kind identifies the wire form a Value was decoded from.
type Kind int

const (
	KindVarint Kind = iota
	KindFixed32
	KindFixed64
	KindBytes
)

// Value is a single decoded field payload.
type Value struct {
	kind Kind
	u    uint64
	b    []byte

	// Lazy nested-message parse of a bytes payload, cached after the
	// first Message call.
	parsed bool
	msg    *Message
}

// Kind reports the wire form this value carries.
func (v *Value) Kind() Kind { return v.kind }

// Uint returns the numeric payload of a varint or fixed-width value, 0 for
// bytes.
func (v *Value) Uint() uint64 {
	if v.kind == KindBytes {
		return 0
	}
	return v.u
}

// Int returns the numeric payload as a signed integer.
func (v *Value) Int() int64 { return int64(v.Uint()) }

// Bool reports whether the numeric payload is non-zero.
func (v *Value) Bool() bool { return v.Uint() != 0 }

// Bytes returns the raw payload of a length-delimited value, nil otherwise.
func (v *Value) Bytes() []byte {
	if v.kind != KindBytes {
		return nil
	}
	return v.b
}

// Text interprets a bytes payload as UTF-8 text. It reports false for
// non-bytes values and for payloads that are not valid UTF-8.
func (v *Value) Text() (string, bool) {
	if v.kind != KindBytes || !utf8.Valid(v.b) {
		return "", false
	}
	return string(v.b), true
}

// Message reinterprets a bytes payload as a nested message, parsing it on
// first use and caching the result. It reports false for non-bytes values
// and for payloads that do not frame as a message.
func (v *Value) Message() (*Message, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	if !v.parsed {
		v.parsed = true
		if m, err := Parse(v.b); err == nil {
			v.msg = m
		}
	}
	return v.msg, v.msg != nil
}

// Field is one tag/value pair of a message.
type Field struct {
	Num protowire.Number
	Val *Value
}

// Message is a decoded message: its fields in arrival order. Repeated
// fields appear once per occurrence.
type Message struct {
	fields []Field
}

// Fields returns every field in arrival order.
func (m *Message) Fields() []Field { return m.fields }

// Len returns the number of decoded fields.
func (m *Message) Len() int { return len(m.fields) }

// Get returns the first field with the given tag.
func (m *Message) Get(num protowire.Number) (*Value, bool) {
	for _, f := range m.fields {
		if f.Num == num {
			return f.Val, true
		}
	}
	return nil, false
}

// GetAll returns every field with the given tag, in arrival order.
func (m *Message) GetAll(num protowire.Number) []*Value {
	var vals []*Value
	for _, f := range m.fields {
		if f.Num == num {
			vals = append(vals, f.Val)
		}
	}
	return vals
}

// Parse decodes raw bytes as one message. Reserved wire types (groups) and
// truncated payloads fail with the byte offset of the fault.
func Parse(raw []byte) (*Message, error) {
	m := &Message{}
	off := 0
	for off < len(raw) {
		num, typ, n := protowire.ConsumeTag(raw[off:])
		if n < 0 {
			return nil, fmt.Errorf("wire: invalid tag at offset %d: %w", off, protowire.ParseError(n))
		}
		off += n

		var val *Value
		switch typ {
		case protowire.VarintType:
			u, n := protowire.ConsumeVarint(raw[off:])
			if n < 0 {
				return nil, fmt.Errorf("wire: field %d: bad varint at offset %d: %w", num, off, protowire.ParseError(n))
			}
			val = &Value{kind: KindVarint, u: u}
			off += n
		case protowire.Fixed32Type:
			u, n := protowire.ConsumeFixed32(raw[off:])
			if n < 0 {
				return nil, fmt.Errorf("wire: field %d: bad fixed32 at offset %d: %w", num, off, protowire.ParseError(n))
			}
			val = &Value{kind: KindFixed32, u: uint64(u)}
			off += n
		case protowire.Fixed64Type:
			u, n := protowire.ConsumeFixed64(raw[off:])
			if n < 0 {
				return nil, fmt.Errorf("wire: field %d: bad fixed64 at offset %d: %w", num, off, protowire.ParseError(n))
			}
			val = &Value{kind: KindFixed64, u: u}
			off += n
		case protowire.BytesType:
			b, n := protowire.ConsumeBytes(raw[off:])
			if n < 0 {
				return nil, fmt.Errorf("wire: field %d: bad length-delimited payload at offset %d: %w", num, off, protowire.ParseError(n))
			}
			val = &Value{kind: KindBytes, b: b}
			off += n
		default:
			return nil, fmt.Errorf("wire: field %d: unsupported wire type %d at offset %d", num, typ, off)
		}

		m.fields = append(m.fields, Field{Num: num, Val: val})
	}
	return m, nil
}
