// Package notes turns raw note data blobs into task records: decompress,
// decode the tagged tree, locate the note document across format versions,
// and replay attribute runs into classified paragraphs.
package notes

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/nudgeapp/nudge/pkg/wire"
)

// DecodeError reports a single note blob that could not be decoded. It is
// a per-note failure: callers skip the note and continue the batch.
type DecodeError struct {
	Stage string // "decompress" or "parse"
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode note: %s: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Decompress inflates a note data blob. The container is detected by
// signature: the gzip magic header, otherwise zlib.
func Decompress(blob []byte) ([]byte, error) {
	if len(blob) >= 2 && blob[0] == 0x1f && blob[1] == 0x8b {
		zr, err := gzip.NewReader(bytes.NewReader(blob))
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer zr.Close()
		raw, err := io.ReadAll(zr)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return raw, nil
	}

	zr, err := zlib.NewReader(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	defer zr.Close()
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("zlib: %w", err)
	}
	return raw, nil
}

// Decode decompresses and parses one raw note blob into its tagged tree.
// Failures of either stage surface as a *DecodeError.
func Decode(blob []byte) (*wire.Message, error) {
	raw, err := Decompress(blob)
	if err != nil {
		return nil, &DecodeError{Stage: "decompress", Err: err}
	}
	msg, err := wire.Parse(raw)
	if err != nil {
		return nil, &DecodeError{Stage: "parse", Err: err}
	}
	return msg, nil
}
