// Package collect gathers the current task snapshot from a notes source.
//
// Two backends exist: NotesDB reads the notes database directly, Script
// shells out to an automation command and parses its text export. Both
// return the complete snapshot on every call.
package collect

import (
	"context"
	"errors"
	"fmt"

	"github.com/nudgeapp/nudge/pkg/task"
)

// Collector produces the current task snapshot from a notes source.
type Collector interface {
	Collect(ctx context.Context) ([]task.Task, error)
}

// ErrEntityNotFound means a required entity type id is missing from the
// notes database catalog, which usually signals a schema change.
var ErrEntityNotFound = errors.New("entity type not found")

// SourceError reports that a whole collection cycle failed. Hint, when
// set, carries operator guidance worth showing next to the error.
type SourceError struct {
	Op   string
	Hint string
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("collect: %s: %v", e.Op, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }
