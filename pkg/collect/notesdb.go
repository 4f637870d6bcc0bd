package collect

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nudgeapp/nudge/pkg/notes"
	"github.com/nudgeapp/nudge/pkg/task"
)

// DefaultNotesDBPath returns the Apple Notes database location inside
// the user's group container.
func DefaultNotesDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, "Library", "Group Containers",
		"group.com.apple.notes", "NoteStore.sqlite")
}

const fullDiskAccessHint = "grant Full Disk Access to your terminal in " +
	"System Settings → Privacy & Security → Full Disk Access"

const notesQuery = `
SELECT o.ZTITLE1, d.ZDATA
FROM ZICCLOUDSYNCINGOBJECT o
JOIN ZICNOTEDATA d ON d.Z_PK = o.ZNOTEDATA
WHERE o.ZFOLDER = (
    SELECT Z_PK FROM ZICCLOUDSYNCINGOBJECT
    WHERE ZTITLE2 = ? AND Z_ENT = ?
)
AND o.Z_ENT = ?
AND (o.ZMARKEDFORDELETION = 0 OR o.ZMARKEDFORDELETION IS NULL)
`

// NotesDB collects tasks straight out of the Apple Notes SQLite
// database.
type NotesDB struct {
	Path   string
	Folder string

	// Debug, when non-nil, receives a decoded tree dump and extraction
	// trace for the first decodable note of each batch.
	Debug io.Writer

	log *zap.Logger
}

// NewNotesDB returns a collector for the given database path and notes
// folder; empty values fall back to the Apple Notes defaults.
func NewNotesDB(path, folder string, log *zap.Logger) *NotesDB {
	if path == "" {
		path = DefaultNotesDBPath()
	}
	if folder == "" {
		folder = "Tasks"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &NotesDB{Path: path, Folder: folder, log: log}
}

// Collect opens the database read-only and extracts tasks from every
// live note in the folder. A note that fails to decode is skipped with a
// log line; the rest of the batch continues.
func (c *NotesDB) Collect(ctx context.Context) ([]task.Task, error) {
	db, err := sql.Open("sqlite", "file:"+c.Path+"?mode=ro")
	if err != nil {
		return nil, c.wrap("open notes database", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(1) // prevent SQLITE_BUSY

	folderEnt, err := c.entityType(ctx, db, "ICFolder")
	if err != nil {
		return nil, err
	}
	noteEnt, err := c.entityType(ctx, db, "ICNote")
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, notesQuery, c.Folder, folderEnt, noteEnt)
	if err != nil {
		return nil, c.wrap("query notes", err)
	}
	defer rows.Close()

	var all []task.Task
	debug := c.Debug

	for rows.Next() {
		var title sql.NullString
		var blob []byte
		if err := rows.Scan(&title, &blob); err != nil {
			return nil, c.wrap("scan note row", err)
		}
		if len(blob) == 0 {
			continue
		}

		msg, err := notes.Decode(blob)
		if err != nil {
			c.log.Warn("skipping undecodable note",
				zap.String("note", title.String), zap.Error(err))
			continue
		}

		var trace io.Writer
		if debug != nil {
			fmt.Fprintf(debug, "=== note %q ===\n", title.String)
			if err := notes.DumpTree(debug, msg); err != nil {
				c.log.Warn("note dump failed", zap.Error(err))
			}
			trace = debug
			debug = nil // one note per batch
		}

		found := notes.ExtractTasks(title.String, msg, trace)
		all = append(all, found...)
	}
	if err := rows.Err(); err != nil {
		return nil, c.wrap("read notes", err)
	}

	c.log.Debug("collected tasks from notes database",
		zap.Int("tasks", len(all)), zap.String("folder", c.Folder))
	return all, nil
}

// entityType resolves a Core Data entity name to its Z_ENT id.
func (c *NotesDB) entityType(ctx context.Context, db *sql.DB, name string) (int64, error) {
	var ent int64
	err := db.QueryRowContext(ctx,
		`SELECT Z_ENT FROM Z_PRIMARYKEY WHERE Z_NAME = ?`, name).Scan(&ent)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, &SourceError{
			Op:  "resolve entity " + name,
			Err: fmt.Errorf("%s: %w", name, ErrEntityNotFound),
		}
	}
	if err != nil {
		return 0, c.wrap("resolve entity "+name, err)
	}
	return ent, nil
}

func (c *NotesDB) wrap(op string, err error) error {
	e := &SourceError{Op: op, Err: err}
	if isPermissionSmell(err) {
		e.Hint = fullDiskAccessHint
	}
	return e
}

// isPermissionSmell matches the error texts macOS produces when the
// notes database sits behind Full Disk Access.
func isPermissionSmell(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, smell := range []string{"unable to open", "permission", "denied", "read-only"} {
		if strings.Contains(msg, smell) {
			return true
		}
	}
	return false
}
