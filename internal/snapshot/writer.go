// Package snapshot records the server-side state of a core (status, schema
// document, managed resources, synonym maps and config files) into a SQLite
// database, and reads it back.
package snapshot

import (
	"database/sql"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/ohler55/ojg/oj"
	_ "modernc.org/sqlite"

	"github.com/agentic-research/solradmin/solr"
)

// ErrNoCore is returned when capturing a core the server does not list.
var ErrNoCore = errors.New("core does not exist")

const schema = `
CREATE TABLE IF NOT EXISTS cores (
	name TEXT PRIMARY KEY,
	instance_dir TEXT,
	config TEXT,
	schema TEXT,
	captured_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS schema_docs (
	core TEXT PRIMARY KEY,
	doc JSON NOT NULL
);

CREATE TABLE IF NOT EXISTS resources (
	core TEXT,
	resource_id TEXT,
	class TEXT,
	record JSON,
	PRIMARY KEY (core, resource_id)
) WITHOUT ROWID;

CREATE TABLE IF NOT EXISTS synonyms (
	core TEXT,
	name TEXT,
	doc JSON,
	PRIMARY KEY (core, name)
) WITHOUT ROWID;

CREATE TABLE IF NOT EXISTS files (
	core TEXT,
	path TEXT,
	size INTEGER DEFAULT 0,
	content BLOB,
	PRIMARY KEY (core, path)
) WITHOUT ROWID;
`

// Writer captures cores into a snapshot database.
type Writer struct {
	db  *sql.DB
	now func() time.Time
}

// NewWriter opens (or creates) the snapshot database at dbPath.
func NewWriter(dbPath string) (*Writer, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Writer{db: db, now: time.Now}, nil
}

// Close closes the database.
func (w *Writer) Close() error {
	return w.db.Close()
}

// Capture records the current state of core, replacing any earlier capture
// of the same core. It returns the number of files stored.
func (w *Writer) Capture(core *solr.Core) (int, error) {
	status, ok := core.Cluster().Status(core.Name())
	if !ok {
		return 0, fmt.Errorf("capture %s: %w", core.Name(), ErrNoCore)
	}

	tx, err := w.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	name := core.Name()
	for _, table := range []string{"schema_docs", "resources", "synonyms", "files"} {
		if _, err := tx.Exec("DELETE FROM "+table+" WHERE core = ?", name); err != nil {
			return 0, fmt.Errorf("clear %s: %w", table, err)
		}
	}

	if _, err := tx.Exec(`INSERT OR REPLACE INTO cores (name, instance_dir, config, schema, captured_at) VALUES (?, ?, ?, ?, ?)`,
		name, status.InstanceDir, status.Config, status.Schema, w.now().Unix()); err != nil {
		return 0, fmt.Errorf("insert core: %w", err)
	}

	doc, err := oj.Marshal(core.Schema().Document())
	if err != nil {
		return 0, fmt.Errorf("encode schema: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO schema_docs (core, doc) VALUES (?, ?)`, name, string(doc)); err != nil {
		return 0, fmt.Errorf("insert schema: %w", err)
	}

	for _, r := range core.Resources().Resources() {
		record, err := oj.Marshal(map[string]any(r))
		if err != nil {
			return 0, fmt.Errorf("encode resource %s: %w", r.ID(), err)
		}
		if _, err := tx.Exec(`INSERT INTO resources (core, resource_id, class, record) VALUES (?, ?, ?, ?)`,
			name, r.ID(), r.Class(), string(record)); err != nil {
			return 0, fmt.Errorf("insert resource %s: %w", r.ID(), err)
		}

		if !strings.HasPrefix(r.ID(), "/schema/analysis/synonyms/") {
			continue
		}
		synName := path.Base(r.ID())
		syn, err := oj.Marshal(core.Synonyms(synName).Document())
		if err != nil {
			return 0, fmt.Errorf("encode synonyms %s: %w", synName, err)
		}
		if _, err := tx.Exec(`INSERT INTO synonyms (core, name, doc) VALUES (?, ?, ?)`, name, synName, string(syn)); err != nil {
			return 0, fmt.Errorf("insert synonyms %s: %w", synName, err)
		}
	}

	files := core.Files()
	stored := 0
	for _, p := range files.Paths() {
		content := files.FileContent(p)
		if content == nil {
			continue
		}
		if _, err := tx.Exec(`INSERT INTO files (core, path, size, content) VALUES (?, ?, ?, ?)`,
			name, p, len(content), content); err != nil {
			return 0, fmt.Errorf("insert file %s: %w", p, err)
		}
		stored++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return stored, nil
}
