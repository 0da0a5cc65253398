package snapshot

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ohler55/ojg/oj"
	_ "modernc.org/sqlite"

	"github.com/agentic-research/solradmin/api"
	"github.com/agentic-research/solradmin/internal/transport"
)

// Snapshot is one captured core.
type Snapshot struct {
	Status     api.CoreStatus
	CapturedAt time.Time
	Schema     map[string]any
	Resources  []api.Resource
	// Synonyms maps a synonym resource name to its synonymMappings document.
	Synonyms map[string]map[string]any
	Files    map[string][]byte
}

// Cores lists the cores captured in the database at dbPath.
func Cores(dbPath string) ([]string, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }()

	rows, err := db.Query("SELECT name FROM cores ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("query cores: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan core: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Load reads the capture of core from the database at dbPath.
func Load(dbPath, core string) (*Snapshot, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}
	defer func() { _ = db.Close() }()

	s := &Snapshot{
		Synonyms: make(map[string]map[string]any),
		Files:    make(map[string][]byte),
	}

	var captured int64
	err = db.QueryRow(`SELECT name, instance_dir, config, schema, captured_at FROM cores WHERE name = ?`, core).
		Scan(&s.Status.Name, &s.Status.InstanceDir, &s.Status.Config, &s.Status.Schema, &captured)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load %s: %w", core, ErrNoCore)
	}
	if err != nil {
		return nil, fmt.Errorf("query core: %w", err)
	}
	s.CapturedAt = time.Unix(captured, 0)

	var doc string
	if err := db.QueryRow(`SELECT doc FROM schema_docs WHERE core = ?`, core).Scan(&doc); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("query schema: %w", err)
	}
	s.Schema = parseMap(doc)

	rows, err := db.Query(`SELECT record FROM resources WHERE core = ? ORDER BY resource_id`, core)
	if err != nil {
		return nil, fmt.Errorf("query resources: %w", err)
	}
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		s.Resources = append(s.Resources, api.Resource(parseMap(record)))
	}
	_ = rows.Close()

	rows, err = db.Query(`SELECT name, doc FROM synonyms WHERE core = ?`, core)
	if err != nil {
		return nil, fmt.Errorf("query synonyms: %w", err)
	}
	for rows.Next() {
		var name, d string
		if err := rows.Scan(&name, &d); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan synonyms: %w", err)
		}
		s.Synonyms[name] = parseMap(d)
	}
	_ = rows.Close()

	rows, err = db.Query(`SELECT path, content FROM files WHERE core = ?`, core)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var p string
		var content []byte
		if err := rows.Scan(&p, &content); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		s.Files[p] = content
	}
	return s, rows.Err()
}

func parseMap(s string) map[string]any {
	if s == "" {
		return map[string]any{}
	}
	v, err := oj.ParseString(s)
	if err != nil {
		return map[string]any{}
	}
	return transport.AsMap(v)
}
