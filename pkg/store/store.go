// Package store persists environment documents in SQLite. Specs are
// stored verbatim as JSON keyed by environment id; scene graph and RL
// config pairs are stored as versioned documents keyed by scene id, new
// versions appended rather than overwritten.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/soovittt/RL-Studio-sub001/pkg/envspec"
	"github.com/soovittt/RL-Studio-sub001/pkg/rlconfig"
	"github.com/soovittt/RL-Studio-sub001/pkg/scenegraph"
)

// ErrNotFound is returned when no document exists under the given key.
var ErrNotFound = errors.New("document not found")

// EnvironmentInfo is one row of the environment listing.
type EnvironmentInfo struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	EnvType   string    `json:"env_type"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is a SQLite-backed document store.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS environments (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	env_type   TEXT NOT NULL,
	spec       TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS scenes (
	scene_id   TEXT NOT NULL,
	version    INTEGER NOT NULL,
	graph      TEXT NOT NULL,
	rl_config  TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (scene_id, version)
);
`

// Open opens (or creates) the store at path and applies the schema.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// OpenInMemory opens a throwaway in-memory store.
func OpenInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open in-memory db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (st *Store) Close() error {
	return st.db.Close()
}

// PutSpec stores a spec under its environment id, replacing any previous
// document.
func (st *Store) PutSpec(ctx context.Context, s *envspec.EnvSpec) error {
	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode spec: %w", err)
	}
	_, err = st.db.ExecContext(ctx, `
		INSERT INTO environments (id, name, env_type, spec, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			env_type = excluded.env_type,
			spec = excluded.spec,
			updated_at = excluded.updated_at`,
		s.ID, s.Name, string(s.EnvType), string(doc), time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("store spec %q: %w", s.ID, err)
	}
	return nil
}

// GetSpec loads the spec stored under the environment id.
func (st *Store) GetSpec(ctx context.Context, id string) (*envspec.EnvSpec, error) {
	var doc string
	err := st.db.QueryRowContext(ctx,
		`SELECT spec FROM environments WHERE id = ?`, id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("environment %q: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load spec %q: %w", id, err)
	}

	var s envspec.EnvSpec
	if err := json.Unmarshal([]byte(doc), &s); err != nil {
		return nil, fmt.Errorf("decode spec %q: %w", id, err)
	}
	return &s, nil
}

// DeleteSpec removes the environment document.
func (st *Store) DeleteSpec(ctx context.Context, id string) error {
	res, err := st.db.ExecContext(ctx, `DELETE FROM environments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete spec %q: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("environment %q: %w", id, ErrNotFound)
	}
	return nil
}

// ListEnvironments returns the stored environments, newest first.
func (st *Store) ListEnvironments(ctx context.Context) ([]EnvironmentInfo, error) {
	rows, err := st.db.QueryContext(ctx,
		`SELECT id, name, env_type, updated_at FROM environments ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list environments: %w", err)
	}
	defer rows.Close()

	var out []EnvironmentInfo
	for rows.Next() {
		var info EnvironmentInfo
		var millis int64
		if err := rows.Scan(&info.ID, &info.Name, &info.EnvType, &millis); err != nil {
			return nil, fmt.Errorf("scan environment row: %w", err)
		}
		info.UpdatedAt = time.UnixMilli(millis).UTC()
		out = append(out, info)
	}
	return out, rows.Err()
}

// PutScene appends a new version of the scene document pair and returns
// the version number it was stored under.
func (st *Store) PutScene(ctx context.Context, sceneID string, g *scenegraph.Graph, cfg *rlconfig.Config) (int, error) {
	graphDoc, err := json.Marshal(g)
	if err != nil {
		return 0, fmt.Errorf("encode scene graph: %w", err)
	}
	cfgDoc, err := json.Marshal(cfg)
	if err != nil {
		return 0, fmt.Errorf("encode rl config: %w", err)
	}

	var version int
	err = st.db.QueryRowContext(ctx, `
		INSERT INTO scenes (scene_id, version, graph, rl_config, created_at)
		VALUES (?, COALESCE((SELECT MAX(version) FROM scenes WHERE scene_id = ?), 0) + 1, ?, ?, ?)
		RETURNING version`,
		sceneID, sceneID, string(graphDoc), string(cfgDoc), time.Now().UTC().UnixMilli()).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("store scene %q: %w", sceneID, err)
	}
	return version, nil
}

// GetScene loads the newest version of the scene document pair.
func (st *Store) GetScene(ctx context.Context, sceneID string) (*scenegraph.Graph, *rlconfig.Config, error) {
	return st.getScene(ctx, sceneID,
		`SELECT graph, rl_config FROM scenes WHERE scene_id = ? ORDER BY version DESC LIMIT 1`, sceneID)
}

// GetSceneVersion loads one specific version of the scene document pair.
func (st *Store) GetSceneVersion(ctx context.Context, sceneID string, version int) (*scenegraph.Graph, *rlconfig.Config, error) {
	return st.getScene(ctx, sceneID,
		`SELECT graph, rl_config FROM scenes WHERE scene_id = ? AND version = ?`, sceneID, version)
}

func (st *Store) getScene(ctx context.Context, sceneID, query string, args ...any) (*scenegraph.Graph, *rlconfig.Config, error) {
	var graphDoc, cfgDoc string
	err := st.db.QueryRowContext(ctx, query, args...).Scan(&graphDoc, &cfgDoc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, fmt.Errorf("scene %q: %w", sceneID, ErrNotFound)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load scene %q: %w", sceneID, err)
	}

	var g scenegraph.Graph
	if err := json.Unmarshal([]byte(graphDoc), &g); err != nil {
		return nil, nil, fmt.Errorf("decode scene graph %q: %w", sceneID, err)
	}
	var cfg rlconfig.Config
	if err := json.Unmarshal([]byte(cfgDoc), &cfg); err != nil {
		return nil, nil, fmt.Errorf("decode rl config %q: %w", sceneID, err)
	}
	return &g, &cfg, nil
}

// SceneVersions returns the stored version numbers for a scene, oldest
// first.
func (st *Store) SceneVersions(ctx context.Context, sceneID string) ([]int, error) {
	rows, err := st.db.QueryContext(ctx,
		`SELECT version FROM scenes WHERE scene_id = ? ORDER BY version`, sceneID)
	if err != nil {
		return nil, fmt.Errorf("list scene versions %q: %w", sceneID, err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan version row: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
