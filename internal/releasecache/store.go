package releasecache

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"platter/internal/album"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Entry summarizes one cached release.
type Entry struct {
	ReleaseID  string
	Title      string
	Artist     string
	TrackCount int
	FetchedAt  time.Time
}

// Store caches fetched releases in SQLite so repeated merges of the same
// release do not hit the network.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the cache database at path.
func Open(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("release cache path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the cached release for id.
func (s *Store) Get(ctx context.Context, id string) (album.Release, bool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return album.Release{}, false, nil
	}
	var payload string
	err := s.db.QueryRowContext(ctx,
		"SELECT payload_json FROM releases WHERE release_id = ?", id,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return album.Release{}, false, nil
	}
	if err != nil {
		return album.Release{}, false, fmt.Errorf("query release %s: %w", id, err)
	}
	var release album.Release
	if err := json.Unmarshal([]byte(payload), &release); err != nil {
		return album.Release{}, false, fmt.Errorf("decode cached release %s: %w", id, err)
	}
	return release, true, nil
}

// Put stores or replaces a release.
func (s *Store) Put(ctx context.Context, release album.Release) error {
	id := strings.TrimSpace(release.ID)
	if id == "" {
		return errors.New("release id cannot be empty")
	}
	payload, err := json.Marshal(release)
	if err != nil {
		return fmt.Errorf("encode release: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO releases (release_id, title, artist, track_count, payload_json, fetched_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(release_id) DO UPDATE SET
            title = excluded.title,
            artist = excluded.artist,
            track_count = excluded.track_count,
            payload_json = excluded.payload_json,
            fetched_at = excluded.fetched_at`,
		id,
		release.Title,
		release.Artist,
		len(release.Tracks),
		string(payload),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("store release %s: %w", id, err)
	}
	return nil
}

// List returns all cached releases, newest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT release_id, title, artist, track_count, fetched_at FROM releases ORDER BY fetched_at DESC, release_id",
	)
	if err != nil {
		return nil, fmt.Errorf("list releases: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry     Entry
			fetchedAt string
		)
		if err := rows.Scan(&entry.ReleaseID, &entry.Title, &entry.Artist, &entry.TrackCount, &fetchedAt); err != nil {
			return nil, fmt.Errorf("scan release: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, fetchedAt); err == nil {
			entry.FetchedAt = ts
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate releases: %w", err)
	}
	return entries, nil
}

// Remove deletes one release. It reports whether a row was removed.
func (s *Store) Remove(ctx context.Context, id string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM releases WHERE release_id = ?", strings.TrimSpace(id))
	if err != nil {
		return false, fmt.Errorf("remove release %s: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Clear deletes every cached release and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM releases")
	if err != nil {
		return 0, fmt.Errorf("clear releases: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return affected, nil
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to rebuild the cache)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}
