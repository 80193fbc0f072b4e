package history

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/zeebo/blake3"
	_ "modernc.org/sqlite" // SQLite driver
)

// Kind names the analysis that produced an entry.
type Kind string

const (
	KindSingle    Kind = "single"
	KindDetect    Kind = "detect"
	KindRepeating Kind = "repeating"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("history store closed")

// Entry is one recorded analysis.
type Entry struct {
	ID         string    `json:"id"`
	Kind       Kind      `json:"kind"`
	Digest     string    `json:"digest"`
	InputBytes int       `json:"input_bytes"`
	Key        []byte    `json:"key,omitempty"`
	Plaintext  string    `json:"plaintext,omitempty"`
	Score      float64   `json:"score,omitempty"`
	Found      bool      `json:"found"`
	CreatedAt  time.Time `json:"created_at"`
}

// Digest returns the hex BLAKE3-256 digest used to key entries by ciphertext.
func Digest(ciphertext []byte) string {
	sum := blake3.Sum256(ciphertext)
	return hex.EncodeToString(sum[:])
}

// Store persists analyses in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the history database at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("history path cannot be empty")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}

	store := &Store{db: db}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		digest TEXT NOT NULL,
		input_bytes INTEGER NOT NULL,
		key BLOB,
		plaintext TEXT,
		score REAL,
		found INTEGER NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_analyses_digest ON analyses(digest);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// Record stores entry, assigning its ID and timestamp when unset.
func (s *Store) Record(ctx context.Context, entry Entry) (Entry, error) {
	if s == nil || s.db == nil {
		return Entry{}, ErrClosed
	}
	if entry.Kind == "" {
		return Entry{}, errors.New("entry kind is required")
	}
	if entry.Digest == "" {
		return Entry{}, errors.New("entry digest is required")
	}
	if entry.ID == "" {
		entry.ID = ulid.Make().String()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	entry.CreatedAt = entry.CreatedAt.UTC().Truncate(time.Millisecond)

	var score sql.NullFloat64
	if entry.Found {
		score = sql.NullFloat64{Float64: entry.Score, Valid: true}
	} else {
		entry.Score = 0
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analyses (id, kind, digest, input_bytes, key, plaintext, score, found, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, string(entry.Kind), entry.Digest, entry.InputBytes, entry.Key, entry.Plaintext,
		score, entry.Found, entry.CreatedAt.UnixMilli())
	if err != nil {
		return Entry{}, fmt.Errorf("insert analysis: %w", err)
	}
	return entry, nil
}

// List returns up to limit entries, newest first. A limit of zero or less
// returns every entry.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, ErrClosed
	}
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, digest, input_bytes, key, plaintext, score, found, created_at
		FROM analyses
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	return scanEntries(rows)
}

// FindByDigest returns entries recorded for the ciphertext with the given
// digest, newest first.
func (s *Store) FindByDigest(ctx context.Context, digest string) ([]Entry, error) {
	if s == nil || s.db == nil {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, digest, input_bytes, key, plaintext, score, found, created_at
		FROM analyses
		WHERE digest = ?
		ORDER BY created_at DESC, id DESC
	`, strings.ToLower(strings.TrimSpace(digest)))
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			entry     Entry
			kind      string
			plaintext sql.NullString
			score     sql.NullFloat64
			created   int64
		)
		if err := rows.Scan(&entry.ID, &kind, &entry.Digest, &entry.InputBytes, &entry.Key,
			&plaintext, &score, &entry.Found, &created); err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		entry.Kind = Kind(kind)
		entry.Plaintext = plaintext.String
		entry.Score = score.Float64
		entry.CreatedAt = time.UnixMilli(created).UTC()
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analyses: %w", err)
	}
	return entries, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
