package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/mailscrub/internal/model"
)

// DefaultSessionName is the session used when none is named.
const DefaultSessionName = "default"

// dbFileName is the database file created inside the data directory.
const dbFileName = "mailscrub.db"

// Store provides SQLite-based storage for named sessions and run history.
//
// Design decision: One database file holds every session. Sessions are
// small (three documents each) and a single file keeps backup and
// cleanup trivial.
type Store struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Record is the persisted state of a named session.
type Record struct {
	Name        string
	LastInput   string
	LastOutput  string
	UndoBuffer  string
	InputDigest string
	UpdatedAt   time.Time
}

// Run is one recorded apply.
type Run struct {
	// ID is a random UUID.
	ID string

	// Session is the name of the session the run belongs to.
	Session string

	InputDigest  string
	OutputDigest string

	// Counts are the analysis counts of the input.
	Counts model.AnalysisCounts

	// Flags are the cleanup options the run used.
	Flags model.CleanupFlags

	CreatedAt time.Time
}

// Open opens or creates a Store in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("session database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw prevents modernc.org/sqlite from creating a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}
	// Several mailscrub processes may share the database, e.g. watch and apply.
	dsn += "&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		name TEXT PRIMARY KEY,
		last_input TEXT NOT NULL,
		last_output TEXT NOT NULL,
		undo_buffer TEXT NOT NULL,
		input_digest TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		session TEXT NOT NULL,
		input_digest TEXT NOT NULL,
		output_digest TEXT NOT NULL,
		counts_json TEXT NOT NULL,
		flags_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_runs_session ON runs(session);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// queryer is the subset of *sql.DB and *sql.Tx used by loadRecord.
type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func loadRecord(ctx context.Context, q queryer, name string) (*Record, error) {
	query := `
	SELECT name, last_input, last_output, undo_buffer, input_digest, updated_at
	FROM sessions
	WHERE name = ?
	`

	var r Record
	var updatedAt string
	err := q.QueryRowContext(ctx, query, name).Scan(
		&r.Name, &r.LastInput, &r.LastOutput, &r.UndoBuffer, &r.InputDigest, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	r.UpdatedAt = parseTimestamp(updatedAt)
	return &r, nil
}

// Load returns the named session, or ErrSessionNotFound.
func (s *Store) Load(ctx context.Context, name string) (*Record, error) {
	return loadRecord(ctx, s.db, name)
}

// SaveApply records an apply on the named session, creating the session
// if needed. The undo buffer becomes the session's previous output, or
// input when the session had no output.
func (s *Store) SaveApply(ctx context.Context, name, input, output string) (*Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	previousOutput := ""
	existing, err := loadRecord(ctx, tx, name)
	switch {
	case err == nil:
		previousOutput = existing.LastOutput
	case !errors.Is(err, ErrSessionNotFound):
		return nil, err
	}

	r := &Record{
		Name:        name,
		LastInput:   input,
		LastOutput:  output,
		UndoBuffer:  undoSlot(previousOutput, input),
		InputDigest: Digest(input),
		UpdatedAt:   time.Now().UTC(),
	}

	query := `
	INSERT INTO sessions (name, last_input, last_output, undo_buffer, input_digest, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(name) DO UPDATE SET
		last_input = excluded.last_input,
		last_output = excluded.last_output,
		undo_buffer = excluded.undo_buffer,
		input_digest = excluded.input_digest,
		updated_at = excluded.updated_at
	`
	if _, err := tx.ExecContext(ctx, query,
		r.Name, r.LastInput, r.LastOutput, r.UndoBuffer, r.InputDigest, r.UpdatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit session: %w", err)
	}
	return r, nil
}

// Undo makes the undo buffer the session's current output and returns it.
// The buffer is kept, so a second undo returns the same document.
func (s *Store) Undo(ctx context.Context, name string) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	r, err := loadRecord(ctx, tx, name)
	if err != nil {
		return "", err
	}
	if r.UndoBuffer == "" {
		return "", ErrNoUndo
	}

	query := `UPDATE sessions SET last_output = ?, updated_at = ? WHERE name = ?`
	if _, err := tx.ExecContext(ctx, query, r.UndoBuffer, time.Now().UTC().Format(time.RFC3339Nano), name); err != nil {
		return "", fmt.Errorf("failed to undo: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit undo: %w", err)
	}
	return r.UndoBuffer, nil
}

// Reset deletes the named session. Its run history is kept.
// Resetting a session that does not exist is not an error.
func (s *Store) Reset(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE name = ?`, name); err != nil {
		return fmt.Errorf("failed to reset session: %w", err)
	}
	return nil
}

// RecordRun appends a run to the history of the named session.
func (s *Store) RecordRun(ctx context.Context, name, input, output string, counts model.AnalysisCounts, flags model.CleanupFlags) (*Run, error) {
	countsJSON, err := json.Marshal(counts)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize counts: %w", err)
	}
	flagsJSON, err := json.Marshal(flags)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize flags: %w", err)
	}

	run := &Run{
		ID:           uuid.NewString(),
		Session:      name,
		InputDigest:  Digest(input),
		OutputDigest: Digest(output),
		Counts:       counts,
		Flags:        flags,
		CreatedAt:    time.Now().UTC(),
	}

	query := `
	INSERT INTO runs (id, session, input_digest, output_digest, counts_json, flags_json, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query,
		run.ID, run.Session, run.InputDigest, run.OutputDigest,
		string(countsJSON), string(flagsJSON), run.CreatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}
	return run, nil
}

// ListRuns returns the runs of the named session, newest first.
// A limit of zero or less returns every run.
func (s *Store) ListRuns(ctx context.Context, name string, limit int) ([]Run, error) {
	query := `
	SELECT id, session, input_digest, output_digest, counts_json, flags_json, created_at
	FROM runs
	WHERE session = ?
	ORDER BY rowid DESC
	`
	args := []any{name}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var countsJSON, flagsJSON, createdAt string
		if err := rows.Scan(&run.ID, &run.Session, &run.InputDigest, &run.OutputDigest,
			&countsJSON, &flagsJSON, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		// Malformed JSON leaves zero values rather than hiding the run.
		_ = json.Unmarshal([]byte(countsJSON), &run.Counts)
		_ = json.Unmarshal([]byte(flagsJSON), &run.Flags)
		run.CreatedAt = parseTimestamp(createdAt)

		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// timestampFormats contains the timestamp formats the store may read back.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05", // SQLite default datetime format
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
