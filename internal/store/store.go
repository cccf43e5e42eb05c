package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - records table with by_createdAt and by_date indexes
const currentSchemaVersion = 1

// DefaultBusyTimeout bounds how long an operation waits on a locked database
// before failing with ErrStorageUnavailable.
const DefaultBusyTimeout = 5 * time.Second

var (
	// ErrStorageUnavailable means the database could not be opened or a
	// statement could not commit.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrWriteConflict means a generated reading id already exists.
	ErrWriteConflict = errors.New("write conflict")
)

// Option configures a Store.
type Option func(*Store)

// WithClock sets the wall clock used to stamp created_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger for store diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithBusyTimeout sets the SQLite busy timeout.
func WithBusyTimeout(d time.Duration) Option {
	return func(s *Store) { s.busyTimeout = d }
}

// Store provides durable storage for diary readings.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	path        string
	now         func() time.Time
	logger      *slog.Logger
	busyTimeout time.Duration

	mu     sync.Mutex // guards db and closed
	db     *sql.DB
	closed bool

	stampMu   sync.Mutex
	lastStamp int64
}

// New creates a store handle for the database at path. No I/O happens until
// Init or the first operation.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:        path,
		now:         time.Now,
		logger:      slog.New(slog.DiscardHandler),
		busyTimeout: DefaultBusyTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a handle and initializes it.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	s := New(path, opts...)
	if err := s.Init(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Init opens the database and establishes the schema if it does not exist.
//
// This function is idempotent and safe for concurrent use: concurrent callers
// wait for the first open and then share its connection. A failed Init leaves
// the handle unopened so a later call can retry.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.conn(ctx)
	return err
}

// Close closes the database connection. Closing an unopened or already
// closed handle is a no-op. Operations on a closed handle fail with
// ErrStorageUnavailable.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Path returns the database path the handle was created with.
func (s *Store) Path() string {
	return s.path
}

// conn returns the live connection, opening it on first use.
func (s *Store) conn(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("%w: store is closed", ErrStorageUnavailable)
	}
	if s.db != nil {
		return s.db, nil
	}

	db, err := openDB(ctx, s.path, s.busyTimeout)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", s.path, ErrStorageUnavailable, err)
	}

	// Seed the stamp so a clock behind the stored data cannot reorder inserts.
	var maxCreated sql.NullInt64
	if err := db.QueryRowContext(ctx, "SELECT MAX(created_at) FROM records").Scan(&maxCreated); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: read last stamp: %w: %w", s.path, ErrStorageUnavailable, err)
	}
	s.seedStamp(maxCreated.Int64)

	s.db = db
	s.logger.Debug("store opened", "path", s.path, "last_created_at", maxCreated.Int64)
	return db, nil
}

// openDB opens the SQLite file, applies pragmas and the schema.
func openDB(ctx context.Context, path string, busyTimeout time.Duration) (*sql.DB, error) {
	// Open database (creates file if doesn't exist)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection works
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(ctx, db, busyTimeout); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return db, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(ctx context.Context, db *sql.DB, busyTimeout time.Duration) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeout.Milliseconds()),
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// applySchema creates the table and indexes if they don't exist.
// Databases stamped with a newer schema version are refused.
func applySchema(ctx context.Context, db *sql.DB) error {
	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("schema version %d is newer than supported version %d", version, currentSchemaVersion)
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// seedStamp raises the last issued stamp to at least ms.
func (s *Store) seedStamp(ms int64) {
	s.stampMu.Lock()
	defer s.stampMu.Unlock()
	if ms > s.lastStamp {
		s.lastStamp = ms
	}
}

// nextStamp returns a created_at strictly greater than any previously issued
// by this handle: max(now, last+1).
func (s *Store) nextStamp() int64 {
	s.stampMu.Lock()
	defer s.stampMu.Unlock()

	ms := s.now().UnixMilli()
	if ms <= s.lastStamp {
		ms = s.lastStamp + 1
	}
	s.lastStamp = ms
	return ms
}

// unavailable wraps a driver error for op with ErrStorageUnavailable.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	db, err := s.conn(context.Background())
	if err != nil {
		return err
	}
	var value string
	if err := db.QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
