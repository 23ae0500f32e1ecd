package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hashicorp/go-hclog"
	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/predsql/internal/dialect"
	"github.com/roach88/predsql/internal/model"
	"github.com/roach88/predsql/internal/render"
)

// Store wraps a database handle and the dialect its statements use.
type Store struct {
	db      *sql.DB
	dialect *dialect.Fragments
	logger  hclog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the statement logger. Statements are logged at Debug.
func WithLogger(l hclog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithDialect overrides the dialect. Open defaults to SQLite; New requires
// one unless the caller only uses QueryPgx.
func WithDialect(f *dialect.Fragments) Option {
	return func(s *Store) { s.dialect = f }
}

// New wraps an existing database handle.
func New(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:      db,
		dialect: dialect.SQLite,
		logger:  hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates or opens a SQLite database at the given path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
func Open(path string, opts ...Option) (*Store, error) {
	// Open database (creates file if doesn't exist)
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection works
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	return New(db, append([]Option{WithDialect(dialect.SQLite)}, opts...)...), nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using Store methods when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Dialect returns the dialect statements are rendered in.
func (s *Store) Dialect() *dialect.Fragments {
	return s.dialect
}

// Exec executes a statement without returning rows.
func (s *Store) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	s.logger.Debug("exec", "sql", query, "args", len(args))
	return s.db.ExecContext(ctx, query, args...)
}

// Query executes a query and returns the resulting rows.
// Callers are responsible for closing the returned rows.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	s.logger.Debug("query", "sql", query, "args", len(args))
	return s.db.QueryContext(ctx, query, args...)
}

// Table binds the store to one entity.
func (s *Store) Table(d *model.Descriptor) *Table {
	return &Table{
		store:    s,
		model:    d,
		renderer: render.New(s.dialect, d),
		stmts:    PrepareStatements(s.dialect, d),
		logger:   s.logger.Named(d.Name()),
	}
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
