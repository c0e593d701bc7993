package store

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/roach88/kinship/query"
)

// Store wraps a SQLite database used as the relationship data store.
type Store struct {
	db  *sql.DB
	log *zap.Logger
	id  string
}

// Option configures a Store at Open time.
type Option func(*Store)

// WithLogger attaches a zap logger. Queries are logged at debug level with
// the store's trace id. Default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	s := &Store{
		db:  db,
		log: zap.NewNop(),
		id:  uuid.Must(uuid.NewV7()).String(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(zap.String("store_id", s.id))

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer association sets when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// ID returns the store's trace id, attached to every query log line.
func (s *Store) ID() string {
	return s.id
}

// Exec executes a single statement.
func (s *Store) Exec(ctx context.Context, stmt string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(ctx, stmt, args...)
}

// ExecScript executes a multi-statement SQL script, typically schema DDL.
func (s *Store) ExecScript(ctx context.Context, script string) error {
	if _, err := s.db.ExecContext(ctx, script); err != nil {
		return fmt.Errorf("exec script: %w", err)
	}
	return nil
}

// Insert adds a row to the named table and returns its rowid. Column names
// are validated; values are bound as parameters. Columns are emitted in
// sorted order so generated SQL is deterministic.
func (s *Store) Insert(ctx context.Context, table string, cols map[string]any) (int64, error) {
	if err := query.ValidColumn(table); err != nil {
		return 0, fmt.Errorf("insert into %q: %w", table, err)
	}
	if len(cols) == 0 {
		return 0, fmt.Errorf("insert into %q: no columns", table)
	}

	names := make([]string, 0, len(cols))
	for name := range cols {
		if err := query.ValidColumn(name); err != nil {
			return 0, fmt.Errorf("insert into %q: %w", table, err)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	vals := make([]any, len(names))
	for i, name := range names {
		vals[i] = cols[name]
	}

	stmt, args, err := sq.Insert(table).Columns(names...).Values(vals...).ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("insert into %q: %w", table, err)
	}
	return res.LastInsertId()
}

// selectRecords executes a built select and scans the result set.
func (s *Store) selectRecords(ctx context.Context, b sq.SelectBuilder, target Table) ([]*Record, error) {
	stmt, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	start := time.Now()
	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", target.Name, err)
	}
	defer rows.Close()

	recs, err := ScanRecords(rows, target)
	if err != nil {
		return nil, err
	}

	s.log.Debug("query",
		zap.String("table", target.Name),
		zap.String("sql", stmt),
		zap.Int("rows", len(recs)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return recs, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
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
