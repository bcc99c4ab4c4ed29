// Package sqlite is the embedded EntityStore engine, used for single-node
// deployments and for tests that need a real database without a container.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/itchan-dev/anonboard/backend/internal/storage"
	"github.com/itchan-dev/anonboard/shared/logger"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed migrations/init.sql
var schema string

const Memory = ":memory:"

var _ storage.Storage = (*Storage)(nil)

// querier is satisfied by *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Storage struct {
	db   *sql.DB
	q    querier
	inTx bool
	now  func() time.Time
}

type Option func(*Storage)

// WithClock overrides the source of created_at/updated_at values.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) { s.now = now }
}

// dsn enables foreign keys, waits on locks instead of failing with SQLITE_BUSY,
// and starts every transaction as a writer so read-then-write sequences cannot deadlock.
func dsn(path string) string {
	params := "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_txlock=immediate"
	if path == Memory {
		return "file::memory:?" + params
	}
	return "file:" + path + "?" + params + "&_pragma=journal_mode(WAL)"
}

func New(ctx context.Context, path string, opts ...Option) (*Storage, error) {
	logger.Log.Info("opening sqlite database", "path", path)
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// one connection: an in-memory database lives per connection, and sqlite
	// serializes writers anyway
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s := &Storage{db: db, q: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return s, nil
}

func (s *Storage) WithTx(ctx context.Context, fn func(tx storage.Storage) error) error {
	if s.inTx {
		return fn(s)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Storage{db: s.db, q: tx, inTx: true, now: s.now}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

func (s *Storage) timestamp() time.Time {
	return s.now().UTC()
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func limitArg(limit int) int {
	if limit <= 0 {
		return -1 // sqlite: no limit
	}
	return limit
}

func encodeIds(ids []string) (string, error) {
	if ids == nil {
		ids = []string{}
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("failed to encode id list: %w", err)
	}
	return string(b), nil
}

func decodeIds(raw string) ([]string, error) {
	ids := []string{}
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("failed to decode id list: %w", err)
	}
	return ids, nil
}

func isConstraint(err error, kind string) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	// primary result code; the extended code is not always populated
	return sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT && strings.Contains(sqliteErr.Error(), kind)
}

func isUniqueViolation(err error) bool {
	return isConstraint(err, "UNIQUE")
}

func isForeignKeyViolation(err error) bool {
	return isConstraint(err, "FOREIGN KEY")
}

type scanner interface {
	Scan(dest ...any) error
}
