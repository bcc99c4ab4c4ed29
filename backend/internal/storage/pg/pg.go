package pg

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/itchan-dev/anonboard/backend/internal/storage"
	"github.com/itchan-dev/anonboard/shared/config"
	"github.com/itchan-dev/anonboard/shared/logger"
	sharedpg "github.com/itchan-dev/anonboard/shared/storage/pg"
)

//go:embed migrations/init.sql
var schema string

var _ storage.Storage = (*Storage)(nil)

type Storage struct {
	db   *sql.DB
	q    sharedpg.Querier
	inTx bool
	now  func() time.Time
}

type Option func(*Storage)

// WithClock overrides the source of created_at/updated_at values.
func WithClock(now func() time.Time) Option {
	return func(s *Storage) { s.now = now }
}

func New(ctx context.Context, cfg *config.Pg, opts ...Option) (*Storage, error) {
	logger.Log.Info("connecting to postgres", "host", cfg.Host, "dbname", cfg.Dbname)
	db, err := sharedpg.Connect(ctx, cfg, sharedpg.DefaultConnectionConfig())
	if err != nil {
		return nil, err
	}
	logger.Log.Info("successfully connected to postgres")

	s := NewFromDB(db, opts...)
	if err := s.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewFromDB wraps an already opened pool. The schema is not touched.
func NewFromDB(db *sql.DB, opts ...Option) *Storage {
	s := &Storage{db: db, q: db, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Storage) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (s *Storage) WithTx(ctx context.Context, fn func(tx storage.Storage) error) error {
	if s.inTx {
		return fn(s)
	}
	return sharedpg.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(&Storage{db: s.db, q: tx, inTx: true, now: s.now})
	})
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Storage) Cleanup() error {
	return s.db.Close()
}

// timestamptz keeps microseconds, so values handed back to callers are truncated the same way
func (s *Storage) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// lock makes by-id reads inside a transaction hold the row until commit
func (s *Storage) lock() string {
	if s.inTx {
		return " FOR UPDATE"
	}
	return ""
}

// lockParent takes the row lock on the parent before a child insert. The insert's
// foreign key check holds KEY SHARE on the same row, and a later FOR UPDATE read
// by the link step would otherwise deadlock against a concurrent insert.
func (s *Storage) lockParent(ctx context.Context, table string, id string) error {
	if !s.inTx {
		return nil
	}
	var one int
	err := s.q.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id = $1 FOR UPDATE", id).Scan(&one)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to lock %s row: %w", table, err)
	}
	return nil
}

func limitArg(limit int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(limit), Valid: limit > 0}
}

type scanner interface {
	Scan(dest ...any) error
}
