// Package postgres implements storage.Store on PostgreSQL through pgx.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"

	"finance-tracker-backend/internal/log"
	"finance-tracker-backend/internal/storage"
)

// Options control how the connection is established.
type Options struct {
	URL        string
	MaxRetries int
	RetryDelay time.Duration
}

// Store is the PostgreSQL-backed storage.Store.
type Store struct {
	db     *sql.DB
	logger *log.Logger
}

var _ storage.Store = (*Store)(nil)

// Open connects to the database, waiting for it to accept connections.
func Open(ctx context.Context, opts Options, logger *log.Logger) (*Store, error) {
	db, err := connect(ctx, opts, logger)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, logger: logger.WithComponent(log.ComponentStorage)}, nil
}

// NewWithDB wraps an already opened database.
func NewWithDB(db *sql.DB, logger *log.Logger) *Store {
	return &Store{db: db, logger: logger.WithComponent(log.ComponentStorage)}
}

func connect(ctx context.Context, opts Options, logger *log.Logger) (*sql.DB, error) {
	config, err := pgx.ParseConfig(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	logger = logger.WithComponent(log.ComponentStorage)
	maxRetries := max(opts.MaxRetries, 1)

	for i := 0; i < maxRetries; i++ {
		db := stdlib.OpenDB(*config)
		err := db.PingContext(ctx)
		if err == nil {
			logger.Info("Database connection established")
			return db, nil
		}
		db.Close()

		if i == maxRetries-1 || ctx.Err() != nil {
			return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", i+1, err)
		}
		// Log the actual error on the first attempts and every 10th one after that
		if i%10 == 0 || i < 5 {
			logger.Warn("Database not ready, retrying",
				"delay", opts.RetryDelay, "attempt", i+1, "max_attempts", maxRetries, log.FieldError, err)
		} else {
			logger.Warn("Database not ready, retrying",
				"delay", opts.RetryDelay, "attempt", i+1, "max_attempts", maxRetries)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for database: %w", ctx.Err())
		case <-time.After(opts.RetryDelay):
		}
	}
	return nil, errors.New("failed to connect to database")
}

// DB exposes the underlying handle for migrations and tests.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

// withTx runs fn inside a database transaction, rolling back when fn fails.
func (s *Store) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pgCode(err) == pgerrcode.UniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pgCode(err) == pgerrcode.ForeignKeyViolation
}

// isInvalidValue reports a value rejected by a column constraint or numeric precision.
func isInvalidValue(err error) bool {
	switch pgCode(err) {
	case pgerrcode.CheckViolation, pgerrcode.NumericValueOutOfRange:
		return true
	}
	return false
}
