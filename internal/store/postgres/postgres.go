// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/lib/pq"

	"cryptopulse/internal/store"
	"cryptopulse/pkg/contracts/domain"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// uniqueViolation is the PostgreSQL error code for unique-constraint failures.
const uniqueViolation = "23505"

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// Config holds the connection settings for New. Zero pool values fall
// back to the package defaults.
type Config struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// New opens a connection to the PostgreSQL database, configures the
// connection pool, and runs any pending migrations.
func New(cfg Config) (*PostgresStore, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = 25
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = 5
	}
	if cfg.ConnMaxLifetime <= 0 {
		cfg.ConnMaxLifetime = 5 * time.Minute
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewWithDB wraps an existing database handle without running migrations.
// Used by tests that substitute a mock driver.
func NewWithDB(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// IsUniqueViolation reports whether err is a unique-constraint violation.
// The relationship builder counts these instead of propagating them: a
// duplicate-key race during an upsert means another writer already
// materialized the same link.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	return false
}

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *PostgresStore) ListEvents(ctx context.Context, filter store.EventFilter) ([]domain.Event, error) {
	return queryListEvents(ctx, s.db, filter)
}

func (s *PostgresStore) GetEventByNaturalKey(ctx context.Context, incidentName string, date time.Time) (*domain.Event, error) {
	return queryGetEventByNaturalKey(ctx, s.db, incidentName, date)
}

func (s *PostgresStore) CreateEvent(ctx context.Context, event *domain.Event) error {
	return queryCreateEvent(ctx, s.db, event)
}

func (s *PostgresStore) UpdateEventFields(ctx context.Context, id int64, changes store.FieldChanges) error {
	return queryUpdateEventFields(ctx, s.db, id, changes)
}

func (s *PostgresStore) ListCurrencies(ctx context.Context, filter store.CurrencyFilter) ([]domain.CurrencyRecord, error) {
	return queryListCurrencies(ctx, s.db, filter)
}

func (s *PostgresStore) GetCurrencyByNaturalKey(ctx context.Context, name, symbol string, date time.Time) (*domain.CurrencyRecord, error) {
	return queryGetCurrencyByNaturalKey(ctx, s.db, name, symbol, date)
}

func (s *PostgresStore) CreateCurrency(ctx context.Context, record *domain.CurrencyRecord) error {
	return queryCreateCurrency(ctx, s.db, record)
}

func (s *PostgresStore) UpdateCurrencyFields(ctx context.Context, id int64, changes store.FieldChanges) error {
	return queryUpdateCurrencyFields(ctx, s.db, id, changes)
}

func (s *PostgresStore) ListLinkDetails(ctx context.Context, filter store.LinkFilter) ([]domain.LinkDetail, error) {
	return queryListLinkDetails(ctx, s.db, filter)
}

func (s *PostgresStore) UpsertLink(ctx context.Context, link *domain.EventCurrencyLink) (bool, error) {
	return queryUpsertLink(ctx, s.db, link)
}

func (s *PostgresStore) LinkStats(ctx context.Context) (*domain.LinkStats, error) {
	return queryLinkStats(ctx, s.db)
}

func (s *PostgresStore) DistinctEventAttributes(ctx context.Context) (*store.EventAttributes, error) {
	return queryDistinctEventAttributes(ctx, s.db)
}

// RunInTransaction begins a database transaction, creates a txStore that
// delegates to it, calls fn, and commits on success or rolls back on error.
func (s *PostgresStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txS := &txStore{tx: tx}
	if err := fn(txS); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// txStore implements store.Store using a *sql.Tx.
type txStore struct {
	tx *sql.Tx
}

// Compile-time check that txStore implements store.Store.
var _ store.Store = (*txStore)(nil)

func (s *txStore) ListEvents(ctx context.Context, filter store.EventFilter) ([]domain.Event, error) {
	return queryListEvents(ctx, s.tx, filter)
}

func (s *txStore) GetEventByNaturalKey(ctx context.Context, incidentName string, date time.Time) (*domain.Event, error) {
	return queryGetEventByNaturalKey(ctx, s.tx, incidentName, date)
}

func (s *txStore) CreateEvent(ctx context.Context, event *domain.Event) error {
	return queryCreateEvent(ctx, s.tx, event)
}

func (s *txStore) UpdateEventFields(ctx context.Context, id int64, changes store.FieldChanges) error {
	return queryUpdateEventFields(ctx, s.tx, id, changes)
}

func (s *txStore) ListCurrencies(ctx context.Context, filter store.CurrencyFilter) ([]domain.CurrencyRecord, error) {
	return queryListCurrencies(ctx, s.tx, filter)
}

func (s *txStore) GetCurrencyByNaturalKey(ctx context.Context, name, symbol string, date time.Time) (*domain.CurrencyRecord, error) {
	return queryGetCurrencyByNaturalKey(ctx, s.tx, name, symbol, date)
}

func (s *txStore) CreateCurrency(ctx context.Context, record *domain.CurrencyRecord) error {
	return queryCreateCurrency(ctx, s.tx, record)
}

func (s *txStore) UpdateCurrencyFields(ctx context.Context, id int64, changes store.FieldChanges) error {
	return queryUpdateCurrencyFields(ctx, s.tx, id, changes)
}

func (s *txStore) ListLinkDetails(ctx context.Context, filter store.LinkFilter) ([]domain.LinkDetail, error) {
	return queryListLinkDetails(ctx, s.tx, filter)
}

func (s *txStore) UpsertLink(ctx context.Context, link *domain.EventCurrencyLink) (bool, error) {
	return queryUpsertLink(ctx, s.tx, link)
}

func (s *txStore) LinkStats(ctx context.Context) (*domain.LinkStats, error) {
	return queryLinkStats(ctx, s.tx)
}

func (s *txStore) DistinctEventAttributes(ctx context.Context) (*store.EventAttributes, error) {
	return queryDistinctEventAttributes(ctx, s.tx)
}

// RunInTransaction on a txStore reuses the existing transaction (no nesting).
func (s *txStore) RunInTransaction(ctx context.Context, fn func(tx store.Store) error) error {
	return fn(s)
}

// Close is a no-op for a transaction store; the parent store owns the connection.
func (s *txStore) Close() error {
	return nil
}
