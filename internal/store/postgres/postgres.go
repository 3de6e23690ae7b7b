// Package postgres implements the store.Store interface backed by PostgreSQL,
// with session documents held as JSONB event arrays.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/groblegark/sessionlog/internal/model"
	"github.com/groblegark/sessionlog/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// PostgresStore implements store.Store backed by a PostgreSQL database.
type PostgresStore struct {
	db *sql.DB
}

// Compile-time check that PostgresStore implements store.Store.
var _ store.Store = (*PostgresStore)(nil)

// New opens a connection to the PostgreSQL database at the given URL,
// configures the connection pool, and runs any pending migrations.
func New(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

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

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
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

// Close closes the underlying database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) FindBySessionID(ctx context.Context, sessionID string) ([]*model.SessionDocument, error) {
	return queryFindBySessionID(ctx, s.db, sessionID)
}

func (s *PostgresStore) CreateDocument(ctx context.Context, doc *model.SessionDocument) error {
	return queryCreateDocument(ctx, s.db, doc)
}

func (s *PostgresStore) AppendEvent(ctx context.Context, docID string, ev model.StoredEvent) error {
	return queryAppendEvent(ctx, s.db, docID, ev)
}

func (s *PostgresStore) BatchDelete(ctx context.Context, ids []string) error {
	return queryBatchDelete(ctx, s.db, ids)
}

func (s *PostgresStore) ListDocuments(ctx context.Context) ([]*model.SessionDocument, error) {
	return queryListDocuments(ctx, s.db)
}
