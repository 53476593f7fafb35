// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and the schema migrator.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"time"

	"github.com/dmitrijs2005/kitchenkeeper/internal/dbx"
	"github.com/dmitrijs2005/kitchenkeeper/internal/logging"
	"github.com/dmitrijs2005/kitchenkeeper/internal/migrate"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/repositories/deliveries"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/repositories/inventory"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/repositories/stockmovements"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes the schema migration hooks.
type PostgresRepositoryManager struct {
	source fs.FS
	logger logging.Logger
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Inventory returns an inventory.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Inventory(db dbx.DBTX) inventory.Repository {
	return inventory.NewPostgresRepository(db)
}

// StockMovements returns a stockmovements.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) StockMovements(db dbx.DBTX) stockmovements.Repository {
	return stockmovements.NewPostgresRepository(db)
}

// Deliveries returns a deliveries.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Deliveries(db dbx.DBTX) deliveries.Repository {
	return deliveries.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) migrator(db *sql.DB) *migrate.Migrator {
	return migrate.New(db, m.source, migrate.WithLogger(m.logger))
}

// RunMigrations applies every pending script from the manager's source.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) (migrate.Report, error) {
	return m.migrator(db).RunAll(ctx)
}

// MigrationStatus lists the ledger.
func (m *PostgresRepositoryManager) MigrationStatus(ctx context.Context, db *sql.DB) ([]migrate.Record, error) {
	return m.migrator(db).Status(ctx)
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
// A nil source selects the embedded migrations.
func NewPostgresRepositoryManager(source fs.FS, logger logging.Logger) *PostgresRepositoryManager {
	if source == nil {
		source = migrations.Migrations
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &PostgresRepositoryManager{source: source, logger: logger}
}

// PoolOptions bounds the database/sql connection pool.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// sqlOpen is a seam for testing.
var sqlOpen = sql.Open

// Open connects to PostgreSQL through the pgx stdlib driver and verifies the
// connection.
func Open(ctx context.Context, dsn string, pool PoolOptions) (*sql.DB, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if pool.MaxOpenConns > 0 {
		db.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns > 0 {
		db.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return db, nil
}
