package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/kitchenkeeper/internal/dbx"
	"github.com/dmitrijs2005/kitchenkeeper/internal/migrate"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/repositories/deliveries"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/repositories/inventory"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/repositories/stockmovements"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) (migrate.Report, error)
	MigrationStatus(context.Context, *sql.DB) ([]migrate.Record, error)
	Users(db dbx.DBTX) users.Repository
	Inventory(db dbx.DBTX) inventory.Repository
	StockMovements(db dbx.DBTX) stockmovements.Repository
	Deliveries(db dbx.DBTX) deliveries.Repository
}
