package services

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/kitchenkeeper/internal/dbx"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/models"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/repositories/deliveries"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/repositories/inventory"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/repositories/stockmovements"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

type fakeUsersRepo struct {
	byEmail   map[string]*models.User
	getErr    error
	createErr error
	created   *models.User
	lookups   []string
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = "new-id"
	f.created = u
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.lookups = append(f.lookups, email)
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, errNotFound()
	}
	return u, nil
}

type fakeInventoryRepo struct {
	items      []models.InventoryItem
	adjustOut  *models.InventoryItem
	adjustErr  error
	gotID      string
	gotDelta   float64
	gotRestock bool
}

func (f *fakeInventoryRepo) List(context.Context) ([]models.InventoryItem, error) {
	return f.items, nil
}

func (f *fakeInventoryRepo) AdjustQuantity(ctx context.Context, id string, delta float64, restock bool) (*models.InventoryItem, error) {
	f.gotID, f.gotDelta, f.gotRestock = id, delta, restock
	if f.adjustErr != nil {
		return nil, f.adjustErr
	}
	return f.adjustOut, nil
}

type fakeMovementsRepo struct {
	created   []*models.StockMovement
	createErr error
	gotLimit  int
}

func (f *fakeMovementsRepo) Create(ctx context.Context, m *models.StockMovement) (*models.StockMovement, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	m.ID = "m-1"
	f.created = append(f.created, m)
	return m, nil
}

func (f *fakeMovementsRepo) List(ctx context.Context, limit int) ([]models.StockMovement, error) {
	f.gotLimit = limit
	return []models.StockMovement{}, nil
}

type fakeDeliveriesRepo struct {
	created *models.DeliveryConfirmation
	byOrder map[string]*models.DeliveryConfirmation
	getErr  error
}

func (f *fakeDeliveriesRepo) Create(ctx context.Context, d *models.DeliveryConfirmation) (*models.DeliveryConfirmation, error) {
	d.ID = "d-1"
	f.created = d
	return d, nil
}

func (f *fakeDeliveriesRepo) List(ctx context.Context, limit int) ([]models.DeliveryConfirmation, error) {
	return []models.DeliveryConfirmation{}, nil
}

func (f *fakeDeliveriesRepo) GetByOrderID(ctx context.Context, orderID string) (*models.DeliveryConfirmation, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	d, ok := f.byOrder[orderID]
	if !ok {
		return nil, errNotFound()
	}
	return d, nil
}

type fakeRepoManager struct {
	repomanager.RepositoryManager
	users      *fakeUsersRepo
	inventory  *fakeInventoryRepo
	movements  *fakeMovementsRepo
	deliveries *fakeDeliveriesRepo
}

func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                   { return m.users }
func (m *fakeRepoManager) Inventory(dbx.DBTX) inventory.Repository           { return m.inventory }
func (m *fakeRepoManager) StockMovements(dbx.DBTX) stockmovements.Repository { return m.movements }
func (m *fakeRepoManager) Deliveries(dbx.DBTX) deliveries.Repository         { return m.deliveries }
