package services

import (
	"context"
	"database/sql"
	"math"

	"github.com/dmitrijs2005/kitchenkeeper/internal/common"
	"github.com/dmitrijs2005/kitchenkeeper/internal/dbx"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/models"
	"github.com/dmitrijs2005/kitchenkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// DefaultListLimit caps list endpoints.
const DefaultListLimit = 100

type MovementInput struct {
	InventoryID string
	Quantity    float64
	Type        models.MovementType
	Note        *string
	CreatedBy   *string
}

// Validate reports every rejected field of in.
func (in MovementInput) Validate() error {
	verr := common.NewValidationError()
	if _, err := uuid.Parse(in.InventoryID); err != nil {
		verr.Add("inventoryId", "must be a UUID")
	}
	if in.Quantity <= 0 || math.IsNaN(in.Quantity) || math.IsInf(in.Quantity, 0) {
		verr.Add("quantity", "must be a positive number")
	}
	if !in.Type.Valid() {
		verr.Add("type", "must be one of in, out, waste, adjustment")
	}
	return verr.Err()
}

// StockService records stock movements and keeps inventory levels in step.
type StockService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewStockService(db *sql.DB, m repomanager.RepositoryManager) *StockService {
	return &StockService{db: db, repomanager: m}
}

// Record stores the movement and applies it to the item's stock level in
// one transaction. Stock is floored at zero. An unknown item yields
// common.ErrorNotFound and nothing is written.
func (s *StockService) Record(ctx context.Context, in MovementInput) (*models.InventoryItem, *models.StockMovement, error) {
	if err := in.Validate(); err != nil {
		return nil, nil, err
	}

	var (
		item *models.InventoryItem
		mv   *models.StockMovement
	)
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		item, err = s.repomanager.Inventory(tx).AdjustQuantity(ctx, in.InventoryID, in.Type.Delta(in.Quantity), in.Type == models.MovementIn)
		if err != nil {
			return err
		}
		mv, err = s.repomanager.StockMovements(tx).Create(ctx, &models.StockMovement{
			InventoryID: in.InventoryID,
			Quantity:    in.Quantity,
			Type:        in.Type,
			Note:        in.Note,
			CreatedBy:   in.CreatedBy,
		})
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return item, mv, nil
}

func (s *StockService) ListMovements(ctx context.Context) ([]models.StockMovement, error) {
	return s.repomanager.StockMovements(s.db).List(ctx, DefaultListLimit)
}

func (s *StockService) ListInventory(ctx context.Context) ([]models.InventoryItem, error) {
	return s.repomanager.Inventory(s.db).List(ctx)
}
