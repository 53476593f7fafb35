package inventory

import (
	"context"

	"github.com/dmitrijs2005/kitchenkeeper/internal/server/models"
)

type Repository interface {
	List(ctx context.Context) ([]models.InventoryItem, error)
	// AdjustQuantity adds delta to the item's stock, never going below zero,
	// and returns the updated item. restock also stamps last_restocked.
	AdjustQuantity(ctx context.Context, id string, delta float64, restock bool) (*models.InventoryItem, error)
}
