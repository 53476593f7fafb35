package stockmovements

import (
	"context"

	"github.com/dmitrijs2005/kitchenkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, m *models.StockMovement) (*models.StockMovement, error)
	// List returns the newest movements first, at most limit rows.
	List(ctx context.Context, limit int) ([]models.StockMovement, error)
}
