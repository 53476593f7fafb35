package deliveries

import (
	"context"

	"github.com/dmitrijs2005/kitchenkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, d *models.DeliveryConfirmation) (*models.DeliveryConfirmation, error)
	List(ctx context.Context, limit int) ([]models.DeliveryConfirmation, error)
	// GetByOrderID returns the latest confirmation for an order or
	// common.ErrorNotFound.
	GetByOrderID(ctx context.Context, orderID string) (*models.DeliveryConfirmation, error)
}
