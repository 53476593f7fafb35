package users

import (
	"context"

	"github.com/dmitrijs2005/kitchenkeeper/internal/server/models"
)

// Repository is the credential store. Emails are expected lowercased by
// the caller.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
