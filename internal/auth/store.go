package auth

import (
	"context"

	"funnel/internal/models"
	"funnel/internal/scope"
)

// UserStore is the minimal contract the auth layer needs from the store.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateOrganisor(ctx context.Context, u *models.User, org *models.Organization) error
	// FindIdentity resolves a user id into the acting identity: organisors
	// carry their own organization, agents carry their agent row's.
	FindIdentity(ctx context.Context, userID uint) (*scope.Identity, error)
}
