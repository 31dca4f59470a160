package agents

import (
	"context"

	"funnel/internal/models"
	"funnel/internal/scope"
)

// Store is the contract the agent handlers need from the store.
type Store interface {
	ListAgents(ctx context.Context, p scope.Predicate) ([]models.Agent, error)
	GetAgent(ctx context.Context, p scope.Predicate, id uint) (*models.Agent, error)
	CreateAgent(ctx context.Context, u *models.User, orgID uint) (*models.Agent, error)
	SaveAgentUser(ctx context.Context, u *models.User) error
	DeleteAgent(ctx context.Context, p scope.Predicate, id uint) error
}
