package leads

import (
	"context"

	"funnel/internal/models"
	"funnel/internal/scope"
)

// Store is the minimal contract the lead handlers need. Satisfied by the
// gorm-backed repo stores and by repo.Memory.
type Store interface {
	ListLeads(ctx context.Context, p scope.Predicate) ([]models.Lead, error)
	ListUnassigned(ctx context.Context, p scope.Predicate) ([]models.Lead, error)
	GetLead(ctx context.Context, p scope.Predicate, id uint) (*models.Lead, error)
	CreateLead(ctx context.Context, l *models.Lead) error
	SaveLead(ctx context.Context, l *models.Lead) error
	DeleteLead(ctx context.Context, p scope.Predicate, id uint) error

	AgentInOrg(ctx context.Context, orgID, agentID uint) (*models.Agent, error)
	CategoryInOrg(ctx context.Context, orgID, categoryID uint) (*models.Category, error)
}
