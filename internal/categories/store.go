package categories

import (
	"context"

	"funnel/internal/models"
	"funnel/internal/scope"
)

// Store is the contract the category handlers need from the store.
type Store interface {
	ListCategories(ctx context.Context, p scope.Predicate) ([]models.Category, error)
	GetCategory(ctx context.Context, p scope.Predicate, id uint) (*models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	SaveCategory(ctx context.Context, c *models.Category) error
	DeleteCategory(ctx context.Context, p scope.Predicate, id uint) error

	CountUncategorized(ctx context.Context, p scope.Predicate) (int64, error)
	LeadsInCategory(ctx context.Context, p scope.Predicate, categoryID uint) ([]models.Lead, error)
}
