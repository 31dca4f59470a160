package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"funnel/internal/models"
	"funnel/internal/scope"
)

type CategoryStore struct{ db *gorm.DB }

func NewCategoryStore(db *gorm.DB) *CategoryStore { return &CategoryStore{db: db} }

func (s *CategoryStore) ListCategories(ctx context.Context, p scope.Predicate) ([]models.Category, error) {
	var rows []models.Category
	err := s.db.WithContext(ctx).Where("organization_id = ?", p.OrgID).
		Order("id").Find(&rows).Error
	return rows, err
}

func (s *CategoryStore) GetCategory(ctx context.Context, p scope.Predicate, id uint) (*models.Category, error) {
	var c models.Category
	err := s.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", p.OrgID, id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CategoryStore) CreateCategory(ctx context.Context, c *models.Category) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *CategoryStore) SaveCategory(ctx context.Context, c *models.Category) error {
	return s.db.WithContext(ctx).Save(c).Error
}

// DeleteCategory hard-deletes; leads in the category fall back to
// uncategorized.
func (s *CategoryStore) DeleteCategory(ctx context.Context, p scope.Predicate, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c models.Category
		err := tx.Where("organization_id = ? AND id = ?", p.OrgID, id).First(&c).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Lead{}).Where("category_id = ?", c.ID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&c).Error
	})
}

// CountUncategorized counts the scope's leads with no category.
func (s *CategoryStore) CountUncategorized(ctx context.Context, p scope.Predicate) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Lead{}).
		Where("organization_id = ? AND category_id IS NULL", p.OrgID).
		Count(&n).Error
	return n, err
}

// LeadsInCategory returns the leads of one scoped category.
func (s *CategoryStore) LeadsInCategory(ctx context.Context, p scope.Predicate, categoryID uint) ([]models.Lead, error) {
	var rows []models.Lead
	err := s.db.WithContext(ctx).
		Where("organization_id = ? AND category_id = ?", p.OrgID, categoryID).
		Order("id").Find(&rows).Error
	return rows, err
}
