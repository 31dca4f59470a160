package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"funnel/internal/models"
	"funnel/internal/scope"
)

type UserStore struct{ db *gorm.DB }

func NewUserStore(db *gorm.DB) *UserStore { return &UserStore{db: db} }

func (s *UserStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateOrganisor persists the user and its organization in one
// transaction; a signup must not leave either half behind.
func (s *UserStore) CreateOrganisor(ctx context.Context, u *models.User, org *models.Organization) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		org.UserID = u.ID
		return tx.Create(org).Error
	})
}

func (s *UserStore) FindIdentity(ctx context.Context, userID uint) (*scope.Identity, error) {
	var u models.User
	err := s.db.WithContext(ctx).First(&u, userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	id := scope.Identity{UserID: u.ID, Role: u.Role}
	switch u.Role {
	case scope.RoleOrganisor:
		var org models.Organization
		if err := s.db.WithContext(ctx).Where("user_id = ?", u.ID).First(&org).Error; err != nil {
			return nil, err
		}
		id.OrgID = org.ID
	case scope.RoleAgent:
		var a models.Agent
		if err := s.db.WithContext(ctx).Where("user_id = ?", u.ID).First(&a).Error; err != nil {
			return nil, err
		}
		id.OrgID = a.OrganizationID
	default:
		return nil, ErrNotFound
	}
	return &id, nil
}
