package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"funnel/internal/models"
	"funnel/internal/scope"
)

type AgentStore struct{ db *gorm.DB }

func NewAgentStore(db *gorm.DB) *AgentStore { return &AgentStore{db: db} }

func (s *AgentStore) ListAgents(ctx context.Context, p scope.Predicate) ([]models.Agent, error) {
	var rows []models.Agent
	err := s.db.WithContext(ctx).Where("organization_id = ?", p.OrgID).
		Preload("User").Order("id").Find(&rows).Error
	return rows, err
}

func (s *AgentStore) GetAgent(ctx context.Context, p scope.Predicate, id uint) (*models.Agent, error) {
	var a models.Agent
	err := s.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", p.OrgID, id).
		Preload("User").First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CreateAgent persists the wrapped user and the agent row together.
func (s *AgentStore) CreateAgent(ctx context.Context, u *models.User, orgID uint) (*models.Agent, error) {
	a := models.Agent{OrganizationID: orgID}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		a.UserID = u.ID
		return tx.Create(&a).Error
	})
	if err != nil {
		return nil, err
	}
	a.User = *u
	return &a, nil
}

// SaveAgentUser updates the wrapped user record (profile edits).
func (s *AgentStore) SaveAgentUser(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Save(u).Error
}

// DeleteAgent removes the agent row; its leads fall back to unassigned.
func (s *AgentStore) DeleteAgent(ctx context.Context, p scope.Predicate, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a models.Agent
		err := tx.Where("organization_id = ? AND id = ?", p.OrgID, id).First(&a).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Lead{}).Where("agent_id = ?", a.ID).
			Update("agent_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&a).Error
	})
}
