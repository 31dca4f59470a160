package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"funnel/internal/models"
	"funnel/internal/scope"
)

type LeadStore struct{ db *gorm.DB }

func NewLeadStore(db *gorm.DB) *LeadStore { return &LeadStore{db: db} }

// scoped applies the tenant predicate. The join is only needed for the
// agent role, where lead visibility hangs off the assigned agent's user.
func (s *LeadStore) scoped(ctx context.Context, p scope.Predicate) *gorm.DB {
	q := s.db.WithContext(ctx).Where("leads.organization_id = ?", p.OrgID)
	if p.AgentUserID != nil {
		q = q.Joins("JOIN agents ON agents.id = leads.agent_id").
			Where("agents.user_id = ?", *p.AgentUserID)
	}
	return q
}

// ListLeads returns the assigned leads inside the scope.
func (s *LeadStore) ListLeads(ctx context.Context, p scope.Predicate) ([]models.Lead, error) {
	var rows []models.Lead
	err := s.scoped(ctx, p).Where("leads.agent_id IS NOT NULL").
		Preload("Agent").Preload("Agent.User").
		Order("leads.id").Find(&rows).Error
	return rows, err
}

// ListUnassigned returns the scope's leads with no agent (organisor dashboards).
func (s *LeadStore) ListUnassigned(ctx context.Context, p scope.Predicate) ([]models.Lead, error) {
	var rows []models.Lead
	err := s.scoped(ctx, p).Where("leads.agent_id IS NULL").
		Order("leads.id").Find(&rows).Error
	return rows, err
}

func (s *LeadStore) GetLead(ctx context.Context, p scope.Predicate, id uint) (*models.Lead, error) {
	var l models.Lead
	err := s.scoped(ctx, p).Where("leads.id = ?", id).
		Preload("Agent").Preload("Agent.User").
		First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *LeadStore) CreateLead(ctx context.Context, l *models.Lead) error {
	return s.db.WithContext(ctx).Create(l).Error
}

func (s *LeadStore) SaveLead(ctx context.Context, l *models.Lead) error {
	return s.db.WithContext(ctx).Save(l).Error
}

func (s *LeadStore) DeleteLead(ctx context.Context, p scope.Predicate, id uint) error {
	res := s.scoped(ctx, p).Where("leads.id = ?", id).Delete(&models.Lead{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AgentInOrg resolves an agent id inside the given organization, for
// assignment validation.
func (s *LeadStore) AgentInOrg(ctx context.Context, orgID, agentID uint) (*models.Agent, error) {
	var a models.Agent
	err := s.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, agentID).
		Preload("User").First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// CategoryInOrg resolves a category id inside the given organization.
func (s *LeadStore) CategoryInOrg(ctx context.Context, orgID, categoryID uint) (*models.Category, error) {
	var c models.Category
	err := s.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", orgID, categoryID).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
