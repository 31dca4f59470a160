package repo

import (
	"context"
	"sort"
	"sync"
	"time"

	"funnel/internal/models"
	"funnel/internal/scope"
)

// Memory is the storeless backend used when database.driver is empty, and
// by the tests. One mutex over plain maps; every return value is a copy so
// callers never alias store state.
type Memory struct {
	mu  sync.RWMutex
	seq uint

	users      map[uint]*models.User
	orgs       map[uint]*models.Organization
	agents     map[uint]*models.Agent
	categories map[uint]*models.Category
	leads      map[uint]*models.Lead
}

func NewMemory() *Memory {
	return &Memory{
		users:      make(map[uint]*models.User),
		orgs:       make(map[uint]*models.Organization),
		agents:     make(map[uint]*models.Agent),
		categories: make(map[uint]*models.Category),
		leads:      make(map[uint]*models.Lead),
	}
}

func (m *Memory) nextID() uint { m.seq++; return m.seq }

// ---- auth.UserStore ----

func (m *Memory) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CreateOrganisor(_ context.Context, u *models.User, org *models.Organization) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	u.ID = m.nextID()
	u.CreatedAt, u.UpdatedAt = now, now
	org.ID = m.nextID()
	org.UserID = u.ID
	org.CreatedAt, org.UpdatedAt = now, now
	uc, oc := *u, *org
	m.users[u.ID] = &uc
	m.orgs[org.ID] = &oc
	return nil
}

func (m *Memory) FindIdentity(_ context.Context, userID uint) (*scope.Identity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	id := scope.Identity{UserID: u.ID, Role: u.Role}
	switch u.Role {
	case scope.RoleOrganisor:
		for _, org := range m.orgs {
			if org.UserID == u.ID {
				id.OrgID = org.ID
				return &id, nil
			}
		}
	case scope.RoleAgent:
		for _, a := range m.agents {
			if a.UserID == u.ID {
				id.OrgID = a.OrganizationID
				return &id, nil
			}
		}
	}
	return nil, ErrNotFound
}

// ---- leads.Store ----

// agentUser resolves the user id behind a lead's assigned agent, nil for
// unassigned leads. Caller holds the lock.
func (m *Memory) agentUser(l *models.Lead) *uint {
	if l.AgentID == nil {
		return nil
	}
	a, ok := m.agents[*l.AgentID]
	if !ok {
		return nil
	}
	uid := a.UserID
	return &uid
}

// leadCopy attaches the assigned agent like the SQL store's preload does.
// Caller holds the lock.
func (m *Memory) leadCopy(l *models.Lead) models.Lead {
	cp := *l
	if l.AgentID != nil {
		if a, ok := m.agents[*l.AgentID]; ok {
			ac := *a
			if u, ok := m.users[a.UserID]; ok {
				ac.User = *u
			}
			cp.Agent = &ac
		}
	}
	return cp
}

func (m *Memory) ListLeads(_ context.Context, p scope.Predicate) ([]models.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rows []models.Lead
	for _, l := range m.leads {
		if l.AgentID != nil && p.MatchLead(l.OrganizationID, m.agentUser(l)) {
			rows = append(rows, m.leadCopy(l))
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (m *Memory) ListUnassigned(_ context.Context, p scope.Predicate) ([]models.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rows []models.Lead
	for _, l := range m.leads {
		if l.AgentID == nil && p.MatchLead(l.OrganizationID, nil) {
			rows = append(rows, *l)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (m *Memory) GetLead(_ context.Context, p scope.Predicate, id uint) (*models.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	l, ok := m.leads[id]
	if !ok || !p.MatchLead(l.OrganizationID, m.agentUser(l)) {
		return nil, ErrNotFound
	}
	cp := m.leadCopy(l)
	return &cp, nil
}

func (m *Memory) CreateLead(_ context.Context, l *models.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	l.ID = m.nextID()
	l.CreatedAt, l.UpdatedAt = now, now
	cp := *l
	cp.Agent = nil
	m.leads[l.ID] = &cp
	return nil
}

func (m *Memory) SaveLead(_ context.Context, l *models.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.leads[l.ID]; !ok {
		return ErrNotFound
	}
	l.UpdatedAt = time.Now().UTC()
	cp := *l
	cp.Agent = nil
	m.leads[l.ID] = &cp
	return nil
}

func (m *Memory) DeleteLead(_ context.Context, p scope.Predicate, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leads[id]
	if !ok || !p.MatchLead(l.OrganizationID, m.agentUser(l)) {
		return ErrNotFound
	}
	delete(m.leads, id)
	return nil
}

func (m *Memory) AgentInOrg(_ context.Context, orgID, agentID uint) (*models.Agent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.agents[agentID]
	if !ok || a.OrganizationID != orgID {
		return nil, ErrNotFound
	}
	cp := *a
	if u, ok := m.users[a.UserID]; ok {
		cp.User = *u
	}
	return &cp, nil
}

func (m *Memory) CategoryInOrg(_ context.Context, orgID, categoryID uint) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.categories[categoryID]
	if !ok || c.OrganizationID != orgID {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// ---- agents.Store ----

func (m *Memory) ListAgents(_ context.Context, p scope.Predicate) ([]models.Agent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rows []models.Agent
	for _, a := range m.agents {
		if p.Match(a.OrganizationID) {
			cp := *a
			if u, ok := m.users[a.UserID]; ok {
				cp.User = *u
			}
			rows = append(rows, cp)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (m *Memory) GetAgent(_ context.Context, p scope.Predicate, id uint) (*models.Agent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.agents[id]
	if !ok || !p.Match(a.OrganizationID) {
		return nil, ErrNotFound
	}
	cp := *a
	if u, ok := m.users[a.UserID]; ok {
		cp.User = *u
	}
	return &cp, nil
}

func (m *Memory) CreateAgent(_ context.Context, u *models.User, orgID uint) (*models.Agent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	u.ID = m.nextID()
	u.CreatedAt, u.UpdatedAt = now, now
	uc := *u
	m.users[u.ID] = &uc

	a := models.Agent{
		ID:             m.nextID(),
		UserID:         u.ID,
		OrganizationID: orgID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	ac := a
	m.agents[a.ID] = &ac
	a.User = *u
	return &a, nil
}

func (m *Memory) SaveAgentUser(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.ID]; !ok {
		return ErrNotFound
	}
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *Memory) DeleteAgent(_ context.Context, p scope.Predicate, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.agents[id]
	if !ok || !p.Match(a.OrganizationID) {
		return ErrNotFound
	}
	for _, l := range m.leads {
		if l.AgentID != nil && *l.AgentID == id {
			l.AgentID = nil
		}
	}
	delete(m.agents, id)
	return nil
}

// ---- categories.Store ----

func (m *Memory) ListCategories(_ context.Context, p scope.Predicate) ([]models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rows []models.Category
	for _, c := range m.categories {
		if p.Match(c.OrganizationID) {
			rows = append(rows, *c)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}

func (m *Memory) GetCategory(_ context.Context, p scope.Predicate, id uint) (*models.Category, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.categories[id]
	if !ok || !p.Match(c.OrganizationID) {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *Memory) CreateCategory(_ context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	c.ID = m.nextID()
	c.CreatedAt, c.UpdatedAt = now, now
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

func (m *Memory) SaveCategory(_ context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[c.ID]; !ok {
		return ErrNotFound
	}
	c.UpdatedAt = time.Now().UTC()
	cp := *c
	m.categories[c.ID] = &cp
	return nil
}

func (m *Memory) DeleteCategory(_ context.Context, p scope.Predicate, id uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok || !p.Match(c.OrganizationID) {
		return ErrNotFound
	}
	for _, l := range m.leads {
		if l.CategoryID != nil && *l.CategoryID == id {
			l.CategoryID = nil
		}
	}
	delete(m.categories, id)
	return nil
}

func (m *Memory) CountUncategorized(_ context.Context, p scope.Predicate) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, l := range m.leads {
		if l.CategoryID == nil && p.Match(l.OrganizationID) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) LeadsInCategory(_ context.Context, p scope.Predicate, categoryID uint) ([]models.Lead, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rows []models.Lead
	for _, l := range m.leads {
		if l.CategoryID != nil && *l.CategoryID == categoryID && p.Match(l.OrganizationID) {
			rows = append(rows, m.leadCopy(l))
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	return rows, nil
}
