// Package scope computes, per acting identity, the exact set of entities
// that identity may read or mutate. Scope computation IS the authorization
// boundary: a lookup that falls outside the predicate must surface as
// not-found, never as forbidden, so existence does not leak across tenants.
package scope

type Role string

const (
	RoleOrganisor Role = "organisor"
	RoleAgent     Role = "agent"
)

// Identity is the acting identity, resolved once per request and passed
// explicitly into every scope-computing call site.
type Identity struct {
	UserID uint
	OrgID  uint
	Role   Role
}

// Predicate narrows a query to one tenant, optionally to one agent's
// assigned leads. Both the SQL store and the in-memory store apply it.
type Predicate struct {
	OrgID uint
	// non-nil only for agent-role lead access: restrict to leads whose
	// assigned agent wraps this user
	AgentUserID *uint
}

// Leads returns the lead predicate for an identity. Organisors see their
// whole organization; agents only leads assigned to their own user.
func Leads(id Identity) Predicate {
	p := Predicate{OrgID: id.OrgID}
	if id.Role == RoleAgent {
		uid := id.UserID
		p.AgentUserID = &uid
	}
	return p
}

// Categories returns the category predicate: organization-wide for both roles.
func Categories(id Identity) Predicate {
	return Predicate{OrgID: id.OrgID}
}

// Agents returns the agent predicate: organization-wide.
func Agents(id Identity) Predicate {
	return Predicate{OrgID: id.OrgID}
}

// MatchLead reports whether a lead with the given organization and
// assigned agent-user falls inside the predicate. agentUserID is nil for
// unassigned leads.
func (p Predicate) MatchLead(orgID uint, agentUserID *uint) bool {
	if orgID != p.OrgID {
		return false
	}
	if p.AgentUserID == nil {
		return true
	}
	return agentUserID != nil && *agentUserID == *p.AgentUserID
}

// Match reports whether an entity in the given organization falls inside
// the predicate, ignoring any agent restriction.
func (p Predicate) Match(orgID uint) bool {
	return orgID == p.OrgID
}
