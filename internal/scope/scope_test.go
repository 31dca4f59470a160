package scope

import "testing"

func TestLeadsOrganisor(t *testing.T) {
	p := Leads(Identity{UserID: 1, OrgID: 7, Role: RoleOrganisor})

	if p.OrgID != 7 {
		t.Fatalf("expected org 7, got %d", p.OrgID)
	}
	if p.AgentUserID != nil {
		t.Fatal("organisor predicate must not restrict by agent user")
	}
	if !p.MatchLead(7, nil) {
		t.Fatal("organisor must see unassigned leads in own org")
	}
	other := uint(99)
	if !p.MatchLead(7, &other) {
		t.Fatal("organisor must see leads assigned to any agent in own org")
	}
	if p.MatchLead(8, nil) {
		t.Fatal("organisor must not see leads of another org")
	}
}

func TestLeadsAgent(t *testing.T) {
	p := Leads(Identity{UserID: 42, OrgID: 7, Role: RoleAgent})

	if p.AgentUserID == nil || *p.AgentUserID != 42 {
		t.Fatalf("agent predicate must restrict to own user, got %v", p.AgentUserID)
	}
	own := uint(42)
	foreign := uint(43)
	if !p.MatchLead(7, &own) {
		t.Fatal("agent must see leads assigned to itself")
	}
	if p.MatchLead(7, &foreign) {
		t.Fatal("agent must not see leads assigned to another agent")
	}
	if p.MatchLead(7, nil) {
		t.Fatal("agent must not see unassigned leads")
	}
	if p.MatchLead(8, &own) {
		t.Fatal("agent must not see leads of another org")
	}
}

func TestCategoriesAndAgents(t *testing.T) {
	for _, role := range []Role{RoleOrganisor, RoleAgent} {
		id := Identity{UserID: 1, OrgID: 3, Role: role}
		if p := Categories(id); p.OrgID != 3 || p.AgentUserID != nil {
			t.Fatalf("role %s: unexpected category predicate %+v", role, p)
		}
		if p := Agents(id); !p.Match(3) || p.Match(4) {
			t.Fatalf("role %s: agent predicate must match own org only", role)
		}
	}
}
