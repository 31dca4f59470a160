package leads

import "strings"

// LeadForm carries the creatable/updatable lead fields. organization_id is
// accepted on the wire but never read: the lead is always bound to the
// acting organisor's own organization.
type LeadForm struct {
	FirstName      string            `json:"first_name"`
	LastName       string            `json:"last_name"`
	Age            int               `json:"age"`
	Contact        map[string]string `json:"contact"`
	CategoryID     *uint             `json:"category_id"`
	OrganizationID uint              `json:"organization_id"`
}

func (f *LeadForm) Validate() map[string]string {
	errs := map[string]string{}
	if strings.TrimSpace(f.FirstName) == "" {
		errs["first_name"] = "first name is required"
	}
	if strings.TrimSpace(f.LastName) == "" {
		errs["last_name"] = "last name is required"
	}
	if f.Age < 0 || f.Age > 150 {
		errs["age"] = "age must be between 0 and 150"
	}
	return errs
}

type AssignAgentForm struct {
	AgentID uint `json:"agent_id"`
}

func (f *AssignAgentForm) Validate() map[string]string {
	errs := map[string]string{}
	if f.AgentID == 0 {
		errs["agent_id"] = "agent is required"
	}
	return errs
}

// CategoryForm reassigns a lead's category; null clears it.
type CategoryForm struct {
	CategoryID *uint `json:"category_id"`
}
