package agents

import "strings"

type AgentForm struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (f *AgentForm) Validate() map[string]string {
	errs := map[string]string{}
	email := strings.TrimSpace(f.Email)
	at := strings.Index(email, "@")
	if at <= 0 || at >= len(email)-1 {
		errs["email"] = "a valid email address is required"
	}
	if strings.TrimSpace(f.FirstName) == "" {
		errs["first_name"] = "first name is required"
	}
	return errs
}
