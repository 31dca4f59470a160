package auth

import "strings"

type SignupForm struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	FirstName        string `json:"first_name"`
	LastName         string `json:"last_name"`
	OrganizationName string `json:"organization_name"`
}

func (f *SignupForm) Validate() map[string]string {
	errs := map[string]string{}
	if !validEmail(f.Email) {
		errs["email"] = "a valid email address is required"
	}
	if len(f.Password) < 8 {
		errs["password"] = "password must be at least 8 characters"
	}
	if strings.TrimSpace(f.OrganizationName) == "" {
		errs["organization_name"] = "organization name is required"
	}
	return errs
}

type LoginForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f *LoginForm) Validate() map[string]string {
	errs := map[string]string{}
	if !validEmail(f.Email) {
		errs["email"] = "a valid email address is required"
	}
	if f.Password == "" {
		errs["password"] = "password is required"
	}
	return errs
}

func validEmail(s string) bool {
	s = strings.TrimSpace(s)
	at := strings.Index(s, "@")
	return at > 0 && at < len(s)-1
}
