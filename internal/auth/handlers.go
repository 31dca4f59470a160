package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"funnel/internal/models"
	"funnel/internal/repo"
	"funnel/internal/scope"
)

func NewHandler(store UserStore, tokens *TokenIssuer) *Handler {
	return &Handler{store: store, tokens: tokens}
}

type Handler struct {
	store  UserStore
	tokens *TokenIssuer
}

// Signup registers a new organisor together with its organization, the
// tenant root everything else will hang off.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var f SignupForm
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
		return
	}
	if errs := f.Validate(); len(errs) > 0 {
		models.WriteProblem(w, http.StatusUnprocessableEntity,
			"Validation Failed", "invalid signup input", map[string]any{"fields": errs})
		return
	}

	email := strings.ToLower(strings.TrimSpace(f.Email))
	if existing, err := h.store.GetUserByEmail(r.Context(), email); err == nil && existing != nil {
		models.WriteProblem(w, http.StatusUnprocessableEntity,
			"Validation Failed", "invalid signup input",
			map[string]any{"fields": map[string]string{"email": "email already registered"}})
		return
	} else if err != nil && !errors.Is(err, repo.ErrNotFound) {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}

	hash, err := HashPassword(f.Password)
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}
	u := models.User{
		Email:        email,
		FirstName:    strings.TrimSpace(f.FirstName),
		LastName:     strings.TrimSpace(f.LastName),
		PasswordHash: hash,
		Role:         scope.RoleOrganisor,
	}
	org := models.Organization{Name: strings.TrimSpace(f.OrganizationName)}
	if err := h.store.CreateOrganisor(r.Context(), &u, &org); err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}
	models.WriteJSON(w, http.StatusCreated, map[string]any{
		"user": u,
		"next": "/login",
	})
}

// Login exchanges email+password for a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var f LoginForm
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
		return
	}
	if errs := f.Validate(); len(errs) > 0 {
		models.WriteProblem(w, http.StatusUnprocessableEntity,
			"Validation Failed", "invalid login input", map[string]any{"fields": errs})
		return
	}

	email := strings.ToLower(strings.TrimSpace(f.Email))
	u, err := h.store.GetUserByEmail(r.Context(), email)
	if err != nil || u == nil || !CheckPassword(u.PasswordHash, f.Password) {
		// same answer for unknown email and wrong password
		models.WriteProblem(w, http.StatusUnauthorized,
			"Unauthorized", "invalid credentials", nil)
		return
	}
	token, err := h.tokens.Issue(u.ID)
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{"token": token})
}
