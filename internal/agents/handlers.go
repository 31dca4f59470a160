package agents

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"funnel/internal/auth"
	"funnel/internal/logs"
	"funnel/internal/mailer"
	"funnel/internal/models"
	"funnel/internal/repo"
	"funnel/internal/scope"
)

type Handler struct {
	store Store
	mail  mailer.Mailer
	from  string
}

func NewHandler(store Store, mail mailer.Mailer, from string) *Handler {
	return &Handler{store: store, mail: mail, from: from}
}

func pathID(r *http.Request) uint {
	id, _ := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	return uint(id)
}

func writeNotFound(w http.ResponseWriter) {
	models.WriteProblem(w, http.StatusNotFound, "Not Found", "agent not found", nil)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r)
	rows, err := h.store.ListAgents(r.Context(), scope.Agents(id))
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{"agents": rows})
}

func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r)
	a, err := h.store.GetAgent(r.Context(), scope.Agents(id), pathID(r))
	if errors.Is(err, repo.ErrNotFound) {
		writeNotFound(w)
		return
	}
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{"agent": a})
}

// Create provisions a new agent: a fresh user with the agent role and a
// random placeholder credential, linked to the organisor's organization,
// then an invitation mail. The credential is never communicated directly;
// the agent resets it via the invitation.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r)

	var f AgentForm
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
		return
	}
	if errs := f.Validate(); len(errs) > 0 {
		models.WriteProblem(w, http.StatusUnprocessableEntity,
			"Validation Failed", "invalid agent input", map[string]any{"fields": errs})
		return
	}

	hash, err := auth.HashPassword(auth.PlaceholderPassword())
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}
	u := models.User{
		Email:        strings.ToLower(strings.TrimSpace(f.Email)),
		FirstName:    strings.TrimSpace(f.FirstName),
		LastName:     strings.TrimSpace(f.LastName),
		PasswordHash: hash,
		Role:         scope.RoleAgent,
	}
	a, err := h.store.CreateAgent(r.Context(), &u, id.OrgID)
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}

	// invitation is best-effort; the agent stays provisioned either way
	if err := h.mail.Send(
		"You're Invited to be an agent",
		"You were added as an agent.",
		h.from,
		[]string{u.Email},
	); err != nil {
		logs.Logger.Warnf("agent invitation failed for %s: %v", u.Email, err)
	}

	models.WriteJSON(w, http.StatusCreated, map[string]any{
		"agent": a,
		"next":  "/agents",
	})
}

// Update edits the wrapped user's profile fields after a scoped lookup.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r)

	a, err := h.store.GetAgent(r.Context(), scope.Agents(id), pathID(r))
	if errors.Is(err, repo.ErrNotFound) {
		writeNotFound(w)
		return
	}
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}

	var f AgentForm
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
		return
	}
	if errs := f.Validate(); len(errs) > 0 {
		models.WriteProblem(w, http.StatusUnprocessableEntity,
			"Validation Failed", "invalid agent input", map[string]any{"fields": errs})
		return
	}

	a.User.Email = strings.ToLower(strings.TrimSpace(f.Email))
	a.User.FirstName = strings.TrimSpace(f.FirstName)
	a.User.LastName = strings.TrimSpace(f.LastName)
	if err := h.store.SaveAgentUser(r.Context(), &a.User); err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"agent": a,
		"next":  fmt.Sprintf("/agents/%d", a.ID),
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r)
	err := h.store.DeleteAgent(r.Context(), scope.Agents(id), pathID(r))
	if errors.Is(err, repo.ErrNotFound) {
		writeNotFound(w)
		return
	}
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{"next": "/agents"})
}
