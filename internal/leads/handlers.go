package leads

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/datatypes"

	"funnel/internal/auth"
	"funnel/internal/logs"
	"funnel/internal/mailer"
	"funnel/internal/models"
	"funnel/internal/repo"
	"funnel/internal/scope"
)

type Handler struct {
	store      Store
	mail       mailer.Mailer
	from       string
	notifyAddr string // fixed operational address for lead-created notifications
}

func NewHandler(store Store, mail mailer.Mailer, from, notifyAddr string) *Handler {
	return &Handler{store: store, mail: mail, from: from, notifyAddr: notifyAddr}
}

func pathID(r *http.Request) uint {
	id, _ := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	return uint(id)
}

func writeNotFound(w http.ResponseWriter) {
	models.WriteProblem(w, http.StatusNotFound, "Not Found", "lead not found", nil)
}

// List answers the scoped lead listing. Organisors additionally get the
// unassigned subset for their dashboard.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r)
	p := scope.Leads(id)

	rows, err := h.store.ListLeads(r.Context(), p)
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}
	resp := map[string]any{"leads": rows}
	if id.Role == scope.RoleOrganisor {
		unassigned, err := h.store.ListUnassigned(r.Context(), p)
		if err != nil {
			models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
			return
		}
		resp["unassigned"] = unassigned
	}
	models.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r)
	l, err := h.store.GetLead(r.Context(), scope.Leads(id), pathID(r))
	if errors.Is(err, repo.ErrNotFound) {
		writeNotFound(w)
		return
	}
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{"lead": l})
}

// Create validates the form, binds the lead to the creator's organization
// (never the payload's) and notifies the operational address.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r)

	var f LeadForm
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
		return
	}
	if errs := f.Validate(); len(errs) > 0 {
		models.WriteProblem(w, http.StatusUnprocessableEntity,
			"Validation Failed", "invalid lead input", map[string]any{"fields": errs})
		return
	}
	if f.CategoryID != nil {
		if _, err := h.store.CategoryInOrg(r.Context(), id.OrgID, *f.CategoryID); err != nil {
			models.WriteProblem(w, http.StatusUnprocessableEntity,
				"Validation Failed", "invalid lead input",
				map[string]any{"fields": map[string]string{"category_id": "unknown category"}})
			return
		}
	}

	l := models.Lead{
		OrganizationID: id.OrgID,
		FirstName:      f.FirstName,
		LastName:       f.LastName,
		Age:            f.Age,
		CategoryID:     f.CategoryID,
		Contact:        contactJSON(f.Contact),
	}
	if err := h.store.CreateLead(r.Context(), &l); err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}

	// best-effort, not rolled back on failure
	if err := h.mail.Send(
		"A Lead has been created",
		"Go back to the site to see the new lead",
		h.from,
		[]string{h.notifyAddr},
	); err != nil {
		logs.Logger.Warnf("lead-created notification failed: %v", err)
	}

	models.WriteJSON(w, http.StatusCreated, map[string]any{
		"lead": l,
		"next": "/leads",
	})
}

// Update re-resolves the target through the tenant scope before applying
// form-validated changes.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r)

	l, err := h.store.GetLead(r.Context(), scope.Leads(id), pathID(r))
	if errors.Is(err, repo.ErrNotFound) {
		writeNotFound(w)
		return
	}
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}

	var f LeadForm
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
		return
	}
	if errs := f.Validate(); len(errs) > 0 {
		models.WriteProblem(w, http.StatusUnprocessableEntity,
			"Validation Failed", "invalid lead input", map[string]any{"fields": errs})
		return
	}

	l.FirstName = f.FirstName
	l.LastName = f.LastName
	l.Age = f.Age
	if f.Contact != nil {
		l.Contact = contactJSON(f.Contact)
	}
	l.Agent = nil
	if err := h.store.SaveLead(r.Context(), l); err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"lead": l,
		"next": fmt.Sprintf("/leads/%d", l.ID),
	})
}

// SetCategory is the narrow category-only update, same scoped-lookup
// discipline as Update.
func (h *Handler) SetCategory(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r)

	l, err := h.store.GetLead(r.Context(), scope.Leads(id), pathID(r))
	if errors.Is(err, repo.ErrNotFound) {
		writeNotFound(w)
		return
	}
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}

	var f CategoryForm
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
		return
	}
	if f.CategoryID != nil {
		if _, err := h.store.CategoryInOrg(r.Context(), id.OrgID, *f.CategoryID); err != nil {
			models.WriteProblem(w, http.StatusUnprocessableEntity,
				"Validation Failed", "invalid category",
				map[string]any{"fields": map[string]string{"category_id": "unknown category"}})
			return
		}
	}

	l.CategoryID = f.CategoryID
	l.Agent = nil
	if err := h.store.SaveLead(r.Context(), l); err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"lead": l,
		"next": fmt.Sprintf("/leads/%d", l.ID),
	})
}

// AssignAgent sets the lead's agent. The chosen agent must belong to the
// acting organisor's organization, anything else is a validation failure
// and the lead stays untouched.
func (h *Handler) AssignAgent(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r)

	l, err := h.store.GetLead(r.Context(), scope.Leads(id), pathID(r))
	if errors.Is(err, repo.ErrNotFound) {
		writeNotFound(w)
		return
	}
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}

	var f AssignAgentForm
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
		return
	}
	if errs := f.Validate(); len(errs) > 0 {
		models.WriteProblem(w, http.StatusUnprocessableEntity,
			"Validation Failed", "invalid assignment", map[string]any{"fields": errs})
		return
	}
	agent, err := h.store.AgentInOrg(r.Context(), id.OrgID, f.AgentID)
	if err != nil {
		models.WriteProblem(w, http.StatusUnprocessableEntity,
			"Validation Failed", "invalid assignment",
			map[string]any{"fields": map[string]string{"agent_id": "unknown agent"}})
		return
	}

	l.AgentID = &agent.ID
	l.Agent = nil
	if err := h.store.SaveLead(r.Context(), l); err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"lead": l,
		"next": "/leads",
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r)
	err := h.store.DeleteLead(r.Context(), scope.Leads(id), pathID(r))
	if errors.Is(err, repo.ErrNotFound) {
		writeNotFound(w)
		return
	}
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{"next": "/leads"})
}

func contactJSON(m map[string]string) datatypes.JSON {
	if len(m) == 0 {
		return nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}
