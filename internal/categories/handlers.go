package categories

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"funnel/internal/auth"
	"funnel/internal/models"
	"funnel/internal/repo"
	"funnel/internal/scope"
)

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler { return &Handler{store: store} }

func pathID(r *http.Request) uint {
	id, _ := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	return uint(id)
}

func writeNotFound(w http.ResponseWriter) {
	models.WriteProblem(w, http.StatusNotFound, "Not Found", "category not found", nil)
}

// List returns the scoped categories together with the count of leads
// that sit in none of them.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r)
	p := scope.Categories(id)

	rows, err := h.store.ListCategories(r.Context(), p)
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}
	uncategorized, err := h.store.CountUncategorized(r.Context(), p)
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"categories":          rows,
		"uncategorized_count": uncategorized,
	})
}

// Detail returns one scoped category plus the leads inside it.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r)
	p := scope.Categories(id)

	c, err := h.store.GetCategory(r.Context(), p, pathID(r))
	if errors.Is(err, repo.ErrNotFound) {
		writeNotFound(w)
		return
	}
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}
	rows, err := h.store.LeadsInCategory(r.Context(), p, c.ID)
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"category": c,
		"leads":    rows,
	})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r)

	var f CategoryForm
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		models.WriteProblem(w, http.StatusBadRequest, "Bad Request", err.Error(), nil)
		return
	}
	if errs := f.Validate(); len(errs) > 0 {
		models.WriteProblem(w, http.StatusUnprocessableEntity,
			"Validation Failed", "invalid category input", map[string]any{"fields": errs})
		return
	}

	c := models.Category{
		OrganizationID: id.OrgID,
		Name:           strings.TrimSpace(f.Name),
	}
	if err := h.store.CreateCategory(r.Context(), &c); err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}
	models.WriteJSON(w, http.StatusCreated, map[string]any{
		"category": c,
		"next":     "/categories",
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r)

	c, err := h.store.GetCategory(r.Context(), scope.Categories(id), pathID(r))
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
	if errs := f.Validate(); len(errs) > 0 {
		models.WriteProblem(w, http.StatusUnprocessableEntity,
			"Validation Failed", "invalid category input", map[string]any{"fields": errs})
		return
	}

	c.Name = strings.TrimSpace(f.Name)
	if err := h.store.SaveCategory(r.Context(), c); err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{
		"category": c,
		"next":     fmt.Sprintf("/categories/%d", c.ID),
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFrom(r)
	err := h.store.DeleteCategory(r.Context(), scope.Categories(id), pathID(r))
	if errors.Is(err, repo.ErrNotFound) {
		writeNotFound(w)
		return
	}
	if err != nil {
		models.WriteProblem(w, http.StatusInternalServerError, "Internal Server Error", err.Error(), nil)
		return
	}
	models.WriteJSON(w, http.StatusOK, map[string]any{"next": "/categories"})
}
