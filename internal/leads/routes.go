package leads

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes wires the lead endpoints. List/detail/update/category are
// shared between organisors and agents (scope narrows by role); create,
// delete and assignment are organisor-only.
func RegisterRoutes(r *mux.Router, h *Handler, authed, organisor mux.MiddlewareFunc) {
	shared := r.PathPrefix("/leads").Subrouter()
	shared.Use(authed)
	shared.HandleFunc("", h.List).Methods(http.MethodGet)
	shared.HandleFunc("/{id:[0-9]+}", h.Detail).Methods(http.MethodGet)
	shared.HandleFunc("/{id:[0-9]+}", h.Update).Methods(http.MethodPut)
	shared.HandleFunc("/{id:[0-9]+}/category", h.SetCategory).Methods(http.MethodPost)

	org := r.PathPrefix("/leads").Subrouter()
	org.Use(organisor)
	org.HandleFunc("", h.Create).Methods(http.MethodPost)
	org.HandleFunc("/{id:[0-9]+}", h.Delete).Methods(http.MethodDelete)
	org.HandleFunc("/{id:[0-9]+}/assign-agent", h.AssignAgent).Methods(http.MethodPost)
}
