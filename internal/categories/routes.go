package categories

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes wires the category endpoints. List and detail are shared
// between roles; mutations are organisor-only.
func RegisterRoutes(r *mux.Router, h *Handler, authed, organisor mux.MiddlewareFunc) {
	shared := r.PathPrefix("/categories").Subrouter()
	shared.Use(authed)
	shared.HandleFunc("", h.List).Methods(http.MethodGet)
	shared.HandleFunc("/{id:[0-9]+}", h.Detail).Methods(http.MethodGet)

	org := r.PathPrefix("/categories").Subrouter()
	org.Use(organisor)
	org.HandleFunc("", h.Create).Methods(http.MethodPost)
	org.HandleFunc("/{id:[0-9]+}", h.Update).Methods(http.MethodPut)
	org.HandleFunc("/{id:[0-9]+}", h.Delete).Methods(http.MethodDelete)
}
