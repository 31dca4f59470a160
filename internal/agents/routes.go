package agents

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes wires the agent endpoints; all of them are
// organisor-only.
func RegisterRoutes(r *mux.Router, h *Handler, organisor mux.MiddlewareFunc) {
	sub := r.PathPrefix("/agents").Subrouter()
	sub.Use(organisor)
	sub.HandleFunc("", h.List).Methods(http.MethodGet)
	sub.HandleFunc("", h.Create).Methods(http.MethodPost)
	sub.HandleFunc("/{id:[0-9]+}", h.Detail).Methods(http.MethodGet)
	sub.HandleFunc("/{id:[0-9]+}", h.Update).Methods(http.MethodPut)
	sub.HandleFunc("/{id:[0-9]+}", h.Delete).Methods(http.MethodDelete)
}
