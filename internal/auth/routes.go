package auth

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterRoutes wires the unauthenticated auth endpoints.
func RegisterRoutes(r *mux.Router, h *Handler) {
	r.HandleFunc("/signup", h.Signup).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
}
