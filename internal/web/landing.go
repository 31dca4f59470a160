package web

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gorilla/mux"
)

//go:embed templates/*.tmpl
var tplFS embed.FS

var landing = template.Must(template.ParseFS(tplFS, "templates/landing.tmpl"))

// RegisterLanding wires the public landing page. No auth, no queries.
func RegisterLanding(r *mux.Router) {
	r.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := landing.ExecuteTemplate(w, "landing", nil); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}).Methods(http.MethodGet)
}
