package http

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"

	"github.com/Semicile17/Campus-Connect/internal/access"
	"github.com/Semicile17/Campus-Connect/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

var pageNames = []string{"home", "about", "contact", "login", "unauthorized", "dashboard"}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, errors.Wrapf(err, "parse page %s", name)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

type pageData struct {
	Title string
	User  *model.User
	Role  model.Role
	Path  string
}

func (s *Server) page(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, name, pageData{Title: name, Path: r.URL.Path})
	}
}

// handleDashboard renders the portal of the role in the URL. It only serves
// requests the gate allowed: asset-like paths are classified infra and pass
// the gate without a session, so they are not pages.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	role, err := model.ParseRole(chi.URLParam(r, "role"))
	if err != nil || path.Ext(r.URL.Path) != "" {
		http.NotFound(w, r)
		return
	}
	identity, ok := access.IdentityFrom(r.Context())
	if !ok {
		http.NotFound(w, r)
		return
	}
	data := pageData{Title: "dashboard", Role: role, Path: r.URL.Path}
	user, err := s.store.GetUserByID(r.Context(), identity.UserID)
	if err == nil {
		data.User = &user
	} else {
		s.logger.Warn("dashboard user lookup", "user_id", identity.UserID, "error", err)
	}
	s.render(w, "dashboard", data)
}

func (s *Server) render(w http.ResponseWriter, name string, data pageData) {
	tmpl, ok := s.pages[name]
	if !ok {
		http.NotFound(w, nil)
		return
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		s.logger.Error("render page", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
