package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/fieldcheck/internal/platform"
	"github.com/dmitrijs2005/fieldcheck/internal/server/checklists"
	"github.com/dmitrijs2005/fieldcheck/internal/server/tokens"
)

//go:embed templates/*.html
var templatesFS embed.FS

// page is the data every template receives; each page reads the fields it needs.
type page struct {
	Title       string
	Flash       string
	Error       string
	Status      int
	Login       string
	Token       *tokens.Token
	Projects    []platform.Project
	ProjectName string
	Query       string
	Matches     []platform.LocationNode
	ListCount   int
	Batch       *checklists.Batch
	Applied     int
	Skipped     int
	Failed      int
	Warnings    []string
	ReportID    string
	ArchiveLink string
	History     []reportRow
}

func parseTemplates() (*template.Template, error) {
	return template.New("base").Funcs(template.FuncMap{
		"lower": strings.ToLower,
	}).ParseFS(templatesFS, "templates/*.html")
}

// render executes into a buffer first so a template error never leaves a
// half-written page behind.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data page) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error(r.Context(), "template render failed", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
