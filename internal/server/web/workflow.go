package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/fieldcheck/internal/common"
	"github.com/dmitrijs2005/fieldcheck/internal/platform"
	"github.com/dmitrijs2005/fieldcheck/internal/server/checklists"
	"github.com/dmitrijs2005/fieldcheck/internal/server/models"
	"github.com/gorilla/mux"
)

var errNoCompany = errors.New("the account has no company")

// handleProjects lists the projects of the user's first company.
func (s *Server) handleProjects(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	ctx := r.Context()
	api := s.api(sess)

	companies, err := api.Companies(ctx)
	if err != nil {
		s.fail(w, r, "could not load companies", err)
		return
	}
	if len(companies) == 0 {
		s.fail(w, r, "could not load projects", errNoCompany)
		return
	}

	projects, err := api.Projects(ctx, companies[0].ID)
	if err != nil {
		s.fail(w, r, "could not load projects", err)
		return
	}

	sess.CompanyID = companies[0].ID
	sess.Projects = projects
	if err := s.deps.Sessions.Save(ctx, sess); err != nil {
		s.fail(w, r, "could not save session", err)
		return
	}

	s.render(w, r, http.StatusOK, "projects.html", page{Title: "Projects", Login: sess.Login, Projects: projects, ProjectName: sess.ProjectName})
}

// handleSelectProject picks a project by its exact name from the list the
// session was last shown.
func (s *Server) handleSelectProject(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	name := strings.TrimSpace(r.FormValue("project"))

	var chosen *platform.Project
	for i := range sess.Projects {
		if sess.Projects[i].Name == name {
			chosen = &sess.Projects[i]
			break
		}
	}
	if chosen == nil {
		s.render(w, r, http.StatusBadRequest, "projects.html", page{
			Title: "Projects", Login: sess.Login, Projects: sess.Projects, Flash: "Unknown project: " + name,
		})
		return
	}

	sess.ResetWorkflow()
	sess.ProjectID = chosen.ID
	sess.ProjectName = chosen.Name
	if err := s.deps.Sessions.Save(r.Context(), sess); err != nil {
		s.fail(w, r, "could not save session", err)
		return
	}
	http.Redirect(w, r, "/search", http.StatusFound)
}

func (s *Server) handleSearchForm(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	s.render(w, r, http.StatusOK, "search.html", page{Title: "Search", Login: sess.Login, ProjectName: sess.ProjectName, Query: sess.SearchQuery})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	sess.SearchQuery = strings.ToLower(r.FormValue("search"))
	sess.Matches = nil
	sess.ListIDs = nil
	if err := s.deps.Sessions.Save(r.Context(), sess); err != nil {
		s.fail(w, r, "could not save session", err)
		return
	}
	http.Redirect(w, r, "/selectIns", http.StatusFound)
}

// handleSelection shows the locations matching the stored query.
func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	ctx := r.Context()

	matches, err := s.deps.Locator.SearchLocations(ctx, s.api(sess), sess.ProjectID, sess.SearchQuery)
	if err != nil {
		s.fail(w, r, "location search failed", err)
		return
	}

	sess.Matches = matches
	if err := s.deps.Sessions.Save(ctx, sess); err != nil {
		s.fail(w, r, "could not save session", err)
		return
	}
	s.render(w, r, http.StatusOK, "selection.html", s.selectionPage(sess, ""))
}

func (s *Server) selectionPage(sess *models.Session, flash string) page {
	return page{
		Title: "Select locations", Login: sess.Login, ProjectName: sess.ProjectName,
		Query: sess.SearchQuery, Matches: sess.Matches, Flash: flash,
	}
}

// handleSelect turns the ticked locations into checklist list ids. Only
// locations offered by the last search are accepted.
func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		s.render(w, r, http.StatusBadRequest, "selection.html", s.selectionPage(sess, "Malformed form."))
		return
	}

	offered := make(map[int64]platform.LocationNode, len(sess.Matches))
	for _, m := range sess.Matches {
		offered[m.ID] = m
	}

	var selected []platform.LocationNode
	for _, raw := range r.PostForm["location"] {
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			continue
		}
		if node, ok := offered[id]; ok {
			selected = append(selected, node)
		}
	}
	if len(selected) == 0 {
		s.render(w, r, http.StatusBadRequest, "selection.html", s.selectionPage(sess, "Select at least one location."))
		return
	}

	ids, err := s.deps.Locator.ResolveListIDs(ctx, s.api(sess), sess.ProjectID, selected)
	if err != nil {
		s.fail(w, r, "checklist lookup failed", err)
		return
	}
	if len(ids) == 0 {
		s.render(w, r, http.StatusOK, "selection.html", s.selectionPage(sess, "No checklists found at the selected locations."))
		return
	}

	sess.ListIDs = ids
	if err := s.deps.Sessions.Save(ctx, sess); err != nil {
		s.fail(w, r, "could not save session", err)
		return
	}
	http.Redirect(w, r, "/update", http.StatusFound)
}

func (s *Server) handleUpdateForm(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	s.render(w, r, http.StatusOK, "update.html", page{
		Title: "Update", Login: sess.Login, ProjectName: sess.ProjectName, ListCount: len(sess.ListIDs),
	})
}

// handleUpdate applies the three comma lists to every chosen checklist and
// records the outcome as a report.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	ctx := r.Context()

	updates := checklists.ParseBuckets(r.FormValue("pass"), r.FormValue("fail"), r.FormValue("na"))

	batch, err := s.deps.Checklists.Submit(ctx, s.api(sess), sess.ProjectID, sess.ListIDs, updates)
	if err != nil {
		s.fail(w, r, "update failed", err)
		return
	}

	rep, err := s.deps.Reports.Record(ctx, sess, batch)
	if err != nil {
		s.fail(w, r, "could not record report", err)
		return
	}

	sess.LastReportID = rep.ID
	if err := s.deps.Sessions.Save(ctx, sess); err != nil {
		s.fail(w, r, "could not save session", err)
		return
	}

	link, err := s.deps.Reports.ArchiveLink(ctx, rep)
	if err != nil {
		s.logger.Warn(ctx, "archive link failed", "report_id", rep.ID, "error", err)
	}

	applied, skipped, failed := batch.Counts()
	s.render(w, r, http.StatusOK, "fin.html", page{
		Title: "Done", Login: sess.Login, ProjectName: sess.ProjectName,
		Batch: batch, Applied: applied, Skipped: skipped, Failed: failed,
		Warnings: batch.Warnings(), ReportID: rep.ID, ArchiveLink: link,
	})
}

// handleReport returns one of the session's reports as JSON.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	id := mux.Vars(r)["id"]

	rep, err := s.deps.Reports.Get(r.Context(), sess.ID, id)
	if err != nil {
		code := mapError(err)
		if code >= http.StatusInternalServerError {
			s.logger.Error(r.Context(), "report lookup failed", "report_id", id, "error", err)
		}
		http.Error(w, http.StatusText(code), code)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rep); err != nil {
		s.logger.Warn(r.Context(), "report encode failed", "report_id", id, "error", err)
	}
}

// historyLimit caps how many past reports the history page shows.
const historyLimit = 20

type reportRow struct {
	ID          string
	ProjectName string
	CreatedAt   string
	Applied     int
	Skipped     int
	Failed      int
}

// handleReports lists the session's recent reports, newest first.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request, sess *models.Session) {
	reps, err := s.deps.Reports.History(r.Context(), sess.ID, historyLimit)
	if err != nil {
		s.fail(w, r, "could not load reports", err)
		return
	}

	rows := make([]reportRow, 0, len(reps))
	for _, rep := range reps {
		row := reportRow{ID: rep.ID, ProjectName: rep.ProjectName, CreatedAt: rep.CreatedAt.UTC().Format(common.DisplayTimeLayout)}
		if rep.Batch != nil {
			row.Applied, row.Skipped, row.Failed = rep.Batch.Counts()
		}
		rows = append(rows, row)
	}

	s.render(w, r, http.StatusOK, "reports.html", page{Title: "Reports", Login: sess.Login, ProjectName: sess.ProjectName, History: rows})
}
