package models

import (
	"time"

	"github.com/dmitrijs2005/fieldcheck/internal/platform"
	"github.com/dmitrijs2005/fieldcheck/internal/server/tokens"
)

// Session is everything one browser knows between requests. It is stored
// as a whole and never shared between browsers.
type Session struct {
	ID           string                  `json:"id"`
	Token        *tokens.Token           `json:"token,omitempty"`
	OAuthState   string                  `json:"oauth_state,omitempty"`
	Login        string                  `json:"login,omitempty"`
	CompanyID    int64                   `json:"company_id,omitempty"`
	Projects     []platform.Project      `json:"projects,omitempty"`
	ProjectID    int64                   `json:"project_id,omitempty"`
	ProjectName  string                  `json:"project_name,omitempty"`
	SearchQuery  string                  `json:"search_query,omitempty"`
	Matches      []platform.LocationNode `json:"matches,omitempty"`
	ListIDs      []int64                 `json:"list_ids,omitempty"`
	LastReportID string                  `json:"last_report_id,omitempty"`
	CreatedAt    time.Time               `json:"created_at"`
	ExpiresAt    time.Time               `json:"expires_at"`
}

// Authenticated reports whether the session holds a token.
func (s *Session) Authenticated() bool {
	return s.Token != nil
}

// ResetWorkflow forgets the project and everything chosen under it.
func (s *Session) ResetWorkflow() {
	s.ProjectID = 0
	s.ProjectName = ""
	s.SearchQuery = ""
	s.Matches = nil
	s.ListIDs = nil
}
