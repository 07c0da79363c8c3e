package models

import (
	"time"

	"github.com/dmitrijs2005/fieldcheck/internal/server/checklists"
)

// Report is a persisted checklist submission. ArchiveKey is the object key
// of the archived copy, empty when archiving is off or failed.
type Report struct {
	ID          string            `json:"id"`
	SessionID   string            `json:"session_id"`
	ProjectID   int64             `json:"project_id"`
	ProjectName string            `json:"project_name"`
	CreatedAt   time.Time         `json:"created_at"`
	Batch       *checklists.Batch `json:"batch"`
	ArchiveKey  string            `json:"archive_key,omitempty"`
}
