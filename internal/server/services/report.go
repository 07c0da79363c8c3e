package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/fieldcheck/internal/common"
	"github.com/dmitrijs2005/fieldcheck/internal/logging"
	"github.com/dmitrijs2005/fieldcheck/internal/server/checklists"
	"github.com/dmitrijs2005/fieldcheck/internal/server/models"
	"github.com/dmitrijs2005/fieldcheck/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// ReportService persists checklist batches as reports and archives them
// when an Archiver is configured.
type ReportService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	archiver    Archiver
	logger      logging.Logger
	now         func() time.Time
}

// NewReportService builds the service. archiver may be nil.
func NewReportService(db *sql.DB, rm repomanager.RepositoryManager, archiver Archiver, logger logging.Logger) *ReportService {
	return &ReportService{
		db:          db,
		repomanager: rm,
		archiver:    archiver,
		logger:      logger.With("module", "reports"),
		now:         time.Now,
	}
}

// Record stores batch as a new report owned by sess. An archive failure is
// logged and leaves the report without an archive key.
func (s *ReportService) Record(ctx context.Context, sess *models.Session, batch *checklists.Batch) (*models.Report, error) {
	rep := &models.Report{
		ID:          uuid.NewString(),
		SessionID:   sess.ID,
		ProjectID:   sess.ProjectID,
		ProjectName: sess.ProjectName,
		CreatedAt:   s.now().UTC(),
		Batch:       batch,
	}

	repo := s.repomanager.Reports(s.db)
	if err := repo.Create(ctx, rep); err != nil {
		return nil, err
	}

	if s.archiver != nil {
		key, err := s.archiver.Archive(ctx, rep)
		if err != nil {
			s.logger.Warn(ctx, "report archive failed", "report_id", rep.ID, "error", err)
		} else if err := repo.SetArchiveKey(ctx, rep.ID, key); err != nil {
			s.logger.Warn(ctx, "report archive key not saved", "report_id", rep.ID, "error", err)
		} else {
			rep.ArchiveKey = key
		}
	}

	s.logger.Info(ctx, "report recorded", "report_id", rep.ID, "session_id", sess.ID)
	return rep, nil
}

// Get returns a report only to the session that created it; anyone else
// gets common.ErrorNotFound.
func (s *ReportService) Get(ctx context.Context, sessionID, id string) (*models.Report, error) {
	rep, err := s.repomanager.Reports(s.db).Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if rep.SessionID != sessionID {
		return nil, common.ErrorNotFound
	}
	return rep, nil
}

// History returns the session's most recent reports.
func (s *ReportService) History(ctx context.Context, sessionID string, limit int) ([]*models.Report, error) {
	return s.repomanager.Reports(s.db).ListBySession(ctx, sessionID, limit)
}

// ArchiveLink returns a temporary download link for the archived copy, or
// "" when the report was not archived.
func (s *ReportService) ArchiveLink(ctx context.Context, rep *models.Report) (string, error) {
	if s.archiver == nil || rep.ArchiveKey == "" {
		return "", nil
	}
	return s.archiver.Link(ctx, rep.ArchiveKey)
}
