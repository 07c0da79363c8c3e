package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/fieldcheck/internal/common"
	"github.com/dmitrijs2005/fieldcheck/internal/logging"
	"github.com/dmitrijs2005/fieldcheck/internal/server/checklists"
	"github.com/dmitrijs2005/fieldcheck/internal/server/models"
	"github.com/dmitrijs2005/fieldcheck/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeArchiver struct {
	archiveErr error
	linkErr    error
	archived   []string
}

func (f *fakeArchiver) Archive(ctx context.Context, r *models.Report) (string, error) {
	if f.archiveErr != nil {
		return "", f.archiveErr
	}
	f.archived = append(f.archived, r.ID)
	return ReportStorageKey(r), nil
}

func (f *fakeArchiver) Link(ctx context.Context, key string) (string, error) {
	if f.linkErr != nil {
		return "", f.linkErr
	}
	return "https://s3.example/" + key + "?X-Amz-Signature=abc", nil
}

func sampleBatch() *checklists.Batch {
	return &checklists.Batch{ProjectID: 21, Lists: []checklists.ListResult{{
		ListID:  101,
		Results: []checklists.UpdateResult{{Reference: "1.1", Status: checklists.StatusPass, Outcome: checklists.OutcomeApplied}},
	}}}
}

func TestReportService_RecordAndGet(t *testing.T) {
	arch := &fakeArchiver{}
	svc := NewReportService(nil, repomanager.NewInMemoryRepositoryManager(), arch, logging.NewNopLogger())
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC) }
	ctx := context.Background()

	sess := &models.Session{ID: "s-1", ProjectID: 21, ProjectName: "Tower A"}
	rep, err := svc.Record(ctx, sess, sampleBatch())
	require.NoError(t, err)

	assert.Equal(t, "s-1", rep.SessionID)
	assert.Equal(t, "Tower A", rep.ProjectName)
	assert.Equal(t, "reports/2025/03/01/"+rep.ID+".json", rep.ArchiveKey)
	assert.Equal(t, []string{rep.ID}, arch.archived)

	got, err := svc.Get(ctx, "s-1", rep.ID)
	require.NoError(t, err)
	assert.Equal(t, rep.ArchiveKey, got.ArchiveKey)

	_, err = svc.Get(ctx, "someone-else", rep.ID)
	require.ErrorIs(t, err, common.ErrorNotFound)

	link, err := svc.ArchiveLink(ctx, got)
	require.NoError(t, err)
	assert.Contains(t, link, rep.ArchiveKey)

	history, err := svc.History(ctx, "s-1", 5)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestReportService_ArchiveFailureIsNotFatal(t *testing.T) {
	svc := NewReportService(nil, repomanager.NewInMemoryRepositoryManager(), &fakeArchiver{archiveErr: errors.New("s3 down")}, logging.NewNopLogger())

	rep, err := svc.Record(context.Background(), &models.Session{ID: "s-1"}, sampleBatch())
	require.NoError(t, err)
	assert.Empty(t, rep.ArchiveKey)

	link, err := svc.ArchiveLink(context.Background(), rep)
	require.NoError(t, err)
	assert.Empty(t, link)
}

func TestReportService_NoArchiver(t *testing.T) {
	svc := NewReportService(nil, repomanager.NewInMemoryRepositoryManager(), nil, logging.NewNopLogger())

	rep, err := svc.Record(context.Background(), &models.Session{ID: "s-1"}, sampleBatch())
	require.NoError(t, err)
	assert.Empty(t, rep.ArchiveKey)
}
