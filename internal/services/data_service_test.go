package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edupulse/internal/config"
	apperrors "edupulse/internal/errors"
	"edupulse/pkg/contracts/domain"
)

const sampleUpload = `student_id,enrollment_date,program,advisor_id,gpa_at_time,attendance_rate,completion_status,support_ticket_count,advisor_meeting_count,credits_earned,total_credits_required
S1,2024-01-15,CS,A1,1.8,0.55,Dropped,6,0,10,120
S2,2024-02-01,CS,A1,3.6,0.95,Completed,0,4,120,120
S3,2024-03-10,Math,A2,2.7,0.80,In Progress,1,1,40,120
`

func newTestService(t *testing.T) *DataService {
	t.Helper()

	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.UploadsDir = cfg.Paths.DataDir + "/uploads"
	cfg.Paths.ReportsDir = cfg.Paths.DataDir + "/reports"
	cfg.Paths.LogsDir = cfg.Paths.DataDir + "/logs"

	paths, err := config.ResolvePaths(cfg.Paths)
	require.NoError(t, err)

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	return NewDataService(&cfg, paths, logger)
}

func TestUploadReplacesDataset(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	info, err := svc.Upload(ctx, "journeys.csv", []byte(sampleUpload))
	require.NoError(t, err)
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, 3, info.RecordCount)
	assert.Equal(t, 3, info.StudentCount)

	// A second upload replaces, not appends.
	second, err := svc.Upload(ctx, "journeys2.csv", []byte(sampleUpload))
	require.NoError(t, err)
	assert.NotEqual(t, info.ID, second.ID)

	current, ok := svc.Dataset()
	require.True(t, ok)
	assert.Equal(t, second.ID, current.ID)
	assert.Equal(t, 3, current.RecordCount)
}

func TestUploadRejectsEmptyPayload(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Upload(context.Background(), "empty.csv", []byte("student_id,gpa\n"))
	assert.ErrorIs(t, err, ErrEmptyUpload)
}

func TestUploadCorruptWorkbookReturnsParsingError(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Upload(context.Background(), "roster.xlsx", []byte("not a workbook"))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
	assert.Equal(t, "roster.xlsx", appErr.Context["source"])
}

func TestUploadEnforcesSizeLimit(t *testing.T) {
	svc := newTestService(t)
	svc.config.Engine.MaxUploadBytes = 16

	_, err := svc.Upload(context.Background(), "big.csv", []byte(sampleUpload))
	assert.ErrorIs(t, err, ErrUploadTooLarge)
}

func TestProcessWithoutDataset(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Process(context.Background(), domain.DefaultFilterSpec())
	assert.ErrorIs(t, err, ErrNoDataset)

	_, err = svc.Summary(context.Background())
	assert.ErrorIs(t, err, ErrNoDataset)
}

func TestSummaryAndBreakdown(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "journeys.csv", []byte(sampleUpload))
	require.NoError(t, err)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalStudents)
	assert.Equal(t, 1, summary.CompletedStudents)
	assert.Equal(t, 1, summary.DroppedStudents)

	groups, err := svc.Breakdown(ctx, "program", domain.DefaultFilterSpec())
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "CS", groups[0].Key)
	assert.Equal(t, "Math", groups[1].Key)
}

func TestProcessAppliesFilters(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "journeys.csv", []byte(sampleUpload))
	require.NoError(t, err)

	spec := domain.DefaultFilterSpec()
	spec.Programs = []string{"CS"}
	spec.RiskLevel = domain.RiskHigh

	result, err := svc.Process(ctx, spec)
	require.NoError(t, err)

	// Only the struggling CS student scores in the high band.
	require.Len(t, result.Students, 1)
	assert.Equal(t, "S1", result.Students[0].StudentID)
}

func TestHealthReportsDataset(t *testing.T) {
	svc := newTestService(t)
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	health := NewHealthService("1.0.0-test", "", svc, logger)

	status := health.Health(context.Background())
	assert.Equal(t, "ok", status.Status)
	assert.Nil(t, status.Dataset)

	_, err := svc.Upload(context.Background(), "journeys.csv", []byte(strings.TrimSpace(sampleUpload)))
	require.NoError(t, err)

	status = health.Health(context.Background())
	require.NotNil(t, status.Dataset)
	assert.Equal(t, 3, status.Dataset.RecordCount)
}
