package services

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"edupulse/internal/config"
	"edupulse/internal/dataprocessing"
	apperrors "edupulse/internal/errors"
	"edupulse/internal/pipeline"
	"edupulse/pkg/contracts/domain"
)

// Dataset is the currently loaded student journey dataset. Uploads
// replace it wholesale; there is no append.
type Dataset struct {
	ID         string                 `json:"id"`
	SourceName string                 `json:"source_name"`
	UploadedAt time.Time              `json:"uploaded_at"`
	Records    []domain.StudentRecord `json:"-"`
}

// DatasetInfo is the upload metadata exposed over the API.
type DatasetInfo struct {
	ID           string    `json:"id"`
	SourceName   string    `json:"source_name"`
	UploadedAt   time.Time `json:"uploaded_at"`
	RecordCount  int       `json:"record_count"`
	StudentCount int       `json:"student_count"`
}

// DataService owns the in-memory dataset and runs the analytics
// engine against it. All methods are safe for concurrent use.
type DataService struct {
	config   *config.Config
	paths    *config.Paths
	logger   *slog.Logger
	pipeline *pipeline.Pipeline

	mu      sync.RWMutex
	dataset *Dataset
}

// NewDataService creates a new data service.
func NewDataService(cfg *config.Config, paths *config.Paths, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("DataService initialized",
		slog.String("data_dir", paths.DataDir),
		slog.String("uploads_dir", paths.UploadsDir),
		slog.String("reports_dir", paths.ReportsDir))

	return &DataService{
		config:   cfg,
		paths:    paths,
		logger:   logger.With(slog.String("component", "data_service")),
		pipeline: pipeline.New(logger),
	}
}

// Upload parses raw upload bytes and replaces the current dataset.
// Delimited text is parsed directly; .xlsx payloads are staged in the
// uploads directory first so the workbook reader can open them.
func (ds *DataService) Upload(ctx context.Context, sourceName string, data []byte) (*DatasetInfo, error) {
	if int64(len(data)) > ds.config.Engine.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrUploadTooLarge, len(data), ds.config.Engine.MaxUploadBytes)
	}

	var records []domain.StudentRecord
	if strings.EqualFold(filepath.Ext(sourceName), ".xlsx") {
		staged, err := ds.stageUpload(sourceName, data)
		if err != nil {
			return nil, err
		}
		records, err = dataprocessing.ParseWorkbook(staged)
		if err != nil {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("parse workbook %s", sourceName), err,
			).WithContext("source", sourceName)
		}
	} else {
		records = dataprocessing.ParseRecords(string(data), ds.config.Engine.DelimiterRune())
	}

	if len(records) == 0 {
		return nil, ErrEmptyUpload
	}

	dataset := &Dataset{
		ID:         uuid.New().String(),
		SourceName: sourceName,
		UploadedAt: time.Now().UTC(),
		Records:    records,
	}

	ds.mu.Lock()
	ds.dataset = dataset
	ds.mu.Unlock()

	info := ds.info(dataset)
	ds.logger.InfoContext(ctx, "dataset replaced",
		slog.String("dataset_id", dataset.ID),
		slog.String("source", sourceName),
		slog.Int("records", info.RecordCount),
		slog.Int("students", info.StudentCount))

	return info, nil
}

// Process runs the full analytics sequence against the current
// dataset with the given filters.
func (ds *DataService) Process(ctx context.Context, spec domain.FilterSpec) (*domain.ProcessedResult, error) {
	records, err := ds.records()
	if err != nil {
		return nil, err
	}
	return ds.pipeline.Process(ctx, records, spec)
}

// Summary runs an unfiltered pass and returns just the aggregates.
func (ds *DataService) Summary(ctx context.Context) (*domain.SummaryStats, error) {
	result, err := ds.Process(ctx, domain.DefaultFilterSpec())
	if err != nil {
		return nil, err
	}
	return &result.Summary, nil
}

// Breakdown groups an unfiltered-or-filtered pass by program or advisor.
func (ds *DataService) Breakdown(ctx context.Context, by string, spec domain.FilterSpec) ([]dataprocessing.GroupStats, error) {
	result, err := ds.Process(ctx, spec)
	if err != nil {
		return nil, err
	}
	return ds.pipeline.Breakdown(result, by)
}

// Profiles returns per-student profiles for a processed pass.
func (ds *DataService) Profiles(ctx context.Context, spec domain.FilterSpec) ([]dataprocessing.StudentProfile, error) {
	result, err := ds.Process(ctx, spec)
	if err != nil {
		return nil, err
	}
	return ds.pipeline.Profiles(result), nil
}

// Dataset returns metadata for the current dataset, or false when
// nothing has been uploaded yet.
func (ds *DataService) Dataset() (*DatasetInfo, bool) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	if ds.dataset == nil {
		return nil, false
	}
	return ds.info(ds.dataset), true
}

// records snapshots the current dataset's rows.
func (ds *DataService) records() ([]domain.StudentRecord, error) {
	ds.mu.RLock()
	defer ds.mu.RUnlock()

	if ds.dataset == nil {
		return nil, ErrNoDataset
	}
	return ds.dataset.Records, nil
}

func (ds *DataService) info(dataset *Dataset) *DatasetInfo {
	students := make(map[string]bool, len(dataset.Records))
	for _, rec := range dataset.Records {
		students[rec.StudentID] = true
	}

	return &DatasetInfo{
		ID:           dataset.ID,
		SourceName:   dataset.SourceName,
		UploadedAt:   dataset.UploadedAt,
		RecordCount:  len(dataset.Records),
		StudentCount: len(students),
	}
}

// stageUpload writes an uploaded workbook into the uploads directory
// under a unique name and returns its path.
func (ds *DataService) stageUpload(sourceName string, data []byte) (string, error) {
	if err := ds.paths.EnsureDirectories(); err != nil {
		return "", apperrors.NewStorageError("ensure upload directory", err)
	}

	name := fmt.Sprintf("%s-%s", uuid.New().String(), filepath.Base(sourceName))
	path := ds.paths.UploadPath(name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", apperrors.NewStorageError(fmt.Sprintf("stage upload %s", sourceName), err)
	}
	return path, nil
}
