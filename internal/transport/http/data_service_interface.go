package http

import (
	"context"

	"edupulse/internal/dataprocessing"
	"edupulse/internal/services"
	"edupulse/pkg/contracts/domain"
)

// DataServiceInterface defines the interface for dataset operations
type DataServiceInterface interface {
	Upload(ctx context.Context, sourceName string, data []byte) (*services.DatasetInfo, error)
	Process(ctx context.Context, spec domain.FilterSpec) (*domain.ProcessedResult, error)
	Summary(ctx context.Context) (*domain.SummaryStats, error)
	Breakdown(ctx context.Context, by string, spec domain.FilterSpec) ([]dataprocessing.GroupStats, error)
	Profiles(ctx context.Context, spec domain.FilterSpec) ([]dataprocessing.StudentProfile, error)
	Dataset() (*services.DatasetInfo, bool)
}
