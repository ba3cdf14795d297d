package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"edupulse/internal/config"
	"edupulse/internal/dataprocessing"
	"edupulse/internal/exporter"
	"edupulse/internal/infrastructure"
	"edupulse/internal/pipeline"
	"edupulse/pkg/contracts/domain"
)

func main() {
	inFile := flag.String("in", "", "input file with student journey records (.csv, .tsv or .xlsx)")
	outDir := flag.String("out", "", "output directory for reports (defaults to the configured reports dir)")
	programs := flag.String("programs", "", "comma-separated list of programs to include")
	advisors := flag.String("advisors", "", "comma-separated list of advisor IDs to include")
	riskLevel := flag.String("risk", "all", "risk band to include: all, high, medium or low")
	startDate := flag.String("start", "", "enrollment date range start (YYYY-MM-DD)")
	endDate := flag.String("end", "", "enrollment date range end (YYYY-MM-DD)")
	writeXLSX := flag.Bool("xlsx", false, "also write a combined .xlsx workbook")
	flag.Parse()

	if *inFile == "" {
		fmt.Fprintln(os.Stderr, "usage: processor -in <records file> [-out <dir>] [-programs a,b] [-advisors x,y] [-risk high] [-xlsx]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		defaults := config.Default()
		cfg = &defaults
	}

	if _, err := infrastructure.InitializeLogger(cfg.Logging); err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
	}
	defer infrastructure.CloseLogFile()
	logger := infrastructure.WithComponent("processor")

	paths, err := config.ResolvePaths(cfg.Paths)
	if err != nil {
		logger.Error("Failed to resolve data directories", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *outDir == "" {
		*outDir = paths.ReportsDir
	}
	if err := os.MkdirAll(*outDir, 0755); err != nil {
		logger.Error("Failed to create output directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	spec := domain.FilterSpec{
		Programs:  splitList(*programs),
		Advisors:  splitList(*advisors),
		DateRange: domain.DateRange{Start: *startDate, End: *endDate},
		RiskLevel: domain.RiskLevel(*riskLevel),
	}
	spec.Normalize()

	start := time.Now()
	logger.Info("Starting student journey processing",
		slog.String("input", *inFile),
		slog.String("output_dir", *outDir),
		slog.String("risk_level", string(spec.RiskLevel)))

	records, err := loadRecords(*inFile, cfg.Engine.DelimiterRune())
	if err != nil {
		logger.Error("Failed to read input file", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if len(records) == 0 {
		logger.Error("Input file contains no parsable records", slog.String("input", *inFile))
		os.Exit(1)
	}
	logger.Info("Parsed input records", slog.Int("count", len(records)))

	ctx := context.Background()
	engine := pipeline.New(logger)
	result, err := engine.Process(ctx, records, spec)
	if err != nil {
		logger.Error("Processing failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	profiles := engine.Profiles(result)
	programStats, err := engine.Breakdown(result, "program")
	if err != nil {
		logger.Error("Program breakdown failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	advisorStats, err := engine.Breakdown(result, "advisor")
	if err != nil {
		logger.Error("Advisor breakdown failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	reports := exporter.NewReportExporter(paths)

	// Report files are independent, so write them in parallel.
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		return reports.ExportProfiles(profiles, filepath.Join(*outDir, "student_profiles.csv"))
	})
	g.Go(func() error {
		return reports.ExportRecords(result.Students, filepath.Join(*outDir, "filtered_records.csv"))
	})
	g.Go(func() error {
		return reports.ExportSummary(result.Summary, filepath.Join(*outDir, "summary.csv"))
	})
	g.Go(func() error {
		return reports.ExportSummaryJSON(result.Summary, filepath.Join(*outDir, "summary.json"))
	})
	g.Go(func() error {
		return reports.ExportBreakdown(programStats, "program", filepath.Join(*outDir, "breakdown_program.csv"))
	})
	g.Go(func() error {
		return reports.ExportBreakdown(advisorStats, "advisor", filepath.Join(*outDir, "breakdown_advisor.csv"))
	})
	if *writeXLSX {
		g.Go(func() error {
			return reports.ExportWorkbook(result.Summary, profiles, programStats, filepath.Join(*outDir, "student_report.xlsx"))
		})
	}
	if err := g.Wait(); err != nil {
		logger.Error("Report generation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Processing complete",
		slog.Int("students", result.Summary.TotalStudents),
		slog.Int("rows", len(result.Students)),
		slog.Duration("elapsed", time.Since(start)))
}

// loadRecords reads a records file, selecting the parser by extension.
func loadRecords(path string, delimiter rune) ([]domain.StudentRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return dataprocessing.ParseWorkbook(path)
	case ".tsv":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return dataprocessing.ParseRecords(string(data), '\t'), nil
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return dataprocessing.ParseRecords(string(data), delimiter), nil
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
