package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"edupulse/internal/config"
	"edupulse/internal/dataprocessing"
	"edupulse/pkg/contracts/domain"
)

// ProfileHeaders returns the CSV headers for per-student profiles.
func ProfileHeaders() []string {
	return []string{
		"StudentID", "Program", "AdvisorID", "CourseCount", "CompletedCourses",
		"DroppedCourses", "AverageGPA", "AverageAttendance", "RiskScore", "RiskBand",
	}
}

// ProfileRows converts student profiles to CSV rows. Profiles arrive
// already sorted by student ID.
func ProfileRows(profiles []dataprocessing.StudentProfile) [][]string {
	rows := make([][]string, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, []string{
			p.StudentID,
			p.Program,
			p.AdvisorID,
			formatInt(p.CourseCount),
			formatInt(p.CompletedCourses),
			formatInt(p.DroppedCourses),
			formatFloat(p.AverageGPA),
			formatFloat(p.AverageAttendance),
			formatScore(p.RiskScore),
			p.RiskBand,
		})
	}
	return rows
}

// RecordHeaders returns the CSV headers for raw filtered rows.
func RecordHeaders() []string {
	return []string{
		"StudentID", "Program", "EnrollmentDate", "CourseID", "CourseName",
		"AdvisorID", "CompletionStatus", "GPAAtTime", "AttendanceRate",
		"AdvisorMeetingCount", "SupportTicketCount", "CreditsEarned",
		"TotalCreditsRequired",
	}
}

// RecordRows converts filtered student rows to CSV rows, preserving the
// input order.
func RecordRows(records []domain.StudentRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.StudentID,
			r.Program,
			r.EnrollmentDate,
			r.CourseID,
			r.CourseName,
			r.AdvisorID,
			r.CompletionStatus,
			formatFloat(r.GPAAtTime),
			formatFloat(r.AttendanceRate),
			formatInt(int(r.AdvisorMeetingCount)),
			formatInt(int(r.SupportTicketCount)),
			formatFloat(r.CreditsEarned),
			formatFloat(r.TotalCreditsRequired),
		})
	}
	return rows
}

// SummaryHeaders returns the CSV headers for the cohort summary.
func SummaryHeaders() []string {
	return []string{
		"TotalStudents", "CompletedStudents", "DroppedStudents",
		"CompletionRate", "DropoutRate", "AverageGPA", "AverageAttendance",
	}
}

// SummaryRow converts summary stats to a single CSV row.
func SummaryRow(summary domain.SummaryStats) []string {
	return []string{
		formatInt(summary.TotalStudents),
		formatInt(summary.CompletedStudents),
		formatInt(summary.DroppedStudents),
		formatFloat(summary.CompletionRate),
		formatFloat(summary.DropoutRate),
		formatFloat(summary.AverageGPA),
		formatFloat(summary.AverageAttendance),
	}
}

// BreakdownHeaders returns the CSV headers for grouped stats. The first
// column is named after the grouping dimension.
func BreakdownHeaders(dimension string) []string {
	return []string{
		dimension, "Rows", "TotalStudents", "CompletedStudents", "DroppedStudents",
		"CompletionRate", "DropoutRate", "AverageGPA", "AverageAttendance",
		"AverageRisk", "HighRiskStudents",
	}
}

// BreakdownRows converts grouped stats to CSV rows.
func BreakdownRows(groups []dataprocessing.GroupStats) [][]string {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{
			g.Key,
			formatInt(g.RowCount),
			formatInt(g.TotalStudents),
			formatInt(g.CompletedStudents),
			formatInt(g.DroppedStudents),
			formatFloat(g.CompletionRate),
			formatFloat(g.DropoutRate),
			formatFloat(g.AverageGPA),
			formatFloat(g.AverageAttendance),
			formatScore(g.AverageRisk),
			formatInt(g.HighRiskStudents),
		})
	}
	return rows
}

// WriteCSVTo streams headers and rows to w, without a BOM. Used by the
// HTTP export endpoint where the body goes straight to the client.
func WriteCSVTo(w io.Writer, headers []string, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// BuildWorkbook assembles an Excel workbook with a summary sheet, the
// per-student profiles, and per-program grouping.
func BuildWorkbook(summary domain.SummaryStats, profiles []dataprocessing.StudentProfile, programs []dataprocessing.GroupStats) (*excelize.File, error) {
	f := excelize.NewFile()

	const summarySheet = "Summary"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	if err := writeSheet(f, summarySheet, SummaryHeaders(), [][]string{SummaryRow(summary)}); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet("Students"); err != nil {
		return nil, fmt.Errorf("create students sheet: %w", err)
	}
	if err := writeSheet(f, "Students", ProfileHeaders(), ProfileRows(profiles)); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet("Programs"); err != nil {
		return nil, fmt.Errorf("create programs sheet: %w", err)
	}
	if err := writeSheet(f, "Programs", BreakdownHeaders("Program"), BreakdownRows(programs)); err != nil {
		return nil, err
	}

	return f, nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]string) error {
	cell, err := excelize.CoordinatesToCellName(1, 1)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &headers); err != nil {
		return fmt.Errorf("write %s headers: %w", sheet, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i, err)
		}
	}
	return nil
}

// ReportExporter writes analytics reports into the reports directory.
type ReportExporter struct {
	csvWriter *CSVWriter
	paths     *config.Paths
}

// NewReportExporter creates a new report exporter.
func NewReportExporter(paths *config.Paths) *ReportExporter {
	return &ReportExporter{
		csvWriter: NewCSVWriter(paths),
		paths:     paths,
	}
}

// ExportProfiles writes per-student profiles to a CSV report.
func (e *ReportExporter) ExportProfiles(profiles []dataprocessing.StudentProfile, filePath string) error {
	return e.csvWriter.WriteSimpleCSV(filePath, ProfileHeaders(), ProfileRows(profiles))
}

// ExportRecords writes raw filtered rows to a CSV report.
func (e *ReportExporter) ExportRecords(records []domain.StudentRecord, filePath string) error {
	return e.csvWriter.WriteSimpleCSV(filePath, RecordHeaders(), RecordRows(records))
}

// ExportSummaryJSON writes the cohort summary as an indented JSON file,
// for consumers that post-process the numbers rather than open a sheet.
func (e *ReportExporter) ExportSummaryJSON(summary domain.SummaryStats, filePath string) error {
	fullPath := filePath
	if !filepath.IsAbs(fullPath) {
		fullPath = e.paths.ReportPath(fullPath)
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return fmt.Errorf("write summary %s: %w", fullPath, err)
	}
	return nil
}

// ExportSummary writes the cohort summary to a CSV report.
func (e *ReportExporter) ExportSummary(summary domain.SummaryStats, filePath string) error {
	return e.csvWriter.WriteSimpleCSV(filePath, SummaryHeaders(), [][]string{SummaryRow(summary)})
}

// ExportBreakdown writes grouped stats to a CSV report.
func (e *ReportExporter) ExportBreakdown(groups []dataprocessing.GroupStats, dimension, filePath string) error {
	return e.csvWriter.WriteSimpleCSV(filePath, BreakdownHeaders(dimension), BreakdownRows(groups))
}

// ExportWorkbook writes the combined Excel report.
func (e *ReportExporter) ExportWorkbook(summary domain.SummaryStats, profiles []dataprocessing.StudentProfile, programs []dataprocessing.GroupStats, filePath string) error {
	f, err := BuildWorkbook(summary, profiles, programs)
	if err != nil {
		return err
	}
	defer f.Close()

	fullPath := filePath
	if !filepath.IsAbs(fullPath) {
		fullPath = e.paths.ReportPath(fullPath)
	}
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("save workbook %s: %w", fullPath, err)
	}
	return nil
}
