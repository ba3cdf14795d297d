package dataprocessing

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"edupulse/pkg/contracts/domain"
)

// numericFields is the fixed allowlist of columns parsed as floats.
// Anything else stays a string. Parse failures default to 0.
var numericFields = map[string]bool{
	"attendance_rate":        true,
	"gpa_at_time":            true,
	"advisor_meeting_count":  true,
	"support_ticket_count":   true,
	"credits_earned":         true,
	"total_credits_required": true,
}

// ParseRecords converts raw delimited text into student records. The
// first line is the header and defines column positions; columns are
// matched by normalized header name, so file column order is free.
//
// Values are split naively on the delimiter (no quoted-field handling),
// trimmed, and stripped of surrounding quote characters. Rows shorter
// than the header are padded with empty strings. Rows with an empty
// student_id are dropped.
func ParseRecords(raw string, delimiter rune) []domain.StudentRecord {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	if len(lines) == 0 {
		return []domain.StudentRecord{}
	}

	sep := string(delimiter)
	columns := buildColumnMap(strings.Split(lines[0], sep))
	if len(columns) == 0 {
		slog.Warn("no recognizable columns in header", slog.String("header", lines[0]))
		return []domain.StudentRecord{}
	}

	records := make([]domain.StudentRecord, 0, len(lines)-1)
	dropped := 0
	for _, line := range lines[1:] {
		record, ok := recordFromValues(columns, strings.Split(line, sep))
		if !ok {
			dropped++
			continue
		}
		records = append(records, record)
	}

	slog.Debug("parsed student records",
		slog.Int("rows", len(records)),
		slog.Int("dropped", dropped),
		slog.Int("columns", len(columns)))

	return records
}

// ParseWorkbook reads student records from the first sheet of an xlsx
// workbook, applying the same header-mapping and leniency rules as
// ParseRecords.
func ParseWorkbook(filePath string) ([]domain.StudentRecord, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return []domain.StudentRecord{}, nil
	}

	columns := buildColumnMap(rows[0])
	if len(columns) == 0 {
		return nil, fmt.Errorf("no recognizable columns in sheet %q", sheets[0])
	}

	records := make([]domain.StudentRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		record, ok := recordFromValues(columns, row)
		if !ok {
			continue
		}
		records = append(records, record)
	}

	slog.Info("parsed workbook",
		slog.String("sheet", sheets[0]),
		slog.Int("rows", len(records)))

	return records, nil
}

// buildColumnMap maps normalized header names to their positions.
func buildColumnMap(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		normalized := strings.ToLower(cleanValue(name))
		if normalized == "" {
			continue
		}
		columns[normalized] = i
	}
	return columns
}

// recordFromValues builds one record from a value row. Returns false when
// the row has no student_id after cleaning.
func recordFromValues(columns map[string]int, values []string) (domain.StudentRecord, bool) {
	get := func(name string) string {
		idx, exists := columns[name]
		if !exists || idx >= len(values) {
			return ""
		}
		return cleanValue(values[idx])
	}
	getFloat := func(name string) float64 {
		val, _ := strconv.ParseFloat(get(name), 64)
		return val
	}

	record := domain.StudentRecord{
		StudentID:            get("student_id"),
		Program:              get("program"),
		EnrollmentDate:       get("enrollment_date"),
		RegistrationDate:     get("registration_date"),
		CourseID:             get("course_id"),
		CourseName:           get("course_name"),
		CourseCategory:       get("course_category"),
		CourseStartDate:      get("course_start_date"),
		CourseEndDate:        get("course_end_date"),
		Grade:                get("grade"),
		CompletionStatus:     get("completion_status"),
		AdvisorID:            get("advisor_id"),
		AttendanceRate:       getFloat("attendance_rate"),
		GPAAtTime:            getFloat("gpa_at_time"),
		AdvisorMeetingCount:  getFloat("advisor_meeting_count"),
		SupportTicketCount:   getFloat("support_ticket_count"),
		CreditsEarned:        getFloat("credits_earned"),
		TotalCreditsRequired: getFloat("total_credits_required"),
	}

	if record.StudentID == "" {
		return domain.StudentRecord{}, false
	}
	return record, true
}

// cleanValue trims whitespace and strips surrounding quote characters.
func cleanValue(v string) string {
	v = strings.TrimSpace(v)
	v = strings.Trim(v, `"'`)
	return strings.TrimSpace(v)
}

// NumericField reports whether a column belongs to the numeric allowlist.
// Exposed for export consumers that need to format columns consistently.
func NumericField(name string) bool {
	return numericFields[strings.ToLower(name)]
}
