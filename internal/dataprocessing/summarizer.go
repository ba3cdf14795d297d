package dataprocessing

import (
	"log/slog"
	"sort"

	"edupulse/internal/risk"
	"edupulse/pkg/contracts/domain"
)

// Summarize computes SummaryStats over an already-filtered record set.
//
// Student counts and rates are deduplicated by student_id; a student with
// any Completed row counts as completed and any Dropped row counts as
// dropped, so a student who dropped one course and completed another
// contributes to both rates. GPA and attendance averages remain
// row-weighted. Every ratio is zero-guarded, so an empty input yields an
// all-zero summary rather than NaN.
func Summarize(records []domain.StudentRecord) domain.SummaryStats {
	stats := domain.SummaryStats{}
	if len(records) == 0 {
		return stats
	}

	students := make(map[string]bool, len(records))
	completed := make(map[string]bool)
	dropped := make(map[string]bool)

	var gpaSum, attendanceSum float64
	for _, r := range records {
		students[r.StudentID] = true
		if r.IsCompleted() {
			completed[r.StudentID] = true
		}
		if r.IsDropped() {
			dropped[r.StudentID] = true
		}
		gpaSum += r.GPAAtTime
		attendanceSum += r.AttendanceRate
	}

	stats.TotalStudents = len(students)
	stats.CompletedStudents = len(completed)
	stats.DroppedStudents = len(dropped)
	if stats.TotalStudents > 0 {
		stats.CompletionRate = float64(stats.CompletedStudents) / float64(stats.TotalStudents) * 100
		stats.DropoutRate = float64(stats.DroppedStudents) / float64(stats.TotalStudents) * 100
	}

	// Row-weighted on purpose; see the package doc.
	rowCount := float64(len(records))
	stats.AverageGPA = gpaSum / rowCount
	stats.AverageAttendance = attendanceSum / rowCount

	return stats
}

// StudentProfile is a per-student roll-up of that student's rows, used by
// the export and breakdown surfaces.
type StudentProfile struct {
	StudentID        string  `json:"student_id"`
	Program          string  `json:"program"`
	AdvisorID        string  `json:"advisor_id"`
	CourseCount      int     `json:"course_count"`
	CompletedCourses int     `json:"completed_courses"`
	DroppedCourses   int     `json:"dropped_courses"`
	AverageGPA       float64 `json:"average_gpa"`
	AverageAttendance float64 `json:"average_attendance"`
	RiskScore        float64 `json:"risk_score"`
	RiskBand         string  `json:"risk_band"`
}

// BuildProfiles rolls filtered rows up into one profile per student,
// sorted by student_id for deterministic output. Program and advisor come
// from the student's first row in input order; GPA and attendance are
// averaged over that student's rows. Risk score and band are filled from
// the supplied score map when present.
func BuildProfiles(records []domain.StudentRecord, scores map[string]float64) []StudentProfile {
	byStudent := make(map[string]*StudentProfile, len(records))
	order := make([]string, 0, len(records))

	for _, r := range records {
		p, exists := byStudent[r.StudentID]
		if !exists {
			p = &StudentProfile{
				StudentID: r.StudentID,
				Program:   r.Program,
				AdvisorID: r.AdvisorID,
			}
			byStudent[r.StudentID] = p
			order = append(order, r.StudentID)
		}
		p.CourseCount++
		if r.IsCompleted() {
			p.CompletedCourses++
		}
		if r.IsDropped() {
			p.DroppedCourses++
		}
		p.AverageGPA += r.GPAAtTime
		p.AverageAttendance += r.AttendanceRate
	}

	profiles := make([]StudentProfile, 0, len(byStudent))
	for _, id := range order {
		p := byStudent[id]
		if p.CourseCount > 0 {
			p.AverageGPA /= float64(p.CourseCount)
			p.AverageAttendance /= float64(p.CourseCount)
		}
		if score, ok := scores[id]; ok {
			p.RiskScore = score
			p.RiskBand = string(risk.Band(score))
		}
		profiles = append(profiles, *p)
	}

	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].StudentID < profiles[j].StudentID
	})

	slog.Debug("built student profiles",
		slog.Int("rows", len(records)),
		slog.Int("students", len(profiles)))

	return profiles
}
