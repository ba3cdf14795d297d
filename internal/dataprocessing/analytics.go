package dataprocessing

import (
	"sort"

	"edupulse/internal/risk"
	"edupulse/pkg/contracts/domain"
)

// GroupStats summarizes the rows sharing one grouping key (a program or
// an advisor). Weighting rules match SummaryStats: counts and rates are
// distinct-student, averages are row-weighted.
type GroupStats struct {
	Key               string  `json:"key"`
	RowCount          int     `json:"row_count"`
	TotalStudents     int     `json:"total_students"`
	CompletedStudents int     `json:"completed_students"`
	DroppedStudents   int     `json:"dropped_students"`
	CompletionRate    float64 `json:"completion_rate"`
	DropoutRate       float64 `json:"dropout_rate"`
	AverageGPA        float64 `json:"average_gpa"`
	AverageAttendance float64 `json:"average_attendance"`
	AverageRisk       float64 `json:"average_risk"`
	HighRiskStudents  int     `json:"high_risk_students"`
}

// accumulator collects the intermediate state for one group during the
// fold. Derived values (rates, averages) are only computed in finalize so
// no partially-derived state is ever observable.
type accumulator struct {
	students  map[string]bool
	completed map[string]bool
	dropped   map[string]bool

	rows          int
	gpaSum        float64
	attendanceSum float64
}

func newAccumulator() *accumulator {
	return &accumulator{
		students:  make(map[string]bool),
		completed: make(map[string]bool),
		dropped:   make(map[string]bool),
	}
}

func (a *accumulator) add(r domain.StudentRecord) {
	a.students[r.StudentID] = true
	if r.IsCompleted() {
		a.completed[r.StudentID] = true
	}
	if r.IsDropped() {
		a.dropped[r.StudentID] = true
	}
	a.rows++
	a.gpaSum += r.GPAAtTime
	a.attendanceSum += r.AttendanceRate
}

func (a *accumulator) finalize(key string, scores map[string]float64) GroupStats {
	stats := GroupStats{
		Key:               key,
		RowCount:          a.rows,
		TotalStudents:     len(a.students),
		CompletedStudents: len(a.completed),
		DroppedStudents:   len(a.dropped),
	}
	if stats.TotalStudents > 0 {
		stats.CompletionRate = float64(stats.CompletedStudents) / float64(stats.TotalStudents) * 100
		stats.DropoutRate = float64(stats.DroppedStudents) / float64(stats.TotalStudents) * 100
	}
	if a.rows > 0 {
		stats.AverageGPA = a.gpaSum / float64(a.rows)
		stats.AverageAttendance = a.attendanceSum / float64(a.rows)
	}

	// Risk aggregates are per-student, from the supplied score map.
	if len(scores) > 0 {
		var riskSum float64
		scored := 0
		for id := range a.students {
			score, ok := scores[id]
			if !ok {
				continue
			}
			riskSum += score
			scored++
			if score >= risk.BandHighMin {
				stats.HighRiskStudents++
			}
		}
		if scored > 0 {
			stats.AverageRisk = riskSum / float64(scored)
		}
	}

	return stats
}

// BreakdownByProgram folds the records into per-program statistics in a
// single pass, finalized into a slice sorted by program name.
func BreakdownByProgram(records []domain.StudentRecord, scores map[string]float64) []GroupStats {
	return breakdown(records, scores, func(r domain.StudentRecord) string { return r.Program })
}

// BreakdownByAdvisor folds the records into per-advisor statistics in a
// single pass, finalized into a slice sorted by advisor id.
func BreakdownByAdvisor(records []domain.StudentRecord, scores map[string]float64) []GroupStats {
	return breakdown(records, scores, func(r domain.StudentRecord) string { return r.AdvisorID })
}

func breakdown(records []domain.StudentRecord, scores map[string]float64, keyOf func(domain.StudentRecord) string) []GroupStats {
	groups := make(map[string]*accumulator)
	for _, r := range records {
		key := keyOf(r)
		acc, exists := groups[key]
		if !exists {
			acc = newAccumulator()
			groups[key] = acc
		}
		acc.add(r)
	}

	stats := make([]GroupStats, 0, len(groups))
	for key, acc := range groups {
		stats = append(stats, acc.finalize(key, scores))
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Key < stats[j].Key
	})
	return stats
}
