package domain

// SummaryStats holds the aggregate view over a filtered record set.
//
// TotalStudents, CompletionRate and DropoutRate are computed over the
// distinct student_id set; AverageGPA and AverageAttendance are
// row-weighted means over every row. The asymmetry is deliberate and part
// of the output contract.
type SummaryStats struct {
	TotalStudents     int     `json:"total_students"`
	CompletedStudents int     `json:"completed_students"`
	DroppedStudents   int     `json:"dropped_students"`
	CompletionRate    float64 `json:"completion_rate"`
	DropoutRate       float64 `json:"dropout_rate"`
	AverageGPA        float64 `json:"average_gpa"`
	AverageAttendance float64 `json:"average_attendance"`
}

// ProcessedResult is the output of one pipeline run: the filtered rows in
// their original order, the summary over them, and the per-student risk
// map. RiskScores is keyed by student_id; when a student has several rows
// the score from the last row in iteration order wins.
type ProcessedResult struct {
	Students   []StudentRecord    `json:"students"`
	Summary    SummaryStats       `json:"summary"`
	RiskScores map[string]float64 `json:"risk_scores"`
}
