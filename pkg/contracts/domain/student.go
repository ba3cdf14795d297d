package domain

// StudentRecord represents one row of journey data: a single student's
// enrollment in a single course. A student appears once per course, so
// StudentID is not unique across rows.
type StudentRecord struct {
	StudentID            string  `json:"student_id" csv:"student_id" validate:"required"`
	Program              string  `json:"program" csv:"program"`
	EnrollmentDate       string  `json:"enrollment_date" csv:"enrollment_date"`
	RegistrationDate     string  `json:"registration_date" csv:"registration_date"`
	CourseID             string  `json:"course_id" csv:"course_id"`
	CourseName           string  `json:"course_name" csv:"course_name"`
	CourseCategory       string  `json:"course_category" csv:"course_category"`
	CourseStartDate      string  `json:"course_start_date" csv:"course_start_date"`
	CourseEndDate        string  `json:"course_end_date" csv:"course_end_date"`
	Grade                string  `json:"grade" csv:"grade"`
	CompletionStatus     string  `json:"completion_status" csv:"completion_status"`
	AttendanceRate       float64 `json:"attendance_rate" csv:"attendance_rate" validate:"min=0,max=1"`
	AdvisorID            string  `json:"advisor_id" csv:"advisor_id"`
	AdvisorMeetingCount  float64 `json:"advisor_meeting_count" csv:"advisor_meeting_count" validate:"min=0"`
	SupportTicketCount   float64 `json:"support_ticket_count" csv:"support_ticket_count" validate:"min=0"`
	GPAAtTime            float64 `json:"gpa_at_time" csv:"gpa_at_time" validate:"min=0,max=4"`
	CreditsEarned        float64 `json:"credits_earned" csv:"credits_earned" validate:"min=0"`
	TotalCreditsRequired float64 `json:"total_credits_required" csv:"total_credits_required" validate:"min=0"`
}

// CompletionStatus values as they appear in the source data.
type CompletionStatus string

const (
	StatusCompleted  CompletionStatus = "Completed"
	StatusDropped    CompletionStatus = "Dropped"
	StatusInProgress CompletionStatus = "In Progress"
)

// IsCompleted reports whether the row records a completed course.
func (r StudentRecord) IsCompleted() bool {
	return CompletionStatus(r.CompletionStatus) == StatusCompleted
}

// IsDropped reports whether the row records a dropped course.
func (r StudentRecord) IsDropped() bool {
	return CompletionStatus(r.CompletionStatus) == StatusDropped
}

// CreditProgress returns the fraction of required credits earned, and
// whether the ratio is defined. A zero credit requirement yields (0, false)
// so callers never divide by zero.
func (r StudentRecord) CreditProgress() (float64, bool) {
	if r.TotalCreditsRequired <= 0 {
		return 0, false
	}
	return r.CreditsEarned / r.TotalCreditsRequired, true
}
