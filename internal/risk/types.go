package risk

// Config holds the factor weights and thresholds for the scorer. The
// defaults are the scoring contract; overriding them is intended for
// calibration experiments, not production use.
type Config struct {
	// GPA thresholds (exclusive upper bounds) and weights
	GPASevereBelow   float64 `json:"gpa_severe_below"`   // e.g. 2.0
	GPAHighBelow     float64 `json:"gpa_high_below"`     // e.g. 2.5
	GPAModerateBelow float64 `json:"gpa_moderate_below"` // e.g. 3.0

	GPASevereWeight   float64 `json:"gpa_severe_weight"`
	GPAHighWeight     float64 `json:"gpa_high_weight"`
	GPAModerateWeight float64 `json:"gpa_moderate_weight"`

	// Attendance thresholds (exclusive upper bounds) and weights
	AttendanceSevereBelow   float64 `json:"attendance_severe_below"`   // e.g. 0.60
	AttendanceHighBelow     float64 `json:"attendance_high_below"`     // e.g. 0.75
	AttendanceModerateBelow float64 `json:"attendance_moderate_below"` // e.g. 0.85

	AttendanceSevereWeight   float64 `json:"attendance_severe_weight"`
	AttendanceHighWeight     float64 `json:"attendance_high_weight"`
	AttendanceModerateWeight float64 `json:"attendance_moderate_weight"`

	// Support ticket thresholds (exclusive lower bounds) and weights
	TicketsSevereAbove float64 `json:"tickets_severe_above"` // e.g. 5
	TicketsHighAbove   float64 `json:"tickets_high_above"`   // e.g. 2

	TicketsSevereWeight float64 `json:"tickets_severe_weight"`
	TicketsHighWeight   float64 `json:"tickets_high_weight"`

	// Advisor meeting weights
	MeetingsNoneWeight float64 `json:"meetings_none_weight"` // exactly zero meetings
	MeetingsFewBelow   float64 `json:"meetings_few_below"`   // e.g. 2
	MeetingsFewWeight  float64 `json:"meetings_few_weight"`

	// Credit progress threshold and weight
	CreditProgressBelow  float64 `json:"credit_progress_below"`  // e.g. 0.25
	CreditProgressWeight float64 `json:"credit_progress_weight"`

	// MaxScore caps the summed factors, keeping scores in [0, MaxScore].
	MaxScore float64 `json:"max_score"`
}

// DefaultConfig returns the scoring contract weights and thresholds.
func DefaultConfig() Config {
	return Config{
		GPASevereBelow:   2.0,
		GPAHighBelow:     2.5,
		GPAModerateBelow: 3.0,

		GPASevereWeight:   0.30,
		GPAHighWeight:     0.20,
		GPAModerateWeight: 0.10,

		AttendanceSevereBelow:   0.60,
		AttendanceHighBelow:     0.75,
		AttendanceModerateBelow: 0.85,

		AttendanceSevereWeight:   0.25,
		AttendanceHighWeight:     0.15,
		AttendanceModerateWeight: 0.05,

		TicketsSevereAbove:  5,
		TicketsHighAbove:    2,
		TicketsSevereWeight: 0.20,
		TicketsHighWeight:   0.10,

		MeetingsNoneWeight: 0.15,
		MeetingsFewBelow:   2,
		MeetingsFewWeight:  0.10,

		CreditProgressBelow:  0.25,
		CreditProgressWeight: 0.10,

		MaxScore: 1.0,
	}
}

// IsValid checks that thresholds are ordered and weights are non-negative.
func (c Config) IsValid() bool {
	return c.GPASevereBelow < c.GPAHighBelow && c.GPAHighBelow < c.GPAModerateBelow &&
		c.AttendanceSevereBelow < c.AttendanceHighBelow && c.AttendanceHighBelow < c.AttendanceModerateBelow &&
		c.TicketsHighAbove < c.TicketsSevereAbove &&
		c.GPASevereWeight >= 0 && c.GPAHighWeight >= 0 && c.GPAModerateWeight >= 0 &&
		c.AttendanceSevereWeight >= 0 && c.AttendanceHighWeight >= 0 && c.AttendanceModerateWeight >= 0 &&
		c.TicketsSevereWeight >= 0 && c.TicketsHighWeight >= 0 &&
		c.MeetingsNoneWeight >= 0 && c.MeetingsFewWeight >= 0 &&
		c.CreditProgressWeight >= 0 &&
		c.MaxScore > 0
}

// Breakdown exposes the individual factor contributions behind a score.
// Report and export consumers use it to explain why a student landed in a
// band; Total is the capped sum, so it may be less than the sum of parts.
type Breakdown struct {
	GPA             float64 `json:"gpa"`
	Attendance      float64 `json:"attendance"`
	SupportTickets  float64 `json:"support_tickets"`
	AdvisorMeetings float64 `json:"advisor_meetings"`
	CreditProgress  float64 `json:"credit_progress"`
	Total           float64 `json:"total"`
}
