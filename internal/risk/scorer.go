package risk

import (
	"fmt"

	"edupulse/pkg/contracts/domain"
)

// Scorer computes dropout risk scores for student journey rows.
type Scorer struct {
	config Config
}

// NewScorer creates a scorer with the given configuration. Invalid
// configurations fall back to the defaults rather than failing, since the
// scorer sits on a no-error path inside the pipeline.
func NewScorer(config Config) *Scorer {
	if !config.IsValid() {
		config = DefaultConfig()
	}
	return &Scorer{config: config}
}

// Score returns the dropout risk for a single row, bounded to
// [0, MaxScore]. Factors are evaluated in a fixed order: GPA, attendance,
// support tickets, advisor meetings, credit progress.
func (s *Scorer) Score(r domain.StudentRecord) float64 {
	score := s.gpaFactor(r.GPAAtTime) +
		s.attendanceFactor(r.AttendanceRate) +
		s.ticketFactor(r.SupportTicketCount) +
		s.meetingFactor(r.AdvisorMeetingCount) +
		s.creditFactor(r)

	if score > s.config.MaxScore {
		return s.config.MaxScore
	}
	return score
}

// ScoreBreakdown returns the per-factor contributions alongside the capped
// total. The total always equals what Score returns for the same record.
func (s *Scorer) ScoreBreakdown(r domain.StudentRecord) Breakdown {
	b := Breakdown{
		GPA:             s.gpaFactor(r.GPAAtTime),
		Attendance:      s.attendanceFactor(r.AttendanceRate),
		SupportTickets:  s.ticketFactor(r.SupportTicketCount),
		AdvisorMeetings: s.meetingFactor(r.AdvisorMeetingCount),
		CreditProgress:  s.creditFactor(r),
	}
	b.Total = b.GPA + b.Attendance + b.SupportTickets + b.AdvisorMeetings + b.CreditProgress
	if b.Total > s.config.MaxScore {
		b.Total = s.config.MaxScore
	}
	return b
}

// ScoreAll computes the per-student risk map over a record slice. Rows are
// scored in slice order and the map is keyed by student_id, so a student
// with several rows keeps the score of their last row. That last-row-wins
// behavior is part of the contract consumers rely on.
func (s *Scorer) ScoreAll(records []domain.StudentRecord) map[string]float64 {
	scores := make(map[string]float64, len(records))
	for _, r := range records {
		if r.StudentID == "" {
			continue
		}
		scores[r.StudentID] = s.Score(r)
	}
	return scores
}

func (s *Scorer) gpaFactor(gpa float64) float64 {
	switch {
	case gpa < s.config.GPASevereBelow:
		return s.config.GPASevereWeight
	case gpa < s.config.GPAHighBelow:
		return s.config.GPAHighWeight
	case gpa < s.config.GPAModerateBelow:
		return s.config.GPAModerateWeight
	}
	return 0
}

func (s *Scorer) attendanceFactor(rate float64) float64 {
	switch {
	case rate < s.config.AttendanceSevereBelow:
		return s.config.AttendanceSevereWeight
	case rate < s.config.AttendanceHighBelow:
		return s.config.AttendanceHighWeight
	case rate < s.config.AttendanceModerateBelow:
		return s.config.AttendanceModerateWeight
	}
	return 0
}

func (s *Scorer) ticketFactor(tickets float64) float64 {
	switch {
	case tickets > s.config.TicketsSevereAbove:
		return s.config.TicketsSevereWeight
	case tickets > s.config.TicketsHighAbove:
		return s.config.TicketsHighWeight
	}
	return 0
}

func (s *Scorer) meetingFactor(meetings float64) float64 {
	switch {
	case meetings == 0:
		return s.config.MeetingsNoneWeight
	case meetings < s.config.MeetingsFewBelow:
		return s.config.MeetingsFewWeight
	}
	return 0
}

// creditFactor fires when earned credits fall below the progress threshold.
// A zero credit requirement makes the ratio undefined; the factor does not
// fire in that case rather than propagating a division by zero.
func (s *Scorer) creditFactor(r domain.StudentRecord) float64 {
	progress, ok := r.CreditProgress()
	if !ok {
		return 0
	}
	if progress < s.config.CreditProgressBelow {
		return s.config.CreditProgressWeight
	}
	return 0
}

// Band classification thresholds. Scores at exactly a threshold belong to
// the higher band.
const (
	BandHighMin   = 0.7
	BandMediumMin = 0.4
)

// Band maps a score to its risk band.
func Band(score float64) domain.RiskLevel {
	switch {
	case score >= BandHighMin:
		return domain.RiskHigh
	case score >= BandMediumMin:
		return domain.RiskMedium
	}
	return domain.RiskLow
}

// InBand reports whether a score falls inside the requested band.
// RiskAll matches every score.
func InBand(score float64, level domain.RiskLevel) bool {
	if level == domain.RiskAll || level == "" {
		return true
	}
	return Band(score) == level
}

// ValidateLevel returns an error for unrecognized risk levels so callers
// can reject bad filter input before running the pipeline.
func ValidateLevel(level domain.RiskLevel) error {
	if !level.IsValid() {
		return fmt.Errorf("unrecognized risk level: %q", level)
	}
	return nil
}
