// Package filter applies FilterSpec constraints to student journey rows.
//
// Filters are conjunctive and order-preserving: the output is a new slice
// holding the surviving rows in their original order, and the input is
// never mutated. Attribute filters (program, advisor, enrollment date)
// run before risk scoring; the risk-band filter runs after, against
// scores computed over the attribute-filtered subset.
package filter

import (
	"time"

	"edupulse/internal/risk"
	"edupulse/pkg/contracts/domain"
)

// dateLayouts are tried in order when parsing enrollment dates. The first
// match wins.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
}

// Apply runs the attribute filters (programs, advisors, enrollment-date
// range) against the records. Empty Programs or Advisors slices impose no
// restriction. The date range only takes effect when both ends are set
// and parseable; rows whose enrollment date cannot be parsed fail an
// active range.
func Apply(records []domain.StudentRecord, spec domain.FilterSpec) []domain.StudentRecord {
	programs := toSet(spec.Programs)
	advisors := toSet(spec.Advisors)
	start, end, rangeActive := parseRange(spec.DateRange)

	filtered := make([]domain.StudentRecord, 0, len(records))
	for _, r := range records {
		if len(programs) > 0 && !programs[r.Program] {
			continue
		}
		if len(advisors) > 0 && !advisors[r.AdvisorID] {
			continue
		}
		if rangeActive && !inRange(r.EnrollmentDate, start, end) {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// ApplyRiskBand keeps the rows whose student risk score falls in the
// requested band. RiskAll (or an empty level) is a no-op copy. Rows whose
// student has no score entry are excluded from any specific band.
func ApplyRiskBand(records []domain.StudentRecord, scores map[string]float64, level domain.RiskLevel) []domain.StudentRecord {
	if level == domain.RiskAll || level == "" {
		out := make([]domain.StudentRecord, len(records))
		copy(out, records)
		return out
	}

	filtered := make([]domain.StudentRecord, 0, len(records))
	for _, r := range records {
		score, ok := scores[r.StudentID]
		if !ok {
			continue
		}
		if risk.InBand(score, level) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// parseRange resolves a DateRange to concrete bounds. A range with a
// missing or unparseable end is treated as inactive.
func parseRange(dr domain.DateRange) (start, end time.Time, active bool) {
	if !dr.Active() {
		return time.Time{}, time.Time{}, false
	}
	start, ok := parseDate(dr.Start)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, ok = parseDate(dr.End)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// inRange checks a record date against inclusive bounds.
func inRange(value string, start, end time.Time) bool {
	d, ok := parseDate(value)
	if !ok {
		return false
	}
	return !d.Before(start) && !d.After(end)
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, value); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
