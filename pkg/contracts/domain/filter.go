package domain

// RiskLevel selects a risk band in a FilterSpec.
type RiskLevel string

const (
	RiskAll    RiskLevel = "all"
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// IsValid reports whether the level is one of the recognized values.
func (rl RiskLevel) IsValid() bool {
	switch rl {
	case RiskAll, RiskHigh, RiskMedium, RiskLow:
		return true
	}
	return false
}

// DateRange is an inclusive calendar range over enrollment dates.
// The range only takes effect when both ends are non-empty.
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// Active reports whether both ends of the range are set.
func (dr DateRange) Active() bool {
	return dr.Start != "" && dr.End != ""
}

// FilterSpec is the full set of user-selected constraints applied before
// aggregation. Empty Programs or Advisors slices mean "no restriction",
// not "exclude everything".
type FilterSpec struct {
	Programs  []string  `json:"programs"`
	Advisors  []string  `json:"advisors"`
	DateRange DateRange `json:"date_range"`
	RiskLevel RiskLevel `json:"risk_level" validate:"omitempty,oneof=all high medium low"`
}

// DefaultFilterSpec returns the identity filter: no program, advisor or
// date restriction and all risk bands included.
func DefaultFilterSpec() FilterSpec {
	return FilterSpec{RiskLevel: RiskAll}
}

// Normalize fills in the zero value for RiskLevel so an absent field in a
// request body behaves as "all".
func (fs *FilterSpec) Normalize() {
	if fs.RiskLevel == "" {
		fs.RiskLevel = RiskAll
	}
}
