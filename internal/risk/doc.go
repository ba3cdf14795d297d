// Package risk computes the per-row dropout risk score used across the
// engine.
//
// The score is an additive, thresholded heuristic over five indicators:
// GPA, attendance rate, support ticket volume, advisor meeting count and
// credit progress. Each indicator contributes a fixed weight when the row
// falls under its thresholds, the contributions are summed, and the sum is
// capped at 1.0. Boundary values always belong to the lower-risk bucket:
// a GPA of exactly 2.0 contributes the [2.0,2.5) weight, not the <2.0 one.
//
// Scoring is a pure function of the record. Two calls with the same record
// and configuration always produce the same score, and the score is
// monotonically non-decreasing in every risk-indicating direction (lower
// GPA, lower attendance, more tickets, fewer meetings, lower credit
// progress).
//
// Scores map onto three bands used by the filter stage: high (>= 0.7),
// medium ([0.4, 0.7)) and low (< 0.4).
//
// Usage:
//
//	scorer := risk.NewScorer(risk.DefaultConfig())
//	score := scorer.Score(record)
//	band := risk.Band(score)
package risk
