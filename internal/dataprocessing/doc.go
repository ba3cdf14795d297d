// Package dataprocessing handles ingestion and aggregation of student
// journey data: one row per student/course enrollment.
//
// # Architecture
//
// The package is organized into three main components:
//
// 1. Parser: converts raw delimited text (or an xlsx workbook) into typed
// StudentRecord rows, mapping columns by header name.
// 2. Summarizer: derives SummaryStats from a filtered record set.
// 3. Analytics: folds records into per-program and per-advisor breakdowns.
//
// # Parsing contract
//
// The parser is deliberately lenient. Numeric fields that fail to parse
// default to 0, short rows are padded with empty strings, and rows whose
// student_id is empty are dropped silently. Fields are split naively on
// the delimiter: a quoted value containing the delimiter corrupts column
// alignment for that row. That limitation is preserved for parity with
// upstream data producers; do not add quoted-field handling here without
// a coordinated format change.
//
// # Aggregation contract
//
// SummaryStats mixes two weightings on purpose. Completion and dropout
// rates are computed over distinct students, while GPA and attendance
// averages are computed over rows, so a student taking five courses moves
// the averages five times but the rates once. Consumers depend on that
// exact behavior; keep the two aggregation paths separate.
//
// # Usage
//
//	records := dataprocessing.ParseRecords(raw, ',')
//	stats := dataprocessing.Summarize(records)
//	byProgram := dataprocessing.BreakdownByProgram(records, scores)
package dataprocessing
