// Package exporter writes analytics results to CSV and Excel outputs.
// CSV files carry a UTF-8 BOM by default so Excel opens them cleanly;
// combined machine-read exports skip the BOM.
package exporter
