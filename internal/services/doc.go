// Package services holds the application services behind the HTTP
// handlers. DataService owns the current in-memory dataset and runs
// the analytics engine against it; HealthService reports process and
// dataset status.
package services
