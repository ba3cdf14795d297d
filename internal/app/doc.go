// Package app wires the application together: configuration, logging,
// tracing, services, middleware and the HTTP server, with graceful
// shutdown on SIGINT/SIGTERM.
//
// Initialization order is configuration, logger, tracing, services,
// router, server. All errors bubble up to main; the package never
// calls os.Exit.
package app
