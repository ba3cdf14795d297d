// Package http contains the chi HTTP handlers for the analytics API.
// Handlers translate between the wire format and the service layer,
// and render failures as RFC 7807 problem documents.
package http
