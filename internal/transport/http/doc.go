// Package http contains the chi HTTP handlers for the import and
// analytics APIs. Handlers translate between the wire format and the
// service layer; errors are rendered as RFC 7807 problem details via
// the shared error handler.
package http
