// Package server holds the HTTP server configuration.
//
// While the start command handles server startup, this package defines the
// settings it needs: listen port, the API key guarding every route, and the
// lifetime of the one-time tokens that protect operator actions.
package server
