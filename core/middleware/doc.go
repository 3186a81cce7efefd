// Package middleware contains HTTP middleware for the Fiber application.
//
// # Components
//
//   - auth: API key validation for every route registered after it.
//   - rayid: a unique request ID (RayID) per request, stored in the context
//     and echoed in the response headers for tracing.
//   - nonce: single-use anti-replay tokens guarding the bulk media actions.
//
// auth and rayid are registered globally in the start command; nonce guards
// individual route groups.
package middleware
