// Package media exposes media offload to operators and to the CMS.
//
// # HTTP Endpoints
//
//   - GET  /media/nonce/:action : issues a single-use token for a bulk action.
//   - POST /media/migrate : offloads every local asset.
//   - POST /media/purge-local : deletes local copies of offloaded assets.
//   - POST /media/revert : returns every offloaded asset to local delivery.
//   - POST /media/reupload : uploads assets missing from the bucket.
//   - POST /media/:id/offload : offloads one asset (upload hook).
//   - GET  /media/status : drift report.
//   - GET  /media/:id/url : delivery URL, with optional ?size= or ?w=&h=.
//
// Bulk endpoints require the token in the X-Nonce header or the nonce form
// field and answer {"status": "success"|"partial", "report": {...}}. Only
// one bulk operation runs at a time; a second one gets 409.
//
// When storage or offload settings are missing, every endpoint answers 503.
package media
