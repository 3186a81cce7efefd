// Package integrity provides health checks for the media offload setup.
//
// # Checks Provided
//
//   - Bucket: the storage bucket exists; optionally a write probe uploads and reads back a small object.
//   - Catalog: the CMS posts and postmeta tables carry the columns the catalog reads and writes.
//   - Uploads: the local upload directory exists and accepts new files.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/bucket : Runs the bucket check (supports ?probe=true).
//   - GET /integrity/catalog : Runs the catalog schema check.
//   - GET /integrity/uploads : Runs the upload directory check.
package integrity
