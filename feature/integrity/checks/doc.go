// Package checks implements the individual integrity checks: bucket
// reachability, catalog schema and upload directory.
package checks
