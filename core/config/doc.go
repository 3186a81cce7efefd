// Package config loads the media-offload settings.
//
// Values come from the environment, optionally seeded from a .env file.
// Every field declares its key with a mapstructure tag and its default
// with a default tag; nested sections map to prefixed variables, so
// offload.public_url is read from OFFLOAD_PUBLIC_URL.
//
// # Sections
//
//   - Server: HTTP port, API key and nonce lifetime
//   - Storage: bucket endpoint, credentials and addressing
//   - Log: level and encoding
//   - Database: CMS database driver and connection
//   - Catalog: CMS table prefix
//   - Offload: public bucket URL, upload directory and URL, keep-local flag
//
// Missing storage or offload settings do not fail loading. Callers decide
// through Validate whether offload features can run; the server starts
// either way and reports the gap.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Println(err)
//	}
package config
