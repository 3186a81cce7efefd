// Package database handles catalog database connections and schema inspection.
//
// It provides a wrapper around GORM to configure MySQL (the CMS database in
// production) or SQLite (local runs and tests) connections from the
// application's configuration.
//
// # Schema Inspection
//
// GetTableColumns lists a table's columns for either dialect. The integrity
// feature uses it to confirm the catalog tables carry the columns the
// offload reconciler reads and writes.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "wp_postmeta")
package database
