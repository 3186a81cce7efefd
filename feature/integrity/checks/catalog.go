package checks

import (
	"fmt"

	"media-offload/core/catalog"
)

// CatalogReport strictly types the result of a catalog schema check.
type CatalogReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
}

type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	Status         string   `json:"status"` // "ok", "error"
}

// CheckCatalog verifies that the CMS tables carry every column the
// catalog reads and writes.
func CheckCatalog(cat *catalog.Catalog) (*CatalogReport, error) {
	if cat == nil {
		return nil, fmt.Errorf("catalog is not configured")
	}

	issues, err := cat.CheckSchema()
	if err != nil {
		return nil, err
	}

	report := &CatalogReport{Matched: true, Tables: make(map[string]TableReport)}
	posts, postmeta := cat.Tables()
	for _, table := range []string{posts, postmeta} {
		report.Tables[table] = TableReport{MissingColumns: []string{}, Status: "ok"}
	}
	for _, issue := range issues {
		report.Matched = false
		report.Tables[issue.Table] = TableReport{MissingColumns: issue.Missing, Status: "error"}
	}
	return report, nil
}
