package catalog

import (
	"fmt"
	"sort"

	"media-offload/core/database"
)

// SchemaIssue describes a catalog table that is missing or incomplete.
type SchemaIssue struct {
	Table   string   `json:"table"`
	Missing []string `json:"missing_columns"`
}

// CheckSchema verifies that the catalog tables exist and carry the columns
// the catalog reads and writes. It returns one issue per incomplete table.
func (c *Catalog) CheckSchema() ([]SchemaIssue, error) {
	required := c.RequiredColumns()
	tables := make([]string, 0, len(required))
	for t := range required {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	var issues []SchemaIssue
	for _, table := range tables {
		columns, err := database.GetTableColumns(c.db, table)
		if err != nil {
			return nil, fmt.Errorf("failed to inspect %s: %w", table, err)
		}

		present := make(map[string]bool, len(columns))
		for _, col := range columns {
			present[col.Field] = true
		}

		var missing []string
		for _, name := range required[table] {
			if !present[name] {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			issues = append(issues, SchemaIssue{Table: table, Missing: missing})
		}
	}
	return issues, nil
}
