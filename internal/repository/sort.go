package repository

import "strings"

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// SortConfig holds sorting configuration for list queries
type SortConfig struct {
	Field string    // API field name
	Order SortOrder // asc or desc
}

// ParseSortOrder parses a string into SortOrder, defaulting to desc
func ParseSortOrder(s string) SortOrder {
	if strings.ToLower(s) == "asc" {
		return SortOrderAsc
	}
	return SortOrderDesc
}

// permitSortFields maps API field names to permit_letters columns
var permitSortFields = map[string]string{
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
	"effectiveDate": "effective_date",
	"issueDate":     "issue_date",
	"letterNumber":  "letter_number",
	"status":        "status",
}

// BuildOrderClause builds the ORDER BY clause for config. Fields outside fieldMap
// fall back to defaultColumn, so user input never reaches the SQL.
func BuildOrderClause(config SortConfig, fieldMap map[string]string, defaultColumn string) string {
	column, ok := fieldMap[config.Field]
	if !ok {
		column = defaultColumn
	}

	order := "DESC"
	if config.Order == SortOrderAsc {
		order = "ASC"
	}

	return column + " " + order
}
