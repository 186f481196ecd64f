package postgres

import "strings"

// orderClause translates an API ordering parameter ("name", "-created_at")
// into a safe ORDER BY clause using a whitelist of sortable columns.
// Anything not in the whitelist falls back to the provided default clause,
// so client input never reaches the SQL text directly.
func orderClause(ordering string, columns map[string]string, def string) string {
	if ordering == "" {
		return def
	}

	direction := "ASC"
	if strings.HasPrefix(ordering, "-") {
		direction = "DESC"
		ordering = ordering[1:]
	}

	column, ok := columns[ordering]
	if !ok {
		return def
	}

	return column + " " + direction
}
