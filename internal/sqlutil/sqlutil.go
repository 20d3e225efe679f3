// Package sqlutil holds small database/sql helpers shared by the index.
package sqlutil

import (
	"database/sql"
	"strings"
)

// InClause returns "?, ?, ..." for items along with the matching args.
// An empty list yields "NULL" so that "IN (NULL)" matches no rows.
func InClause(items []string) (placeholders string, args []any) {
	if len(items) == 0 {
		return "NULL", nil
	}
	args = make([]any, len(items))
	for i, item := range items {
		args[i] = item
	}
	return strings.TrimSuffix(strings.Repeat("?, ", len(items)), ", "), args
}

// CollectRows scans every row with scan and closes rows.
func CollectRows[T any](rows *sql.Rows, scan func(*sql.Rows) (T, error)) ([]T, error) {
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}

// CollectStrings scans a single string column from every row.
func CollectStrings(rows *sql.Rows) ([]string, error) {
	return CollectRows(rows, func(r *sql.Rows) (string, error) {
		var s string
		err := r.Scan(&s)
		return s, err
	})
}
