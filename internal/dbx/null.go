package dbx

import "database/sql"

// NullIfEmpty sends "" as SQL NULL, so that a NOT NULL column rejects a
// blank required value instead of storing it.
func NullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
