package sqlite

import (
	"database/sql"
	"time"
)

// formatRFC3339 formats a timestamp for storage.
func formatRFC3339(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// nullString maps an optional string to a nullable column.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// stringPtr maps a nullable column back to an optional string.
func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
