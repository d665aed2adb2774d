package mysql

import (
	"database/sql"
	"encoding/json"
	"strings"
)

// stringOrDash returns "-" when the input is empty/whitespace
func stringOrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// marshalJSON encode nilai ke string JSON untuk kolom *_json
func marshalJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
