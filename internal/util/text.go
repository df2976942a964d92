package util

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// ConvertStructToJson marshals v for queue payloads and audit rows. Returns
// an empty JSON object on marshal failure so callers never publish nil.
func ConvertStructToJson(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// SanitizePostgresText strips null bytes and invalid UTF-8 so user-supplied
// concept strings can be stored in text columns.
func SanitizePostgresText(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	if utf8.ValidString(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == utf8.RuneError {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
