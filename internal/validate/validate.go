// Package validate enforces the fixed per-field length limits on request
// bodies.
package validate

import (
	"fmt"
	"unicode/utf8"
)

// TooLongError reports a field whose value exceeds its limit. The offending
// value is deliberately not carried, so it can never leak into a response.
type TooLongError struct {
	Field string
	Limit int
}

func (e *TooLongError) Error() string {
	return fmt.Sprintf("field %q exceeds the maximum length of %d characters", e.Field, e.Limit)
}

// Limits maps field names to their maximum length in characters.
type Limits map[string]int

// Default returns the limits for the fields of the draft API.
func Default() Limits {
	return Limits{
		"title":         200,
		"tone":          200,
		"template_name": 200,
		"notes":         10000,
		"instruction":   2000,
		"document_text": 50000,
	}
}

// Check validates a single field value against its limit. Length is counted
// in characters, not bytes, so multi-byte content is not cut short of what
// the user sees. The field set is fixed by the API surface; an unknown name
// is a programming error and panics.
func (l Limits) Check(field, value string) error {
	limit, known := l[field]
	if !known {
		panic(fmt.Sprintf("validate: no limit configured for field %q", field))
	}
	if utf8.RuneCountInString(value) > limit {
		return &TooLongError{Field: field, Limit: limit}
	}
	return nil
}
