package model

import (
	"strings"
	"unicode/utf8"
)

// Field limits, mirrored by the column sizes in the migrations
const (
	MaxNameLength        = 30
	MaxTitleLength       = 30
	MaxDescriptionLength = 150
)

// ValidateText trims value and checks it against maxLen (in characters).
// Empty values are rejected unless allowEmpty is set.
func ValidateText(value, label string, maxLen int, allowEmpty bool) (string, error) {
	value = strings.TrimSpace(value)

	if value == "" && !allowEmpty {
		return "", Validationf("%s must not be empty", label)
	}

	if utf8.RuneCountInString(value) > maxLen {
		return "", Validationf("%s must be at most %d characters", label, maxLen)
	}

	return value, nil
}

// ValidateStatus checks that value is one of the known task statuses
func ValidateStatus(value string) (Status, error) {
	s := Status(value)
	if !s.Valid() {
		return "", Validationf("invalid status %q, allowed values: %s", value, strings.Join(statusNames(), ", "))
	}
	return s, nil
}

// ValidateDeadline parses an optional YYYY-MM-DD deadline.
// Past dates are valid; they simply make the task overdue.
func ValidateDeadline(value *string) (*Date, error) {
	if value == nil {
		return nil, nil
	}

	d, err := ParseDate(*value)
	if err != nil {
		return nil, Validationf("invalid deadline %q, expected YYYY-MM-DD", *value)
	}
	return &d, nil
}
