package domain

import (
	"errors"
	"strings"
)

var (
	// ErrHouseholdNotFound is returned when no household matches the requested ID
	ErrHouseholdNotFound = errors.New("household not found")

	// ErrSettingsNotFound is returned by settings repositories when a household has no stored row
	ErrSettingsNotFound = errors.New("strategy settings not found")
)

// Issue is a single validation failure
type Issue struct {
	Source   Source // empty for settings issues
	RecordID string
	Field    string
	Message  string
}

func (i Issue) String() string {
	var b strings.Builder
	if i.Source != "" {
		b.WriteString(string(i.Source))
		b.WriteString(" ")
	}
	if i.RecordID != "" {
		b.WriteString(i.RecordID)
		b.WriteString(" ")
	}
	b.WriteString(i.Field)
	b.WriteString(": ")
	b.WriteString(i.Message)
	return b.String()
}

// ValidationError collects every structural problem found in engine input.
// It is returned once, before any simulation runs.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.String()
	}
	return "invalid payoff input: " + strings.Join(parts, "; ")
}

// IsValidationError reports whether err wraps a *ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
