package domain

import "strings"

type Status string

const (
	StatusFailed Status = "failed"
	StatusBroken Status = "broken"
	// StatusUnknown is the tally key for records that carry no status.
	StatusUnknown Status = "unknown"
)

// NormalizeStatus lower-cases and trims a raw status; empty becomes StatusUnknown.
func NormalizeStatus(s string) Status {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return StatusUnknown
	}
	return Status(v)
}

// IsFailure reports whether a raw status is failed or broken.
func IsFailure(s string) bool {
	st := NormalizeStatus(s)
	return st == StatusFailed || st == StatusBroken
}

const (
	LabelEpic    = "epic"
	LabelFeature = "feature"
)
