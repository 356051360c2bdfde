package enums

import (
	"fmt"
	"strings"
)

// AvailabilityStatus is the request-time availability label for a back
// order. It is never persisted; it is derived from batch stock on every read.
type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "available"
	AvailabilityUnavailable AvailabilityStatus = "unavailable"
)

var validAvailabilityStatuses = []AvailabilityStatus{
	AvailabilityAvailable,
	AvailabilityUnavailable,
}

// String implements fmt.Stringer.
func (a AvailabilityStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AvailabilityStatus.
func (a AvailabilityStatus) IsValid() bool {
	for _, candidate := range validAvailabilityStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAvailabilityStatus converts raw input into an AvailabilityStatus.
// Matching is case-insensitive because the status arrives as a filter value.
func ParseAvailabilityStatus(value string) (AvailabilityStatus, error) {
	for _, candidate := range validAvailabilityStatuses {
		if strings.EqualFold(string(candidate), value) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid availability status %q", value)
}
