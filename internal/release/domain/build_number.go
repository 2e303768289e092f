package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var buildNumberPattern = regexp.MustCompile(`^\d+$`)

// BuildNumber represents an immutable non-negative build counter.
type BuildNumber struct {
	value int
}

// NewBuildNumber creates a BuildNumber from an integer.
func NewBuildNumber(value int) (BuildNumber, error) {
	if value < 0 {
		return BuildNumber{}, NewValidationError("negative_build_number",
			fmt.Sprintf("build number must be non-negative, got %d", value))
	}
	return BuildNumber{value: value}, nil
}

// ParseBuildNumber creates a BuildNumber from an all-digit string.
func ParseBuildNumber(value string) (BuildNumber, error) {
	value = strings.TrimSpace(value)
	if !buildNumberPattern.MatchString(value) {
		return BuildNumber{}, NewValidationError("malformed_build_number",
			fmt.Sprintf("build number %q must be an unsigned integer", value))
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return BuildNumber{}, NewValidationError("malformed_build_number",
			fmt.Sprintf("build number %q is out of range", value))
	}
	return BuildNumber{value: n}, nil
}

// Value returns the numeric counter.
func (b BuildNumber) Value() int { return b.value }

// String returns the decimal rendering of the counter.
func (b BuildNumber) String() string {
	return strconv.Itoa(b.value)
}

// IsZero reports whether no build is known yet.
func (b BuildNumber) IsZero() bool { return b.value == 0 }

// Increment returns a new BuildNumber advanced by one.
func (b BuildNumber) Increment() BuildNumber {
	return BuildNumber{value: b.value + 1}
}

// IncrementBy returns a new BuildNumber advanced by the given positive step.
func (b BuildNumber) IncrementBy(step int) (BuildNumber, error) {
	if step < 1 {
		return BuildNumber{}, NewValidationError("invalid_increment_step",
			fmt.Sprintf("increment step must be at least 1, got %d", step))
	}
	return BuildNumber{value: b.value + step}, nil
}

// Compare returns -1, 0 or 1 ordering build numbers numerically.
func (b BuildNumber) Compare(other BuildNumber) int {
	return compareInt(b.value, other.value)
}

// IsGreaterThan reports whether b strictly exceeds other.
func (b BuildNumber) IsGreaterThan(other BuildNumber) bool {
	return b.value > other.value
}

// Equals checks if two build numbers are equal.
func (b BuildNumber) Equals(other BuildNumber) bool {
	return b.value == other.value
}

// MaxBuildNumber returns the larger of two build numbers.
func MaxBuildNumber(a, b BuildNumber) BuildNumber {
	if a.IsGreaterThan(b) {
		return a
	}
	return b
}
