package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var versionPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

// Version represents an immutable three-part release identifier (major.minor.patch).
type Version struct {
	major int
	minor int
	patch int
}

// NewVersion creates a Version from its numeric components.
func NewVersion(major, minor, patch int) (Version, error) {
	if major < 0 || minor < 0 || patch < 0 {
		return Version{}, NewValidationError("negative_version_component",
			fmt.Sprintf("version components must be non-negative, got %d.%d.%d", major, minor, patch))
	}
	return Version{major: major, minor: minor, patch: patch}, nil
}

// ParseVersion creates a Version from a "major.minor.patch" string.
func ParseVersion(value string) (Version, error) {
	value = strings.TrimSpace(value)
	if !versionPattern.MatchString(value) {
		return Version{}, NewValidationError("malformed_version",
			fmt.Sprintf("version %q must match major.minor.patch with numeric components", value))
	}
	parts := strings.Split(value, ".")
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return Version{}, NewValidationError("malformed_version", fmt.Sprintf("invalid major component in %q", value))
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return Version{}, NewValidationError("malformed_version", fmt.Sprintf("invalid minor component in %q", value))
	}
	patch, err := strconv.Atoi(parts[2])
	if err != nil {
		return Version{}, NewValidationError("malformed_version", fmt.Sprintf("invalid patch component in %q", value))
	}
	return Version{major: major, minor: minor, patch: patch}, nil
}

// MustParseVersion creates a Version from a string and panics on invalid input.
// Intended for constants and tests.
func MustParseVersion(value string) Version {
	v, err := ParseVersion(value)
	if err != nil {
		panic(err)
	}
	return v
}

// Major returns the major component.
func (v Version) Major() int { return v.major }

// Minor returns the minor component.
func (v Version) Minor() int { return v.minor }

// Patch returns the patch component.
func (v Version) Patch() int { return v.patch }

// String returns the canonical "major.minor.patch" rendering.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

// IncrementPatch returns a new Version with the patch component advanced by one.
func (v Version) IncrementPatch() Version {
	return Version{major: v.major, minor: v.minor, patch: v.patch + 1}
}

// IncrementMinor returns a new Version with the minor component advanced by one
// and the patch component reset to zero.
func (v Version) IncrementMinor() Version {
	return Version{major: v.major, minor: v.minor + 1, patch: 0}
}

// IncrementMajor returns a new Version with the major component advanced by one
// and the minor and patch components reset to zero.
func (v Version) IncrementMajor() Version {
	return Version{major: v.major + 1, minor: 0, patch: 0}
}

// Compare returns -1, 0 or 1 ordering versions by (major, minor, patch).
func (v Version) Compare(other Version) int {
	if v.major != other.major {
		return compareInt(v.major, other.major)
	}
	if v.minor != other.minor {
		return compareInt(v.minor, other.minor)
	}
	return compareInt(v.patch, other.patch)
}

// IsGreaterThan reports whether v strictly exceeds other.
func (v Version) IsGreaterThan(other Version) bool {
	return v.Compare(other) > 0
}

// Equals checks if two versions are equal.
func (v Version) Equals(other Version) bool {
	return v.Compare(other) == 0
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
