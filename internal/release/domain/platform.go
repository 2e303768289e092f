package domain

import (
	"fmt"
	"strings"
)

// Platform tags a release with the device family it targets.
type Platform string

const (
	PlatformIOS      Platform = "IOS"
	PlatformMacOS    Platform = "MAC_OS"
	PlatformTVOS     Platform = "TV_OS"
	PlatformVisionOS Platform = "VISION_OS"
)

var platformAliases = map[string]Platform{
	"ios":       PlatformIOS,
	"mac_os":    PlatformMacOS,
	"macos":     PlatformMacOS,
	"tv_os":     PlatformTVOS,
	"tvos":      PlatformTVOS,
	"vision_os": PlatformVisionOS,
	"visionos":  PlatformVisionOS,
}

// ParsePlatform creates a Platform from a string.
func ParsePlatform(value string) (Platform, error) {
	p, ok := platformAliases[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return "", NewValidationError("unknown_platform",
			fmt.Sprintf("platform %q is not one of ios, macos, tvos, visionos", value))
	}
	return p, nil
}

// String returns the backend rendering of the platform.
func (p Platform) String() string {
	return string(p)
}
