package python

import (
	"fmt"
	"regexp"

	"golang.org/x/mod/semver"
)

var versionPattern = regexp.MustCompile(`(\d+)\.(\d+)(?:\.(\d+))?`)

// ParseVersion extracts the release number from an interpreter banner such as
// "Python 3.11.4" and returns it as a canonical semantic version ("v3.11.4").
// Pre-release suffixes are dropped.
func ParseVersion(banner string) (string, error) {
	match := versionPattern.FindStringSubmatch(banner)
	if match == nil {
		return "", fmt.Errorf("no version number in %q", banner)
	}
	patch := match[3]
	if patch == "" {
		patch = "0"
	}
	version := semver.Canonical(fmt.Sprintf("v%s.%s.%s", match[1], match[2], patch))
	if version == "" {
		return "", fmt.Errorf("invalid version number in %q", banner)
	}
	return version, nil
}

// AtLeast reports whether the version in banner is not older than floor.
func AtLeast(banner string, floor string) (bool, error) {
	version, err := ParseVersion(banner)
	if err != nil {
		return false, err
	}
	minimum, err := ParseVersion(floor)
	if err != nil {
		return false, err
	}
	return semver.Compare(version, minimum) >= 0, nil
}
