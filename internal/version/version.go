package version

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is the service version. The schema version is its minor release.
var Version = "0.2.1"

func GetCurrentVersion() string {
	return Version
}

// GetMinorVersion returns "major.minor" of version.
func GetMinorVersion(version string) string {
	return strings.TrimPrefix(semver.MajorMinor("v"+version), "v")
}

// GetSchemaVersion returns the minor version with a zero patch.
func GetSchemaVersion(version string) string {
	return GetMinorVersion(version) + ".0"
}

// IsVersionGreaterOrEqualThan reports whether version >= target.
func IsVersionGreaterOrEqualThan(version, target string) bool {
	return semver.Compare(fmt.Sprintf("v%s", version), fmt.Sprintf("v%s", target)) > -1
}

// IsVersionGreaterThan reports whether version > target.
func IsVersionGreaterThan(version, target string) bool {
	return semver.Compare(fmt.Sprintf("v%s", version), fmt.Sprintf("v%s", target)) > 0
}

// SortVersion sorts versions in place in ascending semantic order.
func SortVersion(versions []string) []string {
	slices.SortFunc(versions, func(a, b string) int {
		return semver.Compare("v"+a, "v"+b)
	})
	return versions
}
