// Package version implements the ordering used to compare launcher release
// versions.
//
// Versions look like "1.19.2" or "1.19.2-251213". Ordering is lexicographic on
// the (major, minor, patch, suffix) tuple with the suffix compared as a plain
// string. Two consequences are intentional and relied upon by deployed
// manifests:
//
//   - A malformed version never errors; it maps to (0, 0, 0, <original>) and
//     therefore sorts below every well-formed version. A corrupt folder name
//     must not crash install-tree discovery.
//   - A bare "1.2.3" sorts below "1.2.3-<anything>" because the empty suffix
//     compares below any non-empty string. Dated-suffix builds are treated as
//     newer than the unsuffixed base tag of the same triple.
package version

import (
	"regexp"
	"strconv"
	"strings"
)

var keyRegex = regexp.MustCompile(`^(\d+)\.(\d+)\.(\d+)(?:[-+](.+))?$`)

// Key is a comparable form of a version string.
type Key struct {
	Major  int
	Minor  int
	Patch  int
	Suffix string
}

// Parse converts a version string into a Key. Malformed input degrades to
// the lowest-sorting bucket rather than returning an error.
func Parse(s string) Key {
	m := keyRegex.FindStringSubmatch(s)
	if m == nil {
		return Key{Suffix: s}
	}

	// The regexp guarantees digits; Atoi cannot fail here.
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch, _ := strconv.Atoi(m[3])

	return Key{Major: major, Minor: minor, Patch: patch, Suffix: m[4]}
}

// Compare returns -1, 0, or 1 as a orders before, equal to, or after b.
func Compare(a, b Key) int {
	if c := cmpInt(a.Major, b.Major); c != 0 {
		return c
	}
	if c := cmpInt(a.Minor, b.Minor); c != 0 {
		return c
	}
	if c := cmpInt(a.Patch, b.Patch); c != 0 {
		return c
	}
	return strings.Compare(a.Suffix, b.Suffix)
}

// Less reports whether a orders strictly before b.
func Less(a, b Key) bool {
	return Compare(a, b) < 0
}

// IsRemoteNewer reports whether the remote version should be offered as an
// update over the local one. An empty local version means nothing is
// installed, so any remote wins.
func IsRemoteNewer(remote, local string) bool {
	if local == "" {
		return true
	}
	return Compare(Parse(remote), Parse(local)) > 0
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
