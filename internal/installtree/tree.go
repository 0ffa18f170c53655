// Package installtree maps (brand, version) pairs to filesystem locations and
// discovers builds that are already installed.
//
// Two on-disk layouts coexist and both must stay discoverable:
//
//	root/<version>/<binary>   preferred, one directory per version
//	root/<binary>             legacy flat layout, version embedded in the name
//
// Discovery is a read-only scan. A missing root or an empty tree is a normal
// "nothing installed" answer, not an error.
package installtree

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/vocapepper/launcher/internal/version"
)

// DefaultBrand is used when the caller supplies an empty brand name.
const DefaultBrand = "Quest"

// DefaultBinaryPattern matches release binaries named like
// "Quest-1.19.2-x64.exe" or "Quest-1.19.2-251213-x64.exe". Capture group 1 is
// the embedded version.
var DefaultBinaryPattern = regexp.MustCompile(
	`^[A-Za-z0-9_. ]+-(\d+\.\d+\.\d+(?:[-+][A-Za-z0-9_.-]+)?)-x64\.exe$`)

// versionDirRegex decides whether a directory name can be trusted as a
// version; otherwise the version is taken from the binary name instead.
var versionDirRegex = regexp.MustCompile(`^\d+\.\d+\.\d+(?:[-+][A-Za-z0-9_.-]+)?$`)

// InstalledBuild is a discovered fact about the tree, not stored state.
type InstalledBuild struct {
	Path    string
	Version string
}

// BrandRoot resolves the install root for a brand. Brand names are trimmed;
// an empty brand falls back to DefaultBrand.
func BrandRoot(base, brand string) string {
	name := strings.TrimSpace(brand)
	if name == "" {
		name = DefaultBrand
	}
	return filepath.Join(base, name)
}

// VersionDir is the directory holding one installed version.
func VersionDir(root, ver string) string {
	return filepath.Join(root, ver)
}

// DiscoverLatest scans the install root and returns the highest-versioned
// installed build, or nil when nothing is installed.
func DiscoverLatest(root string, pattern *regexp.Regexp) *InstalledBuild {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	var best *InstalledBuild
	var bestKey version.Key
	consider := func(path, ver string) {
		key := version.Parse(ver)
		if best == nil || version.Compare(key, bestKey) > 0 {
			best = &InstalledBuild{Path: path, Version: ver}
			bestKey = key
		}
	}

	// Strategy (a): one directory per version, binaries at the top of each.
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(root, entry.Name())
		files, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, file := range files {
			if file.IsDir() {
				continue
			}
			m := pattern.FindStringSubmatch(file.Name())
			if m == nil {
				continue
			}
			ver := entry.Name()
			if !versionDirRegex.MatchString(ver) {
				ver = m[1]
			}
			consider(filepath.Join(dir, file.Name()), ver)
		}
	}
	if best != nil {
		return best
	}

	// Strategy (b): legacy flat layout, version only in the file name.
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := pattern.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		consider(filepath.Join(root, entry.Name()), m[1])
	}
	return best
}

// DiscoverForVersion returns the binary path for a specific installed
// version, or "" when that version is not installed. A binary matching the
// name pattern wins; failing that, a version directory holding exactly one
// executable of any name is accepted.
func DiscoverForVersion(root, ver string, pattern *regexp.Regexp) string {
	dir := VersionDir(root, ver)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		// Legacy flat layout: a name-matched file carrying this exact version.
		entries, err := os.ReadDir(root)
		if err != nil {
			return ""
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			if m := pattern.FindStringSubmatch(entry.Name()); m != nil && m[1] == ver {
				return filepath.Join(root, entry.Name())
			}
		}
		return ""
	}

	var matched, executables []string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		name := d.Name()
		if pattern.MatchString(name) {
			matched = append(matched, path)
		}
		if strings.EqualFold(filepath.Ext(name), ".exe") {
			executables = append(executables, path)
		}
		return nil
	})

	if len(matched) > 0 {
		return matched[0]
	}
	// Fallback: a single executable is accepted even when its name carries
	// no version.
	if len(executables) == 1 {
		return executables[0]
	}
	return ""
}

// IsVersionInstalled reports whether DiscoverForVersion finds a binary.
func IsVersionInstalled(root, ver string, pattern *regexp.Regexp) bool {
	return DiscoverForVersion(root, ver, pattern) != ""
}
