package engine

import (
	"regexp"

	"github.com/vocapepper/launcher/internal/installtree"
	"github.com/vocapepper/launcher/internal/manifest"
	"github.com/vocapepper/launcher/internal/version"
)

// Decision is the engine's answer to "should an update be offered?". It is
// derived, never stored across inputs: every manifest fetch, brand change,
// version change, install, and uninstall recomputes it.
type Decision int

const (
	// NoManifest means no successful fetch has happened yet.
	NoManifest Decision = iota
	// NoBuildsForSelection means the selected brand has zero releases.
	NoBuildsForSelection
	// UpToDate means the selection is installed, or the remote is not
	// newer than what discovery found.
	UpToDate
	// UpdateAvailable means the remote build for the selection is strictly
	// newer than the discovered local one.
	UpdateAvailable
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case NoManifest:
		return "no manifest"
	case NoBuildsForSelection:
		return "no builds for selection"
	case UpToDate:
		return "up to date"
	case UpdateAvailable:
		return "update available"
	default:
		return "unknown"
	}
}

// deriveDecision is the pure decision function. selVersion empty means
// "latest". It returns the decision plus the release the selection resolves
// to (nil unless the brand has builds).
func deriveDecision(index *manifest.Index, brand, selVersion, root string, pattern *regexp.Regexp) (Decision, *manifest.Release) {
	if index == nil {
		return NoManifest, nil
	}

	active := index.Latest(brand)
	if active == nil {
		return NoBuildsForSelection, nil
	}
	if selVersion != "" {
		if pinned := index.Find(brand, selVersion); pinned != nil {
			active = pinned
		}
	}

	// The selection being installed settles it, independent of ordering.
	if installtree.IsVersionInstalled(root, active.Version, pattern) {
		return UpToDate, active
	}

	// Discovery scoped to the selection: a pinned version only counts as
	// local when that exact version is installed.
	var local string
	if selVersion != "" {
		if installtree.IsVersionInstalled(root, selVersion, pattern) {
			local = selVersion
		}
	} else if build := installtree.DiscoverLatest(root, pattern); build != nil {
		local = build.Version
	}

	if version.IsRemoteNewer(active.Version, local) {
		return UpdateAvailable, active
	}
	return UpToDate, active
}
