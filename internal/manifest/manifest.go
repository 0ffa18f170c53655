// Package manifest models the remote release manifest and fetches it over
// HTTP.
//
// Two document shapes are accepted, matching the two deployment modes:
//
//	{"brands": {"<brand>": {"versions": [<release>, ...]}, ...}}
//
// for multi-brand endpoints, and a bare release object for single-release
// endpoints. Which shape applies is decided by the URL the caller hits, not
// detected at runtime.
package manifest

import (
	"sort"

	"github.com/vocapepper/launcher/internal/version"
)

// Release describes one downloadable build. Instances are produced only by
// parsing a manifest document and are treated as immutable afterwards.
type Release struct {
	Version      string `json:"version"`
	DownloadURL  string `json:"download_url"`
	FileName     string `json:"file_name"`
	SHA256       string `json:"sha256,omitempty"`
	Size         int64  `json:"size,omitempty"`
	ReleaseNotes string `json:"release_notes,omitempty"`
}

// validate enforces the required-field invariant.
func (r *Release) validate() error {
	switch {
	case r.Version == "":
		return &SchemaError{Detail: "release missing version"}
	case r.DownloadURL == "":
		return &SchemaError{Detail: "release missing download_url"}
	case r.FileName == "":
		return &SchemaError{Detail: "release missing file_name"}
	case r.Size < 0:
		return &SchemaError{Detail: "release size is negative"}
	}
	return nil
}

// Index groups releases by brand. An Index is built once per fetch and
// replaced wholesale on refresh, never mutated in place.
type Index struct {
	brands map[string][]Release
}

// NewIndex builds an Index from a brand map. Exposed for tests and for
// wrapping a single-release fetch into an index shape.
func NewIndex(brands map[string][]Release) *Index {
	return &Index{brands: brands}
}

// Brands returns the known brand names, sorted.
func (ix *Index) Brands() []string {
	if ix == nil {
		return nil
	}
	names := make([]string, 0, len(ix.brands))
	for name := range ix.brands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Versions returns the brand's releases sorted newest first. Source order in
// the manifest document is irrelevant.
func (ix *Index) Versions(brand string) []Release {
	if ix == nil {
		return nil
	}
	entries := make([]Release, len(ix.brands[brand]))
	copy(entries, ix.brands[brand])
	sort.SliceStable(entries, func(i, j int) bool {
		return version.Compare(version.Parse(entries[i].Version), version.Parse(entries[j].Version)) > 0
	})
	return entries
}

// Latest returns the newest release for a brand, or nil when the brand has
// no builds.
func (ix *Index) Latest(brand string) *Release {
	entries := ix.Versions(brand)
	if len(entries) == 0 {
		return nil
	}
	return &entries[0]
}

// Find returns the brand's release with the exact version string, or nil.
func (ix *Index) Find(brand, ver string) *Release {
	for _, entry := range ix.Versions(brand) {
		if entry.Version == ver {
			rel := entry
			return &rel
		}
	}
	return nil
}
