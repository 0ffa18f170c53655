// Package config loads the optional declarative launcher configuration.
//
// The config is a Lua file evaluated in a sandboxed VM (no os, io, or module
// loading) that sets a global `launcher` table. Everything is optional; a
// missing file means defaults. The main uses are pointing the launcher at a
// different release server, overriding the binary name pattern, and
// supplying per-brand display branding.
package config

import (
	"regexp"

	"github.com/vocapepper/launcher/internal/installtree"
)

// DefaultManifestBase is the release server's API base URL.
const DefaultManifestBase = "https://releases.vocapepper.com/api"

// Branding is per-brand display text shown by the presentation layer.
type Branding struct {
	Title    string
	Subtitle string
}

// Config is the evaluated launcher configuration.
type Config struct {
	// ManifestBase is the release server API base; the platform channel
	// slug is appended to form the manifest URL.
	ManifestBase string
	// ManifestURL, when set, overrides the derived URL entirely.
	ManifestURL string
	// SingleRelease marks the manifest endpoint as serving a bare release
	// object instead of a brand index. This is deployment configuration,
	// not runtime detection.
	SingleRelease bool
	// DefaultBrand is selected when no brand was persisted.
	DefaultBrand string
	// InstallDir overrides the persisted/default install root.
	InstallDir string
	// BinaryPattern recognizes installed release binaries; capture group 1
	// is the embedded version.
	BinaryPattern *regexp.Regexp
	// Brands maps brand names to display branding.
	Brands map[string]Branding
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{
		ManifestBase:  DefaultManifestBase,
		DefaultBrand:  installtree.DefaultBrand,
		BinaryPattern: installtree.DefaultBinaryPattern,
		Brands:        map[string]Branding{},
	}
}
