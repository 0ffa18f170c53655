// Package state persists the small amount of launcher state that survives
// restarts: the install directory, the last discovered local version, and
// the selected brand.
//
// Loading is side-effect free and never fatal: a missing or corrupt file
// yields defaults. Saving rewrites the whole document atomically after every
// mutation.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// State is the persisted key-value document.
type State struct {
	InstallDir   string  `json:"install_dir"`
	LocalVersion *string `json:"local_version"`
	Brand        *string `json:"brand"`
}

// DefaultInstallDir resolves the default install root beneath the user's
// config area, falling back to the working directory when no home is known.
func DefaultInstallDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "Launcher", "game")
}

// Default returns the state used when nothing was persisted yet.
func Default() *State {
	return &State{InstallDir: DefaultInstallDir()}
}

// Load reads the state file. Missing or corrupt files yield defaults.
func Load(path string) *State {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default()
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return Default()
	}
	if st.InstallDir == "" {
		st.InstallDir = DefaultInstallDir()
	}
	return &st
}

// Save writes the state document with a temp-then-rename so a crash mid-save
// never leaves a truncated file.
func (s *State) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}

// SetLocalVersion records the discovered local version; empty clears it.
func (s *State) SetLocalVersion(version string) {
	if version == "" {
		s.LocalVersion = nil
		return
	}
	s.LocalVersion = &version
}

// SetBrand records the selected brand; empty clears it.
func (s *State) SetBrand(brand string) {
	if brand == "" {
		s.Brand = nil
		return
	}
	s.Brand = &brand
}

// BrandOrDefault returns the persisted brand or fallback when none is set.
func (s *State) BrandOrDefault(fallback string) string {
	if s.Brand != nil && *s.Brand != "" {
		return *s.Brand
	}
	return fallback
}
