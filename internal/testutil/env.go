// Package testutil provides utilities for testing the launcher in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// SetupTestEnv points the user config directory at a per-test temp location
// so tests never touch:
// - The user's actual launcher config and state
// - A real game installation
//
// Cleanup is handled by t.TempDir() and t.Setenv(), so callers don't need to
// undo anything. It returns the isolated config directory.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, "config")

	// os.UserConfigDir resolves differently per platform; set the variable
	// each platform consults.
	switch runtime.GOOS {
	case "windows":
		t.Setenv("AppData", configDir)
	case "darwin":
		t.Setenv("HOME", tmpDir)
		configDir = filepath.Join(tmpDir, "Library", "Application Support")
	default:
		t.Setenv("XDG_CONFIG_HOME", configDir)
	}

	if err := os.MkdirAll(configDir, 0o750); err != nil {
		t.Fatalf("failed to create test config directory %s: %v", configDir, err)
	}
	return configDir
}
