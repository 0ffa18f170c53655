package testutil_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vocapepper/launcher/internal/testutil"
)

func TestSetupTestEnv(t *testing.T) {
	configDir := testutil.SetupTestEnv(t)

	if configDir == "" {
		t.Fatal("SetupTestEnv returned empty config dir")
	}
	if _, err := os.Stat(configDir); err != nil {
		t.Fatalf("config dir not created: %v", err)
	}

	resolved, err := os.UserConfigDir()
	if err != nil {
		t.Fatalf("UserConfigDir: %v", err)
	}
	if !strings.HasPrefix(filepath.Clean(resolved), filepath.Clean(configDir)) {
		t.Errorf("UserConfigDir = %q, want under %q", resolved, configDir)
	}
}
