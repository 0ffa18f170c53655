package installtree

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte("binary"), 0755); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestBrandRoot(t *testing.T) {
	tests := []struct {
		name  string
		brand string
		want  string
	}{
		{"plain", "QuestOnline", "QuestOnline"},
		{"trims_whitespace", "  Quest  ", "Quest"},
		{"empty_defaults", "", DefaultBrand},
		{"whitespace_only_defaults", "   ", DefaultBrand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BrandRoot("/base", tt.brand)
			want := filepath.Join("/base", tt.want)
			if got != want {
				t.Errorf("BrandRoot(%q) = %q, want %q", tt.brand, got, want)
			}
		})
	}
}

func TestVersionDir(t *testing.T) {
	got := VersionDir(filepath.Join("root"), "1.4.0")
	if got != filepath.Join("root", "1.4.0") {
		t.Errorf("VersionDir = %q", got)
	}
}

func TestDiscoverLatestVersionedDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "1.3.9", "Quest-1.3.9-x64.exe"))
	writeFile(t, filepath.Join(root, "1.4.0", "Quest-1.4.0-x64.exe"))
	writeFile(t, filepath.Join(root, "1.4.0", "readme.txt"))

	build := DiscoverLatest(root, DefaultBinaryPattern)
	if build == nil {
		t.Fatal("DiscoverLatest returned nil")
	}
	if build.Version != "1.4.0" {
		t.Errorf("Version = %q, want 1.4.0", build.Version)
	}
	if build.Path != filepath.Join(root, "1.4.0", "Quest-1.4.0-x64.exe") {
		t.Errorf("Path = %q", build.Path)
	}
}

func TestDiscoverLatestMalformedDirName(t *testing.T) {
	// When the directory name fails the version pattern, the version comes
	// from the binary name.
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "current", "Quest-2.0.1-x64.exe"))

	build := DiscoverLatest(root, DefaultBinaryPattern)
	if build == nil {
		t.Fatal("DiscoverLatest returned nil")
	}
	if build.Version != "2.0.1" {
		t.Errorf("Version = %q, want 2.0.1 (from file name)", build.Version)
	}
}

func TestDiscoverLatestFlatLayout(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Quest-1.2.3-x64.exe"))
	writeFile(t, filepath.Join(root, "Quest-1.2.3-20240101-x64.exe"))
	writeFile(t, filepath.Join(root, "unrelated.exe"))

	build := DiscoverLatest(root, DefaultBinaryPattern)
	if build == nil {
		t.Fatal("DiscoverLatest returned nil")
	}
	// Suffixed build beats the bare triple.
	if build.Version != "1.2.3-20240101" {
		t.Errorf("Version = %q, want 1.2.3-20240101", build.Version)
	}
}

func TestDiscoverLatestEmpty(t *testing.T) {
	if build := DiscoverLatest(t.TempDir(), DefaultBinaryPattern); build != nil {
		t.Errorf("empty root: got %+v, want nil", build)
	}
	if build := DiscoverLatest(filepath.Join(t.TempDir(), "missing"), DefaultBinaryPattern); build != nil {
		t.Errorf("missing root: got %+v, want nil", build)
	}
}

func TestDiscoverForVersion(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "1.4.0", "Quest-1.4.0-x64.exe"))
	writeFile(t, filepath.Join(root, "1.5.0", "nested", "Quest-1.5.0-x64.exe"))

	if got := DiscoverForVersion(root, "1.4.0", DefaultBinaryPattern); got == "" {
		t.Error("expected 1.4.0 binary to be discovered")
	}
	if got := DiscoverForVersion(root, "1.5.0", DefaultBinaryPattern); got == "" {
		t.Error("expected nested 1.5.0 binary to be discovered")
	}
	if got := DiscoverForVersion(root, "9.9.9", DefaultBinaryPattern); got != "" {
		t.Errorf("unknown version: got %q, want empty", got)
	}
}

func TestDiscoverForVersionSingleExeFallback(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "1.6.0", "renamed.exe"))

	got := DiscoverForVersion(root, "1.6.0", DefaultBinaryPattern)
	if got != filepath.Join(root, "1.6.0", "renamed.exe") {
		t.Errorf("single-exe fallback failed: got %q", got)
	}

	// Two unnamed executables are ambiguous: no fallback.
	writeFile(t, filepath.Join(root, "1.6.0", "other.exe"))
	if got := DiscoverForVersion(root, "1.6.0", DefaultBinaryPattern); got != "" {
		t.Errorf("ambiguous fallback should return empty, got %q", got)
	}
}

func TestDiscoverForVersionFlatLayout(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Quest-1.2.3-x64.exe"))
	writeFile(t, filepath.Join(root, "Quest-1.3.0-x64.exe"))

	if got := DiscoverForVersion(root, "1.2.3", DefaultBinaryPattern); got == "" {
		t.Error("flat layout: expected 1.2.3 to be discovered")
	}
	if got := DiscoverForVersion(root, "1.4.0", DefaultBinaryPattern); got != "" {
		t.Errorf("flat layout: got %q for missing version", got)
	}
}
