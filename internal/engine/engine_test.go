package engine

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/vocapepper/launcher/internal/config"
	"github.com/vocapepper/launcher/internal/manifest"
	"github.com/vocapepper/launcher/internal/state"
)

type releaseDoc struct {
	Version      string `json:"version"`
	DownloadURL  string `json:"download_url"`
	FileName     string `json:"file_name"`
	SHA256       string `json:"sha256,omitempty"`
	Size         int64  `json:"size,omitempty"`
	ReleaseNotes string `json:"release_notes,omitempty"`
}

// testServer serves a manifest document at /manifest and zip artifacts at
// /files/<name>.
type testServer struct {
	*httptest.Server
	artifacts    map[string][]byte
	manifestBody []byte
	failManifest bool
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{artifacts: map[string][]byte{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/manifest", func(w http.ResponseWriter, r *http.Request) {
		if ts.failManifest {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Write(ts.manifestBody)
	})
	mux.HandleFunc("/files/", func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Base(r.URL.Path)
		data, ok := ts.artifacts[name]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(data)
	})
	ts.Server = httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) setIndex(t *testing.T, brands map[string][]releaseDoc) {
	t.Helper()
	type versions struct {
		Versions []releaseDoc `json:"versions"`
	}
	doc := struct {
		Brands map[string]versions `json:"brands"`
	}{Brands: map[string]versions{}}
	for name, rels := range brands {
		doc.Brands[name] = versions{Versions: rels}
	}
	body, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal manifest: %v", err)
	}
	ts.manifestBody = body
	ts.failManifest = false
}

// addZipArtifact registers a zip containing a single pattern-matching binary
// and returns the release document describing it.
func (ts *testServer) addZipArtifact(t *testing.T, ver string) releaseDoc {
	t.Helper()
	binName := fmt.Sprintf("Quest-%s-x64.exe", ver)
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create(binName)
	if err != nil {
		t.Fatalf("create zip entry: %v", err)
	}
	fmt.Fprintf(f, "binary payload %s", ver)
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	data := buf.Bytes()
	fileName := fmt.Sprintf("Quest-%s.zip", ver)
	ts.artifacts[fileName] = data
	sum := sha256.Sum256(data)
	return releaseDoc{
		Version:     ver,
		DownloadURL: ts.URL + "/files/" + fileName,
		FileName:    fileName,
		SHA256:      hex.EncodeToString(sum[:]),
		Size:        int64(len(data)),
	}
}

func newTestEngine(t *testing.T, ts *testServer, mutate func(*config.Config)) *Engine {
	t.Helper()
	cfg := config.Default()
	cfg.ManifestURL = ts.URL + "/manifest"
	cfg.InstallDir = filepath.Join(t.TempDir(), "game")
	if mutate != nil {
		mutate(cfg)
	}
	client := manifest.NewClient(manifest.WithHTTPClient(ts.Client()))
	e := New(Options{
		Config:    cfg,
		State:     state.Default(),
		StatePath: filepath.Join(t.TempDir(), "state.json"),
		Client:    client,
	})
	t.Cleanup(e.Close)
	return e
}

// installLocal plants a binary under root/<ver>/ the way a prior install
// would have left it.
func installLocal(t *testing.T, root, ver string) {
	t.Helper()
	dir := filepath.Join(root, ver)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	name := fmt.Sprintf("Quest-%s-x64.exe", ver)
	if err := os.WriteFile(filepath.Join(dir, name), []byte("old payload"), 0o755); err != nil {
		t.Fatalf("write binary: %v", err)
	}
}

func TestCheckInstallCycle(t *testing.T) {
	ts := newTestServer(t)
	e := newTestEngine(t, ts, nil)
	installLocal(t, filepath.Join(e.InstallDir(), "Quest"), "1.3.9")

	ts.setIndex(t, map[string][]releaseDoc{
		"Quest": {ts.addZipArtifact(t, "1.4.0"), ts.addZipArtifact(t, "1.3.9")},
	})

	if err := e.CheckForUpdates(context.Background()); err != nil {
		t.Fatalf("CheckForUpdates: %v", err)
	}
	if got := e.Decision(); got != UpdateAvailable {
		t.Fatalf("decision = %v, want UpdateAvailable", got)
	}
	if got := e.LocalVersion(); got != "1.3.9" {
		t.Fatalf("local version = %q, want 1.3.9", got)
	}
	if rel := e.ActiveRelease(); rel == nil || rel.Version != "1.4.0" {
		t.Fatalf("active release = %+v, want 1.4.0", rel)
	}

	if err := e.DownloadAndInstall(context.Background()); err != nil {
		t.Fatalf("DownloadAndInstall: %v", err)
	}
	if got := e.Decision(); got != UpToDate {
		t.Fatalf("decision after install = %v, want UpToDate", got)
	}
	if got := e.LocalVersion(); got != "1.4.0" {
		t.Fatalf("local version after install = %q, want 1.4.0", got)
	}
	if got := e.Progress(); got != 1 {
		t.Fatalf("progress after install = %v, want 1", got)
	}

	infos := e.Versions()
	if len(infos) != 2 {
		t.Fatalf("versions = %+v, want 2 entries", infos)
	}
	if infos[0].Version != "1.4.0" || !infos[0].Installed {
		t.Errorf("first entry = %+v, want installed 1.4.0", infos[0])
	}
	if infos[1].Version != "1.3.9" || !infos[1].Installed {
		t.Errorf("second entry = %+v, want installed 1.3.9", infos[1])
	}
}

func TestCheckFailureClearsIndex(t *testing.T) {
	ts := newTestServer(t)
	e := newTestEngine(t, ts, nil)
	ts.setIndex(t, map[string][]releaseDoc{
		"Quest": {ts.addZipArtifact(t, "1.4.0")},
	})

	if err := e.CheckForUpdates(context.Background()); err != nil {
		t.Fatalf("CheckForUpdates: %v", err)
	}
	if got := e.Decision(); got != UpdateAvailable {
		t.Fatalf("decision = %v, want UpdateAvailable", got)
	}

	ts.failManifest = true
	if err := e.CheckForUpdates(context.Background()); err == nil {
		t.Fatal("CheckForUpdates succeeded against failing server")
	}
	if got := e.Decision(); got != NoManifest {
		t.Fatalf("decision after failed check = %v, want NoManifest", got)
	}
	if e.Brands() != nil {
		t.Fatalf("brands after failed check = %v, want nil", e.Brands())
	}
	if err := e.DownloadAndInstall(context.Background()); err == nil {
		t.Fatal("DownloadAndInstall succeeded with no manifest")
	}
}

func TestNoBuildsForSelection(t *testing.T) {
	ts := newTestServer(t)
	e := newTestEngine(t, ts, nil)
	ts.setIndex(t, map[string][]releaseDoc{
		"Quest":       {ts.addZipArtifact(t, "1.4.0")},
		"QuestOnline": {},
	})

	if err := e.CheckForUpdates(context.Background()); err != nil {
		t.Fatalf("CheckForUpdates: %v", err)
	}
	e.SelectBrand("QuestOnline")
	if got := e.Decision(); got != NoBuildsForSelection {
		t.Fatalf("decision = %v, want NoBuildsForSelection", got)
	}
	if rel := e.ActiveRelease(); rel != nil {
		t.Fatalf("active release = %+v, want nil", rel)
	}
}

func TestUninstallWithoutManifest(t *testing.T) {
	ts := newTestServer(t)
	e := newTestEngine(t, ts, nil)
	installLocal(t, filepath.Join(e.InstallDir(), "Quest"), "1.3.9")

	if got := e.LocalVersion(); got != "" {
		t.Fatalf("local version before refresh = %q, want empty", got)
	}
	if err := e.UninstallSelected(); err != nil {
		t.Fatalf("UninstallSelected: %v", err)
	}
	if _, err := os.Stat(filepath.Join(e.InstallDir(), "Quest", "1.3.9")); !os.IsNotExist(err) {
		t.Fatalf("version dir still present after uninstall: %v", err)
	}
	if err := e.UninstallSelected(); err == nil {
		t.Fatal("second uninstall succeeded with nothing installed")
	}
}

func TestSelectVersionPinsDecision(t *testing.T) {
	ts := newTestServer(t)
	e := newTestEngine(t, ts, nil)
	installLocal(t, filepath.Join(e.InstallDir(), "Quest"), "1.3.9")
	ts.setIndex(t, map[string][]releaseDoc{
		"Quest": {ts.addZipArtifact(t, "1.4.0"), ts.addZipArtifact(t, "1.3.9")},
	})

	if err := e.CheckForUpdates(context.Background()); err != nil {
		t.Fatalf("CheckForUpdates: %v", err)
	}
	e.SelectVersion("1.3.9")
	if got := e.Decision(); got != UpToDate {
		t.Fatalf("pinned decision = %v, want UpToDate", got)
	}
	if got := e.LocalVersion(); got != "1.3.9" {
		t.Fatalf("pinned local version = %q, want 1.3.9", got)
	}

	e.SelectVersion("")
	if got := e.Decision(); got != UpdateAvailable {
		t.Fatalf("latest decision = %v, want UpdateAvailable", got)
	}
}

func TestSingleReleaseMode(t *testing.T) {
	ts := newTestServer(t)
	rel := ts.addZipArtifact(t, "2.0.0")
	body, err := json.Marshal(rel)
	if err != nil {
		t.Fatalf("marshal release: %v", err)
	}
	ts.manifestBody = body

	e := newTestEngine(t, ts, func(cfg *config.Config) {
		cfg.SingleRelease = true
	})
	if err := e.CheckForUpdates(context.Background()); err != nil {
		t.Fatalf("CheckForUpdates: %v", err)
	}
	if got := e.Brands(); len(got) != 1 || got[0] != "Quest" {
		t.Fatalf("brands = %v, want [Quest]", got)
	}
	if got := e.Decision(); got != UpdateAvailable {
		t.Fatalf("decision = %v, want UpdateAvailable", got)
	}
	if err := e.DownloadAndInstall(context.Background()); err != nil {
		t.Fatalf("DownloadAndInstall: %v", err)
	}
	if got := e.LocalVersion(); got != "2.0.0" {
		t.Fatalf("local version = %q, want 2.0.0", got)
	}
}

func TestConfirmerDeclineSkipsInstall(t *testing.T) {
	ts := newTestServer(t)
	ts.setIndex(t, map[string][]releaseDoc{
		"Quest": {ts.addZipArtifact(t, "1.4.0")},
	})

	cfg := config.Default()
	cfg.ManifestURL = ts.URL + "/manifest"
	cfg.InstallDir = filepath.Join(t.TempDir(), "game")
	asked := 0
	e := New(Options{
		Config:    cfg,
		State:     state.Default(),
		StatePath: filepath.Join(t.TempDir(), "state.json"),
		Client:    manifest.NewClient(manifest.WithHTTPClient(ts.Client())),
		Confirmer: ConfirmerFunc(func(prompt string) bool {
			asked++
			return false
		}),
	})
	t.Cleanup(e.Close)

	if err := e.CheckForUpdates(context.Background()); err != nil {
		t.Fatalf("CheckForUpdates: %v", err)
	}
	if err := e.DownloadAndInstall(context.Background()); err != nil {
		t.Fatalf("DownloadAndInstall after decline: %v", err)
	}
	if asked != 1 {
		t.Fatalf("confirmer asked %d times, want 1", asked)
	}
	if got := e.Decision(); got != UpdateAvailable {
		t.Fatalf("decision after decline = %v, want UpdateAvailable", got)
	}
	if got := e.LocalVersion(); got != "" {
		t.Fatalf("local version after decline = %q, want empty", got)
	}
}

func TestBrandResetWhenMissingFromManifest(t *testing.T) {
	ts := newTestServer(t)
	e := newTestEngine(t, ts, nil)
	ts.setIndex(t, map[string][]releaseDoc{
		"Quest":       {ts.addZipArtifact(t, "1.4.0")},
		"QuestOnline": {ts.addZipArtifact(t, "0.9.0")},
	})
	if err := e.CheckForUpdates(context.Background()); err != nil {
		t.Fatalf("CheckForUpdates: %v", err)
	}
	e.SelectBrand("QuestOnline")

	ts.setIndex(t, map[string][]releaseDoc{
		"Quest": {ts.addZipArtifact(t, "1.4.0")},
	})
	if err := e.CheckForUpdates(context.Background()); err != nil {
		t.Fatalf("CheckForUpdates: %v", err)
	}
	if got := e.Brand(); got != "Quest" {
		t.Fatalf("brand = %q, want reset to Quest", got)
	}
	if got := e.Decision(); got != UpdateAvailable {
		t.Fatalf("decision = %v, want UpdateAvailable", got)
	}
}
