// Package installer implements the download, verify, install, and uninstall
// pipeline for release artifacts.
//
// Downloads land in a per-run scratch directory. Promotion into the install
// tree happens only after the digest check succeeds, so a crash mid-download
// or mid-verify never touches a previously good install; each version lives
// in its own directory.
//
// When a manifest carries no sha256, the artifact is installed unverified.
// That trust-on-first-use policy is a known weakness preserved for
// compatibility with deployed manifests that omit the field; callers are
// expected to log it rather than hide it.
//
// There is no lock file. Two concurrent installs of the same version may
// corrupt that version's directory; serializing installs is the caller's
// responsibility.
package installer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/vocapepper/launcher/internal/installtree"
	"github.com/vocapepper/launcher/internal/manifest"
)

// Installer installs release artifacts into an install tree.
type Installer struct {
	downloader *Downloader
	pattern    *regexp.Regexp
	scratchDir string
	logger     Logger
}

// New creates an installer that recognizes binaries by the given name
// pattern.
func New(pattern *regexp.Regexp) *Installer {
	return &Installer{
		downloader: NewDownloader(),
		pattern:    pattern,
		scratchDir: os.TempDir(),
		logger:     defaultLogger(),
	}
}

// WithScratchDir overrides where download scratch space is created. Used by
// tests to keep everything under t.TempDir.
func (i *Installer) WithScratchDir(dir string) *Installer {
	i.scratchDir = dir
	return i
}

// WithLogger sets a custom logger.
func (i *Installer) WithLogger(logger Logger) *Installer {
	if logger != nil {
		i.logger = logger
	}
	return i
}

// Install downloads the release artifact, verifies it when the manifest
// carries a digest, and promotes it into root's version directory. It
// returns the installed binary path.
func (i *Installer) Install(ctx context.Context, rel *manifest.Release, root string, onProgress ProgressFunc) (string, error) {
	scratch := filepath.Join(i.scratchDir, "launcher-dl-"+uuid.NewString())
	if err := os.MkdirAll(scratch, 0700); err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	// Best-effort cleanup; an abandoned scratch dir is not fatal.
	defer os.RemoveAll(scratch)

	tmpPath := filepath.Join(scratch, rel.FileName)
	i.logger.Debug("downloading artifact", "url", rel.DownloadURL, "file", rel.FileName)
	if err := i.downloader.DownloadToFile(ctx, rel.DownloadURL, tmpPath, rel.Size, onProgress); err != nil {
		return "", err
	}

	if rel.SHA256 != "" {
		if err := VerifySHA256(tmpPath, rel.SHA256); err != nil {
			return "", err
		}
		i.logger.Debug("digest verified", "version", rel.Version)
	} else {
		i.logger.Warn("no digest in manifest, verification skipped", "version", rel.Version)
	}

	versionDir := installtree.VersionDir(root, rel.Version)
	if err := os.MkdirAll(versionDir, 0755); err != nil {
		return "", fmt.Errorf("create version dir: %w", err)
	}

	if strings.EqualFold(filepath.Ext(rel.FileName), ".zip") {
		if err := ExtractZip(tmpPath, versionDir); err != nil {
			return "", &ExtractionError{Detail: err.Error()}
		}
		exePath := installtree.DiscoverForVersion(root, rel.Version, i.pattern)
		if exePath == "" {
			// Contents stay on disk to aid diagnosis.
			return "", &ExtractionError{Detail: "no matching binary found after extraction"}
		}
		i.logger.Info("installed", "version", rel.Version, "path", exePath)
		return exePath, nil
	}

	// Bare executable: move under the declared file name.
	finalPath := filepath.Join(versionDir, rel.FileName)
	if err := moveFile(tmpPath, finalPath); err != nil {
		return "", fmt.Errorf("place binary: %w", err)
	}
	if err := SetExecutable(finalPath); err != nil {
		return "", err
	}
	i.logger.Info("installed", "version", rel.Version, "path", finalPath)
	return finalPath, nil
}

// Uninstall removes an installed version: the whole version directory when
// one exists, otherwise the single matching legacy flat binary.
func (i *Installer) Uninstall(root, version string) error {
	dir := installtree.VersionDir(root, version)
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove version dir: %w", err)
		}
		return nil
	}

	if path := installtree.DiscoverForVersion(root, version, i.pattern); path != "" {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove binary: %w", err)
		}
		return nil
	}
	return &NotFoundError{Version: version}
}

// moveFile renames src to dst, falling back to copy+remove when the scratch
// area and the install tree are on different filesystems.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
