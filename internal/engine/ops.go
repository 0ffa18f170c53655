package engine

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/vocapepper/launcher/internal/installtree"
	"github.com/vocapepper/launcher/internal/manifest"
	"github.com/vocapepper/launcher/internal/process"
)

// CheckForUpdates fetches the manifest and re-derives the decision. A failed
// fetch clears the previous index: the engine never offers an update based
// on stale data after a failed check. The error is returned for the caller
// and also logged to the event stream.
func (e *Engine) CheckForUpdates(ctx context.Context) error {
	e.busy.Store(true)
	defer e.busy.Store(false)

	url := e.manifestURL()
	e.logf("Checking for updates at %s ...", url)

	var (
		index *manifest.Index
		err   error
	)
	if e.cfg.SingleRelease {
		var rel *manifest.Release
		rel, err = e.client.FetchSingle(ctx, url)
		if err == nil {
			index = manifest.NewIndex(map[string][]manifest.Release{
				e.cfg.DefaultBrand: {*rel},
			})
		}
	} else {
		index, err = e.client.Fetch(ctx, url)
	}

	e.mu.Lock()
	e.index = index
	if err == nil {
		// A manifest that no longer carries the selected brand resets the
		// selection to the default rather than stranding the session.
		if len(index.Versions(e.brand)) == 0 && len(index.Versions(e.cfg.DefaultBrand)) > 0 {
			e.brand = e.cfg.DefaultBrand
			e.selVersion = ""
		}
	}
	e.refreshLocalLocked()
	e.recomputeLocked()
	decision := e.decision
	active := e.active
	e.mu.Unlock()

	if err != nil {
		e.logf("Update check failed: %v", err)
		return err
	}
	switch decision {
	case UpdateAvailable:
		e.logf("Update available: %s", active.Version)
	case UpToDate:
		e.logf("Up to date (%s).", active.Version)
	case NoBuildsForSelection:
		e.logf("No builds published for the current selection.")
	}
	return nil
}

// SelectBrand switches the brand, resets any version pin, and persists the
// choice. Unknown brands are accepted; the decision degrades to
// NoBuildsForSelection until the manifest says otherwise.
func (e *Engine) SelectBrand(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if name == "" {
		name = e.cfg.DefaultBrand
	}
	if name == e.brand {
		return
	}
	e.brand = name
	e.selVersion = ""
	e.st.SetBrand(name)
	e.refreshLocalLocked()
	e.recomputeLocked()
}

// SelectVersion pins the selection to an exact remote version. The empty
// string restores "latest".
func (e *Engine) SelectVersion(ver string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selVersion = ver
	e.refreshLocalLocked()
	e.recomputeLocked()
}

// SelectedVersion returns the pinned version, or "" when tracking latest.
func (e *Engine) SelectedVersion() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selVersion
}

// SetInstallDir moves the base install directory and re-discovers what is
// installed under it. Existing installs are not migrated.
func (e *Engine) SetInstallDir(dir string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if dir == "" || dir == e.st.InstallDir {
		return
	}
	e.st.InstallDir = dir
	e.refreshLocalLocked()
	e.recomputeLocked()
}

// DownloadAndInstall downloads, verifies, and installs the active release
// after asking the confirmer. Progress is exposed as a fraction and logged
// in 10% steps.
func (e *Engine) DownloadAndInstall(ctx context.Context) error {
	e.busy.Store(true)
	defer e.busy.Store(false)

	e.mu.Lock()
	rel := e.active
	root := e.brandRootLocked()
	e.mu.Unlock()

	if rel == nil {
		return fmt.Errorf("no release selected; run an update check first")
	}
	if !e.confirm(fmt.Sprintf("Download and install version %s?", rel.Version)) {
		e.logf("Install of %s cancelled.", rel.Version)
		return nil
	}

	e.logf("Downloading %s ...", rel.FileName)
	e.setProgress(0)
	lastBucket := -1
	_, err := e.installer.Install(ctx, rel, root, func(fraction float64) {
		e.setProgress(fraction)
		if bucket := int(fraction * 10); bucket > lastBucket {
			lastBucket = bucket
			e.logf("Downloading... %d%%", bucket*10)
		}
	})
	if err != nil {
		e.logf("Install of %s failed: %v", rel.Version, err)
		return err
	}
	e.setProgress(1)

	e.mu.Lock()
	e.refreshLocalLocked()
	e.recomputeLocked()
	e.mu.Unlock()
	return nil
}

// UninstallSelected removes the installed build for the current selection.
// It works from the install tree alone, so it stays available when the
// manifest is unreachable.
func (e *Engine) UninstallSelected() error {
	e.busy.Store(true)
	defer e.busy.Store(false)

	e.mu.Lock()
	root := e.brandRootLocked()
	ver := e.selVersion
	if ver == "" {
		if build := installtree.DiscoverLatest(root, e.cfg.BinaryPattern); build != nil {
			ver = build.Version
		}
	}
	e.mu.Unlock()

	if ver == "" {
		return fmt.Errorf("nothing installed for the current selection")
	}
	if !e.confirm(fmt.Sprintf("Uninstall version %s?", ver)) {
		e.logf("Uninstall of %s cancelled.", ver)
		return nil
	}

	if err := e.installer.Uninstall(root, ver); err != nil {
		e.logf("Uninstall of %s failed: %v", ver, err)
		return err
	}
	e.logf("Uninstalled %s.", ver)

	e.mu.Lock()
	e.refreshLocalLocked()
	e.recomputeLocked()
	e.mu.Unlock()
	return nil
}

// LaunchSelected starts the installed binary for the current selection and
// watches it until exit. The working directory is the binary's own
// directory so the game finds its assets.
func (e *Engine) LaunchSelected() error {
	e.mu.Lock()
	root := e.brandRootLocked()
	ver := e.selVersion
	pattern := e.cfg.BinaryPattern
	running := e.handle != nil && e.handle.State() == process.Running
	e.mu.Unlock()

	if running {
		return fmt.Errorf("game is already running")
	}

	var exePath string
	if ver != "" {
		exePath = installtree.DiscoverForVersion(root, ver, pattern)
	} else if build := installtree.DiscoverLatest(root, pattern); build != nil {
		exePath = build.Path
		ver = build.Version
	}
	if exePath == "" {
		return fmt.Errorf("no installed build to launch")
	}

	e.logf("Launching %s ...", exePath)
	handle, err := process.Launch(exePath, filepath.Dir(exePath))
	if err != nil {
		e.logf("Launch failed: %v", err)
		return err
	}

	e.mu.Lock()
	e.handle = handle
	e.mu.Unlock()

	e.logf("Game started (pid %d).", handle.PID())
	handle.Watch(process.DefaultPollInterval, func() {
		e.logf("Game stopped.")
	})
	return nil
}
