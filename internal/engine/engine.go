// Package engine orchestrates update checking, installation, uninstall, and
// launching for the launcher.
//
// The engine owns all mutable session state (current manifest index, brand
// and version selection, the derived update decision, a handle to a launched
// process) and mutates it only through its public operations. Derived fields
// are recomputed synchronously after each mutation. The presentation layer
// observes the engine through an append-only log-line stream, a progress
// fraction, and the snapshot accessors; the engine never touches
// presentation state.
//
// Blocking work (fetch, download, hash, extract, delete) is synchronous
// inside each operation; callers run operations off their coordination loop
// and must not overlap installs and uninstalls. Busy reports when a task is
// in flight so callers can disable their triggering controls. There is no
// lock file: two processes installing the same version concurrently is an
// open risk, documented rather than papered over.
package engine

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/vocapepper/launcher/internal/config"
	"github.com/vocapepper/launcher/internal/installer"
	"github.com/vocapepper/launcher/internal/installtree"
	"github.com/vocapepper/launcher/internal/manifest"
	"github.com/vocapepper/launcher/internal/platform"
	"github.com/vocapepper/launcher/internal/process"
	"github.com/vocapepper/launcher/internal/state"
)

// eventBuffer is how many log lines the event stream holds before dropping:
// a slow consumer loses lines, it never wedges the engine.
const eventBuffer = 256

// Confirmer is the user-confirmation capability the engine calls before
// destructive or network-heavy actions. The engine never implements it.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmerFunc adapts a function to the Confirmer interface.
type ConfirmerFunc func(prompt string) bool

// Confirm calls f.
func (f ConfirmerFunc) Confirm(prompt string) bool { return f(prompt) }

// Options configures a new Engine.
type Options struct {
	Config    *config.Config
	Platform  *platform.Info
	StatePath string
	State     *state.State
	// Client overrides the manifest client, mainly for tests.
	Client *manifest.Client
	// Confirmer approves downloads and uninstalls. Nil means auto-approve,
	// for non-interactive callers that confirmed out of band.
	Confirmer Confirmer
}

// Engine is the update/installer facade.
type Engine struct {
	cfg       *config.Config
	plat      *platform.Info
	client    *manifest.Client
	installer *installer.Installer
	confirmer Confirmer
	statePath string

	mu         sync.Mutex
	st         *state.State
	index      *manifest.Index
	brand      string
	selVersion string // empty means "latest"
	active     *manifest.Release
	decision   Decision
	handle     *process.Handle

	busy     atomic.Bool
	progress atomic.Uint64 // math.Float64bits of the fraction

	evMu     sync.RWMutex
	evClosed bool
	events   chan string
}

// New creates an engine from persisted state and configuration.
func New(opts Options) *Engine {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	st := opts.State
	if st == nil {
		st = state.Load(opts.StatePath)
	}
	if cfg.InstallDir != "" {
		st.InstallDir = cfg.InstallDir
	}
	client := opts.Client
	if client == nil {
		client = manifest.NewClient()
	}

	e := &Engine{
		cfg:       cfg,
		plat:      opts.Platform,
		client:    client,
		confirmer: opts.Confirmer,
		statePath: opts.StatePath,
		st:        st,
		brand:     st.BrandOrDefault(cfg.DefaultBrand),
		decision:  NoManifest,
		events:    make(chan string, eventBuffer),
	}
	e.installer = installer.New(cfg.BinaryPattern).WithLogger(eventLogger{e})
	return e
}

// eventLogger forwards installer log messages onto the event stream. Debug
// messages stay internal.
type eventLogger struct {
	e *Engine
}

func (l eventLogger) Debug(msg string, keysAndValues ...interface{}) {}

func (l eventLogger) Info(msg string, keysAndValues ...interface{}) {
	l.e.logf("%s", formatKV(msg, keysAndValues))
}

func (l eventLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.e.logf("Warning: %s", formatKV(msg, keysAndValues))
}

func (l eventLogger) Error(msg string, keysAndValues ...interface{}) {
	l.e.logf("Error: %s", formatKV(msg, keysAndValues))
}

func formatKV(msg string, keysAndValues []interface{}) string {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	return b.String()
}

// Events returns the log-line stream. Lines are appended, never replayed.
func (e *Engine) Events() <-chan string {
	return e.events
}

// Close ends the event stream. Lines logged afterwards (a process-exit
// watcher can outlive the last operation) are dropped.
func (e *Engine) Close() {
	e.evMu.Lock()
	defer e.evMu.Unlock()
	if e.evClosed {
		return
	}
	e.evClosed = true
	close(e.events)
}

func (e *Engine) logf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	e.evMu.RLock()
	defer e.evMu.RUnlock()
	if e.evClosed {
		return
	}
	select {
	case e.events <- line:
	default:
		// Stream full; drop rather than block an operation.
	}
}

func (e *Engine) setProgress(fraction float64) {
	if fraction < 0 {
		fraction = 0
	} else if fraction > 1 {
		fraction = 1
	}
	e.progress.Store(math.Float64bits(fraction))
}

// Progress returns the current progress fraction in [0, 1].
func (e *Engine) Progress() float64 {
	return math.Float64frombits(e.progress.Load())
}

// Busy reports whether a background task is in flight. Callers use it to
// disable their triggering controls; the engine itself does not gate
// overlapping calls.
func (e *Engine) Busy() bool {
	return e.busy.Load()
}

// Decision returns the current update decision.
func (e *Engine) Decision() Decision {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.decision
}

// Brand returns the selected brand.
func (e *Engine) Brand() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.brand
}

// Brands lists the manifest's brand names, or nil before the first
// successful fetch.
func (e *Engine) Brands() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index.Brands()
}

// Branding returns display branding for a brand when the config defines it.
func (e *Engine) Branding(brand string) (config.Branding, bool) {
	b, ok := e.cfg.Brands[brand]
	return b, ok
}

// ActiveRelease returns a copy of the release the current selection
// resolves to, or nil.
func (e *Engine) ActiveRelease() *manifest.Release {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return nil
	}
	rel := *e.active
	return &rel
}

// ReleaseNotes returns the active release's notes, or "".
func (e *Engine) ReleaseNotes() string {
	if rel := e.ActiveRelease(); rel != nil {
		return rel.ReleaseNotes
	}
	return ""
}

// VersionInfo pairs a remote version with its local install status.
type VersionInfo struct {
	Version   string
	Installed bool
}

// Versions lists the selected brand's releases, newest first, with a
// per-version installed flag the presentation layer uses to offer uninstall
// instead of download.
func (e *Engine) Versions() []VersionInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	root := e.brandRootLocked()
	entries := e.index.Versions(e.brand)
	infos := make([]VersionInfo, 0, len(entries))
	for _, rel := range entries {
		infos = append(infos, VersionInfo{
			Version:   rel.Version,
			Installed: installtree.IsVersionInstalled(root, rel.Version, e.cfg.BinaryPattern),
		})
	}
	return infos
}

// LocalVersion returns the discovered local version for the current
// selection, or "".
func (e *Engine) LocalVersion() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.st.LocalVersion == nil {
		return ""
	}
	return *e.st.LocalVersion
}

// InstallDir returns the base install directory.
func (e *Engine) InstallDir() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.st.InstallDir
}

// IsRunning reports whether a launched process is still alive.
func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	handle := e.handle
	e.mu.Unlock()
	return handle != nil && handle.IsRunning()
}

// manifestURL resolves the manifest endpoint: explicit config override
// first, otherwise derived from the platform channel.
func (e *Engine) manifestURL() string {
	if e.cfg.ManifestURL != "" {
		return e.cfg.ManifestURL
	}
	return platform.ManifestURL(e.cfg.ManifestBase, e.plat)
}

// brandRootLocked resolves the selected brand's install root. Callers hold
// e.mu.
func (e *Engine) brandRootLocked() string {
	return installtree.BrandRoot(e.st.InstallDir, e.brand)
}

// recomputeLocked re-derives the decision and active release from current
// inputs. Callers hold e.mu.
func (e *Engine) recomputeLocked() {
	e.decision, e.active = deriveDecision(e.index, e.brand, e.selVersion, e.brandRootLocked(), e.cfg.BinaryPattern)
}

// refreshLocalLocked re-discovers the installed version for the current
// selection and persists it. Callers hold e.mu.
func (e *Engine) refreshLocalLocked() {
	root := e.brandRootLocked()
	var local string
	if e.selVersion != "" {
		if installtree.IsVersionInstalled(root, e.selVersion, e.cfg.BinaryPattern) {
			local = e.selVersion
		}
	} else if build := installtree.DiscoverLatest(root, e.cfg.BinaryPattern); build != nil {
		local = build.Version
	}
	e.st.SetLocalVersion(local)
	e.saveStateLocked()
}

// saveStateLocked persists state, logging rather than failing: a broken
// state file must never take an operation down with it.
func (e *Engine) saveStateLocked() {
	if e.statePath == "" {
		return
	}
	if err := e.st.Save(e.statePath); err != nil {
		e.logf("Failed to save launcher state: %v", err)
	}
}

func (e *Engine) confirm(prompt string) bool {
	if e.confirmer == nil {
		return true
	}
	return e.confirmer.Confirm(prompt)
}
