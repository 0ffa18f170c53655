// Package process launches installed binaries and tracks their liveness.
//
// A launched binary goes through exactly one NotStarted -> Running -> Exited
// transition. Polling is non-blocking and idempotent: once Exited is
// observed, every later poll keeps reporting Exited without re-triggering
// exit handling.
package process

import (
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	gopsproc "github.com/shirou/gopsutil/v4/process"
)

// DefaultPollInterval is the cooperative liveness poll frequency.
const DefaultPollInterval = time.Second

// State describes where a launched process is in its lifecycle.
type State int

const (
	NotStarted State = iota
	Running
	Exited
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case NotStarted:
		return "not started"
	case Running:
		return "running"
	case Exited:
		return "exited"
	default:
		return "unknown"
	}
}

// LaunchError indicates the binary path was missing or spawning failed.
type LaunchError struct {
	Path string
	Err  error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launch %s: %v", e.Path, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// Handle tracks one launched process.
type Handle struct {
	cmd      *exec.Cmd
	pid      int32
	done     chan struct{}
	exitOnce sync.Once

	mu    sync.Mutex
	state State
}

// Launch starts the binary with its working directory set to workDir. The
// child is not sandboxed or otherwise constrained.
func Launch(exePath, workDir string) (*Handle, error) {
	info, err := os.Stat(exePath)
	if err != nil {
		return nil, &LaunchError{Path: exePath, Err: err}
	}
	if info.IsDir() {
		return nil, &LaunchError{Path: exePath, Err: fmt.Errorf("is a directory")}
	}

	cmd := exec.Command(exePath)
	cmd.Dir = workDir
	if err := cmd.Start(); err != nil {
		return nil, &LaunchError{Path: exePath, Err: err}
	}

	h := &Handle{
		cmd:   cmd,
		pid:   int32(cmd.Process.Pid),
		done:  make(chan struct{}),
		state: Running,
	}
	go h.reap()
	return h, nil
}

// PID returns the child's process id.
func (h *Handle) PID() int32 { return h.pid }

// reap waits for the child so it never lingers as a zombie, then records the
// exit.
func (h *Handle) reap() {
	_ = h.cmd.Wait()
	h.markExited()
}

func (h *Handle) markExited() {
	h.exitOnce.Do(func() {
		h.mu.Lock()
		h.state = Exited
		h.mu.Unlock()
		close(h.done)
	})
}

// State returns the current lifecycle state.
func (h *Handle) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// IsRunning is a non-blocking liveness poll. Besides the reaped wait status
// it cross-checks the OS process table, so a poll racing the reaper still
// answers correctly.
func (h *Handle) IsRunning() bool {
	select {
	case <-h.done:
		return false
	default:
	}

	alive, err := gopsproc.PidExists(h.pid)
	if err == nil && !alive {
		h.markExited()
		return false
	}
	return true
}

// Watch polls liveness at the given interval (DefaultPollInterval when zero)
// and invokes onExit once when the process is observed to have exited. The
// poll self-terminates; call Watch at most once per launch.
func (h *Handle) Watch(interval time.Duration, onExit func()) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-h.done:
				if onExit != nil {
					onExit()
				}
				return
			case <-ticker.C:
				h.IsRunning()
			}
		}
	}()
}
