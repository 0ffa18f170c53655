// Package platform detects the host OS and architecture and maps them to a
// manifest channel, so each platform fetches the manifest published for it.
//
// Detection uses runtime values plus gopsutil for OS release details, with
// graceful fallback: a failed detail lookup never blocks the launcher, it
// just means less context in the logs and in Lua configs.
package platform

import "context"

// Info contains platform detection information.
type Info struct {
	OS       string // "linux", "darwin", "windows"
	Arch     string // "amd64", "arm64" (normalized)
	ArchRaw  string // original GOARCH value
	Platform string // OS release ID when known (e.g. "ubuntu")
	Version  string // OS release version when known
}

// IsWindows reports whether the platform is Windows.
func (i *Info) IsWindows() bool {
	return i.OS == "windows"
}

// IsMacOS reports whether the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsLinux reports whether the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
