package platform

import "fmt"

// Channel maps a platform to the manifest channel slug the release server
// publishes. Windows amd64 keeps the legacy "win64" name that existing
// deployments already serve.
func Channel(info *Info) string {
	if info.IsWindows() && info.Arch == "amd64" {
		return "win64"
	}

	osName := info.OS
	switch info.OS {
	case "darwin":
		osName = "mac"
	case "windows":
		osName = "win"
	}
	return fmt.Sprintf("%s-%s", osName, info.Arch)
}

// ManifestURL builds the manifest endpoint for a channel from the server
// base URL, e.g. base "https://releases.example/api" and channel "win64"
// give "https://releases.example/api/launcher-win64".
func ManifestURL(base string, info *Info) string {
	return fmt.Sprintf("%s/launcher-%s", base, Channel(info))
}
