package installer

import "fmt"

// DownloadError indicates a transport failure while streaming an artifact.
// The partial file stays in the scratch area and is never promoted.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// IntegrityError indicates the downloaded artifact's digest does not match
// the manifest. Reported distinctly from transport failures so the user
// knows to retry rather than suspect their connection.
type IntegrityError struct {
	Expected string
	Actual   string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("sha256 mismatch: expected %s, got %s", e.Expected, e.Actual)
}

// ExtractionError indicates an archive was opened but no matching binary was
// discoverable afterwards. The version directory is left in place for manual
// inspection.
type ExtractionError struct {
	Detail string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract artifact: %s", e.Detail)
}

// NotFoundError indicates an uninstall target that does not exist.
type NotFoundError struct {
	Version string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("version %s is not installed", e.Version)
}
