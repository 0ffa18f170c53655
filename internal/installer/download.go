package installer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	// DefaultTimeout bounds a whole artifact download.
	DefaultTimeout = 5 * time.Minute
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "Launcher/1.0"
)

// ProgressFunc receives a monotonically non-decreasing fraction in [0, 1].
type ProgressFunc func(fraction float64)

// Downloader streams release artifacts to disk.
type Downloader struct {
	client    *http.Client
	userAgent string
}

// NewDownloader creates a downloader with the default timeout.
func NewDownloader() *Downloader {
	return &Downloader{
		client: &http.Client{
			Timeout: DefaultTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		userAgent: DefaultUserAgent,
	}
}

// DownloadToFile streams url into destPath. sizeHint is the manifest's
// declared size; when zero, the transport-reported Content-Length is used
// for progress instead. A failed download leaves at most a partial file at
// destPath, which the caller must treat as scratch.
func (d *Downloader) DownloadToFile(ctx context.Context, url, destPath string, sizeHint int64, onProgress ProgressFunc) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &DownloadError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", d.userAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return &DownloadError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &DownloadError{URL: url, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	total := sizeHint
	if total <= 0 {
		total = resp.ContentLength
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return &DownloadError{URL: url, Err: err}
	}
	out, err := os.Create(destPath)
	if err != nil {
		return &DownloadError{URL: url, Err: err}
	}

	writer := io.Writer(out)
	if onProgress != nil && total > 0 {
		writer = io.MultiWriter(out, &progressWriter{total: total, report: onProgress})
	}

	_, copyErr := io.Copy(writer, resp.Body)
	closeErr := out.Close()
	if copyErr != nil {
		return &DownloadError{URL: url, Err: copyErr}
	}
	if closeErr != nil {
		return &DownloadError{URL: url, Err: closeErr}
	}
	return nil
}

// progressWriter converts byte counts into clamped, monotonic fractions.
type progressWriter struct {
	total   int64
	written int64
	last    float64
	report  ProgressFunc
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.written += int64(len(p))
	fraction := float64(w.written) / float64(w.total)
	if fraction > 1 {
		fraction = 1
	}
	if fraction > w.last {
		w.last = fraction
		w.report(fraction)
	}
	return len(p), nil
}
