package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultTimeout bounds a manifest fetch end to end.
	DefaultTimeout = 15 * time.Second
	// DefaultUserAgent is the User-Agent header sent with requests.
	DefaultUserAgent = "Launcher/1.0"
	// maxManifestSize caps how much of a manifest body is read. Real
	// manifests are a few KB; anything larger is garbage.
	maxManifestSize = 4 << 20
)

// Client fetches and parses remote manifest documents. It touches the
// network only; it never writes to disk.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client, mainly for tests.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a manifest client with the default timeout.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch retrieves a multi-brand manifest document.
func (c *Client) Fetch(ctx context.Context, url string) (*Index, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}

	var doc struct {
		Brands map[string]struct {
			Versions []json.RawMessage `json:"versions"`
		} `json:"brands"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	if doc.Brands == nil {
		return nil, &SchemaError{Detail: "missing 'brands' section"}
	}

	brands := make(map[string][]Release, len(doc.Brands))
	for name, info := range doc.Brands {
		releases := make([]Release, 0, len(info.Versions))
		for _, raw := range info.Versions {
			rel, err := parseRelease(raw)
			if err != nil {
				return nil, err
			}
			releases = append(releases, *rel)
		}
		brands[name] = releases
	}
	return NewIndex(brands), nil
}

// FetchSingle retrieves a bare single-release manifest document.
func (c *Client) FetchSingle(ctx context.Context, url string) (*Release, error) {
	body, err := c.get(ctx, url)
	if err != nil {
		return nil, err
	}
	return parseRelease(body)
}

func (c *Client) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &NetworkError{URL: url, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestSize))
	if err != nil {
		return nil, &NetworkError{URL: url, Err: err}
	}
	return body, nil
}

func parseRelease(raw []byte) (*Release, error) {
	var rel Release
	if err := json.Unmarshal(raw, &rel); err != nil {
		return nil, &ParseError{Err: err}
	}
	if err := rel.validate(); err != nil {
		return nil, err
	}
	return &rel, nil
}
