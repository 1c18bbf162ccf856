// SPDX-License-Identifier: MPL-2.0

package prebuilt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
)

const defaultUserAgent = "emprep/dev"

type (
	// Fetcher downloads prebuilt archives into a cache directory.
	Fetcher struct {
		httpClient *http.Client
		userAgent  string
	}

	// FetcherOption configures a Fetcher during construction.
	FetcherOption func(*Fetcher)
)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) FetcherOption {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a Fetcher using http.DefaultClient.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		httpClient: http.DefaultClient,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Download stores the archive described by d in dir and returns its path.
// An archive already present and passing Verify is reused. A new download
// is written to a temporary file, verified and only then renamed into
// place, so dir never holds a partial or corrupt archive under its final
// name.
func (f *Fetcher) Download(ctx context.Context, d Descriptor, dir string) (string, error) {
	dest := filepath.Join(dir, d.Filename())
	if err := Verify(dest, d); err == nil {
		return dest, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		slog.Debug("cached archive rejected", "path", dest, "error", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, d.Filename()+".*.part")
	if err != nil {
		return "", fmt.Errorf("creating temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if rmErr := os.Remove(tmpPath); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			slog.Warn("failed to remove temporary download", "path", tmpPath, "error", rmErr)
		}
	}()

	if err := f.fetchTo(ctx, d, tmp); err != nil {
		_ = tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("writing %s: %w", tmpPath, err)
	}

	if err := Verify(tmpPath, d); err != nil {
		return "", err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return "", fmt.Errorf("moving archive into place: %w", err)
	}
	return dest, nil
}

// fetchTo streams the archive body into w. Reading stops one byte past the
// expected size so an oversized body fails verification without being
// downloaded in full.
func (f *Fetcher) fetchTo(ctx context.Context, d Descriptor, w io.Writer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, http.NoBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", redactURL(d.URL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("downloading %s: unexpected status %d", redactURL(d.URL), resp.StatusCode)
	}

	if _, err := io.Copy(w, io.LimitReader(resp.Body, d.Size+1)); err != nil {
		return fmt.Errorf("downloading %s: %w", redactURL(d.URL), err)
	}
	return nil
}

// redactURL strips query parameters and fragments from a URL for safe inclusion
// in error messages, preventing accidental exposure of tokens or sensitive data.
func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "<invalid-url>"
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
