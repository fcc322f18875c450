// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fetch downloads remote source documents to local files so they
// can be handed to the engine as ordinary path arguments.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pdiddy/panpipe/internal/fsutil"
	"github.com/pdiddy/panpipe/internal/httputil"
	"github.com/pdiddy/panpipe/pkg/types"
)

// IsRemote reports whether src is an http(s) URL rather than a local path.
func IsRemote(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// Fetch downloads rawURL into destDir and returns the local path. The
// file name derives from the URL path, collision-suffixed when taken. The
// download goes through a temp file and is renamed into place on success,
// so a failed fetch never leaves a partial source behind.
func Fetch(ctx context.Context, client *http.Client, rawURL, destDir string, cfg types.FetchConfig) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parsing source URL %q: %w", rawURL, err)
	}

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("creating fetch directory %s: %w", destDir, err)
	}

	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		name = "source"
	}
	destPath := fsutil.NextAvailableName(filepath.Join(destDir, name), "-")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	if cfg.UserAgent != "" {
		req.Header.Set("User-Agent", cfg.UserAgent)
	}

	resp, err := httputil.Do(ctx, client, req, httputil.DefaultBackoff)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, rawURL)
	}

	tmpFile, err := os.CreateTemp(destDir, ".fetch-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	_, copyErr := io.Copy(tmpFile, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("writing download: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("renaming temp file: %w", err)
	}
	return destPath, nil
}

// FetchAll downloads every remote entry in sources, replacing it in the
// returned slice with its local path. Local paths pass through untouched.
// The first failed download aborts the invocation before any spawn.
func FetchAll(ctx context.Context, client *http.Client, sources []string, destDir string, cfg types.FetchConfig, w io.Writer) ([]string, error) {
	out := make([]string, len(sources))
	for i, src := range sources {
		if !IsRemote(src) {
			out[i] = src
			continue
		}
		fmt.Fprintf(w, "fetching: %s\n", src)
		local, err := Fetch(ctx, client, src, destDir, cfg)
		if err != nil {
			return nil, err
		}
		out[i] = local
	}
	return out, nil
}
