// Package sqlcheck validates SQL examples against a sandboxed ClickHouse
// engine, guarded by a deny-list of dangerous constructs.
package sqlcheck

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// EngineVersion is the pinned clickhouse build used for validation.
const EngineVersion = "24.8.4.13"

// downloadBase is the fixed release URL root for prebuilt binaries.
const downloadBase = "https://builds.clickhouse.com"

// acquireTimeout bounds the binary download.
const acquireTimeout = 5 * time.Minute

// Provider lazily acquires the engine binary once per run and reuses it
// for every validation call. Acquisition is idempotent: a binary already
// staged at the expected path is used as-is.
type Provider struct {
	CacheDir string
	Version  string // Empty means EngineVersion

	once sync.Once
	path string
	err  error
}

// NewProvider stages binaries under cacheDir (defaults to the user cache
// directory when empty).
func NewProvider(cacheDir string) *Provider {
	return &Provider{CacheDir: cacheDir}
}

// Binary returns the path to the pinned engine binary, downloading it on
// first use. Returns ErrUnsupportedPlatform on anything that is not
// linux/amd64 or darwin.
func (p *Provider) Binary(ctx context.Context) (string, error) {
	p.once.Do(func() {
		p.path, p.err = p.acquire(ctx)
	})
	return p.path, p.err
}

// platformKey maps the current OS to the release artifact directory.
// Only two platforms are supported; everything else degrades to a skip.
func platformKey() (string, error) {
	switch {
	case runtime.GOOS == "linux" && runtime.GOARCH == "amd64":
		return "amd64", nil
	case runtime.GOOS == "darwin":
		return "macos", nil
	default:
		return "", fmt.Errorf("%w: %s/%s", ErrUnsupportedPlatform, runtime.GOOS, runtime.GOARCH)
	}
}

func (p *Provider) acquire(ctx context.Context) (string, error) {
	key, err := platformKey()
	if err != nil {
		return "", err
	}

	version := p.Version
	if version == "" {
		version = EngineVersion
	}

	cacheDir := p.CacheDir
	if cacheDir == "" {
		userCache, err := os.UserCacheDir()
		if err != nil {
			return "", &AcquisitionError{Message: "no cache directory available", Cause: err}
		}
		cacheDir = filepath.Join(userCache, "skillcheck")
	}
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return "", &AcquisitionError{Message: "failed to create cache directory", Cause: err}
	}

	binPath := filepath.Join(cacheDir, "clickhouse-"+version)
	if info, err := os.Stat(binPath); err == nil && info.Mode().Perm()&0100 != 0 {
		return binPath, nil
	}

	url := fmt.Sprintf("%s/v%s/%s/clickhouse", downloadBase, version, key)
	if err := download(ctx, url, binPath); err != nil {
		return "", err
	}
	return binPath, nil
}

// download fetches url into dest atomically (temp file then rename) and
// marks it executable.
func download(ctx context.Context, url, dest string) error {
	ctx, cancel := context.WithTimeout(ctx, acquireTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &AcquisitionError{Message: "failed to create download request", Cause: err}
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return &AcquisitionError{Message: fmt.Sprintf("download failed: %s", url), Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &AcquisitionError{Message: fmt.Sprintf("download failed: %s returned HTTP %d", url, resp.StatusCode)}
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(dest), "clickhouse-download-*")
	if err != nil {
		return &AcquisitionError{Message: "failed to create staging file", Cause: err}
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := io.Copy(tmpFile, resp.Body); err != nil {
		_ = tmpFile.Close()
		return &AcquisitionError{Message: "failed to write binary", Cause: err}
	}
	if err := tmpFile.Close(); err != nil {
		return &AcquisitionError{Message: "failed to close staging file", Cause: err}
	}
	if err := os.Chmod(tmpPath, 0755); err != nil {
		return &AcquisitionError{Message: "failed to mark binary executable", Cause: err}
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return &AcquisitionError{Message: "failed to stage binary", Cause: err}
	}
	return nil
}
