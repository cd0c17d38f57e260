// Package links checks internal cross-references and external URLs across
// the skill tree.
package links

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/chskill/skillcheck/internal/types"
)

// Defaults for the external checker. All of them are overridable on the
// Checker so tests and CI can tighten or relax them.
const (
	DefaultAttemptTimeout = 10 * time.Second
	DefaultMaxRetries     = 3
	DefaultBatchSize      = 10
	DefaultInitialBackoff = 1 * time.Second
	defaultUserAgent      = "Mozilla/5.0 (compatible; skillcheck/1.0)"
)

// URLSource is one deduplicated URL with the file and skill where it was
// first observed.
type URLSource struct {
	URL   string
	File  string
	Skill string
}

// Checker probes external URLs in fixed-size concurrent batches with
// retry and exponential backoff.
type Checker struct {
	Client         *http.Client
	AttemptTimeout time.Duration
	MaxRetries     int
	BatchSize      int
	InitialBackoff time.Duration
	OnProgress     func(done, total int)
}

// NewChecker returns a Checker with production defaults.
func NewChecker() *Checker {
	return &Checker{
		Client:         &http.Client{},
		AttemptTimeout: DefaultAttemptTimeout,
		MaxRetries:     DefaultMaxRetries,
		BatchSize:      DefaultBatchSize,
		InitialBackoff: DefaultInitialBackoff,
	}
}

// CollectURLs walks every .md and .json file under root (skipping files
// whose name begins with an underscore), extracts absolute HTTP(S) URLs
// and deduplicates them, keeping the first observed source. Unreadable or
// malformed files are reported in the returned warnings and skipped; a
// single bad file never aborts the walk.
func CollectURLs(root string) ([]URLSource, []string, error) {
	fsys := os.DirFS(root)
	matches, err := doublestar.Glob(fsys, "**/*.{md,json}")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	sort.Strings(matches)

	seen := make(map[string]bool)
	var sources []URLSource
	var warnings []string

	for _, rel := range matches {
		base := filepath.Base(rel)
		if strings.HasPrefix(base, "_") {
			continue
		}

		content, err := os.ReadFile(filepath.Join(root, rel))
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipping %s: %v", rel, err))
			continue
		}

		var urls []string
		if strings.HasSuffix(base, ".json") {
			extracted, err := ExtractJSONURLs(content)
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("skipping %s: invalid JSON: %v", rel, err))
				continue
			}
			urls = extracted
		} else {
			for _, target := range ExtractMarkdownLinks(string(content)) {
				if IsExternal(target) {
					urls = append(urls, target)
				}
			}
		}

		skill := skillName(root, rel)
		for _, u := range urls {
			if seen[u] {
				continue
			}
			seen[u] = true
			sources = append(sources, URLSource{URL: u, File: rel, Skill: skill})
		}
	}

	return sources, warnings, nil
}

// skillName is the top-level directory of a file relative to the root, or
// the root's own name for files directly under it.
func skillName(root, rel string) string {
	parts := strings.SplitN(filepath.ToSlash(rel), "/", 2)
	if len(parts) == 2 {
		return parts[0]
	}
	return filepath.Base(root)
}

// Check probes every source URL and returns results sorted failures-first
// then lexically, so presentation order is independent of completion
// order. Batches execute in submission order; requests within a batch
// race concurrently.
func (c *Checker) Check(ctx context.Context, sources []URLSource) []types.LinkCheckResult {
	results := make([]types.LinkCheckResult, len(sources))

	batchSize := c.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	for start := 0; start < len(sources); start += batchSize {
		end := min(start+batchSize, len(sources))

		g, gCtx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				results[i] = c.checkOne(gCtx, sources[i])
				return nil
			})
		}
		_ = g.Wait() // checkOne never returns an error; failures live in results

		if c.OnProgress != nil {
			c.OnProgress(end, len(sources))
		}
	}

	SortResults(results)
	return results
}

// checkOne probes a single URL with the retry protocol: HEAD first, GET
// fallback, up to MaxRetries additional attempts with exponential backoff.
func (c *Checker) checkOne(ctx context.Context, src URLSource) types.LinkCheckResult {
	result := types.LinkCheckResult{
		URL:         src.URL,
		SourceFile:  src.File,
		SourceSkill: src.Skill,
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.InitialBackoff
	bo.RandomizationFactor = 0
	bo.Multiplier = 2
	bo.MaxElapsedTime = 0
	bo.Reset()

	for attempt := 0; ; attempt++ {
		status, err := c.attempt(ctx, src.URL)
		result.StatusCode = status
		result.RetriesUsed = attempt

		if err == nil {
			result.Success = true
			result.Error = ""
			return result
		}
		result.Error = classifyError(err, status)

		if attempt >= c.MaxRetries {
			return result
		}

		select {
		case <-ctx.Done():
			result.Error = classifyError(ctx.Err(), 0)
			return result
		case <-time.After(bo.NextBackOff()):
		}
	}
}

// attempt makes one bounded probe: HEAD, then GET when HEAD does not
// succeed. A 2xx on either is success. Returns the last status code seen.
func (c *Checker) attempt(ctx context.Context, url string) (int, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.AttemptTimeout)
	defer cancel()

	status, headErr := c.probe(attemptCtx, http.MethodHead, url)
	if headErr == nil && is2xx(status) {
		return status, nil
	}

	getStatus, getErr := c.probe(attemptCtx, http.MethodGet, url)
	if getErr == nil && is2xx(getStatus) {
		return getStatus, nil
	}
	if getErr != nil {
		return getStatus, getErr
	}
	return getStatus, fmt.Errorf("HTTP status %d", getStatus)
}

func (c *Checker) probe(ctx context.Context, method, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := c.Client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode, nil
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}

// classifyError gives timeouts, DNS failures and refused connections
// distinct causes so the failure listing is actionable.
func classifyError(err error, status int) string {
	var dnsErr *net.DNSError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "Request timeout"
	case errors.As(err, &dnsErr):
		return fmt.Sprintf("DNS lookup failed: %s", dnsErr.Name)
	case errors.Is(err, syscall.ECONNREFUSED):
		return "Connection refused"
	case status > 0:
		return fmt.Sprintf("HTTP status %d", status)
	default:
		return err.Error()
	}
}

// SortResults orders results failures-first, then lexically by URL.
func SortResults(results []types.LinkCheckResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Success != results[j].Success {
			return !results[i].Success
		}
		return results[i].URL < results[j].URL
	})
}
