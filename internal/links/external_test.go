package links

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testChecker returns a checker with delays small enough for unit tests.
func testChecker() *Checker {
	c := NewChecker()
	c.AttemptTimeout = 2 * time.Second
	c.InitialBackoff = 10 * time.Millisecond
	return c
}

func TestCollectURLs_DeduplicatesKeepingFirstSource(t *testing.T) {
	root := t.TempDir()
	skillDir := filepath.Join(root, "clickhouse-skill")
	require.NoError(t, os.MkdirAll(skillDir, 0755))

	writeFile(t, skillDir, "a.md", "[docs](https://clickhouse.com/docs)\n")
	writeFile(t, skillDir, "b.md", "[docs again](https://clickhouse.com/docs) [other](https://example.com)\n")
	writeFile(t, skillDir, "meta.json", `{"homepage": "https://clickhouse.com/docs", "ref": "https://ref.example.com"}`)
	writeFile(t, skillDir, "_template.md", "[never](https://template.example.com)\n")

	sources, warnings, err := CollectURLs(root)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	byURL := map[string]URLSource{}
	for _, s := range sources {
		byURL[s.URL] = s
	}

	require.Len(t, sources, 3)
	assert.Equal(t, "clickhouse-skill/a.md", filepath.ToSlash(byURL["https://clickhouse.com/docs"].File),
		"first observed source is retained")
	assert.Equal(t, "clickhouse-skill", byURL["https://example.com"].Skill)
	assert.Contains(t, byURL, "https://ref.example.com")
	assert.NotContains(t, byURL, "https://template.example.com", "underscore-prefixed files are templates")
}

// One malformed JSON file is warned about and skipped; the rest of the
// tree is still collected.
func TestCollectURLs_MalformedJSONSkipped(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "broken.json", `{"homepage":`)
	writeFile(t, root, "a.md", "[docs](https://clickhouse.com/docs)\n")

	sources, warnings, err := CollectURLs(root)
	require.NoError(t, err)

	require.Len(t, sources, 1)
	assert.Equal(t, "https://clickhouse.com/docs", sources[0].URL)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "broken.json")
	assert.Contains(t, warnings[0], "invalid JSON")
}

func TestCheck_SuccessOnHead(t *testing.T) {
	var heads, gets atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			heads.Add(1)
			w.WriteHeader(http.StatusOK)
			return
		}
		gets.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	results := testChecker().Check(context.Background(),
		[]URLSource{{URL: server.URL, File: "a.md", Skill: "s"}})

	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Equal(t, http.StatusOK, results[0].StatusCode)
	assert.Equal(t, 0, results[0].RetriesUsed)
	assert.Equal(t, int32(0), gets.Load(), "HEAD success must not fall back to GET")
}

func TestCheck_HeadFallsBackToGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	results := testChecker().Check(context.Background(),
		[]URLSource{{URL: server.URL, File: "a.md", Skill: "s"}})

	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Equal(t, 0, results[0].RetriesUsed)
}

// An endpoint that fails twice then returns 200 succeeds with two retries
// recorded.
func TestCheck_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// HEAD and GET of the same attempt both count as one call pair;
		// fail the first two attempts entirely.
		if calls.Load() < 4 {
			calls.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	results := testChecker().Check(context.Background(),
		[]URLSource{{URL: server.URL, File: "a.md", Skill: "s"}})

	require.Len(t, results, 1)
	assert.True(t, results[0].Success)
	assert.Equal(t, http.StatusOK, results[0].StatusCode)
	assert.Equal(t, 2, results[0].RetriesUsed)
}

// A URL that fails every attempt exhausts the retry budget and waits at
// least the sum of the configured backoff delays.
func TestCheck_RetryBudgetExhausted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	checker := testChecker()
	start := time.Now()
	results := checker.Check(context.Background(),
		[]URLSource{{URL: server.URL, File: "a.md", Skill: "s"}})
	elapsed := time.Since(start)

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, http.StatusNotFound, results[0].StatusCode)
	assert.Equal(t, checker.MaxRetries, results[0].RetriesUsed)
	assert.Contains(t, results[0].Error, "404")

	// Backoff delays are 10ms, 20ms, 40ms with randomization disabled.
	minWait := 7 * checker.InitialBackoff
	assert.GreaterOrEqual(t, elapsed, minWait, "total wait must cover the backoff schedule")
}

func TestCheck_TimeoutClassified(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	checker := testChecker()
	checker.AttemptTimeout = 30 * time.Millisecond
	checker.MaxRetries = 1

	results := checker.Check(context.Background(),
		[]URLSource{{URL: server.URL, File: "a.md", Skill: "s"}})

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, "Request timeout", results[0].Error)
	assert.Equal(t, 1, results[0].RetriesUsed)
}

func TestCheck_ConnectionRefusedClassified(t *testing.T) {
	// Grab a port that nothing listens on.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	deadURL := server.URL
	server.Close()

	checker := testChecker()
	checker.MaxRetries = 0

	results := checker.Check(context.Background(),
		[]URLSource{{URL: deadURL, File: "a.md", Skill: "s"}})

	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Equal(t, "Connection refused", results[0].Error)
}

func TestCheck_BatchesAndSortsFailuresFirst(t *testing.T) {
	okServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer okServer.Close()
	badServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer badServer.Close()

	checker := testChecker()
	checker.MaxRetries = 0
	checker.BatchSize = 2

	var progress []int
	checker.OnProgress = func(done, _ int) { progress = append(progress, done) }

	sources := []URLSource{
		{URL: okServer.URL + "/a", File: "a.md"},
		{URL: badServer.URL + "/z", File: "a.md"},
		{URL: okServer.URL + "/b", File: "b.md"},
		{URL: badServer.URL + "/y", File: "b.md"},
		{URL: okServer.URL + "/c", File: "c.md"},
	}

	results := checker.Check(context.Background(), sources)
	require.Len(t, results, 5)

	// Failures first, lexical within each group.
	assert.False(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.Less(t, results[0].URL, results[1].URL)
	for _, r := range results[2:] {
		assert.True(t, r.Success)
	}

	assert.Equal(t, []int{2, 4, 5}, progress, "progress reported after each batch")
}
