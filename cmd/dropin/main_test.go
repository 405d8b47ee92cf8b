package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/ottawa-dropin/dropin"
	main "github.com/ottawa-dropin/dropin/cmd/dropin"
	"github.com/ottawa-dropin/dropin/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testListURL = "https://ottawa.test/places"
	testBaseURL = "https://ottawa.test"
)

var sitePages = map[string]string{
	testListURL: `<html><body><ul class="pager__items"><li>1</li><li>Next</li></ul></body></html>`,
	testListURL + "?page=0": `<html><body><table><tbody>
		<tr><td><a href="/pool">Brewer Pool</a></td></tr>
	</tbody></table></body></html>`,
	testBaseURL + "/pool": `<html><body>
		<h1 class="page-title"><span class="field--name-title">Brewer&nbsp;Pool</span></h1>
		<button>Drop-in schedules</button>
		<table><tr><th>Activity</th><th>Monday</th></tr><tr><td>Lane swim</td><td>7 - 8 am</td></tr></table>
	</body></html>`,
}

func siteFetcher() *mock.Fetcher {
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			html, ok := sitePages[url]
			if !ok {
				return "", dropin.Errorf(dropin.ENOTFOUND, "no page at %s", url)
			}
			return html, nil
		},
		CloseFn: func() error { return nil },
	}
}

func chatServer(t *testing.T, calls *atomic.Int32) *httptest.Server {
	t.Helper()

	reply := `[{"activity":"Lane swim *","start_time":"7:00","end_time":"8:00","day_of_week":1},` +
		`{"activity":"Aquafit","start_time":"noon","end_time":"13:00","day_of_week":2}]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []any{map[string]any{"message": map[string]any{"content": reply}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func scrapeArgs(dir, llmURL string, extra ...string) []string {
	args := []string{
		"scrape",
		"--list-url", testListURL,
		"--base-url", testBaseURL,
		"--rate", "0",
		"--no-retry",
		"--llm-provider", "openai",
		"--openai-api-key", "test-key",
		"--llm-base-url", llmURL,
		"--cache-file", filepath.Join(dir, "cache.json"),
		"--schedules-file", filepath.Join(dir, "schedules.json"),
		"--invalid-file", filepath.Join(dir, "invalid.json"),
	}
	return append(args, extra...)
}

// uploadBody is the request body of one upload batch.
type uploadBody struct {
	Schedules []map[string]any `json:"schedules"`
}

func TestMain_Run_HelpShowsCommands(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--help"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "Usage:")
	assert.Contains(t, stdout.String(), "scrape")
	assert.Contains(t, stdout.String(), "upload")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{}, &stdout, &stderr)

	require.Error(t, err)
	assert.Contains(t, stdout.String(), "Usage:")
}

func TestMain_Run_UploadRequiresURLAndKey(t *testing.T) {
	t.Parallel()

	t.Run("missing URL", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		var stdout, stderr bytes.Buffer

		err := m.Run(context.Background(), []string{"upload", "--upload-url=", "--upload-api-key=k"}, &stdout, &stderr)

		require.Error(t, err)
		assert.Equal(t, dropin.ECONFIG, dropin.ErrorCode(err))
		assert.Contains(t, stderr.String(), "upload URL not set")
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		m := main.NewMain()
		var stdout, stderr bytes.Buffer

		err := m.Run(context.Background(), []string{"upload", "--upload-url=http://example.test", "--upload-api-key="}, &stdout, &stderr)

		require.Error(t, err)
		assert.Equal(t, dropin.ECONFIG, dropin.ErrorCode(err))
	})
}

func TestMain_Run_ScrapeRequiresProviderKey(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	m.Fetcher = siteFetcher()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"scrape", "--llm-provider", "gemini", "--gemini-api-key="}, &stdout, &stderr)

	require.Error(t, err)
	assert.Equal(t, dropin.ECONFIG, dropin.ErrorCode(err))
}

func TestMain_Run_Scrape(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var calls atomic.Int32
	srv := chatServer(t, &calls)

	m := main.NewMain()
	m.Fetcher = siteFetcher()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), scrapeArgs(dir, srv.URL), &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())

	out := stdout.String()
	assert.Contains(t, out, "LLM calls: 1")
	assert.Contains(t, out, "Facilities with schedules: 1")
	assert.Contains(t, out, "Entries extracted: 2")
	assert.Contains(t, out, "Valid: 1")
	assert.Contains(t, out, "Invalid: 1")
	assert.Contains(t, stderr.String(), "run=")

	var schedules []map[string]any
	readJSON(t, filepath.Join(dir, "schedules.json"), &schedules)
	require.Len(t, schedules, 1)
	assert.Equal(t, "Brewer Pool", schedules[0]["facility"])
	assert.Equal(t, "Lane swim", schedules[0]["activity"])

	var invalid []map[string]any
	readJSON(t, filepath.Join(dir, "invalid.json"), &invalid)
	require.Len(t, invalid, 1)
	assert.Equal(t, "noon", invalid[0]["start_time"])

	var cache map[string]any
	readJSON(t, filepath.Join(dir, "cache.json"), &cache)
	assert.Len(t, cache, 1)
}

func TestMain_Run_ScrapeWithDeepSeek(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var calls atomic.Int32
	srv := chatServer(t, &calls)

	args := scrapeArgs(dir, srv.URL)
	for i, arg := range args {
		switch arg {
		case "openai":
			args[i] = "deepseek"
		case "--openai-api-key":
			args[i] = "--deepseek-api-key"
		}
	}

	m := main.NewMain()
	m.Fetcher = siteFetcher()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), args, &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Contains(t, stderr.String(), "provider=deepseek")
	assert.Contains(t, stdout.String(), "Valid: 1")
}

func TestMain_Run_ScrapeReusesCache(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var calls atomic.Int32
	srv := chatServer(t, &calls)

	for range 2 {
		var stdout, stderr bytes.Buffer
		m := main.NewMain()
		m.Fetcher = siteFetcher()
		require.NoError(t, m.Run(context.Background(), scrapeArgs(dir, srv.URL), &stdout, &stderr))
	}

	assert.Equal(t, int32(1), calls.Load())
}

func TestMain_Run_ScrapeWithDatabase(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "dropin.db")
	var calls atomic.Int32
	srv := chatServer(t, &calls)

	m := main.NewMain()
	m.Fetcher = siteFetcher()
	var stdout, stderr bytes.Buffer
	err := m.Run(context.Background(), scrapeArgs(dir, srv.URL, "--db", dbPath), &stdout, &stderr)
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "schedules.json"))
	assert.True(t, os.IsNotExist(statErr), "JSON output should not be written when --db is set")

	bodies := make(chan uploadBody, 1)
	upload := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body uploadBody
		data, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(data, &body))
		bodies <- body
		_, _ = w.Write([]byte(`{"successful": 1}`))
	}))
	defer upload.Close()

	stdout.Reset()
	m = main.NewMain()
	err = m.Run(context.Background(), []string{
		"upload", "--db", dbPath, "--upload-url", upload.URL, "--upload-api-key", "k",
	}, &stdout, &stderr)

	require.NoError(t, err)
	require.Len(t, bodies, 1)
	body := <-bodies
	require.Len(t, body.Schedules, 1)
	assert.Equal(t, "Lane swim", body.Schedules[0]["activity"])
	assert.Equal(t, "Brewer Pool", body.Schedules[0]["facility"])
	assert.Equal(t, float64(1), body.Schedules[0]["dayOfWeek"])
	assert.Contains(t, stdout.String(), "Saved: 1")
}

func TestMain_Run_Upload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "schedules.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"facility":"Brewer Pool","activity":"Lane swim","startTime":"7:00","endTime":"8:00","periodStartDate":null,"periodEndDate":null,"dayOfWeek":1},
		{"facility":"Brewer Pool","activity":"Aquafit","startTime":"9:00","endTime":"10:00","periodStartDate":null,"periodEndDate":null,"dayOfWeek":2}
	]`), 0o644))

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		_, _ = w.Write([]byte(`{"successful": 1, "errors": ["duplicate schedule"]}`))
	}))
	defer srv.Close()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{
		"upload",
		"--upload-url", srv.URL,
		"--upload-api-key", "secret",
		"--batch-size", "1",
		"--schedules-file", path,
	}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, int32(2), requests.Load())
	out := stdout.String()
	assert.Contains(t, out, "Loaded: 2")
	assert.Contains(t, out, "Saved: 2")
	assert.Contains(t, out, "Errors: 1")
	assert.Contains(t, out, "- duplicate schedule")
}

func TestMain_Run_UploadMissingFile(t *testing.T) {
	t.Parallel()

	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{
		"upload",
		"--upload-url", srv.URL,
		"--upload-api-key", "secret",
		"--schedules-file", filepath.Join(t.TempDir(), "missing.json"),
	}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Zero(t, requests.Load())
	assert.Contains(t, stdout.String(), "Loaded: 0")
	assert.True(t, strings.Contains(stderr.String(), "failed to load schedules"))
}

func readJSON(t *testing.T, path string, v any) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}
