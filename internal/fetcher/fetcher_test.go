package fetcher_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raysh454/pagesource/internal/fetcher"
	"github.com/raysh454/pagesource/internal/logging"
	"github.com/raysh454/pagesource/internal/testutil"
	"github.com/raysh454/pagesource/internal/webclient"
)

// newFetcher builds a Fetcher writing into a fresh temp dir and returns it
// with its stdout buffer.
func newFetcher(t *testing.T, wc webclient.WebClient) (*fetcher.Fetcher, *bytes.Buffer) {
	t.Helper()
	cfg := fetcher.DefaultConfig()
	cfg.OutputPath = filepath.Join(t.TempDir(), fetcher.DefaultOutputPath)

	var out bytes.Buffer
	f, err := fetcher.New(cfg, wc, &out, logging.NewNopLogger())
	require.NoError(t, err)
	return f, &out
}

func newHTTPClient(t *testing.T, ts *httptest.Server) webclient.WebClient {
	t.Helper()
	wc, err := webclient.NewNetHTTPClient(webclient.DefaultConfig(), logging.NewNopLogger(), ts.Client())
	require.NoError(t, err)
	t.Cleanup(func() { _ = wc.Close() })
	return wc
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestFetchAndSave_OKPage(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html>OK</html>")
	}))
	defer ts.Close()

	f, out := newFetcher(t, newHTTPClient(t, ts))

	require.NoError(t, f.FetchAndSave(context.Background(), ts.URL))
	assert.Equal(t, "<html>OK</html>", out.String())
	assert.Equal(t, "<html>OK</html>", readFile(t, f.OutputPath()))
}

func TestFetchAndSave_ErrorStatusStillSaved(t *testing.T) {
	t.Parallel()
	for _, code := range []int{http.StatusNotFound, http.StatusInternalServerError} {
		code := code
		t.Run(http.StatusText(code), func(t *testing.T) {
			t.Parallel()
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(code)
				_, _ = io.WriteString(w, http.StatusText(code))
			}))
			defer ts.Close()

			f, out := newFetcher(t, newHTTPClient(t, ts))

			require.NoError(t, f.FetchAndSave(context.Background(), ts.URL))
			assert.Equal(t, http.StatusText(code), out.String())
			assert.Equal(t, http.StatusText(code), readFile(t, f.OutputPath()))
		})
	}
}

func TestFetchAndSave_ErrorStatusIsLoggedAsWarning(t *testing.T) {
	t.Parallel()
	wc := &testutil.DummyWebClient{Body: []byte("Not Found"), StatusCode: http.StatusNotFound}
	logger := &testutil.DummyLogger{}

	cfg := fetcher.Config{OutputPath: filepath.Join(t.TempDir(), "out.html")}
	f, err := fetcher.New(cfg, wc, io.Discard, logger)
	require.NoError(t, err)

	require.NoError(t, f.FetchAndSave(context.Background(), "http://example.invalid/missing"))
	assert.Len(t, logger.Warns, 1)
	assert.Empty(t, logger.Errors)
}

func TestFetchAndSave_StdoutMatchesFile(t *testing.T) {
	t.Parallel()
	body := "<!doctype html>\n<title>ünïcode ☃</title>\r\n<p>tail without newline"
	wc := &testutil.DummyWebClient{
		Body:    []byte(body),
		Headers: http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
	}
	f, out := newFetcher(t, wc)

	require.NoError(t, f.FetchAndSave(context.Background(), "http://example.invalid/"))
	assert.Equal(t, body, out.String())
	assert.Equal(t, out.String(), readFile(t, f.OutputPath()))
}

func TestFetchAndSave_DecodesDeclaredCharsetToUTF8(t *testing.T) {
	t.Parallel()
	wc := &testutil.DummyWebClient{
		Body:    []byte{'c', 'a', 'f', 0xE9},
		Headers: http.Header{"Content-Type": []string{"text/plain; charset=iso-8859-1"}},
	}
	f, out := newFetcher(t, wc)

	require.NoError(t, f.FetchAndSave(context.Background(), "http://example.invalid/"))
	assert.Equal(t, "café", out.String())
	assert.Equal(t, []byte("caf\xc3\xa9"), []byte(readFile(t, f.OutputPath())))
}

func TestFetchAndSave_OverwritesPreviousContent(t *testing.T) {
	t.Parallel()
	wc := &testutil.DummyWebClient{Body: []byte("short")}
	f, _ := newFetcher(t, wc)
	require.NoError(t, os.WriteFile(f.OutputPath(), []byte("a much longer previous page body"), 0o644))

	require.NoError(t, f.FetchAndSave(context.Background(), "http://example.invalid/"))
	assert.Equal(t, "short", readFile(t, f.OutputPath()))
}

func TestFetchAndSave_IdempotentAcrossRuns(t *testing.T) {
	t.Parallel()
	wc := &testutil.DummyWebClient{Body: []byte("<html>same</html>")}
	f, _ := newFetcher(t, wc)

	require.NoError(t, f.FetchAndSave(context.Background(), "http://example.invalid/"))
	first := readFile(t, f.OutputPath())
	require.NoError(t, f.FetchAndSave(context.Background(), "http://example.invalid/"))
	assert.Equal(t, first, readFile(t, f.OutputPath()))
	assert.Len(t, wc.Requests, 2)
}

func TestFetchAndSave_EmptyBodyTruncatesFile(t *testing.T) {
	t.Parallel()
	wc := &testutil.DummyWebClient{Body: []byte{}, StatusCode: http.StatusNoContent}
	f, out := newFetcher(t, wc)
	require.NoError(t, os.WriteFile(f.OutputPath(), []byte("old"), 0o644))

	require.NoError(t, f.FetchAndSave(context.Background(), "http://example.invalid/"))
	assert.Empty(t, out.String())
	assert.Empty(t, readFile(t, f.OutputPath()))
}

func TestFetchAndSave_TransportFailureLeavesFileUntouched(t *testing.T) {
	t.Parallel()
	wc := &testutil.DummyWebClient{Fail: true}
	f, out := newFetcher(t, wc)
	require.NoError(t, os.WriteFile(f.OutputPath(), []byte("previous"), 0o644))

	err := f.FetchAndSave(context.Background(), "http://unreachable.invalid/")
	require.Error(t, err)
	assert.ErrorIs(t, err, testutil.ErrDummyFetch)
	assert.Empty(t, out.String())
	assert.Equal(t, "previous", readFile(t, f.OutputPath()))
}

func TestFetchAndSave_ConnectionRefusedCreatesNoFile(t *testing.T) {
	t.Parallel()
	ts := httptest.NewServer(http.NotFoundHandler())
	addr := ts.URL
	ts.Close()

	wc, err := webclient.NewNetHTTPClient(webclient.DefaultConfig(), nil, nil)
	require.NoError(t, err)
	defer wc.Close()
	f, out := newFetcher(t, wc)

	require.Error(t, f.FetchAndSave(context.Background(), addr))
	assert.Empty(t, out.String())
	_, statErr := os.Stat(f.OutputPath())
	assert.ErrorIs(t, statErr, fs.ErrNotExist)
}

func TestFetchAndSave_CanceledContext(t *testing.T) {
	t.Parallel()
	wc := &testutil.DummyWebClient{ResponseDelay: time.Minute}
	f, out := newFetcher(t, wc)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.FetchAndSave(ctx, "http://example.invalid/")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestFetchAndSave_MissingDirectoryIsNotCreated(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "does-not-exist")
	cfg := fetcher.Config{OutputPath: filepath.Join(dir, "page.html")}
	var out bytes.Buffer
	f, err := fetcher.New(cfg, &testutil.DummyWebClient{}, &out, nil)
	require.NoError(t, err)

	err = f.FetchAndSave(context.Background(), "http://example.invalid/")
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	// stdout happens before the file write
	assert.Equal(t, "ok:http://example.invalid/", out.String())
	_, statErr := os.Stat(dir)
	assert.True(t, errors.Is(statErr, fs.ErrNotExist))
}

func TestFetchAndSave_StdoutFailureSkipsFile(t *testing.T) {
	t.Parallel()
	cfg := fetcher.Config{OutputPath: filepath.Join(t.TempDir(), "page.html")}
	f, err := fetcher.New(cfg, &testutil.DummyWebClient{}, testutil.FailingWriter{}, nil)
	require.NoError(t, err)

	require.Error(t, f.FetchAndSave(context.Background(), "http://example.invalid/"))
	_, statErr := os.Stat(cfg.OutputPath)
	assert.ErrorIs(t, statErr, fs.ErrNotExist)
}

func TestNew_Validation(t *testing.T) {
	t.Parallel()
	_, err := fetcher.New(fetcher.DefaultConfig(), nil, io.Discard, nil)
	assert.Error(t, err)

	_, err = fetcher.New(fetcher.DefaultConfig(), &testutil.DummyWebClient{}, nil, nil)
	assert.Error(t, err)

	f, err := fetcher.New(fetcher.Config{}, &testutil.DummyWebClient{}, io.Discard, nil)
	require.NoError(t, err)
	assert.Equal(t, fetcher.DefaultOutputPath, f.OutputPath())
}

func TestHTTPGet_WrapsError(t *testing.T) {
	t.Parallel()
	f, _ := newFetcher(t, &testutil.DummyWebClient{Fail: true})

	_, err := f.HTTPGet(context.Background(), "http://example.invalid/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http://example.invalid/")
}

func TestFetchAndSave_UndeclaredUTF8BeyondSniffWindow(t *testing.T) {
	t.Parallel()
	body := strings.Repeat("<p>filler</p>", 100) + "<p>café ☕</p>"
	wc := &testutil.DummyWebClient{
		Body:    []byte(body),
		Headers: http.Header{"Content-Type": []string{"text/html"}},
	}
	f, out := newFetcher(t, wc)

	require.NoError(t, f.FetchAndSave(context.Background(), "http://example.invalid/"))
	assert.Equal(t, body, out.String())
	assert.Equal(t, body, readFile(t, f.OutputPath()))
}
