package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Apple beats expectations</title></head>
<body>
<article>
<h1>Apple beats expectations</h1>
<p>Apple reported quarterly revenue well above analyst estimates on strong
iPhone demand. Services revenue also hit a record, and the company raised
its dividend for the twelfth consecutive year.</p>
<p>Shares rose four percent in extended trading following the report.</p>
</article>
</body>
</html>`

// testConfig returns a config suitable for hitting httptest servers,
// which listen on loopback addresses.
func testConfig() ContentFetchConfig {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.DenyPrivateIPs = false
	cfg.Timeout = 5 * time.Second
	return cfg
}

func TestFetchContent_ExtractsArticleText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, articleHTML)
	}))
	defer server.Close()

	f := NewReadabilityFetcher(testConfig())

	content, err := f.FetchContent(context.Background(), server.URL+"/article")

	require.NoError(t, err)
	assert.Contains(t, content, "quarterly revenue well above analyst estimates")
	assert.NotContains(t, content, "<p>")
}

func TestFetchContent_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := NewReadabilityFetcher(testConfig())

	_, err := f.FetchContent(context.Background(), server.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
}

func TestFetchContent_BodyTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, strings.Repeat("a", 4096))
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.MaxBodySize = 1024

	f := NewReadabilityFetcher(cfg)

	_, err := f.FetchContent(context.Background(), server.URL)

	require.ErrorIs(t, err, ErrBodyTooLarge)
}

func TestFetchContent_RejectsUnsupportedScheme(t *testing.T) {
	f := NewReadabilityFetcher(testConfig())

	_, err := f.FetchContent(context.Background(), "ftp://example.com/article")

	require.ErrorIs(t, err, ErrInvalidURL)
}

func TestFetchContent_RedirectLimit(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.MaxRedirects = 2

	f := NewReadabilityFetcher(cfg)

	_, err := f.FetchContent(context.Background(), server.URL+"/r")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "redirects")
}

func TestFetchContent_PrivateIPBlocked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, articleHTML)
	}))
	defer server.Close()

	cfg := testConfig()
	cfg.DenyPrivateIPs = true

	f := NewReadabilityFetcher(cfg)

	_, err := f.FetchContent(context.Background(), server.URL)

	require.ErrorIs(t, err, ErrInvalidURL)
}
