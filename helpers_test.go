package cairn

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/foomo/cairn/vo"
	"github.com/stretchr/testify/require"
)

// 1x1 transparent png
var testPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x60, 0x00, 0x02, 0x00,
	0x00, 0x05, 0x00, 0x01, 0xe9, 0xfa, 0xdc, 0xd8, 0x00, 0x00, 0x00, 0x00,
	0x49, 0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func mustParse(t *testing.T, rawURL string) *url.URL {
	t.Helper()
	u, errParse := url.Parse(rawURL)
	require.NoError(t, errParse)
	return u
}

type testAsset struct {
	contentType string
	status      int
	body        []byte
}

// testFetcher serves assets from a map and counts requests per url.
type testFetcher struct {
	lock     sync.Mutex
	assets   map[string]testAsset
	requests map[string]int
}

func newTestFetcher(assets map[string]testAsset) *testFetcher {
	return &testFetcher{
		assets:   assets,
		requests: map[string]int{},
	}
}

func (f *testFetcher) Fetch(ctx context.Context, u string) (*vo.FetchResult, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.requests[u]++
	if errCtx := ctx.Err(); errCtx != nil {
		return nil, errCtx
	}
	asset, ok := f.assets[u]
	if !ok {
		return nil, errTestNotFound
	}
	status := asset.status
	if status == 0 {
		status = http.StatusOK
	}
	header := http.Header{}
	header.Set("Content-Type", asset.contentType)
	return &vo.FetchResult{URL: u, Status: status, Header: header, Body: asset.body}, nil
}

func (f *testFetcher) count(u string) int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.requests[u]
}

type testError string

func (e testError) Error() string { return string(e) }

const errTestNotFound = testError("not found")

func pngAsset() testAsset {
	return testAsset{contentType: "image/png", body: testPNG}
}

func textAsset(contentType, body string) testAsset {
	return testAsset{contentType: contentType, body: []byte(body)}
}

// newAssetServer serves a small site for http level tests.
func newAssetServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<!DOCTYPE html><html><head><title>Test Page</title>` +
			`<link rel="stylesheet" href="/s.css"><link rel="icon" href="/favicon.png"></head>` +
			`<body><img src="img/a.png"><script src="/app.js"></script>` +
			`<noscript><img src="/noscript.png"></noscript></body></html>`))
	})
	mux.HandleFunc("/s.css", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/css")
		_, _ = w.Write([]byte(`body{background:url(img/bg.png)}`))
	})
	mux.HandleFunc("/app.js", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/javascript")
		_, _ = w.Write([]byte(`console.log("</script>")`))
	})
	png := func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(testPNG)
	}
	mux.HandleFunc("/favicon.png", png)
	mux.HandleFunc("/img/a.png", png)
	mux.HandleFunc("/img/bg.png", png)
	mux.HandleFunc("/noscript.png", png)
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\n"))
	})
	mux.HandleFunc("/private", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>secret</body></html>"))
	})
	mux.HandleFunc("/data.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("/empty", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/latin1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=iso-8859-1")
		_, _ = w.Write([]byte{'c', 'a', 'f', 0xe9})
	})
	mux.HandleFunc("/agent", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(r.UserAgent()))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// runPasses runs the given passes on a page without the inliner.
func runPasses(t *testing.T, page, baseURL string, options vo.Options, passes ...func(c *capture)) *goquery.Document {
	t.Helper()
	doc, errParse := parseDocument(strings.NewReader(page))
	require.NoError(t, errParse)
	c := &capture{
		ctx:      context.Background(),
		doc:      doc,
		baseURL:  baseURL,
		options:  options,
		inliner:  NewInliner(newTestFetcher(nil)),
		logger:   discardLogger(),
		outcomes: vo.Outcomes{},
	}
	for _, pass := range passes {
		pass(c)
	}
	return doc
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
