package cairn

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/foomo/cairn/vo"
	"golang.org/x/net/html/charset"
	"golang.org/x/net/proxy"
)

const (
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/85.0.4183.121 Safari/537.36"
	DefaultTimeout   = time.Second * 60
)

var (
	ErrUnsupportedURL = errors.New("unsupported url")
	ErrInvalidProxy   = errors.New("invalid proxy")
)

// Fetcher retrieves the bytes behind an absolute url. Non 2xx responses are
// results, not errors.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*vo.FetchResult, error)
}

type FetcherFunc func(ctx context.Context, url string) (*vo.FetchResult, error)

func (f FetcherFunc) Fetch(ctx context.Context, url string) (*vo.FetchResult, error) {
	return f(ctx, url)
}

// HTTPFetcher is the default Fetcher, it is safe for concurrent use.
type HTTPFetcher struct {
	agent  string
	client *http.Client
}

func NewHTTPFetcher(opt vo.Options) (f *HTTPFetcher, err error) {
	timeout := opt.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	agent := opt.UserAgent
	if agent == "" {
		agent = DefaultUserAgent
	}
	dialer := &net.Dialer{
		Timeout: 10 * time.Second,
	}
	// only opt.Proxy is used, environment proxy settings are ignored
	transport := &http.Transport{
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	if opt.Proxy != "" {
		errProxy := configureProxy(transport, dialer, opt.Proxy)
		if errProxy != nil {
			return nil, errProxy
		}
	}
	return &HTTPFetcher{
		agent: agent,
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}, nil
}

func configureProxy(transport *http.Transport, dialer *net.Dialer, rawProxy string) error {
	proxyURL, errParse := url.Parse(rawProxy)
	if errParse != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidProxy, rawProxy, errParse)
	}
	switch strings.ToLower(proxyURL.Scheme) {
	case "http", "https":
		transport.Proxy = http.ProxyURL(proxyURL)
	case "socks5", "socks5h":
		proxyDialer, errDialer := proxy.FromURL(proxyURL, dialer)
		if errDialer != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidProxy, rawProxy, errDialer)
		}
		if contextDialer, ok := proxyDialer.(proxy.ContextDialer); ok {
			transport.DialContext = contextDialer.DialContext
		} else {
			transport.DialContext = func(ctx context.Context, network, addr string) (net.Conn, error) {
				return proxyDialer.Dial(network, addr)
			}
		}
	default:
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidProxy, proxyURL.Scheme)
	}
	return nil
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (result *vo.FetchResult, err error) {
	if hasPrefixFold(rawURL, "data:") || hasPrefixFold(rawURL, "about:") || !IsValidURL(rawURL) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedURL, rawURL)
	}
	req, errRequest := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if errRequest != nil {
		return nil, errRequest
	}
	req.Header.Set("User-Agent", f.agent)

	resp, errGet := f.client.Do(req)
	if errGet != nil {
		return nil, errGet
	}
	defer resp.Body.Close()

	body, errReadAll := io.ReadAll(resp.Body)
	if errReadAll != nil {
		return nil, errReadAll
	}
	result = &vo.FetchResult{
		URL:    resp.Request.URL.String(),
		Status: resp.StatusCode,
		Header: resp.Header.Clone(),
		Body:   body,
	}
	decodeText(result)
	return result, nil
}

// decodeText converts textual bodies to utf-8 and adjusts the content type.
// The declared charset wins, detection is only used for bodies that are not
// valid utf-8.
func decodeText(result *vo.FetchResult) {
	contentType := result.ContentType()
	mediaType, params, errParse := mime.ParseMediaType(contentType)
	if errParse != nil || !isTextMediaType(mediaType) || len(result.Body) == 0 {
		return
	}
	encoding, name, certain := charset.DetermineEncoding(result.Body, contentType)
	if name == "utf-8" || (!certain && utf8.Valid(result.Body)) {
		return
	}
	decoded, errDecode := encoding.NewDecoder().Bytes(result.Body)
	if errDecode != nil {
		return
	}
	result.Body = decoded
	params["charset"] = "utf-8"
	result.Header.Set("Content-Type", mime.FormatMediaType(mediaType, params))
}

func isTextMediaType(mediaType string) bool {
	switch mediaType {
	case "application/javascript", "application/x-javascript", "application/ecmascript", "application/json", "application/xhtml+xml":
		return true
	}
	return strings.HasPrefix(mediaType, "text/")
}
