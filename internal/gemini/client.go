// Package gemini is the HTTP client for the Google AI Studio Gemini API.
// Every call is made with the end user's own API key, supplied per request.
package gemini

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	// DialTimeout is the connection timeout.
	DialTimeout = 10 * time.Second
	// TLSHandshakeTimeout is the TLS negotiation timeout.
	TLSHandshakeTimeout = 10 * time.Second
)

// Upstream failure classes. Handlers map these onto HTTP statuses, so
// the distinction between a bad key and a flaky upstream survives the
// whole call chain.
var (
	// ErrProviderAuth means the upstream rejected the user's API key.
	ErrProviderAuth = errors.New("gemini: api key rejected by provider")
	// ErrProviderQuota means the user's key has exhausted its quota.
	ErrProviderQuota = errors.New("gemini: provider quota exhausted")
	// ErrProviderUnavailable covers transport failures and 5xx responses.
	ErrProviderUnavailable = errors.New("gemini: provider unavailable")
)

// Client calls the Gemini generateContent endpoint.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Gemini client. baseURL must not include a trailing slash
// (it is trimmed). timeout bounds the full request including body read.
func New(baseURL, model string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: newHTTPClient(timeout),
		logger:     logger,
	}
}

// newHTTPClient creates an HTTP client configured for synchronous
// generation calls. Generation can take tens of seconds, so only the
// connection phases get tight timeouts; the overall budget comes from
// the caller-supplied timeout.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   DialTimeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout: TLSHandshakeTimeout,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
		// Don't follow redirects - the API never redirects legitimately
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
