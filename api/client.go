package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-auth-console/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/publicsuffix"
	"golang.org/x/oauth2"
)

const (
	headerRequestID   = "X-Request-ID"
	headerUserAgent   = "User-Agent"
	headerContentType = "Content-Type"
	contentTypeJSON   = "application/json"

	maxErrorBodyBytes = 64 << 10
)

// Client talks to the administration backend. The refresh credential set by
// the backend as an HTTP-only cookie lives in the client's cookie jar and is
// never exposed to callers.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
	log       zerolog.Logger
}

// New creates a Client for cfg with its own in-memory cookie jar.
func New(cfg config.APIConfig) (*Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookiejar.New: %w", err)
	}
	httpClient := &http.Client{
		Jar:     jar,
		Timeout: cfg.GetRequestTimeout(),
	}
	return NewWithHTTPClient(cfg.GetAPIBaseURL(), httpClient, cfg.GetUserAgent()), nil
}

// NewWithHTTPClient creates a Client that uses httpClient as is. The client
// must carry a cookie jar for token renewal to work.
func NewWithHTTPClient(baseURL string, httpClient *http.Client, userAgent string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      httpClient,
		userAgent: userAgent,
		log:       log.Logger.With().Str("component", "api").Logger(),
	}
}

// WithLogger returns a shallow copy of c that logs to logger.
func (c *Client) WithLogger(logger zerolog.Logger) *Client {
	clone := *c
	clone.log = logger
	return &clone
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one backend call.
type request struct {
	method   string
	path     string
	body     any
	tokens   oauth2.TokenSource
	fallback string // error message when the backend sends no body
}

// do sends req and decodes a 2xx JSON response into out (which may be nil).
// Non-2xx responses become *Error.
func (c *Client) do(ctx context.Context, req request, out any) error {
	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("marshal %s %s: %w", req.method, req.path, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return fmt.Errorf("new request %s %s: %w", req.method, req.path, err)
	}

	requestID := uuid.NewString()
	httpReq.Header.Set(headerRequestID, requestID)
	if c.userAgent != "" {
		httpReq.Header.Set(headerUserAgent, c.userAgent)
	}
	if req.body != nil {
		httpReq.Header.Set(headerContentType, contentTypeJSON)
	}
	if req.tokens != nil {
		token, err := req.tokens.Token()
		if err != nil {
			return fmt.Errorf("%s %s: %w", req.method, req.path, err)
		}
		token.SetAuthHeader(httpReq)
	}

	c.log.Debug().Str("method", req.method).Str("path", req.path).Str("request_id", requestID).Msg("backend request")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		apiErr := newError(resp.StatusCode, raw, req.fallback)
		c.log.Debug().Str("method", req.method).Str("path", req.path).Str("request_id", requestID).
			Int("status", resp.StatusCode).Msg("backend request failed")
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", req.method, req.path, err)
	}
	return nil
}

// bearer wraps a raw access token as a static token source.
func bearer(accessToken string) oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"})
}
