// Package client is the single choke point for all HTTP calls against the
// storefront backend. It normalizes the credential header, converts non-2xx
// responses into structured errors, and retries exactly once when the server
// signals it expects a raw token instead of a Bearer-prefixed one.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/vasastore/storefront-client/config"
	apperrors "github.com/vasastore/storefront-client/errors"
	"github.com/vasastore/storefront-client/logger"
)

var (
	// Three base64url segments: looks like a signed token. Some endpoints
	// expect exactly this as the Authorization value, no scheme prefix.
	tokenPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+\.[A-Za-z0-9_-]+$`)

	bearerPattern  = regexp.MustCompile(`(?i)^Bearer\s+`)
	rawTokenSignal = regexp.MustCompile(`(?i)raw token`)
)

// Client wraps the transport for all backend calls. It holds no session or
// cart state; side effects are limited to the network call itself.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

func New(cfg config.Config) *Client {
	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.RequestsPerSec)
		burst = int(cfg.RequestsPerSec)
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		http:    &http.Client{Timeout: cfg.HTTPTimeout},
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Options describes a single request. At most one of Body, Form, Multipart
// may be set.
type Options struct {
	// Body is JSON-serialized and sent with Content-Type: application/json.
	Body any
	// Form is sent as application/x-www-form-urlencoded.
	Form url.Values
	// Multipart is sent as multipart/form-data; the boundary is left to the
	// encoder, never set by hand.
	Multipart *Multipart
	// Token is the credential. A three-segment signed token passes through
	// raw; anything else gets a "Bearer " prefix.
	Token string
	// Query is appended to the endpoint.
	Query url.Values
}

// Request performs one HTTP call and returns the raw JSON response body.
// Non-2xx responses come back as *APIError; transport failures come back as
// ErrNetworkUnavailable.
func (c *Client) Request(ctx context.Context, method, endpoint string, opts *Options) (json.RawMessage, error) {
	if opts == nil {
		opts = &Options{}
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, contentType, err := encodeBody(opts)
	if err != nil {
		return nil, err
	}

	target := c.baseURL + endpoint
	if len(opts.Query) > 0 {
		target += "?" + opts.Query.Encode()
	}

	auth := normalizeAuthorization(opts.Token)
	requestID := uuid.NewString()
	logger.Debug("api request",
		zap.String("request_id", requestID),
		zap.String("method", method),
		zap.String("endpoint", endpoint),
	)

	raw, err := c.do(ctx, method, target, body, contentType, auth)
	if err == nil {
		return raw, nil
	}

	// If the server indicates it expects a raw token (not "Bearer <token>"),
	// retry once with the prefix stripped. No retry loop, no backoff, no
	// retry on any other status.
	var apiErr *APIError
	if As(err, &apiErr) &&
		apiErr.Status == http.StatusUnauthorized &&
		rawTokenSignal.MatchString(apiErr.Message) &&
		bearerPattern.MatchString(auth) {
		logger.Warn("retrying with raw token credential",
			zap.String("request_id", requestID),
			zap.String("endpoint", endpoint),
		)
		retryAuth := bearerPattern.ReplaceAllString(auth, "")
		if raw, retryErr := c.do(ctx, method, target, body, contentType, retryAuth); retryErr == nil {
			return raw, nil
		}
		// fall through to the original error
	}

	if apiErr == nil {
		logger.Error("api request failed", err,
			zap.String("request_id", requestID),
			zap.String("endpoint", endpoint),
		)
	}
	return nil, err
}

func (c *Client) do(ctx context.Context, method, target string, body []byte, contentType, auth string) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, apperrors.New(apperrors.ErrNetworkUnavailable.Code, apperrors.ErrNetworkUnavailable.Message, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrNetworkUnavailable.Code, apperrors.ErrNetworkUnavailable.Message, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, data)
	}
	if len(data) == 0 {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(data), nil
}

// normalizeAuthorization applies the credential header convention: an
// existing Bearer prefix and a raw signed token both pass unmodified,
// anything else gets the Bearer scheme.
func normalizeAuthorization(token string) string {
	if token == "" {
		return ""
	}
	if bearerPattern.MatchString(token) || tokenPattern.MatchString(token) {
		return token
	}
	return "Bearer " + token
}

func encodeBody(opts *Options) ([]byte, string, error) {
	switch {
	case opts.Multipart != nil:
		return opts.Multipart.encode()
	case opts.Form != nil:
		return []byte(opts.Form.Encode()), "application/x-www-form-urlencoded", nil
	case opts.Body != nil:
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, "", err
		}
		return data, "application/json", nil
	default:
		return nil, "", nil
	}
}
