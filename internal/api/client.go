package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"

	"github.com/pders01/gamesearch/internal/config"
	"github.com/pders01/gamesearch/internal/debuglog"
)

const (
	gamesPath  = "/games"
	healthPath = "/health"

	maxBodyBytes = 8 << 20
)

// Client talks to the game telemetry search API.
type Client struct {
	baseURL   string
	client    *http.Client
	userAgent string
	retries   uint64

	// first retry delay; grows exponentially
	retryInterval time.Duration
}

func NewClient(cfg config.APIConfig) *Client {
	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		client:        &http.Client{Timeout: cfg.Timeout},
		userAgent:     cfg.UserAgent,
		retries:       uint64(retries),
		retryInterval: 250 * time.Millisecond,
	}
}

// BaseURL returns the normalized base the client sends requests to.
func (c *Client) BaseURL() string { return c.baseURL }

// Search fetches one page of results for the given query parameters.
// Cancelling ctx aborts the request and any pending retry; the returned
// error then satisfies IsCanceled.
func (c *Client) Search(ctx context.Context, params url.Values) (*Page, error) {
	var wire pageWire
	if err := c.getJSON(ctx, gamesPath, params, &wire); err != nil {
		return nil, err
	}
	return wire.toPage()
}

// Game fetches a single row by app id.
func (c *Client) Game(ctx context.Context, appID string) (*Game, error) {
	appID = strings.TrimSpace(appID)
	if appID == "" {
		return nil, fmt.Errorf("app id cannot be empty")
	}

	var g Game
	if err := c.getJSON(ctx, gamesPath+"/"+url.PathEscape(appID), nil, &g); err != nil {
		return nil, err
	}
	if g.AppID == "" {
		return nil, &MalformedResponseError{Reason: "missing app_id"}
	}
	return &g, nil
}

// Health checks that the API is up.
func (c *Client) Health(ctx context.Context) error {
	var h healthWire
	if err := c.getJSON(ctx, healthPath, nil, &h); err != nil {
		return err
	}
	if h.OK == nil || !*h.OK {
		return &MalformedResponseError{Reason: "health check did not report ok"}
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	requestID := uuid.NewString()
	log := debuglog.WithFields(map[string]interface{}{
		"component":  "api",
		"request_id": requestID,
	})

	attempt := 0
	operation := func() error {
		attempt++
		return c.do(ctx, endpoint, requestID, out)
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retryInterval
	bo.MaxElapsedTime = 0

	notify := func(err error, next time.Duration) {
		log.Warnf("retrying %s after attempt %d in %s: %v", endpoint, attempt, next, err)
	}

	start := time.Now()
	log.Debugf("GET %s", endpoint)

	err := backoff.RetryNotify(operation, backoff.WithContext(backoff.WithMaxRetries(bo, c.retries), ctx), notify)
	switch {
	case err == nil:
		log.Debugf("GET %s done in %s", endpoint, time.Since(start))
	case IsCanceled(err):
		log.Debugf("GET %s cancelled", endpoint)
	default:
		log.Errorf("GET %s failed: %v", endpoint, err)
	}
	return err
}

// do performs a single attempt. Only transport failures are retryable.
func (c *Client) do(ctx context.Context, endpoint, requestID string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("creating request: %w", err))
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return backoff.Permanent(ctxErr)
		}
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return backoff.Permanent(&HTTPError{StatusCode: resp.StatusCode, Status: resp.Status})
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return backoff.Permanent(ctxErr)
		}
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return backoff.Permanent(&MalformedResponseError{Reason: "decoding body", Err: err})
		}
		return &TransportError{Err: err}
	}
	return nil
}
