// README: Airline API client; one request per call, fixed timeout, failures returned as values.
package airline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"airchat/internal/metrics"
)

// DefaultTimeout bounds every airline call.
const DefaultTimeout = 10 * time.Second

type Client struct {
	apiURL string
	http   *http.Client
	tokens TokenSource
	logger *zap.Logger
}

// NewClient builds a client rooted at apiURL (e.g. https://host/api/v1/).
// tokens may be nil when the client is only used for unprotected calls.
func NewClient(apiURL string, timeout time.Duration, tokens TokenSource, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		apiURL: strings.TrimRight(apiURL, "/") + "/",
		http:   &http.Client{Timeout: timeout},
		tokens: tokens,
		logger: logger,
	}
}

// URL joins endpoint onto the API root without doubling slashes.
func (c *Client) URL(endpoint string) string {
	return c.apiURL + strings.TrimLeft(endpoint, "/")
}

// Call performs req and never returns a Go error: every failure is reported
// through Result.Err.
func (c *Client) Call(ctx context.Context, req Request) Result {
	endpoint := strings.TrimLeft(req.Endpoint, "/")
	start := time.Now()

	res := c.do(ctx, endpoint, req)

	outcome := "ok"
	if res.Err != nil {
		outcome = string(res.Err.Kind)
		c.logger.Warn("airline call failed",
			zap.String("endpoint", endpoint),
			zap.String("kind", outcome),
			zap.Int("status", res.Err.Status),
			zap.String("error", res.Err.Message),
		)
	}
	metrics.ObserveAirlineCall(endpoint, outcome, time.Since(start))
	return res
}

func (c *Client) do(ctx context.Context, endpoint string, req Request) Result {
	method := strings.ToUpper(req.Method)
	if method == "" {
		method = http.MethodGet
	}

	target := c.URL(endpoint)
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return transportFailure(fmt.Errorf("encode request body: %w", err))
		}
		body = bytes.NewReader(raw)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return transportFailure(fmt.Errorf("build request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	if req.RequiresAuth {
		tok, err := c.bearer(ctx)
		if err != nil {
			return Result{Err: &Error{Kind: KindAuthFailure, Message: AuthFailureMessage}}
		}
		httpReq.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return transportFailure(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportFailure(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return Result{Err: &Error{
			Kind:    KindDownstreamHTTP,
			Message: fmt.Sprintf("API Error %d", resp.StatusCode),
			Status:  resp.StatusCode,
			Details: string(raw),
		}}
	}
	if !json.Valid(raw) {
		return transportFailure(errors.New("response body is not valid JSON"))
	}
	return Result{Body: json.RawMessage(raw)}
}

func (c *Client) bearer(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", errors.New("no token source configured")
	}
	return c.tokens.Token(ctx)
}

func transportFailure(err error) Result {
	return Result{Err: &Error{Kind: KindTransport, Message: err.Error()}}
}
