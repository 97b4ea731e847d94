// the client package is used by the ui handlers to call the childcare API.
//
// One Client is shared by the whole process. It is constructed with a fixed base URL and a
// TokenSource; before each request the token source is asked for the current bearer token and,
// when there is one, it is sent in the Authorization header.
//
// Every failure goes through handleError, which logs the server payload (or the transport
// error) and returns the *ClientError unchanged so callers can render ClientError.UserError().
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/childcare-management/childcare-ui/internal/ui/types"
)

// DefaultTimeout is used when no timeout option is given
const DefaultTimeout = 10 * time.Second

// TokenSource supplies the bearer token for an outgoing request.
// ok is false when the request should be sent unauthenticated.
type TokenSource interface {
	AccessToken(ctx context.Context) (token string, ok bool)
}

// Client handles communication with the childcare API
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *slog.Logger

	Auth          *AuthAPI
	Children      *Resource[types.Child]
	Staff         *Resource[types.Record]
	Attendance    *Resource[types.Record]
	HealthRecords *Resource[types.Record]
	Activities    *Resource[types.Record]
	Billing       *Resource[types.Record]
}

type Option func(*Client)

// WithTimeout sets the timeout of the underlying http.Client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func NewClient(baseURL string, tokens TokenSource, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		tokens: tokens,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Auth = &AuthAPI{client: c}
	c.Children = NewResource[types.Child](c, "/children", nil)
	c.Staff = NewResource[types.Record](c, "/staff", nil)
	c.Attendance = NewResource(c, "/attendance", NormalizeAttendance)
	c.HealthRecords = NewResource[types.Record](c, "/health-records", nil)
	c.Activities = NewResource[types.Record](c, "/activities", nil)
	c.Billing = NewResource[types.Record](c, "/billing", nil)

	return c
}

// BaseURL returns the API endpoint the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends a JSON request to the API and decodes a JSON response into out (if out is not nil).
// Any non-2xx response is returned as a *ClientError.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return c.handleError(ctx, method, path, NewClientInternalError(err, "marshaling request body"))
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return c.handleError(ctx, method, path, NewClientInternalError(err, "creating request"))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.tokens != nil {
		if token, ok := c.tokens.AccessToken(ctx); ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	requestID := middleware.GetReqID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set(middleware.RequestIDHeader, requestID)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleError(ctx, method, path, NewClientConnectionError(err))
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return c.handleError(ctx, method, path, NewClientApiError(res))
	}

	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return c.handleError(ctx, method, path, NewClientConnectionError(err))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		return c.handleError(ctx, method, path, NewClientInternalError(err, "decoding response"))
	}

	return nil
}

// handleError logs the failure and returns it unchanged.
// The server payload is preferred, the transport error message is used when there is no payload.
func (c *Client) handleError(ctx context.Context, method, path string, ce *ClientError) error {
	attrs := []any{
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", ce.StatusCode),
	}
	if requestID := middleware.GetReqID(ctx); requestID != "" {
		attrs = append(attrs, slog.String("request_id", requestID))
	}

	if len(ce.Payload) > 0 {
		attrs = append(attrs, slog.String("payload", string(ce.Payload)))
	} else {
		attrs = append(attrs, slog.String("error", ce.LogMessage))
	}

	c.logger.ErrorContext(ctx, "API error", attrs...)
	return ce
}
