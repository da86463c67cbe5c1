// Package modelapi is the HTTP client for the external forecasting service.
package modelapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/newthinker/pricecast/internal/core"
)

const (
	// DefaultBaseURL is where the forecasting service listens by default.
	DefaultBaseURL = "http://localhost:8001"

	maxErrorBody = 512
)

// Recorder receives one call per request sent to the model service.
// status is 0 when the request never produced a response.
type Recorder interface {
	RecordModelRequest(endpoint string, status int)
}

// TrainResult is whatever the service answers to a training request.
// The service documents nothing beyond a message, so the raw body is kept.
type TrainResult struct {
	Message string          `json:"message,omitempty"`
	Raw     json.RawMessage `json:"raw,omitempty"`
}

// Client talks to the forecasting service.
type Client struct {
	baseURL  string
	client   *http.Client
	recorder Recorder
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithRecorder reports every request to r.
func WithRecorder(r Recorder) Option {
	return func(c *Client) { c.recorder = r }
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, core.WrapError(core.ErrConfigInvalid, fmt.Errorf("invalid model base url %q", baseURL))
	}

	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Train asks the service to (re)train its model. The request has no body.
func (c *Client) Train(ctx context.Context) (*TrainResult, error) {
	body, status, err := c.do(ctx, http.MethodPost, "/train/", "train")
	if err != nil {
		return nil, core.WrapError(core.ErrModelUnavailable, err)
	}
	if status < 200 || status >= 300 {
		return nil, core.WrapError(core.ErrTrainFailed, statusError(status, body))
	}

	result := &TrainResult{}
	if len(body) > 0 {
		result.Raw = json.RawMessage(body)
		// Message is optional; a non-object body is still a success.
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &msg) == nil {
			result.Message = msg.Message
		}
	}
	return result, nil
}

// Predict fetches the historical series and a forecast of the given
// number of days. An error reported by the service is returned inside the
// response with a nil Go error; callers decide how to surface it.
func (c *Client) Predict(ctx context.Context, days int) (*core.PredictionResponse, error) {
	if days < 1 {
		return nil, core.WrapError(core.ErrInvalidHorizon, fmt.Errorf("days must be positive, got %d", days))
	}

	path := "/predict/?" + url.Values{"days": []string{strconv.Itoa(days)}}.Encode()
	body, status, err := c.do(ctx, http.MethodGet, path, "predict")
	if err != nil {
		return nil, core.WrapError(core.ErrModelUnavailable, err)
	}
	if status < 200 || status >= 300 {
		return nil, core.WrapError(core.ErrPredictFailed, statusError(status, body))
	}

	var resp core.PredictionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, core.WrapError(core.ErrPredictFailed, fmt.Errorf("decoding response: %w", err))
	}
	if resp.HasError() {
		return &core.PredictionResponse{Error: resp.Error}, nil
	}
	if err := resp.Validate(); err != nil {
		return nil, core.WrapError(core.ErrPredictFailed, err)
	}
	return &resp, nil
}

// Ping checks that the service answers on its root path.
func (c *Client) Ping(ctx context.Context) error {
	body, status, err := c.do(ctx, http.MethodGet, "/", "ping")
	if err != nil {
		return core.WrapError(core.ErrModelUnavailable, err)
	}
	if status != http.StatusOK {
		return core.WrapError(core.ErrModelUnavailable, statusError(status, body))
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path, endpoint string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		c.record(endpoint, 0)
		return nil, 0, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	c.record(endpoint, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("reading response: %w", err)
	}
	return body, resp.StatusCode, nil
}

func (c *Client) record(endpoint string, status int) {
	if c.recorder != nil {
		c.recorder.RecordModelRequest(endpoint, status)
	}
}

func statusError(status int, body []byte) error {
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody] + "..."
	}
	if text == "" {
		return fmt.Errorf("model service returned %d", status)
	}
	return fmt.Errorf("model service returned %d: %s", status, text)
}
