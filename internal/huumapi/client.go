package huumapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// API defines the device-session calls the CLI layer consumes. It is
// implemented by *Client and can be faked in tests.
type API interface {
	Status(ctx context.Context) ([]SaunaDevice, error)
	StartSession(ctx context.Context, deviceID string, targetTemperature, durationMinutes int) (RawResponse, error)
	StopSession(ctx context.Context, deviceID string) (RawResponse, error)
	ValidateSession(ctx context.Context) bool
	Statistics(ctx context.Context, deviceID string) ([]TemperatureReading, error)
}

// Ensure Client implements API at compile time.
var _ API = (*Client)(nil)

const (
	defaultUserAgent = "huum/0.1"
	requestTimeout   = 10 * time.Second

	// apiVersion is the fixed version marker some endpoints require.
	apiVersion = "3"

	// DefaultSessionDuration is the heating session length in minutes when
	// the caller does not override it.
	DefaultSessionDuration = 90
)

// Client issues device calls against one base address using an established
// session token. Endpoint fallback is authentication-only; by the time a
// Client exists the address is settled.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	token     string
	userAgent string
	retry     RetryPolicy
	log       *zap.SugaredLogger
	now       func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithRetryPolicy overrides the retry policy applied to device calls.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// WithLogger enables debug request logging.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// NewClient builds a Client for the given base address and session token.
// Call Close when done to release the underlying connections.
func NewClient(baseURL, token string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("session token is empty")
	}
	c := &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		token:     token,
		userAgent: defaultUserAgent,
		retry:     DefaultRetryPolicy,
		log:       zap.NewNop().Sugar(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Close releases idle connections held by the client.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// Status fetches every device visible to the session and returns them in
// server order, no re-sorting.
func (c *Client) Status(ctx context.Context) ([]SaunaDevice, error) {
	var devices []SaunaDevice
	err := c.retry.Do(ctx, func() error {
		raw, err := c.get(ctx, "/action/status", url.Values{"session": {c.token}})
		if err != nil {
			return err
		}
		devs, err := decodeDevices(raw, c.now())
		if err != nil {
			return err
		}
		devices = devs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return devices, nil
}

// StartSession starts a heating session. The vendor start endpoint addresses
// the account's sauna; deviceID is kept for call-site symmetry with Stop.
// The raw response is returned for the caller to interpret (estimated time
// to ready, when present).
func (c *Client) StartSession(ctx context.Context, deviceID string, targetTemperature, durationMinutes int) (RawResponse, error) {
	if durationMinutes <= 0 {
		durationMinutes = DefaultSessionDuration
	}
	start := c.now()
	end := start.Add(time.Duration(durationMinutes) * time.Minute)
	payload := map[string]any{
		"session":           c.token,
		"targetTemperature": targetTemperature,
		"startDate":         start.Unix(),
		"endDate":           end.Unix(),
		"humidity":          0,
	}

	var result RawResponse
	err := c.retry.Do(ctx, func() error {
		raw, err := c.post(ctx, "/action/start", payload)
		if err != nil {
			return err
		}
		return decodeRawResponse(raw, &result)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// StopSession stops the heating session on the given device. The raw
// response may carry a session summary (duration, max temperature).
func (c *Client) StopSession(ctx context.Context, deviceID string) (RawResponse, error) {
	params := url.Values{
		"session": {c.token},
		"version": {apiVersion},
		"saunaId": {deviceID},
	}

	var result RawResponse
	err := c.retry.Do(ctx, func() error {
		raw, err := c.get(ctx, "/action/stop_sauna", params)
		if err != nil {
			return err
		}
		return decodeRawResponse(raw, &result)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ValidateSession reports whether the session token is still accepted.
// Callers treat validity as a boolean gate, so every failure mode collapses
// to false; this call never returns an error.
func (c *Client) ValidateSession(ctx context.Context) bool {
	var valid bool
	err := c.retry.Do(ctx, func() error {
		raw, err := c.get(ctx, "/action/loginwithsession", url.Values{"session": {c.token}})
		if err != nil {
			return err
		}
		var payload struct {
			Valid bool `json:"valid"`
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil
		}
		valid = payload.Valid
		return nil
	})
	if err != nil {
		return false
	}
	return valid
}

// Statistics fetches the current month's temperature samples for a device,
// sorted ascending by timestamp. Malformed entries are dropped individually
// rather than failing the batch.
func (c *Client) Statistics(ctx context.Context, deviceID string) ([]TemperatureReading, error) {
	params := url.Values{
		"session": {c.token},
		"version": {apiVersion},
		"month":   {c.now().Format("2006-01")},
		"saunaId": {deviceID},
	}

	var readings []TemperatureReading
	err := c.retry.Do(ctx, func() error {
		raw, err := c.get(ctx, "/action/get_temperatures", params)
		if err != nil {
			return err
		}
		rs, err := decodeReadings(raw)
		if err != nil {
			return err
		}
		readings = rs
		return nil
	})
	if err != nil {
		return nil, err
	}
	return readings, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	rel := &url.URL{Path: path, RawQuery: params.Encode()}
	return c.do(ctx, http.MethodGet, rel, nil)
}

func (c *Client) post(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	rel := &url.URL{Path: path}
	return c.do(ctx, http.MethodPost, rel, payload)
}

func (c *Client) do(ctx context.Context, method string, rel *url.URL, payload any) (json.RawMessage, error) {
	reqURL := c.baseURL.ResolveReference(rel)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	c.log.Debugw("api request",
		"method", method,
		"path", rel.Path,
		"status", resp.StatusCode,
		"duration", time.Since(started),
		"request_id", requestID,
	)

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("api %s returned status %d", rel.Path, resp.StatusCode)
	}

	raw, err := DecodeJSONP(data, resp.StatusCode)
	if err != nil {
		return nil, err
	}
	if err := checkAPIError(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// decodeDevices walks the status object with a streaming decoder so the
// server-supplied device order survives; unmarshalling into a Go map would
// scramble it.
func decodeDevices(raw json.RawMessage, now time.Time) ([]SaunaDevice, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, &DecodeError{Preview: bodyPreview(raw), Cause: err}
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, &DecodeError{Preview: bodyPreview(raw), Cause: fmt.Errorf("status payload is not an object")}
	}

	var devices []SaunaDevice
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, &DecodeError{Preview: bodyPreview(raw), Cause: err}
		}
		deviceID, ok := keyTok.(string)
		if !ok {
			return nil, &DecodeError{Preview: bodyPreview(raw), Cause: fmt.Errorf("unexpected status key %v", keyTok)}
		}
		var rs rawStatus
		if err := dec.Decode(&rs); err != nil {
			return nil, &DecodeError{Preview: bodyPreview(raw), Cause: fmt.Errorf("device %s: %w", deviceID, err)}
		}
		devices = append(devices, normalizeDevice(deviceID, rs, now))
	}
	return devices, nil
}

func decodeRawResponse(raw json.RawMessage, dest *RawResponse) error {
	result := RawResponse{}
	if err := json.Unmarshal(raw, &result); err != nil {
		return &DecodeError{Preview: bodyPreview(raw), Cause: err}
	}
	*dest = result
	return nil
}

// decodeReadings parses the statistics array entry by entry so one malformed
// sample cannot sink the batch.
func decodeReadings(raw json.RawMessage) ([]TemperatureReading, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, &DecodeError{Preview: bodyPreview(raw), Cause: fmt.Errorf("statistics payload is not an array: %w", err)}
	}

	readings := make([]TemperatureReading, 0, len(entries))
	for _, entry := range entries {
		var rr struct {
			ChangeTime  *flexInt `json:"changeTime"`
			Temperature *flexInt `json:"temperature"`
		}
		if err := json.Unmarshal(entry, &rr); err != nil {
			continue
		}
		if rr.ChangeTime == nil || rr.Temperature == nil {
			continue
		}
		readings = append(readings, TemperatureReading{
			Timestamp:   time.Unix(int64(*rr.ChangeTime), 0),
			Temperature: int(*rr.Temperature),
		})
	}
	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].Timestamp.Before(readings[j].Timestamp)
	})
	return readings, nil
}

func parseBaseURL(base string) (*url.URL, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = DefaultBaseURLs[0]
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", base, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
