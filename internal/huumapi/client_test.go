package huumapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, "tok-123", WithRetryPolicy(fastRetry))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func TestNewClient_RequiresToken(t *testing.T) {
	t.Parallel()

	if _, err := NewClient("https://sauna.huum.eu", "   "); err == nil {
		t.Fatalf("NewClient accepted empty token, want error")
	}
}

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	t.Parallel()

	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.String() != DefaultBaseURLs[0] {
		t.Fatalf("base = %q, want %q", u.String(), DefaultBaseURLs[0])
	}

	u, err = parseBaseURL("sauna.example.com/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Host != "sauna.example.com" {
		t.Fatalf("url = %q, want https host only", u.String())
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestStatus_DecodesDevicesInServerOrder(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/action/status" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query()
		// Keys deliberately out of lexical order to pin server-order
		// preservation.
		_, _ = w.Write([]byte(`({
			"200456": {"temperature": "72", "targetTemperature": 85, "saunaName": "Backyard", "door": true, "statusCode": 231},
			"100123": {"temperature": 21, "door": true}
		});`))
	})

	devices, err := c.Status(context.Background())
	if err != nil {
		t.Fatalf("Status returned error: %v", err)
	}
	if gotQuery.Get("session") != "tok-123" {
		t.Fatalf("session query = %q, want token", gotQuery.Get("session"))
	}
	if len(devices) != 2 {
		t.Fatalf("devices = %d, want 2", len(devices))
	}
	if devices[0].DeviceID != "200456" || devices[1].DeviceID != "100123" {
		t.Fatalf("device order = %s, %s; want server order 200456, 100123", devices[0].DeviceID, devices[1].DeviceID)
	}
	first := devices[0]
	if first.CurrentTemperature != 72 || !first.SessionActive || first.HeatingState != StateHeating {
		t.Fatalf("first device = %+v, want heating at 72", first)
	}
	if devices[1].Name != "Sauna 100123" {
		t.Fatalf("second device name = %q, want default", devices[1].Name)
	}
}

func TestStartSession_SendsScheduleAndFixedHumidity(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/action/start" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`({"success": true, "estimated_time": 35});`))
	})

	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	resp, err := c.StartSession(context.Background(), "100123", 85, 0)
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}

	if gotBody["session"] != "tok-123" {
		t.Fatalf("session = %v, want token", gotBody["session"])
	}
	if gotBody["targetTemperature"] != float64(85) {
		t.Fatalf("targetTemperature = %v, want 85", gotBody["targetTemperature"])
	}
	if gotBody["humidity"] != float64(0) {
		t.Fatalf("humidity = %v, want 0", gotBody["humidity"])
	}
	startDate := int64(gotBody["startDate"].(float64))
	endDate := int64(gotBody["endDate"].(float64))
	if startDate != now.Unix() {
		t.Fatalf("startDate = %d, want %d", startDate, now.Unix())
	}
	if endDate-startDate != DefaultSessionDuration*60 {
		t.Fatalf("endDate-startDate = %d, want %d", endDate-startDate, DefaultSessionDuration*60)
	}
	if est, ok := resp.Int("estimated_time"); !ok || est != 35 {
		t.Fatalf("estimated_time = %v (%v), want 35", est, ok)
	}
}

func TestStopSession_SendsVersionAndDeviceID(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/action/stop_sauna" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`({"session_duration_minutes": 75, "max_temperature": "92"});`))
	})

	resp, err := c.StopSession(context.Background(), "100123")
	if err != nil {
		t.Fatalf("StopSession returned error: %v", err)
	}
	if gotQuery.Get("session") != "tok-123" || gotQuery.Get("version") != apiVersion || gotQuery.Get("saunaId") != "100123" {
		t.Fatalf("query = %v, want session/version/saunaId", gotQuery)
	}
	if d, ok := resp.Int("session_duration_minutes"); !ok || d != 75 {
		t.Fatalf("session_duration_minutes = %v (%v), want 75", d, ok)
	}
	if m, ok := resp.Int("max_temperature"); !ok || m != 92 {
		t.Fatalf("max_temperature = %v (%v), want numeric string accepted", m, ok)
	}
}

func TestValidateSession_NeverReturnsError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    bool
	}{
		{
			name: "valid session",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`({"valid": true});`))
			},
			want: true,
		},
		{
			name: "invalid session",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`({"valid": false});`))
			},
			want: false,
		},
		{
			name: "missing field defaults to false",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`({});`))
			},
			want: false,
		},
		{
			name: "api error collapses to false",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`({"success": false, "error": "expired"});`))
			},
			want: false,
		},
		{
			name: "server error collapses to false",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			if got := c.ValidateSession(context.Background()); got != tt.want {
				t.Fatalf("ValidateSession = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatistics_SkipsMalformedEntriesAndSorts(t *testing.T) {
	t.Parallel()

	var gotQuery url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/action/get_temperatures" {
			http.NotFound(w, r)
			return
		}
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`([
			{"changeTime": 3000, "temperature": 80},
			{"changeTime": 1000, "temperature": "60"},
			{"changeTime": 2000},
			{"temperature": 70},
			{"changeTime": "oops", "temperature": 75},
			{"changeTime": 2000, "temperature": 65}
		]);`))
	})

	now := time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	readings, err := c.Statistics(context.Background(), "100123")
	if err != nil {
		t.Fatalf("Statistics returned error: %v", err)
	}
	if gotQuery.Get("month") != "2026-03" {
		t.Fatalf("month = %q, want 2026-03", gotQuery.Get("month"))
	}
	if gotQuery.Get("saunaId") != "100123" || gotQuery.Get("version") != apiVersion {
		t.Fatalf("query = %v, want saunaId and version", gotQuery)
	}
	if len(readings) != 3 {
		t.Fatalf("readings = %d, want 3 (malformed entries dropped)", len(readings))
	}
	for i := 1; i < len(readings); i++ {
		if readings[i].Timestamp.Before(readings[i-1].Timestamp) {
			t.Fatalf("readings not sorted ascending: %v", readings)
		}
	}
	if readings[0].Temperature != 60 || readings[2].Temperature != 80 {
		t.Fatalf("readings = %v, want 60 first and 80 last", readings)
	}
}

func TestClient_APIErrorIsNotRetried(t *testing.T) {
	t.Parallel()

	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`({"success": false, "error": "sauna unavailable"});`))
	})

	_, err := c.Status(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "sauna unavailable" {
		t.Fatalf("error = %v, want APIError with server message", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1 (semantic failure is not transient)", calls)
	}
}

func TestClient_TransientServerFailureIsRetriedThenClassified(t *testing.T) {
	t.Parallel()

	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := c.Status(context.Background())
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error = %v, want APIError after retry exhaustion", err)
	}
}

func TestClient_RecoversFromSingleTransientFailure(t *testing.T) {
	t.Parallel()

	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "bad gateway", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`({"100123": {"temperature": 20, "door": true}});`))
	})

	devices, err := c.Status(context.Background())
	if err != nil {
		t.Fatalf("Status returned error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
	if len(devices) != 1 || devices[0].DeviceID != "100123" {
		t.Fatalf("devices = %v, want one device", devices)
	}
}
