package huumapi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// HeatingState enumerates the canonical device operating conditions.
type HeatingState string

const (
	StateIdle    HeatingState = "idle"
	StateHeating HeatingState = "heating"
	StateReady   HeatingState = "ready" // reserved by the vendor scheme
	StateStopped HeatingState = "stopped"
	StateOffline HeatingState = "offline"
	StateLocked  HeatingState = "locked"
)

// SaunaDevice is a snapshot of one physical unit, built fresh on every status
// poll and never mutated afterwards.
type SaunaDevice struct {
	DeviceID           string
	Name               string
	Online             bool
	CurrentTemperature int
	TargetTemperature  *int
	HeatingState       HeatingState
	SessionActive      bool
	LastUpdated        time.Time
}

// AuthCredentials is the outcome of a successful login. The session token is
// an opaque bearer credential required on every subsequent call.
type AuthCredentials struct {
	Session   string    `toml:"session"`
	UserID    string    `toml:"user_id"`
	Email     string    `toml:"email"`
	CreatedAt time.Time `toml:"created_at"`
}

// TemperatureReading is one historical sample from the statistics endpoint.
type TemperatureReading struct {
	Timestamp   time.Time
	Temperature int
}

// RawResponse is a decoded server payload handed back to the caller for
// interpretation; start/stop responses carry optional advisory fields the
// core does not model.
type RawResponse map[string]any

// Int extracts an integer field, tolerating the number-or-numeric-string
// inconsistency of the wire format.
func (r RawResponse) Int(key string) (int, bool) {
	switch v := r[key].(type) {
	case float64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// String extracts a string field.
func (r RawResponse) String(key string) (string, bool) {
	s, ok := r[key].(string)
	return s, ok
}

// flexInt decodes wire fields that arrive either as JSON numbers or as
// numeric strings. The Huum API mixes both, sometimes within one payload.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	text := strings.TrimSpace(string(data))
	if text == "null" {
		return nil
	}
	text = strings.Trim(text, `"`)
	if text == "" {
		return fmt.Errorf("empty numeric field")
	}
	n, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return fmt.Errorf("parse numeric field %q: %w", text, err)
	}
	*f = flexInt(n)
	return nil
}
