package huumapi

import (
	"fmt"
	"time"
)

// Vendor status codes reported by /action/status.
const (
	statusOffline       = 230
	statusHeating       = 231
	statusIdle          = 232
	statusLocked        = 233
	statusEmergencyStop = 400
)

// rawStatus mirrors one per-device entry of the status payload.
type rawStatus struct {
	Temperature       flexInt  `json:"temperature"`
	TargetTemperature *flexInt `json:"targetTemperature"`
	SaunaName         string   `json:"saunaName"`
	Door              bool     `json:"door"`
	EndDate           *flexInt `json:"endDate"`
	StatusCode        *flexInt `json:"statusCode"`
}

// normalizeDevice maps raw status fields onto the canonical device model.
//
// When a status code is present it takes precedence over everything else,
// including the door flag. Without one, an endDate still in the future marks
// an active heating session, and reachability comes straight from the door
// flag (which upstream uses to mean "unit reachable", not literal door
// state).
func normalizeDevice(deviceID string, raw rawStatus, now time.Time) SaunaDevice {
	dev := SaunaDevice{
		DeviceID:           deviceID,
		Name:               raw.SaunaName,
		Online:             raw.Door,
		CurrentTemperature: int(raw.Temperature),
		HeatingState:       StateIdle,
		LastUpdated:        now,
	}
	if dev.Name == "" {
		dev.Name = fmt.Sprintf("Sauna %s", deviceID)
	}
	if raw.TargetTemperature != nil {
		target := int(*raw.TargetTemperature)
		dev.TargetTemperature = &target
	}

	if raw.StatusCode != nil {
		switch int(*raw.StatusCode) {
		case statusOffline:
			dev.HeatingState = StateOffline
			dev.Online = false
			return dev
		case statusHeating:
			dev.HeatingState = StateHeating
			dev.SessionActive = true
			return dev
		case statusIdle:
			dev.HeatingState = StateIdle
			return dev
		case statusLocked:
			dev.HeatingState = StateLocked
			return dev
		case statusEmergencyStop:
			dev.HeatingState = StateStopped
			return dev
		}
		// Unknown codes fall through to the session-window check.
	}

	if raw.EndDate != nil {
		end := time.Unix(int64(*raw.EndDate), 0)
		if end.After(now) {
			dev.HeatingState = StateHeating
			dev.SessionActive = true
		}
	}
	return dev
}
