package cli

import (
	"github.com/huumcli/huum/internal/huumapi"
)

// Safe operating range enforced before any start call reaches the API.
const (
	minTargetTemperature     = 40
	maxTargetTemperature     = 110
	defaultTargetTemperature = 85
)

func validTemperature(temperature int) bool {
	return temperature >= minTargetTemperature && temperature <= maxTargetTemperature
}

// resolveDevice picks the target device. An empty selector auto-selects when
// exactly one device exists; otherwise the selector must match a device id
// or name.
func resolveDevice(devices []huumapi.SaunaDevice, selector string) (huumapi.SaunaDevice, error) {
	if len(devices) == 0 {
		return huumapi.SaunaDevice{}, usageErrorf("no sauna devices found for your account")
	}
	if selector == "" {
		if len(devices) == 1 {
			return devices[0], nil
		}
		return huumapi.SaunaDevice{}, usageErrorf(
			"multiple devices found (%d); specify a device id. Run 'huum status' to see devices", len(devices))
	}
	for _, dev := range devices {
		if dev.DeviceID == selector || dev.Name == selector {
			return dev, nil
		}
	}
	return huumapi.SaunaDevice{}, usageErrorf("device %q not found", selector)
}
