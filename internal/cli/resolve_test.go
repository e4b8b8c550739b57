package cli

import (
	"errors"
	"testing"

	"github.com/huumcli/huum/internal/huumapi"
)

func TestResolveDevice(t *testing.T) {
	t.Parallel()

	one := onlineDevice("100123")
	two := onlineDevice("200456")
	two.Name = "Backyard"

	tests := []struct {
		name     string
		devices  []huumapi.SaunaDevice
		selector string
		wantID   string
		wantErr  bool
	}{
		{"auto-select single device", []huumapi.SaunaDevice{one}, "", "100123", false},
		{"empty selector with many devices", []huumapi.SaunaDevice{one, two}, "", "", true},
		{"match by id", []huumapi.SaunaDevice{one, two}, "200456", "200456", false},
		{"match by name", []huumapi.SaunaDevice{one, two}, "Backyard", "200456", false},
		{"no match", []huumapi.SaunaDevice{one, two}, "300789", "", true},
		{"no devices at all", nil, "100123", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev, err := resolveDevice(tt.devices, tt.selector)
			if tt.wantErr {
				var usageErr *usageError
				if !errors.As(err, &usageErr) {
					t.Fatalf("resolveDevice error = %v, want usage error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolveDevice returned error: %v", err)
			}
			if dev.DeviceID != tt.wantID {
				t.Fatalf("DeviceID = %q, want %q", dev.DeviceID, tt.wantID)
			}
		})
	}
}

func TestValidTemperature(t *testing.T) {
	t.Parallel()

	tests := []struct {
		temperature int
		want        bool
	}{
		{39, false},
		{40, true},
		{85, true},
		{110, true},
		{111, false},
		{-5, false},
	}
	for _, tt := range tests {
		if got := validTemperature(tt.temperature); got != tt.want {
			t.Errorf("validTemperature(%d) = %v, want %v", tt.temperature, got, tt.want)
		}
	}
}
