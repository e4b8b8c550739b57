package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/huumcli/huum/internal/huumapi"
)

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	var s Store

	devices := []huumapi.SaunaDevice{
		{DeviceID: "100123", Name: "Backyard"},
		{DeviceID: "200456", Name: "Cabin"},
	}

	before := time.Now()
	s.Update(devices, nil)

	snap := s.Snapshot()
	if len(snap.Devices) != 2 || snap.Devices[0].DeviceID != "100123" {
		t.Fatalf("snapshot devices = %#v, want 2 devices", snap.Devices)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Devices[0].DeviceID = "999"
	snap2 := s.Snapshot()
	if snap2.Devices[0].DeviceID != "100123" {
		t.Fatalf("Snapshot should clone devices; got id %s want 100123", snap2.Devices[0].DeviceID)
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update([]huumapi.SaunaDevice{{DeviceID: "100123"}}, nil)

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(nil, origErr)

	snap := s.Snapshot()
	if len(snap.Devices) != 1 || snap.Devices[0].DeviceID != "100123" {
		t.Fatalf("devices changed on error: got %#v", snap.Devices)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("fresh store = %d failures offline=%v, want 0/false", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Update(nil, errors.New("fail 1"))
	if snap = s.Snapshot(); snap.ConsecutiveFailures != 1 || snap.IsOffline() {
		t.Fatalf("after 1 failure = %d offline=%v, want 1/false", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Update(nil, errors.New("fail 2"))
	if snap = s.Snapshot(); snap.ConsecutiveFailures != 2 || !snap.IsOffline() {
		t.Fatalf("after 2 failures = %d offline=%v, want 2/true", snap.ConsecutiveFailures, snap.IsOffline())
	}

	s.Update([]huumapi.SaunaDevice{{DeviceID: "100123"}}, nil)
	if snap = s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("after success = %d offline=%v, want 0/false", snap.ConsecutiveFailures, snap.IsOffline())
	}
}
