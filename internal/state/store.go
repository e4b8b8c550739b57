package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/huumcli/huum/internal/huumapi"
)

// Snapshot represents the latest device data available to the watch view.
type Snapshot struct {
	Devices             []huumapi.SaunaDevice
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int
}

// IsOffline returns true when the API has been unreachable for multiple
// polls in a row.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update replaces the stored snapshot. When err is non-nil the previous
// device data is kept but the error is recorded for visibility.
func (s *Store) Update(devices []huumapi.SaunaDevice, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Devices = cloneDevices(devices)
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Devices = cloneDevices(s.snapshot.Devices)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneDevices(devices []huumapi.SaunaDevice) []huumapi.SaunaDevice {
	if len(devices) == 0 {
		return nil
	}
	dup := make([]huumapi.SaunaDevice, len(devices))
	copy(dup, devices)
	return dup
}
