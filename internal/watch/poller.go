package watch

import (
	"context"
	"time"

	"github.com/huumcli/huum/internal/huumapi"
	"github.com/huumcli/huum/internal/state"
)

// DefaultPollInterval is the refresh cadence when the caller does not
// override it.
const DefaultPollInterval = 5 * time.Second

// StartPoller launches a background goroutine that refreshes the store at a
// fixed cadence. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, client huumapi.API, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			refresh(ctx, store, client)
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

func refresh(ctx context.Context, store *state.Store, client huumapi.API) {
	devices, err := client.Status(ctx)
	if err != nil {
		store.Update(nil, err)
		return
	}
	store.Update(devices, nil)
}
