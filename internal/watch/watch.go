// Package watch implements the live status dashboard. A background poller
// refreshes a shared snapshot store while a small bubbletea program renders
// it; quitting the program never blocks on an in-flight poll.
package watch

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/huumcli/huum/internal/huumapi"
	"github.com/huumcli/huum/internal/state"
)

// Run polls device status at the given interval and renders it until the
// user quits or the context is cancelled.
func Run(ctx context.Context, client huumapi.API, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	store := &state.Store{}
	StartPoller(ctx, store, client, interval)

	program := tea.NewProgram(newModel(store, interval), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run watch view: %w", err)
	}
	return nil
}
