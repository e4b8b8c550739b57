package cli

import (
	"context"
	"fmt"

	"github.com/huumcli/huum/internal/huumapi"
)

func (e *env) runStop(ctx context.Context, args []string) error {
	if len(args) > 1 {
		return usageErrorf("usage: huum stop [device]")
	}
	selector := ""
	if len(args) == 1 {
		selector = args[0]
	}

	creds, err := e.session(ctx)
	if err != nil {
		return err
	}

	api, release, err := e.newAPI(creds.Session)
	if err != nil {
		return err
	}
	defer release()

	devices, err := api.Status(ctx)
	if err != nil {
		return err
	}
	dev, err := resolveDevice(devices, selector)
	if err != nil {
		return err
	}
	if !dev.Online {
		return &huumapi.DeviceOfflineError{DeviceID: dev.DeviceID, Name: dev.Name}
	}
	if !dev.SessionActive {
		fmt.Fprintf(e.stdout, "No active session for device %q.\n", dev.Name)
		return nil
	}

	fmt.Fprintf(e.stdout, "%s\n", boldStyle.Render(fmt.Sprintf("Stopping sauna: %s", dev.Name)))

	resp, err := api.StopSession(ctx, dev.DeviceID)
	if err != nil {
		return err
	}

	duration, hasDuration := resp.Int("session_duration_minutes")
	maxTemp, hasMax := resp.Int("max_temperature")
	if hasDuration || hasMax {
		fmt.Fprintln(e.stdout, boldStyle.Render("Session summary:"))
		if hasDuration {
			if hours := duration / 60; hours > 0 {
				fmt.Fprintf(e.stdout, "  Duration: %d hour(s) %d minute(s)\n", hours, duration%60)
			} else {
				fmt.Fprintf(e.stdout, "  Duration: %d minute(s)\n", duration)
			}
		}
		if hasMax {
			fmt.Fprintf(e.stdout, "  Max temperature reached: %d°C\n", maxTemp)
		}
	}
	printSuccess(e.stdout, "Session stopped")
	return nil
}
