package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/huumcli/huum/internal/huumapi"
)

func (e *env) runStart(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("start", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	temperature := fs.Int("temperature", defaultTargetTemperature, "target temperature in Celsius (40-110)")
	fs.IntVar(temperature, "t", defaultTargetTemperature, "target temperature (shorthand)")
	if err := fs.Parse(args); err != nil {
		return usageErrorf("parse start flags: %v", err)
	}

	if !validTemperature(*temperature) {
		return usageErrorf("temperature %d°C is outside the safe range (%d-%d°C)",
			*temperature, minTargetTemperature, maxTargetTemperature)
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
	dev, err := resolveDevice(devices, fs.Arg(0))
	if err != nil {
		return err
	}
	if !dev.Online {
		return &huumapi.DeviceOfflineError{DeviceID: dev.DeviceID, Name: dev.Name}
	}
	if dev.SessionActive {
		return &huumapi.SessionActiveError{DeviceID: dev.DeviceID, Name: dev.Name}
	}

	fmt.Fprintf(e.stdout, "%s\n", boldStyle.Render(fmt.Sprintf("Starting sauna: %s", dev.Name)))
	fmt.Fprintf(e.stdout, "  Target temperature:  %d°C\n", *temperature)
	fmt.Fprintf(e.stdout, "  Current temperature: %d°C\n", dev.CurrentTemperature)

	resp, err := api.StartSession(ctx, dev.DeviceID, *temperature, 0)
	if err != nil {
		return err
	}

	if estimated, ok := resp.Int("estimated_time"); ok {
		fmt.Fprintf(e.stdout, "  Estimated time to ready: ~%d minutes\n", estimated)
	}
	printSuccess(e.stdout, "Session started")
	return nil
}
