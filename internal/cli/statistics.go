package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/huumcli/huum/internal/huumapi"
)

func (e *env) runStatistics(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("statistics", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	all := fs.Bool("all", false, "show the whole current month instead of the last 24 hours")
	graph := fs.Bool("graph", false, "render a temperature graph instead of a table")
	if err := fs.Parse(args); err != nil {
		return usageErrorf("parse statistics flags: %v", err)
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

	deviceID := fs.Arg(0)
	if deviceID == "" {
		devices, err := api.Status(ctx)
		if err != nil {
			return err
		}
		if len(devices) == 0 {
			fmt.Fprintln(e.stdout, "No sauna devices found.")
			return nil
		}
		deviceID = devices[0].DeviceID
		fmt.Fprintf(e.stdout, "Showing statistics for device: %s\n", deviceID)
	}

	readings, err := api.Statistics(ctx, deviceID)
	if err != nil {
		return err
	}
	if !*all {
		readings = readingsSince(readings, e.now().Add(-24*time.Hour))
	}

	if len(readings) == 0 {
		period := "the last 24 hours"
		if *all {
			period = "the current month"
		}
		fmt.Fprintf(e.stdout, "No statistics found for this device for %s.\n", period)
		return nil
	}

	period := "24-Hour"
	if *all {
		period = "Monthly"
	}
	title := fmt.Sprintf("%s Temperature Statistics for %s", period, deviceID)

	if *graph {
		fmt.Fprintln(e.stdout, readingsGraph(title, readings))
	} else {
		fmt.Fprintln(e.stdout, readingsTable(title, readings))
	}
	return nil
}

// readingsSince keeps samples at or after cutoff. Input is already sorted
// ascending, so the output stays sorted.
func readingsSince(readings []huumapi.TemperatureReading, cutoff time.Time) []huumapi.TemperatureReading {
	kept := make([]huumapi.TemperatureReading, 0, len(readings))
	for _, r := range readings {
		if !r.Timestamp.Before(cutoff) {
			kept = append(kept, r)
		}
	}
	return kept
}
