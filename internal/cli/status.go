package cli

import (
	"context"
	"fmt"
)

func (e *env) runStatus(ctx context.Context, args []string) error {
	if len(args) > 0 {
		return usageErrorf("status takes no arguments")
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
	if len(devices) == 0 {
		fmt.Fprintln(e.stdout, "No sauna devices found.")
		return nil
	}

	fmt.Fprintln(e.stdout, statusTable(devices))
	return nil
}
