package cli

import (
	"context"
	"flag"
	"time"

	"github.com/huumcli/huum/internal/huumapi"
	"github.com/huumcli/huum/internal/watch"
)

func (e *env) runWatch(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	interval := fs.Int("interval", int(watch.DefaultPollInterval/time.Second), "refresh interval in seconds")
	if err := fs.Parse(args); err != nil {
		return usageErrorf("parse watch flags: %v", err)
	}

	creds, err := e.session(ctx)
	if err != nil {
		return err
	}

	// The watch loop supplies its own cadence; a failed poll shows up on
	// the next tick, so per-call retry would only add lag.
	api, release, err := e.newAPI(creds.Session, huumapi.WithRetryPolicy(huumapi.RetryPolicy{
		MaxAttempts:     1,
		InitialInterval: time.Second,
		MaxInterval:     time.Second,
	}))
	if err != nil {
		return err
	}
	defer release()

	return watch.Run(ctx, api, time.Duration(*interval)*time.Second)
}
