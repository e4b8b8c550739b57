package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/huumcli/huum/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	code := cli.Run(ctx, os.Args[1:])
	cancel()
	os.Exit(code)
}
