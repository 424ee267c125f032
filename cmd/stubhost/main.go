package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/reglet-dev/stubhost/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cmd := cli.NewRootCommand(os.Stdout, os.Stderr)
	cmd.SetContext(ctx)
	code := cli.Execute(cmd)

	stop()
	os.Exit(code)
}
