package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"Topup-Lunite/config"
	"Topup-Lunite/internal/cli"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// Ctrl-C cancels the running flow instead of killing the process mid-write
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(cfg).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "lunite:", err)
		stop()
		os.Exit(1)
	}
}
