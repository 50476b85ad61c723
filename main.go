package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"embedding-indexer/bootstrap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bootstrap.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "embedding-indexer: %v\n", err)
		os.Exit(1)
	}
}
