package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
)

// Version is the release version, set at build time with
// -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := runContext(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "apidox:", err)
		os.Exit(1)
	}
}
