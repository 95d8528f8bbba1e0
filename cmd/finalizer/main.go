// Package main runs one auction finalization pass.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	finalizercmd "github.com/louisbranch/gruppetto/internal/cmd/finalizer"
)

func main() {
	cfg, err := finalizercmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[FINALIZER] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := finalizercmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to finalize: %v", err)
	}
}
