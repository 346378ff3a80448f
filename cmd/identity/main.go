// Package main is the entry point for the identity service CLI.
package main

import (
	"log/slog"
	"os"
)

func main() {
	logOpts := &slog.HandlerOptions{Level: slog.LevelInfo}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
