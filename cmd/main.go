// Package main provides the CLI entrypoint for the unshorten tool. It wires
// the root command, loads configuration and initializes logging before a
// batch run.
package main

import (
	"context"
	"os"
	"unshorten/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	err := newRootCommand().Execute()
	_ = logger.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
