//go:build !pprof

package main

import (
	"context"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func pprof_init(_ context.Context, _ *cli.Command, _ *zap.Logger) {
	// pprof is only compiled in with the pprof build tag
}
