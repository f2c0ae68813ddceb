package apiserver

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Runner is a server that blocks until ctx is done or it fails.
type Runner interface {
	Run(ctx context.Context) error
}

// RunAll runs every server until ctx is done. The first server to fail stops the
// others and its error is returned.
func RunAll(ctx context.Context, runners ...Runner) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, r := range runners {
		g.Go(func() error {
			return r.Run(gctx)
		})
	}
	return g.Wait()
}
