package assets

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Verify decodes every path without touching the GPU. report, if set, is
// called once per path as it finishes, from a single goroutine at a time.
// The returned error joins every failure; cancelling ctx stops early.
func Verify(ctx context.Context, paths []string, workers int, report func(path string, err error)) error {
	if workers <= 0 {
		workers = 4
	}
	var g errgroup.Group
	g.SetLimit(workers)

	var (
		mu   sync.Mutex
		errs []error
	)
	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			_, err := DecodeFile(path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
			}
			if report != nil {
				report(path, err)
			}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
