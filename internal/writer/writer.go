// Package writer materializes a pull write plan on disk. Each write is
// independent and addressed by its own path, so the files are written by a
// bounded worker pool; completion order does not affect the result.
package writer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/clasp-sub000/internal/types"
	"golang.org/x/sync/errgroup"
)

const dirPerm = 0755

// Apply writes every planned file under projectDir, creating intermediate
// directories as needed. concurrency bounds the worker pool; values below 1
// are treated as 1. The first failing write cancels the rest and is
// returned.
func Apply(ctx context.Context, projectDir string, writes []types.LocalFileWrite, concurrency int) error {
	if concurrency < 1 {
		concurrency = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, w := range writes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("pull cancelled: %w", err)
			}

			path := filepath.Join(projectDir, w.Path)
			if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
				return fmt.Errorf("creating directory for %s: %w", w.Path, err)
			}
			if err := os.WriteFile(path, []byte(w.Source), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", w.Path, err)
			}
			return nil
		})
	}

	return g.Wait()
}
