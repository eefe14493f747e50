// Package batch runs a per-file job over a directory tree on a bounded
// number of goroutines.
package batch

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/rfjakob/gcmseal/internal/tlog"
)

// Options controls which files are visited and how many at once.
type Options struct {
	// Exclude relative paths, anchored at the top directory
	Exclude []string
	// ExcludeWildcard patterns use gitignore syntax
	ExcludeWildcard []string
	// ExcludeFrom names files that contain ExcludeWildcard-style patterns
	ExcludeFrom []string
	// Jobs is the number of files processed in parallel. Zero means
	// runtime.NumCPU().
	Jobs int
	// Filter, if set, must return true for a file to be processed. It is
	// called with the slash-separated path relative to the top directory.
	Filter func(rel string) bool
}

// JobFunc processes one regular file. "rel" is relative to the top
// directory.
type JobFunc func(ctx context.Context, path string, rel string) error

// Run walks "root" and calls "job" for every regular file that is not
// excluded. The first error cancels the remaining jobs and is returned.
// Run returns the number of files that were processed successfully.
func Run(ctx context.Context, root string, opts Options, job JobFunc) (int, error) {
	excluder, err := prepareExcluder(opts)
	if err != nil {
		return 0, err
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	sem := make(chan struct{}, jobs)
	var done int64

	g, gctx := errgroup.WithContext(ctx)
	// A failed job cancels before it releases its slot, so the walker
	// starts no new jobs after the first error.
	ctx, cancel := context.WithCancel(gctx)
	defer cancel()
	var failOnce sync.Once
	var firstErr error
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if excluder != nil && excluder.MatchesPath(rel) {
			tlog.Debug.Printf("batch: excluding %q", rel)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if opts.Filter != nil && !opts.Filter(rel) {
			return nil
		}
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}
		g.Go(func() error {
			err := job(ctx, path, rel)
			if err != nil {
				failOnce.Do(func() {
					firstErr = err
					cancel()
				})
			}
			<-sem
			if err != nil {
				return err
			}
			atomic.AddInt64(&done, 1)
			return nil
		})
		return nil
	})
	err = g.Wait()
	if firstErr != nil {
		// Jobs started after the error only return ctx.Err()
		err = firstErr
	} else if err == nil {
		err = walkErr
	}
	return int(atomic.LoadInt64(&done)), err
}
