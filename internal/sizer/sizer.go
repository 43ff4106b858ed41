// Package sizer computes the total on-disk size of directory trees.
package sizer

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/spf13/afero"

	"github.com/fenilsonani/nmclean/internal/logger"
)

// Measured is the size of one directory tree
type Measured struct {
	Path      string
	SizeBytes uint64
	// Skipped counts entries that could not be read and contributed 0
	Skipped int
}

// DirSize sums the apparent size of every regular file under path. Symbolic
// links are leaves and count for nothing. Unreadable entries contribute 0.
func DirSize(fs afero.Fs, path string) (size uint64, skipped int) {
	afero.Walk(fs, path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			skipped++
			logger.Debug().Err(err).Str("path", p).Msg("size: skipping unreadable entry")
			return nil
		}
		if info.Mode().IsRegular() && info.Size() > 0 {
			size += uint64(info.Size())
		}
		return nil
	})
	return size, skipped
}

// Aggregator measures many trees concurrently on a bounded goroutine pool
type Aggregator struct {
	fs      afero.Fs
	workers int
}

// New creates an Aggregator. workers <= 0 means one worker per CPU.
func New(fs afero.Fs, workers int) *Aggregator {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Aggregator{fs: fs, workers: workers}
}

// Workers returns the pool size
func (a *Aggregator) Workers() int {
	return a.workers
}

// Aggregate measures every path and returns the results in input order.
// onDone, when set, is called after each path finishes; calls may come from
// several goroutines but are serialized.
func (a *Aggregator) Aggregate(paths []string, onDone func(done, total int)) ([]Measured, error) {
	results := make([]Measured, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	pool, err := ants.NewPool(a.workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)

	for i, path := range paths {
		i, path := i, path
		wg.Add(1)
		task := func() {
			defer wg.Done()
			size, skipped := DirSize(a.fs, path)
			results[i] = Measured{Path: path, SizeBytes: size, Skipped: skipped}

			if onDone != nil {
				mu.Lock()
				done++
				onDone(done, len(paths))
				mu.Unlock()
			}
		}
		if err := pool.Submit(task); err != nil {
			// The pool is never closed while submitting; run inline rather than lose the slot.
			logger.Warn().Err(err).Str("path", path).Msg("worker pool rejected task, measuring inline")
			task()
		}
	}

	wg.Wait()
	return results, nil
}
