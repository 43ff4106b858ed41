// Package cleaner permanently deletes the target directories chosen by the
// operator, one independent attempt per entry.
package cleaner

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/afero"

	"github.com/fenilsonani/nmclean/internal/catalog"
	"github.com/fenilsonani/nmclean/internal/logger"
	"github.com/fenilsonani/nmclean/internal/scanner"
	"github.com/fenilsonani/nmclean/internal/security"
)

// DefaultRetryDelays is the backoff used for transient failures
var DefaultRetryDelays = []time.Duration{
	100 * time.Millisecond,
	500 * time.Millisecond,
	2 * time.Second,
}

// Backoff returns the first n retry delays, repeating the last one if n
// exceeds DefaultRetryDelays. n <= 0 disables retries.
func Backoff(n int) []time.Duration {
	if n <= 0 {
		return nil
	}
	delays := make([]time.Duration, n)
	for i := range delays {
		if i < len(DefaultRetryDelays) {
			delays[i] = DefaultRetryDelays[i]
		} else {
			delays[i] = DefaultRetryDelays[len(DefaultRetryDelays)-1]
		}
	}
	return delays
}

// Options configures a Cleaner
type Options struct {
	// Target is the required base name of every deleted directory.
	// Empty means scanner.TargetName.
	Target string
	// ProtectedPaths are added to security.DefaultProtectedPaths
	ProtectedPaths []string
	// RetryDelays are slept between attempts on a transient failure.
	// Nil means a single attempt.
	RetryDelays []time.Duration
}

// Result is the outcome of deleting one entry. Err is nil on success.
type Result struct {
	Entry catalog.Entry
	Err   *DeletionError
}

// Report summarizes a Delete call
type Report struct {
	Results    []Result
	Deleted    int
	Failed     int
	FreedBytes uint64
}

// Errors returns the failures in the order they happened
func (r *Report) Errors() []*DeletionError {
	var errs []*DeletionError
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errs
}

// Cleaner deletes target directories with safeguards
type Cleaner struct {
	fs        afero.Fs
	validator *security.PathValidator
	delays    []time.Duration
	sleep     func(time.Duration)
}

// New creates a new Cleaner
func New(fs afero.Fs, opts Options) *Cleaner {
	if opts.Target == "" {
		opts.Target = scanner.TargetName
	}
	return &Cleaner{
		fs:        fs,
		validator: security.NewPathValidator(opts.Target, opts.ProtectedPaths...),
		delays:    opts.RetryDelays,
		sleep:     time.Sleep,
	}
}

// Delete removes every entry in order. A failure never stops the remaining
// entries and nothing is rolled back. onResult, when set, is called after
// each attempt.
func (c *Cleaner) Delete(entries []catalog.Entry, onResult func(Result)) *Report {
	report := &Report{Results: make([]Result, 0, len(entries))}

	for _, entry := range entries {
		res := Result{Entry: entry, Err: c.deleteWithRetry(entry.Path)}

		if res.Err == nil {
			report.Deleted++
			report.FreedBytes += entry.SizeBytes
			logger.Info().Str("path", entry.Path).Uint64("bytes", entry.SizeBytes).Msg("deleted")
		} else {
			report.Failed++
			logger.Warn().Err(res.Err.Original).Str("path", entry.Path).Str("reason", res.Err.Reason.String()).Msg("delete failed")
		}

		report.Results = append(report.Results, res)
		if onResult != nil {
			onResult(res)
		}
	}

	return report
}

// deleteWithRetry attempts a delete, retrying transient errors
func (c *Cleaner) deleteWithRetry(path string) *DeletionError {
	lastErr := c.deleteOne(path)

	for attempt := 0; lastErr != nil && lastErr.Retryable && attempt < len(c.delays); attempt++ {
		logger.Debug().Str("path", path).Int("attempt", attempt+1).Msg("retrying delete")
		c.sleep(c.delays[attempt])
		lastErr = c.deleteOne(path)
	}

	return lastErr
}

func (c *Cleaner) deleteOne(path string) *DeletionError {
	if err := c.validator.ValidatePathForDeletion(path); err != nil {
		return &DeletionError{Path: path, Reason: ErrorInvalidPath, Original: err}
	}

	// Lstat so a vanished entry is reported instead of silently succeeding
	// and a swapped-in symlink is never followed.
	info, err := lstat(c.fs, path)
	if err != nil {
		return CategorizeError(path, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return CategorizeError(path, ErrSymlink)
	}
	if !info.IsDir() {
		return &DeletionError{Path: path, Reason: ErrorNotDirectory, Original: fmt.Errorf("not a directory")}
	}

	if err := c.fs.RemoveAll(path); err != nil {
		return CategorizeError(path, err)
	}
	return nil
}

func lstat(fs afero.Fs, path string) (os.FileInfo, error) {
	if lst, ok := fs.(afero.Lstater); ok {
		info, _, err := lst.LstatIfPossible(path)
		return info, err
	}
	return fs.Stat(path)
}
