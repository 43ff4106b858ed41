package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/fenilsonani/nmclean/internal/logger"
)

// TargetName is the directory name the scanner looks for
const TargetName = "node_modules"

// progressEvery controls how often (in visited directories) progress is reported
const progressEvery = 256

// ProgressCallback is called during scanning to report progress
type ProgressCallback func(visited, found int)

// Options configures a Scanner
type Options struct {
	// Target is the directory base name to match. Empty means TargetName.
	Target string
	// Exclude holds glob patterns matched against a directory's base name
	// and its full path. Matching directories are not descended.
	Exclude []string
	// OnProgress, when set, receives periodic progress updates
	OnProgress ProgressCallback
}

// Skipped records a subtree the scanner could not read
type Skipped struct {
	Path string
	Err  error
}

// Result represents the result of a scan
type Result struct {
	Root    string
	Paths   []string
	Skipped []Skipped
	Visited int
	Elapsed time.Duration
}

// Scanner finds target directories beneath a root without descending into them
type Scanner struct {
	fs   afero.Fs
	opts Options
}

// New creates a new Scanner over fs
func New(fs afero.Fs, opts Options) *Scanner {
	if opts.Target == "" {
		opts.Target = TargetName
	}
	return &Scanner{fs: fs, opts: opts}
}

// Target returns the directory name this scanner matches
func (s *Scanner) Target() string {
	return s.opts.Target
}

// Scan walks root and returns every target directory found. Symbolic links
// are never followed. Unreadable subtrees are skipped and listed in
// Result.Skipped; only an unusable root is an error.
func (s *Scanner) Scan(root string) (*Result, error) {
	start := time.Now()
	root = filepath.Clean(root)

	info, err := lstat(s.fs, root)
	if err != nil {
		return nil, fmt.Errorf("cannot scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cannot scan %s: not a directory", root)
	}

	result := &Result{Root: root}

	walkErr := afero.Walk(s.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			result.Skipped = append(result.Skipped, Skipped{Path: path, Err: err})
			logger.Debug().Err(err).Str("path", path).Msg("skipping unreadable path")
			return nil
		}

		// Walk uses Lstat, so a symlink to a directory is not a directory here.
		if !info.IsDir() {
			return nil
		}

		result.Visited++

		if info.Name() == s.opts.Target {
			result.Paths = append(result.Paths, path)
			s.report(result)
			return filepath.SkipDir
		}

		if path != root && s.excluded(path, info.Name()) {
			logger.Debug().Str("path", path).Msg("excluded from scan")
			return filepath.SkipDir
		}

		if result.Visited%progressEvery == 0 {
			s.report(result)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scan of %s failed: %w", root, walkErr)
	}

	result.Elapsed = time.Since(start)
	s.report(result)

	logger.Debug().
		Str("root", root).
		Int("visited", result.Visited).
		Int("found", len(result.Paths)).
		Int("skipped", len(result.Skipped)).
		Dur("elapsed", result.Elapsed).
		Msg("scan complete")

	return result, nil
}

func (s *Scanner) excluded(path, name string) bool {
	for _, pattern := range s.opts.Exclude {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

func (s *Scanner) report(result *Result) {
	if s.opts.OnProgress != nil {
		s.opts.OnProgress(result.Visited, len(result.Paths))
	}
}

// lstat stats path without following a final symlink when fs supports it
func lstat(fs afero.Fs, path string) (os.FileInfo, error) {
	if lst, ok := fs.(afero.Lstater); ok {
		info, _, err := lst.LstatIfPossible(path)
		return info, err
	}
	return fs.Stat(path)
}
