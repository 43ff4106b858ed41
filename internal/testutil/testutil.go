// Package testutil provides test helpers and fixtures for nmclean tests.
// Disk fixtures live under t.TempDir(); memory fixtures use afero.MemMapFs.
package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/spf13/afero"
)

// TestFixture holds a filesystem and the root all fixture paths live under
type TestFixture struct {
	T       *testing.T
	Fs      afero.Fs
	RootDir string
	onDisk  bool
}

// NewFixture creates a fixture on the real filesystem, rooted in a temp dir
func NewFixture(t *testing.T) *TestFixture {
	t.Helper()

	return &TestFixture{
		T:       t,
		Fs:      afero.NewOsFs(),
		RootDir: t.TempDir(),
		onDisk:  true,
	}
}

// NewMemFixture creates a fixture backed by an in-memory filesystem
func NewMemFixture(t *testing.T) *TestFixture {
	t.Helper()

	fs := afero.NewMemMapFs()
	root := filepath.FromSlash("/work")
	if err := fs.MkdirAll(root, 0755); err != nil {
		t.Fatalf("failed to create root %s: %v", root, err)
	}

	return &TestFixture{
		T:       t,
		Fs:      fs,
		RootDir: root,
	}
}

// =============================================================================
// File Creation Helpers
// =============================================================================

// CreateFile creates a file of size bytes and returns its path
func (f *TestFixture) CreateFile(relPath string, size int) string {
	f.T.Helper()

	fullPath := f.Path(relPath)
	dir := filepath.Dir(fullPath)

	if err := f.Fs.MkdirAll(dir, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := afero.WriteFile(f.Fs, fullPath, make([]byte, size), 0644); err != nil {
		f.T.Fatalf("failed to create file %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateDir creates a directory and returns its path
func (f *TestFixture) CreateDir(relPath string) string {
	f.T.Helper()

	fullPath := f.Path(relPath)
	if err := f.Fs.MkdirAll(fullPath, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", fullPath, err)
	}

	return fullPath
}

// CreateNodeModules creates project/node_modules holding size bytes spread
// over two packages and returns the node_modules path
func (f *TestFixture) CreateNodeModules(project string, size int) string {
	f.T.Helper()

	nm := filepath.Join(project, "node_modules")
	first := size / 2
	f.CreateFile(filepath.Join(nm, "left-pad", "index.js"), first)
	f.CreateFile(filepath.Join(nm, "@scope", "util", "lib", "util.js"), size-first)
	f.CreateFile(filepath.Join(project, "package.json"), 64)

	return f.Path(nm)
}

// =============================================================================
// Symlink and Permission Helpers (disk fixtures only)
// =============================================================================

// CreateSymlink creates a symbolic link at linkPath pointing at target
func (f *TestFixture) CreateSymlink(target, linkPath string) string {
	f.T.Helper()
	f.requireDisk("symlinks")

	fullLinkPath := f.Path(linkPath)
	if err := os.MkdirAll(filepath.Dir(fullLinkPath), 0755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", fullLinkPath, err)
	}
	if err := os.Symlink(target, fullLinkPath); err != nil {
		f.T.Fatalf("failed to create symlink %s -> %s: %v", fullLinkPath, target, err)
	}

	return fullLinkPath
}

// CreateUnreadableDir creates a directory with a file inside and then drops
// all permissions on it. Permissions are restored on cleanup.
func (f *TestFixture) CreateUnreadableDir(relPath string) string {
	f.T.Helper()
	f.requireDisk("permissions")

	dirPath := f.CreateDir(relPath)
	f.CreateFile(filepath.Join(relPath, "hidden.txt"), 10)
	if err := os.Chmod(dirPath, 0000); err != nil {
		f.T.Fatalf("failed to chmod directory %s: %v", dirPath, err)
	}

	f.T.Cleanup(func() {
		os.Chmod(dirPath, 0755)
	})

	return dirPath
}

func (f *TestFixture) requireDisk(feature string) {
	f.T.Helper()
	if !f.onDisk {
		f.T.Fatalf("%s require a disk fixture", feature)
	}
}

// =============================================================================
// Path and Assertion Helpers
// =============================================================================

// Path returns the full path for a relative path within the fixture
func (f *TestFixture) Path(relPath string) string {
	return filepath.Join(f.RootDir, filepath.FromSlash(relPath))
}

// Exists reports whether path exists (without following a final symlink)
func (f *TestFixture) Exists(path string) bool {
	if lst, ok := f.Fs.(afero.Lstater); ok {
		_, _, err := lst.LstatIfPossible(path)
		return err == nil
	}
	_, err := f.Fs.Stat(path)
	return err == nil
}

// AssertExists fails the test if path doesn't exist
func (f *TestFixture) AssertExists(path string) {
	f.T.Helper()
	if !f.Exists(path) {
		f.T.Errorf("expected %s to exist", path)
	}
}

// AssertNotExists fails the test if path exists
func (f *TestFixture) AssertNotExists(path string) {
	f.T.Helper()
	if f.Exists(path) {
		f.T.Errorf("expected %s to not exist", path)
	}
}

// =============================================================================
// Filesystem Doubles
// =============================================================================

// RecordingFs wraps an afero.Fs, records every RemoveAll call and can inject
// failures per path
type RecordingFs struct {
	afero.Fs

	mu      sync.Mutex
	removed []string
	fail    map[string][]error
}

// NewRecordingFs wraps fs
func NewRecordingFs(fs afero.Fs) *RecordingFs {
	return &RecordingFs{Fs: fs, fail: map[string][]error{}}
}

// FailRemove makes the next len(errs) RemoveAll calls for path return errs in order
func (r *RecordingFs) FailRemove(path string, errs ...error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail[path] = append(r.fail[path], errs...)
}

// RemoveAll records the call, then fails or delegates
func (r *RecordingFs) RemoveAll(path string) error {
	r.mu.Lock()
	r.removed = append(r.removed, path)
	if queued := r.fail[path]; len(queued) > 0 {
		err := queued[0]
		r.fail[path] = queued[1:]
		r.mu.Unlock()
		return err
	}
	r.mu.Unlock()
	return r.Fs.RemoveAll(path)
}

// LstatIfPossible keeps Lstat semantics of the wrapped filesystem visible
func (r *RecordingFs) LstatIfPossible(name string) (os.FileInfo, bool, error) {
	if lst, ok := r.Fs.(afero.Lstater); ok {
		return lst.LstatIfPossible(name)
	}
	fi, err := r.Fs.Stat(name)
	return fi, false, err
}

// Removed returns the paths passed to RemoveAll, in call order
func (r *RecordingFs) Removed() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.removed...)
}

// =============================================================================
// Environment Helpers
// =============================================================================

// IsRoot returns true if running as root/admin
func IsRoot() bool {
	return os.Geteuid() == 0
}

// SkipIfRoot skips the test if running as root
func SkipIfRoot(t *testing.T) {
	t.Helper()
	if IsRoot() {
		t.Skip("skipping test when running as root")
	}
}

// SkipOnWindows skips tests relying on POSIX permissions or symlinks
func SkipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on windows")
	}
}
