package security

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultProtectedPaths are never deleted, nor anything directly beneath them
var DefaultProtectedPaths = []string{
	// Unix system directories
	"/",
	"/bin",
	"/boot",
	"/dev",
	"/etc",
	"/lib",
	"/lib64",
	"/proc",
	"/root",
	"/sbin",
	"/sys",
	"/usr",
	"/var",
	// macOS system directories
	"/System",
	"/Applications",
	"/Library/System",
}

// PathValidator checks that a path is a deletable target directory
type PathValidator struct {
	target         string
	protectedPaths []string
}

// NewPathValidator creates a PathValidator for directories named target,
// protecting the default system paths plus any extra paths given.
func NewPathValidator(target string, extra ...string) *PathValidator {
	pv := &PathValidator{
		target:         target,
		protectedPaths: append([]string{}, DefaultProtectedPaths...),
	}
	for _, p := range extra {
		pv.AddProtectedPath(p)
	}
	return pv
}

// ValidatePathForDeletion is the single gate every path passes before removal.
// It only inspects the path string; the caller re-checks the filesystem.
func (pv *PathValidator) ValidatePathForDeletion(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute: %s", path)
	}

	// A path that changes when cleaned carries "..", "//" or a trailing slash.
	cleanPath := filepath.Clean(path)
	if cleanPath != path {
		return fmt.Errorf("path contains suspicious elements: %s", path)
	}

	if strings.ContainsAny(cleanPath, "\x00\n\r") {
		return fmt.Errorf("path contains control characters: %q", cleanPath)
	}

	if pv.target != "" && filepath.Base(cleanPath) != pv.target {
		return fmt.Errorf("refusing to delete %s: not a %s directory", cleanPath, pv.target)
	}

	return pv.checkProtectedPaths(cleanPath)
}

// checkProtectedPaths validates that a path is not in a protected system directory
func (pv *PathValidator) checkProtectedPaths(cleanPath string) error {
	for _, protected := range pv.protectedPaths {
		if cleanPath == protected {
			return fmt.Errorf("refusing to delete protected path: %s", cleanPath)
		}

		if protected == "/" {
			continue
		}

		// /usr/node_modules is refused, /usr/local/app/node_modules is not.
		if strings.HasPrefix(cleanPath, protected+string(filepath.Separator)) {
			rel, _ := filepath.Rel(protected, cleanPath)
			if !strings.Contains(rel, string(filepath.Separator)) {
				return fmt.Errorf("refusing to delete critical system path: %s", cleanPath)
			}
		}
	}

	return nil
}

// IsProtectedPath checks if a path is a protected path or lies beneath one
// other than "/"
func (pv *PathValidator) IsProtectedPath(path string) bool {
	cleanPath := filepath.Clean(path)
	for _, protected := range pv.protectedPaths {
		if cleanPath == protected {
			return true
		}
		if protected != "/" && strings.HasPrefix(cleanPath, protected+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// AddProtectedPath adds a custom protected path
func (pv *PathValidator) AddProtectedPath(path string) {
	if path == "" {
		return
	}
	pv.protectedPaths = append(pv.protectedPaths, filepath.Clean(path))
}

// ValidateGlobPattern validates that a glob pattern is safe
func ValidateGlobPattern(pattern string) error {
	if strings.Contains(pattern, "..") {
		return fmt.Errorf("glob pattern contains directory traversal: %s", pattern)
	}

	// Try to match the pattern to ensure it's valid
	_, err := filepath.Match(pattern, "test")
	if err != nil {
		return fmt.Errorf("invalid glob pattern: %w", err)
	}

	return nil
}
