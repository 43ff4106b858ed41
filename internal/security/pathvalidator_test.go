package security

import (
	"strings"
	"testing"
)

func TestValidatePathForDeletion(t *testing.T) {
	pv := NewPathValidator("node_modules", "/home/dev/keep")

	tests := []struct {
		name        string
		path        string
		shouldError bool
		errorMsg    string
	}{
		{"project node_modules", "/home/dev/app/node_modules", false, ""},
		{"deep node_modules", "/tmp/a/b/c/node_modules", false, ""},
		{"path with spaces and parens", "/home/dev/my app (copy)/node_modules", false, ""},
		{"relative path", "app/node_modules", true, "path must be absolute"},
		{"empty path", "", true, "path must be absolute"},
		{"dot segments", "/home/dev/../dev/app/node_modules", true, "suspicious elements"},
		{"double slashes", "/home//dev/node_modules", true, "suspicious elements"},
		{"trailing slash", "/home/dev/app/node_modules/", true, "suspicious elements"},
		{"newline", "/home/dev/app\n/node_modules", true, "control characters"},
		{"wrong base name", "/home/dev/app/src", true, "not a node_modules directory"},
		{"nested file", "/home/dev/app/node_modules/react", true, "not a node_modules directory"},
		{"root", "/", true, "not a node_modules directory"},
		{"directly under usr", "/usr/node_modules", true, "critical system path"},
		{"directly under etc", "/etc/node_modules", true, "critical system path"},
		{"deep under usr", "/usr/local/lib/node_modules", false, ""},
		{"directly under root is allowed", "/node_modules", false, ""},
		{"extra protected child", "/home/dev/keep/node_modules", true, "critical system path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pv.ValidatePathForDeletion(tt.path)

			if tt.shouldError {
				if err == nil {
					t.Errorf("Expected error containing '%s', got nil", tt.errorMsg)
				} else if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("Expected error containing '%s', got '%s'", tt.errorMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}
		})
	}
}

func TestValidatePathWithoutTarget(t *testing.T) {
	pv := NewPathValidator("")

	if err := pv.ValidatePathForDeletion("/tmp/anything"); err != nil {
		t.Errorf("expected any base name to pass without a target, got %v", err)
	}
	if err := pv.ValidatePathForDeletion("/"); err == nil {
		t.Error("expected / to be refused")
	}
}

func TestIsProtectedPath(t *testing.T) {
	pv := NewPathValidator("node_modules")

	tests := []struct {
		name        string
		path        string
		isProtected bool
	}{
		{"root directory", "/", true},
		{"etc directory", "/etc", true},
		{"usr directory", "/usr", true},
		{"system directory (macOS)", "/System", true},
		{"file in etc", "/etc/hosts", true},
		{"file in usr", "/usr/bin/ls", true},
		{"var cache", "/var/cache/test", true},
		{"temp file", "/tmp/test.txt", false},
		{"home project", "/home/user/app/node_modules", false},
		{"user cache", "/Users/test/.cache/test", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := pv.IsProtectedPath(tt.path)
			if result != tt.isProtected {
				t.Errorf("IsProtectedPath(%s) = %v, want %v", tt.path, result, tt.isProtected)
			}
		})
	}
}

func TestAddProtectedPath(t *testing.T) {
	pv := NewPathValidator("node_modules")
	pv.AddProtectedPath("")
	pv.AddProtectedPath("/srv/shared/")

	if !pv.IsProtectedPath("/srv/shared/app") {
		t.Error("expected added path to be protected after cleaning")
	}
	if err := pv.ValidatePathForDeletion("/srv/shared/node_modules"); err == nil {
		t.Error("expected direct child of added path to be refused")
	}
}

func TestValidateGlobPattern(t *testing.T) {
	tests := []struct {
		name        string
		pattern     string
		shouldError bool
	}{
		{"simple wildcard", "*.txt", false},
		{"base name", ".git", false},
		{"character class", "[abc]*", false},
		{"question mark", "vendor?", false},
		{"absolute path pattern", "/home/*/archive", false},
		{"empty pattern", "", false},
		{"unmatched bracket", "[abc", true},
		{"pattern with traversal", "../*", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateGlobPattern(tt.pattern)

			if tt.shouldError && err == nil {
				t.Errorf("Expected error for pattern '%s', got nil", tt.pattern)
			}
			if !tt.shouldError && err != nil {
				t.Errorf("Expected no error for pattern '%s', got: %v", tt.pattern, err)
			}
		})
	}
}
