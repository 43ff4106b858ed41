package platform

import (
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestDetect(t *testing.T) {
	p := Detect()

	switch runtime.GOOS {
	case "darwin":
		if p != MacOS {
			t.Errorf("Detect() = %s, want %s", p, MacOS)
		}
	case "linux":
		if p != Linux {
			t.Errorf("Detect() = %s, want %s", p, Linux)
		}
	default:
		if p != Unknown {
			t.Errorf("Detect() = %s, want %s", p, Unknown)
		}
	}
}

func TestInfoForProtectedPaths(t *testing.T) {
	tests := []struct {
		platform Platform
		wantAny  bool
	}{
		{MacOS, true},
		{Linux, true},
		{Unknown, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.platform), func(t *testing.T) {
			info := infoFor(tt.platform, "/home/dev", "dev")

			if info.OS != tt.platform || info.HomeDir != "/home/dev" || info.Username != "dev" {
				t.Errorf("infoFor() = %+v", info)
			}
			if (len(info.ProtectedPaths) > 0) != tt.wantAny {
				t.Errorf("ProtectedPaths = %v", info.ProtectedPaths)
			}
			for _, p := range info.ProtectedPaths {
				if !filepath.IsAbs(p) {
					t.Errorf("protected path %q is not absolute", p)
				}
				if filepath.Base(p) != "node_modules" && !strings.HasSuffix(p, "nodejs") {
					t.Errorf("protected path %q is not a package directory", p)
				}
			}
		})
	}
}

func TestGetInfo(t *testing.T) {
	info, err := GetInfo()
	if err != nil {
		t.Skipf("current user unavailable: %v", err)
	}
	if info.OS != Detect() {
		t.Errorf("OS = %s, want %s", info.OS, Detect())
	}
}

func TestGetDiskUsage(t *testing.T) {
	usage, err := GetDiskUsage(t.TempDir())
	if err != nil {
		t.Skipf("disk usage unavailable: %v", err)
	}
	if usage.Total == 0 {
		t.Error("expected a non-zero total size")
	}
	if usage.Free > usage.Total {
		t.Errorf("Free %d exceeds Total %d", usage.Free, usage.Total)
	}
}

func TestGetDiskUsageMissingPath(t *testing.T) {
	if _, err := GetDiskUsage("/definitely/not/here/nmclean"); err == nil {
		t.Error("expected error for missing path")
	}
}
