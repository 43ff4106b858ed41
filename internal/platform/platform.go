package platform

import (
	"fmt"
	"os/user"
	"runtime"

	"github.com/shirou/gopsutil/v4/disk"
)

// Platform represents the operating system platform
type Platform string

const (
	MacOS   Platform = "darwin"
	Linux   Platform = "linux"
	Unknown Platform = "unknown"
)

// Info contains platform-specific information
type Info struct {
	OS       Platform
	HomeDir  string
	Username string
	// ProtectedPaths are global package directories that must never be
	// offered for deletion even though they are named node_modules
	ProtectedPaths []string
}

// Detect returns the current platform
func Detect() Platform {
	switch runtime.GOOS {
	case "darwin":
		return MacOS
	case "linux":
		return Linux
	default:
		return Unknown
	}
}

// GetInfo returns platform-specific information
func GetInfo() (*Info, error) {
	currentUser, err := user.Current()
	if err != nil {
		return nil, err
	}

	return infoFor(Detect(), currentUser.HomeDir, currentUser.Username), nil
}

func infoFor(p Platform, homeDir, username string) *Info {
	info := &Info{OS: p, HomeDir: homeDir, Username: username}

	switch p {
	case MacOS:
		info.ProtectedPaths = macOSProtectedPaths(homeDir)
	case Linux:
		info.ProtectedPaths = linuxProtectedPaths(homeDir)
	}

	return info
}

// DiskUsage describes the filesystem holding a path
type DiskUsage struct {
	Path        string
	Total       uint64
	Free        uint64
	Used        uint64
	UsedPercent float64
}

// GetDiskUsage reports space on the filesystem containing path
func GetDiskUsage(path string) (*DiskUsage, error) {
	stat, err := disk.Usage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read disk usage for %s: %w", path, err)
	}

	return &DiskUsage{
		Path:        path,
		Total:       stat.Total,
		Free:        stat.Free,
		Used:        stat.Used,
		UsedPercent: stat.UsedPercent,
	}, nil
}
