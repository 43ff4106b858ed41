package utils

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// FormatBytes converts bytes to a human-readable decimal (SI) size, e.g. "12 MB"
func FormatBytes(bytes uint64) string {
	return humanize.Bytes(bytes)
}

// ParseSize converts a human-readable size ("1.5GB", "200 MiB") to bytes
func ParseSize(size string) (uint64, error) {
	n, err := humanize.ParseBytes(size)
	if err != nil {
		return 0, fmt.Errorf("invalid size format: %s", size)
	}
	return n, nil
}
