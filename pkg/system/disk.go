// Package system reports on the host the launcher runs on: free space
// under the storage root and reachability of the manifest server.
package system

import (
	"fmt"
	"os"
	"path/filepath"
)

// MinFreeSpace is the free space below which a download is likely to fail.
// Current client APKs are a little under 1 GiB.
const MinFreeSpace uint64 = 1 << 30

// DiskUsage describes the filesystem holding a path
type DiskUsage struct {
	Path      string `json:"path"`
	Total     uint64 `json:"total"`
	Free      uint64 `json:"free"`
	Available uint64 `json:"available"`
	Used      uint64 `json:"used"`
}

// UsedPercent returns the used share of the filesystem
func (d DiskUsage) UsedPercent() float64 {
	if d.Total == 0 {
		return 0
	}
	return float64(d.Used) / float64(d.Total) * 100
}

// Low reports whether less than MinFreeSpace is available to the user
func (d DiskUsage) Low() bool {
	return d.Available < MinFreeSpace
}

// CheckDiskSpace returns usage for the filesystem holding path.
// Missing trailing components are skipped so a storage directory that
// has not been created yet still reports its parent.
func CheckDiskSpace(path string) (*DiskUsage, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	dir := nearestExisting(absPath)
	usage, err := getDiskUsage(dir)
	if err != nil {
		return nil, err
	}
	usage.Path = dir
	return usage, nil
}

func nearestExisting(path string) string {
	for {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(path)
		if parent == path {
			return path
		}
		path = parent
	}
}
