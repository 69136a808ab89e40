// Package storage keeps downloaded packages in one fixed directory on
// shared storage.
package storage

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
)

const (
	// DirName is the subdirectory that holds every downloaded package
	DirName = "mclauncher"
	// PackageExt is appended to every derived file name
	PackageExt = ".apk"
	// fallbackStem names a package whose link has no usable last segment
	fallbackStem = "package"
)

// ProgressFunc receives the completed fraction of a download in [0,1]
type ProgressFunc func(fraction float64)

// Gateway abstracts the file system operations the launcher needs
type Gateway interface {
	// Dir returns the fixed package directory
	Dir() string
	EnsureDirectory() error
	Exists(path string) (bool, error)
	Download(ctx context.Context, url, destination string, onProgress ProgressFunc) error
	ListFiles(dir string) ([]string, error)
	Delete(path string) error
}

// DerivePath computes where the package for (link, name) lives in dir.
// An explicit name wins; otherwise the last path segment of link is used.
// The package extension is always appended.
func DerivePath(dir, link, name string) string {
	stem := strings.TrimSpace(name)
	if stem == "" {
		stem = lastSegment(link)
	}
	stem = sanitize(stem)
	if stem == "" {
		stem = fallbackStem
	}
	return filepath.Join(dir, stem+PackageExt)
}

func lastSegment(link string) string {
	if u, err := url.Parse(link); err == nil && u.Path != "" {
		if seg := path.Base(u.Path); seg != "/" && seg != "." {
			return seg
		}
		return ""
	}
	return link[strings.LastIndex(link, "/")+1:]
}

// sanitize keeps a derived name inside the package directory
func sanitize(stem string) string {
	stem = strings.NewReplacer("/", "_", "\\", "_").Replace(stem)
	if stem == "." || stem == ".." {
		return ""
	}
	return stem
}

// DefaultRoot returns the shared storage root for this platform.
// Order: $EXTERNAL_STORAGE, /sdcard on Android, ~/storage/shared
// (Termux), then the home directory.
func DefaultRoot() string {
	if root := os.Getenv("EXTERNAL_STORAGE"); root != "" {
		return root
	}
	if runtime.GOOS == "android" {
		if dirExists("/sdcard") {
			return "/sdcard"
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	if shared := filepath.Join(home, "storage", "shared"); dirExists(shared) {
		return shared
	}
	return home
}

func dirExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
