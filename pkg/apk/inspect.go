// Package apk reads metadata and the launcher icon from downloaded
// Android packages.
package apk

import (
	"archive/zip"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shogo82148/androidbinary/apk"
	"github.com/spf13/afero"

	apperrors "github.com/huanfeng/mclauncher/internal/errors"
)

// CodeInvalidPackage marks a file that is not a readable APK
const CodeInvalidPackage = "INVALID_PACKAGE"

// Info describes one package file
type Info struct {
	Path        string    `json:"path" yaml:"path"`
	PackageID   string    `json:"package_id" yaml:"package_id"`
	Label       string    `json:"label" yaml:"label"`
	VersionName string    `json:"version_name" yaml:"version_name"`
	VersionCode int64     `json:"version_code" yaml:"version_code"`
	MinSDK      int       `json:"min_sdk" yaml:"min_sdk"`
	TargetSDK   int       `json:"target_sdk" yaml:"target_sdk"`
	Permissions []string  `json:"permissions,omitempty" yaml:"permissions,omitempty"`
	ABIs        []string  `json:"abis,omitempty" yaml:"abis,omitempty"`
	Size        int64     `json:"size" yaml:"size"`
	SHA256      string    `json:"sha256" yaml:"sha256"`
	ModTime     time.Time `json:"mod_time" yaml:"mod_time"`
}

// Inspector reads package files from a filesystem
type Inspector struct {
	fs afero.Fs
}

// NewInspector creates an inspector over fs
func NewInspector(fs afero.Fs) *Inspector {
	return &Inspector{fs: fs}
}

// Inspect parses the binary manifest of the package at path
func (i *Inspector) Inspect(path string) (*Info, error) {
	f, err := i.fs.Open(path)
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorTypeFileSystem, apperrors.CodeNotFound, "failed to open package").
			WithContext("path", path)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorTypeFileSystem, apperrors.CodeNotFound, "failed to stat package").
			WithContext("path", path)
	}

	pkg, err := apk.OpenZipReader(f, stat.Size())
	if err != nil {
		return nil, invalidPackage(err, path)
	}
	defer pkg.Close()

	manifest := pkg.Manifest()
	packageID, err := manifest.Package.String()
	if err != nil || packageID == "" {
		return nil, invalidPackage(err, path)
	}

	info := &Info{
		Path:        path,
		PackageID:   packageID,
		Label:       packageID,
		VersionName: manifest.VersionName.MustString(),
		Size:        stat.Size(),
		ModTime:     stat.ModTime(),
	}
	if code, err := manifest.VersionCode.Int32(); err == nil {
		info.VersionCode = int64(code)
	}
	if label, err := manifest.App.Label.String(); err == nil && label != "" {
		info.Label = label
	}
	if v, err := manifest.SDK.Min.Int32(); err == nil {
		info.MinSDK = int(v)
	}
	if v, err := manifest.SDK.Target.Int32(); err == nil {
		info.TargetSDK = int(v)
	}
	for _, perm := range manifest.UsesPermissions {
		if name, err := perm.Name.String(); err == nil && name != "" {
			info.Permissions = append(info.Permissions, name)
		}
	}

	if zr, err := zip.NewReader(f, stat.Size()); err == nil {
		info.ABIs = nativeABIs(zr)
	}

	if _, err := f.Seek(0, io.SeekStart); err == nil {
		if sum, err := checksum(f); err == nil {
			info.SHA256 = sum
		}
	}

	return info, nil
}

// IsPackage reports whether name looks like a package file
func IsPackage(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".apk")
}

// nativeABIs lists the lib/<abi>/ directories of the archive
func nativeABIs(zr *zip.Reader) []string {
	seen := make(map[string]bool)
	for _, file := range zr.File {
		parts := strings.Split(file.Name, "/")
		if len(parts) >= 3 && parts[0] == "lib" && parts[1] != "" {
			seen[parts[1]] = true
		}
	}

	abis := make([]string, 0, len(seen))
	for abi := range seen {
		abis = append(abis, abi)
	}
	sort.Strings(abis)
	return abis
}

func invalidPackage(err error, path string) *apperrors.LauncherError {
	return apperrors.WrapError(err, apperrors.ErrorTypeParsing, CodeInvalidPackage, "not a valid APK").
		WithContext("path", path).
		WithSuggestion("Delete the file and download it again")
}
