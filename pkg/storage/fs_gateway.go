package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	apperrors "github.com/huanfeng/mclauncher/internal/errors"
	"github.com/huanfeng/mclauncher/internal/version"
	"github.com/huanfeng/mclauncher/pkg/utils"
)

// DefaultDownloadTimeout bounds one package download
const DefaultDownloadTimeout = 30 * time.Minute

// FSGateway implements Gateway on an afero filesystem
type FSGateway struct {
	fs     afero.Fs
	dir    string
	client *http.Client
	logger utils.Logger
}

// Option configures an FSGateway
type Option func(*FSGateway)

// WithHTTPClient replaces the HTTP client used for downloads
func WithHTTPClient(c *http.Client) Option {
	return func(g *FSGateway) {
		g.client = c
	}
}

// WithLogger sets the logger
func WithLogger(l utils.Logger) Option {
	return func(g *FSGateway) {
		g.logger = l
	}
}

// NewFSGateway creates a gateway storing packages in root/dirName on fs
func NewFSGateway(fs afero.Fs, root, dirName string, opts ...Option) *FSGateway {
	if dirName == "" {
		dirName = DirName
	}
	g := &FSGateway{
		fs:     fs,
		dir:    filepath.Join(root, dirName),
		client: &http.Client{Timeout: DefaultDownloadTimeout},
		logger: utils.NopLogger{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewOSGateway creates a gateway on the real filesystem
func NewOSGateway(root, dirName string, timeout time.Duration, opts ...Option) *FSGateway {
	if timeout <= 0 {
		timeout = DefaultDownloadTimeout
	}
	opts = append([]Option{WithHTTPClient(&http.Client{Timeout: timeout})}, opts...)
	return NewFSGateway(afero.NewOsFs(), root, dirName, opts...)
}

// Dir returns the package directory
func (g *FSGateway) Dir() string {
	return g.dir
}

// Fs exposes the underlying filesystem
func (g *FSGateway) Fs() afero.Fs {
	return g.fs
}

// EnsureDirectory creates the package directory if needed
func (g *FSGateway) EnsureDirectory() error {
	if err := g.fs.MkdirAll(g.dir, 0755); err != nil {
		return apperrors.WrapError(err, apperrors.ErrorTypeFileSystem, apperrors.CodeWriteFailed, "failed to create package directory").
			WithContext("dir", g.dir)
	}
	return nil
}

// Exists reports whether path exists
func (g *FSGateway) Exists(path string) (bool, error) {
	ok, err := afero.Exists(g.fs, path)
	if err != nil {
		return false, apperrors.WrapError(err, apperrors.ErrorTypeFileSystem, "STAT_FAILED", "failed to check file").
			WithContext("path", path)
	}
	return ok, nil
}

// Download streams url into destination, reporting progress.
// Data is written to a temporary file and renamed on success.
func (g *FSGateway) Download(ctx context.Context, url, destination string, onProgress ProgressFunc) error {
	log := g.logger.WithFields(map[string]interface{}{
		"attempt": uuid.NewString(),
		"dest":    destination,
	})
	log.Info("downloading %s", url)

	if err := g.EnsureDirectory(); err != nil {
		return err
	}

	tempPath := destination + ".tmp"
	out, err := g.fs.Create(tempPath)
	if err != nil {
		return apperrors.WrapError(err, apperrors.ErrorTypeFileSystem, apperrors.CodeWriteFailed, "failed to create download file").
			WithContext("path", tempPath)
	}

	written, err := g.fetch(ctx, url, out, onProgress)
	closeErr := out.Close()
	if err == nil && closeErr != nil {
		err = apperrors.WrapError(closeErr, apperrors.ErrorTypeFileSystem, apperrors.CodeWriteFailed, "failed to finish download file")
	}
	if err != nil {
		g.fs.Remove(tempPath)
		log.Warn("download failed: %v", err)
		return err
	}

	if err := g.fs.Rename(tempPath, destination); err != nil {
		g.fs.Remove(tempPath)
		return apperrors.WrapError(err, apperrors.ErrorTypeFileSystem, apperrors.CodeWriteFailed, "failed to move download into place").
			WithContext("path", destination)
	}

	if onProgress != nil {
		onProgress(1)
	}
	log.Info("download complete (%d bytes)", written)
	return nil
}

func (g *FSGateway) fetch(ctx context.Context, url string, out io.Writer, onProgress ProgressFunc) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, apperrors.WrapError(err, apperrors.ErrorTypeNetwork, apperrors.CodeDownloadFailed, "invalid download URL").
			WithContext("url", url)
	}
	req.Header.Set("User-Agent", "mclauncher/"+version.Short())

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, apperrors.WrapError(err, apperrors.ErrorTypeNetwork, apperrors.CodeDownloadFailed, "download request failed").
			WithContext("url", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, apperrors.NewNetworkError(apperrors.CodeDownloadFailed, fmt.Sprintf("download returned HTTP %d", resp.StatusCode)).
			WithContext("url", url).
			WithContext("status", strconv.Itoa(resp.StatusCode))
	}

	pw := newProgressWriter(out, resp.ContentLength, onProgress)
	written, err := io.Copy(pw, resp.Body)
	if err != nil {
		return written, apperrors.WrapError(err, apperrors.ErrorTypeNetwork, apperrors.CodeDownloadFailed, "download interrupted").
			WithContext("url", url)
	}
	if resp.ContentLength > 0 && written != resp.ContentLength {
		return written, apperrors.NewNetworkError(apperrors.CodeDownloadFailed,
			fmt.Sprintf("incomplete download: expected %d bytes, got %d", resp.ContentLength, written))
	}
	return written, nil
}

// ListFiles returns the regular files in dir, sorted by name.
// A missing directory has no files.
func (g *FSGateway) ListFiles(dir string) ([]string, error) {
	entries, err := afero.ReadDir(g.fs, dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, apperrors.WrapError(err, apperrors.ErrorTypeFileSystem, apperrors.CodeListFailed, "failed to list directory").
			WithContext("dir", dir)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// Delete removes path. Removing a missing file is an error.
func (g *FSGateway) Delete(path string) error {
	ok, err := g.Exists(path)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NewFileSystemError(apperrors.CodeNotFound, "file does not exist").
			WithContext("path", path)
	}
	if err := g.fs.Remove(path); err != nil {
		return apperrors.WrapError(err, apperrors.ErrorTypeFileSystem, apperrors.CodeDeleteFailed, "failed to delete file").
			WithContext("path", path)
	}
	return nil
}

// progressWriter reports the written fraction of a known total.
// Reported values never decrease and never exceed 1.
type progressWriter struct {
	writer     io.Writer
	total      int64
	written    int64
	last       float64
	onProgress ProgressFunc
}

func newProgressWriter(w io.Writer, total int64, onProgress ProgressFunc) *progressWriter {
	return &progressWriter{writer: w, total: total, onProgress: onProgress}
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.writer.Write(p)
	pw.written += int64(n)

	if pw.onProgress != nil && pw.total > 0 {
		fraction := float64(pw.written) / float64(pw.total)
		if fraction > 1 {
			fraction = 1
		}
		if fraction > pw.last {
			pw.last = fraction
			pw.onProgress(fraction)
		}
	}
	return n, err
}
