// Package app owns the launcher state and sequences the manifest,
// storage, installer and permission gateways.
package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/sourcegraph/conc"

	apperrors "github.com/huanfeng/mclauncher/internal/errors"
	"github.com/huanfeng/mclauncher/pkg/installer"
	"github.com/huanfeng/mclauncher/pkg/manifest"
	"github.com/huanfeng/mclauncher/pkg/models"
	"github.com/huanfeng/mclauncher/pkg/permission"
	"github.com/huanfeng/mclauncher/pkg/storage"
	"github.com/huanfeng/mclauncher/pkg/utils"
)

// ErrDownloadInProgress rejects a selection or delete while a download runs
var ErrDownloadInProgress = errors.New("a download is already in progress")

// Deps are the gateways the controller drives
type Deps struct {
	ManifestURL  string
	Fetcher      manifest.Fetcher
	Storage      storage.Gateway
	Installer    installer.Gateway
	Permission   permission.Gateway
	Logger       utils.Logger
	ErrorHandler *apperrors.ErrorHandler
	Translate    Translator
}

// Controller serializes state transitions behind one mutex.
// Gateway calls run outside the lock.
type Controller struct {
	deps Deps

	mu          sync.Mutex
	state       State
	busy        bool
	subscribers []func(State)

	nextRequest atomic.Uint64
}

// NewController creates a controller in the Idle state
func NewController(deps Deps) *Controller {
	if deps.ManifestURL == "" {
		deps.ManifestURL = manifest.DefaultURL
	}
	if deps.Logger == nil {
		deps.Logger = utils.NopLogger{}
	}
	if deps.ErrorHandler == nil {
		deps.ErrorHandler = apperrors.NewErrorHandler(deps.Logger)
	}
	if deps.Translate == nil {
		deps.Translate = DefaultTranslator()
	}
	return &Controller{deps: deps}
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Versions = append([]models.VersionDescriptor(nil), c.state.Versions...)
	return s
}

// Subscribe registers fn to receive every new state
func (c *Controller) Subscribe(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subscribers = append(c.subscribers, fn)
}

func (c *Controller) dispatch(e Event) {
	c.mu.Lock()
	c.state = Reduce(c.state, e)
	s := c.state
	subs := append([]func(State){}, c.subscribers...)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}

// handle logs err and returns the localized message for id
func (c *Controller) handle(err error, id string) string {
	c.deps.ErrorHandler.Handle(err)
	return c.deps.Translate(id)
}

// Start checks the permission, scans for downloaded files and loads the
// version list concurrently. It returns the load error, if any.
func (c *Controller) Start(ctx context.Context) error {
	var loadErr error

	var wg conc.WaitGroup
	wg.Go(func() {
		c.checkPermission(ctx)
	})
	wg.Go(func() {
		c.scanFiles()
	})
	wg.Go(func() {
		loadErr = c.Reload(ctx)
	})
	wg.Wait()

	return loadErr
}

// Reload fetches the version list again. The current list stays in
// place until the fetch settles, and is kept if it fails.
func (c *Controller) Reload(ctx context.Context) error {
	id := c.nextRequest.Add(1)
	c.dispatch(LoadStarted{RequestID: id})
	c.deps.Logger.Debug("loading versions (request %d) from %s", id, c.deps.ManifestURL)

	list, err := c.deps.Fetcher.Fetch(ctx, c.deps.ManifestURL)
	if err != nil {
		c.dispatch(LoadErrored{RequestID: id, Message: c.handle(err, loadMessageID(err))})
		return err
	}

	sorted := manifest.SortDescending(list)
	c.deps.Logger.Info("loaded %d versions (request %d)", len(sorted), id)
	c.dispatch(LoadSucceeded{RequestID: id, Versions: sorted})
	return nil
}

// Select opens the package for d, downloading it first when it is not
// on disk yet. Only one selection runs at a time.
func (c *Controller) Select(ctx context.Context, d models.VersionDescriptor) error {
	if !c.acquire() {
		return ErrDownloadInProgress
	}
	defer c.release()

	dest := storage.DerivePath(c.deps.Storage.Dir(), d.Link, d.Name)

	exists, err := c.deps.Storage.Exists(dest)
	if err != nil {
		c.dispatch(InstallErrored{Message: c.handle(err, MsgCheckFailed)})
		return err
	}
	if exists {
		c.deps.Logger.Info("package found at %s, skipping download", dest)
		c.dispatch(ExistingSelected{Path: dest})
		return c.install(ctx, dest)
	}

	c.deps.Logger.Info("package not found at %s, downloading", dest)
	c.dispatch(DownloadStarted{Path: dest})
	err = c.deps.Storage.Download(ctx, d.Link, dest, func(f float64) {
		c.dispatch(DownloadProgressed{Fraction: f})
	})
	if err != nil {
		c.dispatch(DownloadErrored{Message: c.handle(err, downloadMessageID(err))})
		return err
	}

	c.dispatch(DownloadSucceeded{Path: dest, Message: c.deps.Translate(MsgDownloadComplete)})
	return c.install(ctx, dest)
}

func (c *Controller) install(ctx context.Context, path string) error {
	if err := c.deps.Installer.Open(ctx, path); err != nil {
		c.dispatch(InstallErrored{Message: c.handle(err, MsgInstallFailed)})
		return err
	}
	return nil
}

// DeleteAll removes every file in the package directory.
// The version list is not touched.
func (c *Controller) DeleteAll(ctx context.Context) (int, error) {
	if !c.acquire() {
		return 0, ErrDownloadInProgress
	}
	defer c.release()

	files, err := c.deps.Storage.ListFiles(c.deps.Storage.Dir())
	if err != nil {
		c.dispatch(DeleteErrored{Message: c.handle(err, MsgDeleteFailed)})
		return 0, err
	}

	var errs []error
	deleted := 0
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := c.deps.Storage.Delete(f); err != nil {
			errs = append(errs, err)
			continue
		}
		deleted++
	}
	if len(errs) > 0 {
		err := errors.Join(errs...)
		c.dispatch(DeleteErrored{Message: c.handle(err, MsgDeleteFailed)})
		return deleted, err
	}

	c.deps.Logger.Info("deleted %d files from %s", deleted, c.deps.Storage.Dir())
	c.dispatch(FilesDeleted{Count: deleted})
	return deleted, nil
}

// RequestPermission asks the platform for storage access
func (c *Controller) RequestPermission(ctx context.Context) (bool, error) {
	if c.deps.Permission == nil {
		return false, nil
	}
	granted, err := c.deps.Permission.Request(ctx)
	if err != nil {
		c.deps.ErrorHandler.Handle(err)
	}
	c.dispatch(PermissionChecked{Granted: granted})
	return granted, err
}

func (c *Controller) checkPermission(ctx context.Context) {
	if c.deps.Permission == nil {
		return
	}
	granted, err := c.deps.Permission.Check(ctx)
	if err != nil {
		c.deps.ErrorHandler.Handle(err)
	}
	c.dispatch(PermissionChecked{Granted: granted})
}

func (c *Controller) scanFiles() {
	files, err := c.deps.Storage.ListFiles(c.deps.Storage.Dir())
	if err != nil {
		c.deps.ErrorHandler.Handle(err)
		return
	}
	c.dispatch(FilesScanned{Present: len(files) > 0})
}

func (c *Controller) acquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return false
	}
	c.busy = true
	return true
}

func (c *Controller) release() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}
