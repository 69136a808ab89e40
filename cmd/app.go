package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/afero"

	"github.com/huanfeng/mclauncher/internal/app"
	apperrors "github.com/huanfeng/mclauncher/internal/errors"
	"github.com/huanfeng/mclauncher/internal/i18n"
	"github.com/huanfeng/mclauncher/pkg/installer"
	"github.com/huanfeng/mclauncher/pkg/manifest"
	"github.com/huanfeng/mclauncher/pkg/permission"
	"github.com/huanfeng/mclauncher/pkg/storage"
	"github.com/huanfeng/mclauncher/pkg/utils"
)

// launcher bundles the controller with the gateways commands use directly
type launcher struct {
	ctrl       *app.Controller
	storage    *storage.FSGateway
	installer  *installer.PlatformInstaller
	permission *permission.StorageGateway
}

func storageRoot() string {
	if cfg.Storage.Root != "" {
		return cfg.Storage.Root
	}
	return storage.DefaultRoot()
}

func newInstaller() *installer.PlatformInstaller {
	return installer.NewPlatformInstaller(installer.ExecRunner{}, cfg.Installer.OpenCommand, cfg.Installer.IntentCommand, logger)
}

func newLauncher() *launcher {
	root := storageRoot()

	gw := storage.NewOSGateway(root, cfg.Storage.DirName,
		time.Duration(cfg.Download.Timeout)*time.Second,
		storage.WithLogger(logger))
	inst := newInstaller()
	perm := permission.NewStorageGateway(afero.NewOsFs(), root, cfg.Permission.RequestCommand, installer.ExecRunner{}, logger)

	ctrl := app.NewController(app.Deps{
		ManifestURL:  cfg.Manifest.URL,
		Fetcher:      manifest.NewClient(time.Duration(cfg.Manifest.Timeout) * time.Second),
		Storage:      gw,
		Installer:    inst,
		Permission:   perm,
		Logger:       logger,
		ErrorHandler: apperrors.NewErrorHandler(logger),
		Translate:    i18n.T,
	})

	return &launcher{
		ctrl:       ctrl,
		storage:    gw,
		installer:  inst,
		permission: perm,
	}
}

// watchDownload renders download progress for state changes until the
// returned stop func is called
func watchDownload(ctrl *app.Controller, label string) (stop func()) {
	var bar *utils.ProgressBar
	done := false
	ctrl.Subscribe(func(s app.State) {
		if done || !s.Downloading {
			return
		}
		if bar == nil {
			bar = utils.NewProgressBar(os.Stdout, label)
		}
		bar.Set(s.Progress)
	})
	return func() {
		done = true
		if bar != nil {
			bar.Finish()
		}
	}
}

// printMessages shows the download messages of s
func printMessages(s app.State) {
	if s.LastSuccessMessage != "" {
		fmt.Println(color.GreenString("✓ %s", s.LastSuccessMessage))
	}
	if s.LastError != "" {
		fmt.Println(color.RedString("✗ %s", s.LastError))
	}
}
