// Package permission checks and requests write access to shared storage.
// The result is advisory: nothing in the launcher refuses to run
// without it.
package permission

import (
	"context"
	"os/exec"

	"github.com/spf13/afero"

	apperrors "github.com/huanfeng/mclauncher/internal/errors"
	"github.com/huanfeng/mclauncher/pkg/installer"
	"github.com/huanfeng/mclauncher/pkg/utils"
)

// DefaultRequestCommand asks Termux for shared storage access
const DefaultRequestCommand = "termux-setup-storage"

// Gateway checks and requests storage permission
type Gateway interface {
	Check(ctx context.Context) (bool, error)
	Request(ctx context.Context) (bool, error)
}

// StorageGateway probes write access to a storage root
type StorageGateway struct {
	fs             afero.Fs
	root           string
	requestCommand []string
	runner         installer.Runner
	logger         utils.Logger
}

// NewStorageGateway creates a permission gateway for root.
// An empty requestCommand uses termux-setup-storage when it is installed.
func NewStorageGateway(fs afero.Fs, root string, requestCommand []string, runner installer.Runner, logger utils.Logger) *StorageGateway {
	if len(requestCommand) == 0 {
		if p, err := exec.LookPath(DefaultRequestCommand); err == nil {
			requestCommand = []string{p}
		}
	}
	if runner == nil {
		runner = installer.ExecRunner{}
	}
	if logger == nil {
		logger = utils.NopLogger{}
	}
	return &StorageGateway{
		fs:             fs,
		root:           root,
		requestCommand: requestCommand,
		runner:         runner,
		logger:         logger,
	}
}

// Check reports whether a file can be created in the storage root
func (g *StorageGateway) Check(_ context.Context) (bool, error) {
	ok, err := afero.DirExists(g.fs, g.root)
	if err != nil || !ok {
		g.logger.Debug("storage root %s not accessible: %v", g.root, err)
		return false, nil
	}

	probe, err := afero.TempFile(g.fs, g.root, ".mclauncher-probe-*")
	if err != nil {
		g.logger.Debug("storage root %s not writable: %v", g.root, err)
		return false, nil
	}
	name := probe.Name()
	probe.Close()
	if err := g.fs.Remove(name); err != nil {
		g.logger.Warn("failed to remove probe file %s: %v", name, err)
	}
	return true, nil
}

// Request runs the platform grant command, then checks again
func (g *StorageGateway) Request(ctx context.Context) (bool, error) {
	if len(g.requestCommand) == 0 {
		granted, _ := g.Check(ctx)
		if granted {
			return true, nil
		}
		return false, apperrors.NewPermissionError(apperrors.CodeDenied, "no way to request storage access on this platform").
			WithContext("root", g.root)
	}

	if _, err := g.runner.Run(ctx, g.requestCommand[0], g.requestCommand[1:]...); err != nil {
		return false, apperrors.WrapError(err, apperrors.ErrorTypePermission, apperrors.CodeDenied, "storage permission request failed")
	}

	granted, err := g.Check(ctx)
	if err != nil {
		return false, err
	}
	if granted {
		g.logger.Info("storage access granted for %s", g.root)
	} else {
		g.logger.Info("storage access not granted for %s", g.root)
	}
	return granted, nil
}
