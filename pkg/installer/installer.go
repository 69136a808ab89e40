// Package installer hands a downloaded package to the platform so the
// user can install it.
package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	apperrors "github.com/huanfeng/mclauncher/internal/errors"
	"github.com/huanfeng/mclauncher/pkg/utils"
)

const (
	// PackageMIME is the installer MIME type of an Android package
	PackageMIME = "application/vnd.android.package-archive"
	// ViewAction is the intent action used by the fallback path
	ViewAction = "android.intent.action.VIEW"
)

// Gateway opens a package file for installation
type Gateway interface {
	Open(ctx context.Context, path string) error
}

// Runner executes an external command
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

// Run executes name with args and returns combined output
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return out, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// PlatformInstaller opens packages through the platform file association
// and falls back to an Android VIEW intent
type PlatformInstaller struct {
	runner        Runner
	openCommand   []string
	intentCommand []string
	logger        utils.Logger
}

// NewPlatformInstaller creates an installer.
// Empty commands select the platform defaults.
func NewPlatformInstaller(runner Runner, openCommand, intentCommand []string, logger utils.Logger) *PlatformInstaller {
	if runner == nil {
		runner = ExecRunner{}
	}
	if len(openCommand) == 0 {
		openCommand = DefaultOpenCommand(runtime.GOOS)
	}
	if len(intentCommand) == 0 {
		intentCommand = []string{"am"}
	}
	if logger == nil {
		logger = utils.NopLogger{}
	}
	return &PlatformInstaller{
		runner:        runner,
		openCommand:   openCommand,
		intentCommand: intentCommand,
		logger:        logger,
	}
}

// DefaultOpenCommand returns the command that opens a file with its
// associated application on goos
func DefaultOpenCommand(goos string) []string {
	if goos == "android" || os.Getenv("TERMUX_VERSION") != "" {
		return []string{"termux-open"}
	}
	switch goos {
	case "darwin":
		return []string{"open"}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler"}
	default:
		return []string{"xdg-open"}
	}
}

// Open tries the file association first and the VIEW intent second
func (p *PlatformInstaller) Open(ctx context.Context, path string) error {
	primaryErr := p.Launch(ctx, path)
	if primaryErr == nil {
		p.logger.Info("opened %s", path)
		return nil
	}
	p.logger.Warn("file association failed for %s: %v", path, primaryErr)

	fallbackErr := p.viewIntent(ctx, path)
	if fallbackErr == nil {
		p.logger.Info("opened %s via view intent", path)
		return nil
	}
	p.logger.Warn("view intent failed for %s: %v", path, fallbackErr)

	return apperrors.WrapError(errors.Join(primaryErr, fallbackErr), apperrors.ErrorTypeInstall,
		apperrors.CodeOpenFailed, "could not start installation").
		WithContext("path", path)
}

// Launch opens target (a file or link) with its associated application
func (p *PlatformInstaller) Launch(ctx context.Context, target string) error {
	args := append(append([]string{}, p.openCommand[1:]...), target)
	_, err := p.runner.Run(ctx, p.openCommand[0], args...)
	return err
}

func (p *PlatformInstaller) viewIntent(ctx context.Context, path string) error {
	args := append([]string{}, p.intentCommand[1:]...)
	args = append(args, IntentArgs(path)...)
	_, err := p.runner.Run(ctx, p.intentCommand[0], args...)
	return err
}

// IntentArgs builds the activity-manager arguments that view path
// as an Android package
func IntentArgs(path string) []string {
	return []string{
		"start",
		"-a", ViewAction,
		"-d", "file://" + path,
		"-t", PackageMIME,
	}
}
