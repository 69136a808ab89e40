package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/huanfeng/mclauncher/internal/app"
	apperrors "github.com/huanfeng/mclauncher/internal/errors"
	"github.com/huanfeng/mclauncher/internal/i18n"
	"github.com/huanfeng/mclauncher/pkg/manifest"
	"github.com/huanfeng/mclauncher/pkg/models"
)

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Download and install a version",
	Long: `Open the APK of the named version for installation.
The file is downloaded first unless it is already in the mclauncher directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l := newLauncher()
		if err := l.ctrl.Start(context.Background()); err != nil {
			return fmt.Errorf("%s: %w", l.ctrl.Snapshot().LoadError, err)
		}

		d, ok := manifest.FindByName(l.ctrl.Snapshot().Versions, args[0])
		if !ok {
			return fmt.Errorf("%s: %q", i18n.T("cmd.get.errNotFound"), args[0])
		}
		return selectVersion(l, d)
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}

// selectVersion runs one selection with a progress bar and prints the
// resulting messages
func selectVersion(l *launcher, d models.VersionDescriptor) error {
	fmt.Println(i18n.T("cmd.get.selected", map[string]interface{}{
		"Name":    d.Name,
		"Version": d.RawVersion,
	}))

	stop := watchDownload(l.ctrl, d.Name)
	err := l.ctrl.Select(context.Background(), d)
	stop()

	s := l.ctrl.Snapshot()
	if err == nil && s.DownloadPhase == app.NotDownloading {
		fmt.Println(i18n.T("cmd.get.existing", map[string]interface{}{"Path": s.DownloadedFilePath}))
	}
	printMessages(s)

	if apperrors.IsType(err, apperrors.ErrorTypeInstall) {
		fmt.Println(i18n.T("cmd.get.manual", map[string]interface{}{"Path": s.DownloadedFilePath}))
	}
	return err
}
