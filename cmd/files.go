package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/huanfeng/mclauncher/internal/i18n"
	"github.com/huanfeng/mclauncher/pkg/apk"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List downloaded APKs",
	Long:  `List the files in the mclauncher directory with the package metadata of each APK.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l := newLauncher()
		dir := l.storage.Dir()

		files, err := l.storage.ListFiles(dir)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Println(i18n.T("cmd.files.none", map[string]interface{}{"Dir": dir}))
			return nil
		}

		fmt.Println(i18n.T("cmd.files.title", map[string]interface{}{"Dir": dir, "Count": len(files)}))
		inspector := apk.NewInspector(afero.NewOsFs())
		faint := color.New(color.Faint).SprintFunc()
		for _, f := range files {
			name := runewidth.FillRight(runewidth.Truncate(filepath.Base(f), nameColumnWidth, "..."), nameColumnWidth)
			if !apk.IsPackage(f) {
				fmt.Printf("  %s  %s\n", name, faint(i18n.T("cmd.files.notPackage")))
				continue
			}
			info, err := inspector.Inspect(f)
			if err != nil {
				logger.Debug("inspect %s: %v", f, err)
				fmt.Printf("  %s  %s\n", name, color.YellowString(i18n.T("cmd.files.unreadable")))
				continue
			}
			fmt.Printf("  %s  %s %s  %s\n", name, info.PackageID, info.VersionName, faint(formatSize(info.Size)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(filesCmd)
}

func formatSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
