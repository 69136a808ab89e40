package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	apperrors "github.com/huanfeng/mclauncher/internal/errors"
	"github.com/huanfeng/mclauncher/internal/i18n"
	"github.com/huanfeng/mclauncher/pkg/apk"
)

var (
	inspectIcon   string
	inspectOutput string
	inspectSHA256 string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show APK metadata",
	Long: `Read the binary manifest of an APK and print its package id, version,
SDK levels, native ABIs and checksum. A bare file name is looked up in the
mclauncher directory.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if !strings.ContainsAny(path, `/\`) {
			if _, err := os.Stat(path); err != nil {
				path = filepath.Join(storageRoot(), cfg.Storage.DirName, path)
			}
		}

		inspector := apk.NewInspector(afero.NewOsFs())
		info, err := inspector.Inspect(path)
		if err != nil {
			return err
		}

		switch strings.ToLower(inspectOutput) {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(info); err != nil {
				return err
			}
		case "yaml":
			if err := yaml.NewEncoder(os.Stdout).Encode(info); err != nil {
				return err
			}
		default:
			printPackageInfo(info)
		}

		if inspectSHA256 != "" {
			ok, err := inspector.VerifyChecksum(path, inspectSHA256)
			if err != nil {
				return err
			}
			if !ok {
				return apperrors.NewError(apperrors.ErrorTypeFileSystem, "CHECKSUM_MISMATCH", i18n.T("cmd.inspect.mismatch")).
					WithSuggestion("Run 'mclauncher delete' and download the version again").
					WithContext("expected", inspectSHA256).
					WithContext("actual", info.SHA256)
			}
			fmt.Println(color.GreenString("✓ %s", i18n.T("cmd.inspect.match")))
		}

		if inspectIcon != "" {
			icon, err := inspector.ExtractIcon(path)
			if err != nil {
				return fmt.Errorf("%s: %w", i18n.T("cmd.inspect.errIcon"), err)
			}
			if err := os.WriteFile(inspectIcon, icon, 0644); err != nil {
				return err
			}
			fmt.Println(i18n.T("cmd.inspect.iconSaved", map[string]interface{}{"Path": inspectIcon}))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVar(&inspectIcon, "icon", "", "write the launcher icon as PNG to this path")
	inspectCmd.Flags().StringVar(&inspectSHA256, "sha256", "", "fail unless the file has this SHA-256")
	inspectCmd.Flags().StringVarP(&inspectOutput, "output", "o", "text", "output format: text, json, yaml")
}

func printPackageInfo(info *apk.Info) {
	fmt.Printf("%s: %s\n", i18n.T("cmd.inspect.package"), info.PackageID)
	fmt.Printf("%s: %s\n", i18n.T("cmd.inspect.label"), info.Label)
	fmt.Printf("%s: %s (%d)\n", i18n.T("cmd.inspect.version"), info.VersionName, info.VersionCode)
	fmt.Printf("%s: %d / %d\n", i18n.T("cmd.inspect.sdk"), info.MinSDK, info.TargetSDK)
	if len(info.ABIs) > 0 {
		fmt.Printf("%s: %s\n", i18n.T("cmd.inspect.abis"), strings.Join(info.ABIs, ", "))
	}
	fmt.Printf("%s: %s\n", i18n.T("cmd.inspect.size"), formatSize(info.Size))
	fmt.Printf("SHA256: %s\n", info.SHA256)
	if len(info.Permissions) > 0 {
		fmt.Printf("%s:\n", i18n.T("cmd.inspect.permissions"))
		for _, p := range info.Permissions {
			fmt.Printf("  - %s\n", p)
		}
	}
}
