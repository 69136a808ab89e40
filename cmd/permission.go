package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/huanfeng/mclauncher/internal/i18n"
)

var permissionCmd = &cobra.Command{
	Use:   "permission",
	Short: "Check or request storage access",
	Long: `Report whether the storage root is writable.
The result is advisory: downloads are attempted either way.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return permissionCheckCmd.RunE(cmd, args)
	},
}

var permissionCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check storage access",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l := newLauncher()
		// Start runs the same check the other commands see
		_ = l.ctrl.Start(context.Background())
		printPermission(l.ctrl.Snapshot().PermissionGranted)
		return nil
	},
}

var permissionRequestCmd = &cobra.Command{
	Use:   "request",
	Short: "Request storage access",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l := newLauncher()
		granted, err := l.ctrl.RequestPermission(context.Background())
		printPermission(granted)
		return err
	},
}

func init() {
	rootCmd.AddCommand(permissionCmd)
	permissionCmd.AddCommand(permissionCheckCmd)
	permissionCmd.AddCommand(permissionRequestCmd)
}

func printPermission(granted bool) {
	root := storageRoot()
	if granted {
		fmt.Println(color.GreenString("✓ %s", i18n.T("cmd.permission.granted", map[string]interface{}{"Root": root})))
		return
	}
	fmt.Println(color.YellowString("! %s", i18n.T("cmd.permission.denied", map[string]interface{}{"Root": root})))
	fmt.Println(i18n.T("cmd.permission.hint"))
}
