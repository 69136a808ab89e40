package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/huanfeng/mclauncher/internal/i18n"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete every downloaded APK",
	Long:  `Remove all files from the mclauncher directory. The version list is not affected.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l := newLauncher()

		files, err := l.storage.ListFiles(l.storage.Dir())
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Println(i18n.T("cmd.delete.none", map[string]interface{}{"Dir": l.storage.Dir()}))
			return nil
		}

		if !deleteYes {
			prompt := promptui.Prompt{
				Label: i18n.T("cmd.delete.confirm", map[string]interface{}{
					"Count": len(files),
					"Dir":   l.storage.Dir(),
				}),
				IsConfirm: true,
			}
			if _, err := prompt.Run(); err != nil {
				if errors.Is(err, promptui.ErrAbort) {
					fmt.Println(i18n.T("cmd.delete.cancelled"))
					return nil
				}
				return interrupted(err)
			}
		}

		n, err := l.ctrl.DeleteAll(context.Background())
		if err != nil {
			printMessages(l.ctrl.Snapshot())
			return err
		}
		fmt.Println(color.GreenString("✓ %s", i18n.T("cmd.delete.done", map[string]interface{}{"Count": n})))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().BoolVarP(&deleteYes, "yes", "y", false, "do not ask for confirmation")
}
