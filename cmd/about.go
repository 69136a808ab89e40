package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/huanfeng/mclauncher/internal/i18n"
)

// ContactURL is the developer's contact link
const ContactURL = "https://t.me/Mr_Purple_666"

var aboutOpen bool

var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "About mclauncher",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(i18n.T("cmd.about.text"))
		fmt.Println(i18n.T("cmd.about.contact", map[string]interface{}{"URL": ContactURL}))

		if aboutOpen {
			if err := newInstaller().Launch(context.Background(), ContactURL); err != nil {
				return fmt.Errorf("%s: %w", i18n.T("cmd.about.errOpen"), err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(aboutCmd)

	aboutCmd.Flags().BoolVar(&aboutOpen, "open", false, "open the contact link")
}
