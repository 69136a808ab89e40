package cmd

import "github.com/huanfeng/mclauncher/internal/i18n"

// applyCommandLocalization updates command and flag descriptions after i18n is initialized.
func applyCommandLocalization() {
	rootCmd.Short = i18n.T("cmd.root.short")
	rootCmd.Long = i18n.T("cmd.root.long")

	flags := map[string]string{
		"config":   "flags.config",
		"lang":     "flags.lang",
		"verbose":  "flags.verbose",
		"debug":    "flags.debug",
		"no-color": "flags.noColor",
		"log-file": "flags.logFile",
	}
	for name, id := range flags {
		if flag := rootCmd.PersistentFlags().Lookup(name); flag != nil {
			flag.Usage = i18n.T(id)
		}
	}

	listCmd.Short = i18n.T("cmd.list.short")
	listCmd.Long = i18n.T("cmd.list.long")

	getCmd.Short = i18n.T("cmd.get.short")
	getCmd.Long = i18n.T("cmd.get.long")

	browseCmd.Short = i18n.T("cmd.browse.short")
	browseCmd.Long = i18n.T("cmd.browse.long")

	deleteCmd.Short = i18n.T("cmd.delete.short")
	deleteCmd.Long = i18n.T("cmd.delete.long")

	filesCmd.Short = i18n.T("cmd.files.short")
	filesCmd.Long = i18n.T("cmd.files.long")

	inspectCmd.Short = i18n.T("cmd.inspect.short")
	inspectCmd.Long = i18n.T("cmd.inspect.long")

	permissionCmd.Short = i18n.T("cmd.permission.short")
	permissionCmd.Long = i18n.T("cmd.permission.long")
	permissionCheckCmd.Short = i18n.T("cmd.permission.check.short")
	permissionRequestCmd.Short = i18n.T("cmd.permission.request.short")

	doctorCmd.Short = i18n.T("cmd.doctor.short")
	doctorCmd.Long = i18n.T("cmd.doctor.long")

	aboutCmd.Short = i18n.T("cmd.about.short")

	configCmd.Short = i18n.T("cmd.config.short")
	configInitCmd.Short = i18n.T("cmd.config.init.short")
	configShowCmd.Short = i18n.T("cmd.config.show.short")

	versionCmd.Short = i18n.T("cmd.version.short")
	versionCmd.Long = i18n.T("cmd.version.long")
}
