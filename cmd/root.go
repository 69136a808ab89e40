package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/huanfeng/mclauncher/internal/config"
	apperrors "github.com/huanfeng/mclauncher/internal/errors"
	"github.com/huanfeng/mclauncher/internal/i18n"
	"github.com/huanfeng/mclauncher/internal/version"
	"github.com/huanfeng/mclauncher/pkg/models"
	"github.com/huanfeng/mclauncher/pkg/utils"
)

var (
	cfgFile  string
	langFlag string
	verbose  bool
	debug    bool
	noColor  bool
	logFile  string

	cfg    *models.Config
	logger utils.Logger = utils.NopLogger{}
)

var rootCmd = &cobra.Command{
	Use:           "mclauncher",
	Short:         "Minecraft APK launcher",
	Long:          `mclauncher lists game client versions from a remote manifest, downloads the selected APK and opens it for installation.`,
	Version:       version.Short(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// config init must work with a broken config file
		if cmd.Name() == "init" && cmd.Parent() == configCmd {
			return nil
		}
		return setup()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if l, ok := logger.(*utils.LauncherLogger); ok {
			l.Close()
		}
	},
}

// Execute runs the root command
func Execute() {
	if err := i18n.Init(langFromArgs(os.Args[1:])); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	applyCommandLocalization()

	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default ./mclauncher.yaml or ~/.config/mclauncher/mclauncher.yaml)")
	rootCmd.PersistentFlags().StringVar(&langFlag, "lang", "", "interface language (en, pt)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show informational logs")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "show debug logs")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this file")
}

// setup loads configuration and initializes the logger
func setup() error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	if noColor || os.Getenv("NO_COLOR") != "" {
		color.NoColor = true
	}

	lc := utils.DefaultLoggerConfig()
	lc.Level = utils.ParseLogLevel(cfg.Log.Level)
	lc.Format = utils.ParseLogFormat(cfg.Log.Format)
	lc.FilePath = cfg.Log.File
	lc.EnableColor = !color.NoColor
	if verbose && lc.Level > utils.LogLevelInfo {
		lc.Level = utils.LogLevelInfo
	}
	if debug {
		lc.Level = utils.LogLevelDebug
	}
	if logFile != "" {
		lc.FilePath = logFile
	}

	l, err := utils.InitGlobalLogger(lc)
	if err != nil {
		return err
	}
	logger = l

	// the config file may pick a language when no flag was given
	if langFlag == "" && cfg.UI.Lang != "" {
		if err := i18n.Init(cfg.UI.Lang); err != nil {
			logger.Warn("i18n: %v", err)
		}
	}
	return nil
}

// langFromArgs finds --lang before cobra parses flags, so help text
// is already localized
func langFromArgs(args []string) string {
	for i, a := range args {
		switch {
		case a == "--":
			return ""
		case strings.HasPrefix(a, "--lang="):
			return strings.TrimPrefix(a, "--lang=")
		case a == "--lang" && i+1 < len(args):
			return args[i+1]
		}
	}
	return ""
}

func printError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	var le *apperrors.LauncherError
	isLauncher := errors.As(err, &le)
	if isLauncher && (verbose || debug) {
		fmt.Fprintf(os.Stderr, "%s %s", red(i18n.T("common.error")), le.FormatDetailed())
		return
	}
	fmt.Fprintf(os.Stderr, "%s %v\n", red(i18n.T("common.error")), err)
	if isLauncher && len(le.Suggestions) > 0 {
		fmt.Fprintf(os.Stderr, "  %s %s\n", i18n.T("common.suggestion"), le.Suggestions[0])
	}
}
