package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/huanfeng/mclauncher/internal/i18n"
	"github.com/huanfeng/mclauncher/pkg/manifest"
	"github.com/huanfeng/mclauncher/pkg/models"
)

var (
	listKind   string
	listOutput string
)

const nameColumnWidth = 40

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available versions",
	Long:  `Fetch the version list and print it grouped by kind, newest first.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var kind models.Kind
		if listKind != "" {
			kind = models.ParseKind(listKind)
			if kind == models.KindUnknown {
				return fmt.Errorf("%s: %q", i18n.T("cmd.list.errKind"), listKind)
			}
		}

		l := newLauncher()
		if err := l.ctrl.Start(context.Background()); err != nil {
			return fmt.Errorf("%s: %w", l.ctrl.Snapshot().LoadError, err)
		}
		versions := l.ctrl.Snapshot().Versions
		if kind != models.KindUnknown {
			versions = manifest.FilterByKind(versions, kind)
		}

		switch strings.ToLower(listOutput) {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(versions)
		case "yaml":
			return yaml.NewEncoder(os.Stdout).Encode(versions)
		case "", "table":
			printVersionTable(os.Stdout, versions)
			return nil
		default:
			return fmt.Errorf("%s: %q", i18n.T("cmd.list.errOutput"), listOutput)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listKind, "kind", "k", "", "only show one kind (Stable, Beta, Legacy)")
	listCmd.Flags().StringVarP(&listOutput, "output", "o", "table", "output format: table, json, yaml")
}

func printVersionTable(w io.Writer, versions []models.VersionDescriptor) {
	if len(versions) == 0 {
		fmt.Fprintln(w, i18n.T("cmd.list.empty"))
		return
	}

	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	for _, group := range manifest.GroupByKind(versions) {
		if len(group.Versions) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s (%d)\n", bold(kindTitle(group.Kind)), len(group.Versions))
		for _, d := range group.Versions {
			name := runewidth.FillRight(runewidth.Truncate(d.Name, nameColumnWidth, "..."), nameColumnWidth)
			fmt.Fprintf(w, "  %s  %s\n", name, faint(d.RawVersion))
		}
	}
}

// kindTitle is the localized tab title of a kind
func kindTitle(k models.Kind) string {
	return i18n.T("kind." + strings.ToLower(string(k)))
}
