package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/huanfeng/mclauncher/internal/i18n"
	"github.com/huanfeng/mclauncher/pkg/manifest"
	"github.com/huanfeng/mclauncher/pkg/models"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Pick a version interactively",
	Long: `Show the versions grouped by kind, then download and install the chosen one.
Choose "reload" to fetch the list again.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l := newLauncher()
		if err := l.ctrl.Start(context.Background()); err != nil {
			// the picker can still offer a reload
			fmt.Println(l.ctrl.Snapshot().LoadError)
		}
		if !l.ctrl.Snapshot().PermissionGranted {
			fmt.Println(i18n.T("cmd.permission.hint"))
		}

		for {
			kind, reload, err := pickKind(l.ctrl.Snapshot().Versions)
			if err != nil {
				return interrupted(err)
			}
			if reload {
				if err := l.ctrl.Reload(context.Background()); err != nil {
					fmt.Println(l.ctrl.Snapshot().LoadError)
				}
				continue
			}

			d, back, err := pickVersion(manifest.FilterByKind(l.ctrl.Snapshot().Versions, kind))
			if err != nil {
				return interrupted(err)
			}
			if back {
				continue
			}
			return selectVersion(l, d)
		}
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func pickKind(versions []models.VersionDescriptor) (models.Kind, bool, error) {
	groups := manifest.GroupByKind(versions)
	items := make([]string, 0, len(groups)+1)
	for _, g := range groups {
		items = append(items, fmt.Sprintf("%s (%d)", kindTitle(g.Kind), len(g.Versions)))
	}
	items = append(items, i18n.T("cmd.browse.reload"))

	prompt := promptui.Select{
		Label: i18n.T("cmd.browse.kindLabel"),
		Items: items,
		Size:  len(items),
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}:",
			Active:   "▶ {{ . | cyan }}",
			Inactive: "  {{ . }}",
			Selected: "✅ {{ . | green }}",
		},
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return models.KindUnknown, false, err
	}
	if idx == len(groups) {
		return models.KindUnknown, true, nil
	}
	return groups[idx].Kind, false, nil
}

func pickVersion(versions []models.VersionDescriptor) (models.VersionDescriptor, bool, error) {
	items := make([]string, 0, len(versions)+1)
	for _, d := range versions {
		name := runewidth.FillRight(runewidth.Truncate(d.Name, nameColumnWidth, "..."), nameColumnWidth)
		items = append(items, name+"  "+d.RawVersion)
	}
	items = append(items, i18n.T("cmd.browse.back"))

	prompt := promptui.Select{
		Label:             i18n.T("cmd.browse.versionLabel"),
		Items:             items,
		Size:              10,
		StartInSearchMode: false,
		Searcher: func(input string, index int) bool {
			return index < len(versions) && containsFold(versions[index].Name, input)
		},
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}:",
			Active:   "▶ {{ . | cyan }}",
			Inactive: "  {{ . }}",
			Selected: "✅ {{ . | green }}",
		},
	}
	idx, _, err := prompt.Run()
	if err != nil {
		return models.VersionDescriptor{}, false, err
	}
	if idx == len(versions) {
		return models.VersionDescriptor{}, true, nil
	}
	return versions[idx], false, nil
}

// interrupted turns Ctrl+C in a prompt into a clean exit
func interrupted(err error) error {
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return nil
	}
	return err
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
