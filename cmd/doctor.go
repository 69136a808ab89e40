package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	apperrors "github.com/huanfeng/mclauncher/internal/errors"
	"github.com/huanfeng/mclauncher/internal/i18n"
	"github.com/huanfeng/mclauncher/pkg/system"
)

var doctorOutput string

// doctorReport collects every check so it can be printed as text or JSON
type doctorReport struct {
	StorageRoot       string              `json:"storage_root"`
	PermissionGranted bool                `json:"permission_granted"`
	Disk              *system.DiskUsage   `json:"disk,omitempty"`
	DiskError         string              `json:"disk_error,omitempty"`
	Manifest          system.Reachability `json:"manifest"`
	Issues            []string            `json:"issues"`
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose common problems",
	Long: `Check storage access, free space under the storage root and whether the
version manifest can be reached.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l := newLauncher()
		report := doctorReport{StorageRoot: storageRoot()}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		granted, err := l.permission.Check(ctx)
		if err != nil {
			logger.Debug("permission check: %v", err)
		}
		report.PermissionGranted = granted
		if !granted {
			report.Issues = append(report.Issues, i18n.T("cmd.doctor.issuePermission"))
		}

		usage, err := system.CheckDiskSpace(report.StorageRoot)
		if err != nil {
			report.DiskError = err.Error()
			logger.Warn("disk check: %v", err)
		} else {
			report.Disk = usage
			if usage.Low() {
				report.Issues = append(report.Issues, i18n.T("cmd.doctor.issueDisk", map[string]interface{}{
					"Free": formatSize(int64(usage.Available)),
				}))
			}
		}

		timeout := time.Duration(cfg.Manifest.Timeout) * time.Second
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		report.Manifest = system.NewNetworkChecker(timeout, logger).Check(ctx, cfg.Manifest.URL)
		if !report.Manifest.Reachable {
			report.Issues = append(report.Issues, i18n.T("cmd.doctor.issueManifest", map[string]interface{}{
				"Reason": report.Manifest.ErrorType,
			}))
		}

		if strings.EqualFold(doctorOutput, "json") {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return err
			}
		} else {
			printDoctorReport(report)
		}

		if len(report.Issues) > 0 {
			return apperrors.NewConfigurationError("DOCTOR_ISSUES",
				i18n.T("cmd.doctor.failed", map[string]interface{}{"Count": len(report.Issues)}))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)

	doctorCmd.Flags().StringVarP(&doctorOutput, "output", "o", "text", "output format: text, json")
}

func printDoctorReport(r doctorReport) {
	check := func(ok bool, text string) {
		if ok {
			fmt.Println(color.GreenString("✓"), text)
		} else {
			fmt.Println(color.RedString("✗"), text)
		}
	}

	check(r.PermissionGranted, i18n.T("cmd.doctor.permission", map[string]interface{}{"Root": r.StorageRoot}))

	if r.Disk != nil {
		check(!r.Disk.Low(), i18n.T("cmd.doctor.disk", map[string]interface{}{
			"Free": formatSize(int64(r.Disk.Available)),
			"Used": fmt.Sprintf("%.0f%%", r.Disk.UsedPercent()),
		}))
	} else {
		check(false, r.DiskError)
	}

	if r.Manifest.Reachable {
		check(true, i18n.T("cmd.doctor.manifest", map[string]interface{}{
			"URL":     r.Manifest.URL,
			"Latency": r.Manifest.Latency.Round(time.Millisecond).String(),
		}))
	} else {
		check(false, fmt.Sprintf("%s (%s)", r.Manifest.URL, r.Manifest.Error))
	}

	if len(r.Issues) == 0 {
		fmt.Println(i18n.T("cmd.doctor.ok"))
	}
}
