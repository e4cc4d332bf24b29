/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/orien/rebake/internal/journal"
	"github.com/spf13/cobra"
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history [group]",
	Short: "List past deployments",
	Long: `List past deployments recorded in the local journal, newest first.

Failed deployments show what they left behind: a detached instance or an
image that never made it into a launch template. Clean these up by hand or
deploy again.

Examples:
  rebake history                # Recent deployments of every group
  rebake history web-asg -n 5   # The last five deployments of web-asg
  rebake history --run <id>     # Every step of one deployment`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		j, err := journal.Open(cfg.Journal)
		if err != nil {
			return err
		}

		if runID, _ := cmd.Flags().GetString("run"); runID != "" {
			rec, err := j.Get(runID)
			if err != nil {
				return err
			}
			writeRecord(cmd.OutOrStdout(), rec)
			return nil
		}

		group := ""
		if len(args) > 0 {
			group = args[0]
		}
		limit, _ := cmd.Flags().GetInt("limit")

		records, err := j.List(group, limit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No deployments recorded")
			return nil
		}

		writeRecords(cmd.OutOrStdout(), records)
		return nil
	},
}

func writeRecords(w io.Writer, records []journal.Record) {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.ID,
			rec.Group,
			rec.Account,
			statusText(rec),
			rec.Started.Local().Format(time.DateTime),
			rec.ImageID,
			residueText(rec),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("RUN", "GROUP", "ACCOUNT", "STATUS", "STARTED", "IMAGE", "LEFT BEHIND").
		Rows(rows...)
	fmt.Fprintln(w, t.String())
}

func writeRecord(w io.Writer, rec *journal.Record) {
	fmt.Fprintf(w, "Run: %s\n", rec.ID)
	fmt.Fprintf(w, "Group: %s\n", rec.Group)
	fmt.Fprintf(w, "Account: %s\n", rec.Account)
	fmt.Fprintf(w, "Status: %s\n", statusText(*rec))
	fmt.Fprintf(w, "Started: %s\n", rec.Started.Local().Format(time.DateTime))
	if !rec.Finished.IsZero() {
		fmt.Fprintf(w, "Finished: %s\n", rec.Finished.Local().Format(time.DateTime))
	}
	if rec.InstanceID != "" {
		fmt.Fprintf(w, "Instance: %s\n", rec.InstanceID)
	}
	if rec.ImageID != "" {
		fmt.Fprintf(w, "Image: %s\n", rec.ImageID)
	}
	if rec.TemplateVersion != 0 {
		fmt.Fprintf(w, "Template version: %d\n", rec.TemplateVersion)
	}
	if rec.RefreshID != "" {
		fmt.Fprintf(w, "Instance refresh: %s\n", rec.RefreshID)
	}
	if rec.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", rec.Error)
	}
	if len(rec.Residue) > 0 {
		fmt.Fprintf(w, "Left behind: %s\n", residueText(*rec))
	}

	if len(rec.Steps) > 0 {
		fmt.Fprintln(w, "\nSteps:")
		for _, step := range rec.Steps {
			line := fmt.Sprintf("  %s %-18s %s", step.Time.Local().Format(time.TimeOnly), step.Name, step.Status)
			if step.Detail != "" {
				line += ": " + step.Detail
			}
			fmt.Fprintln(w, line)
		}
	}
}

func statusText(rec journal.Record) string {
	if rec.Status == journal.StatusFailed && rec.FailedStep != "" {
		return fmt.Sprintf("failed at %s", rec.FailedStep)
	}
	return rec.Status
}

func residueText(rec journal.Record) string {
	parts := make([]string, len(rec.Residue))
	for i, res := range rec.Residue {
		parts[i] = res.String()
	}
	return strings.Join(parts, ", ")
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntP("limit", "n", 20, "number of deployments to show (0 for all)")
	historyCmd.Flags().String("run", "", "show every step of one deployment")
}
