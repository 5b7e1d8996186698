package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/core"
)

var extractionsLimit int

var adminExtractionsCmd = &cobra.Command{
	Use:     "extractions",
	Aliases: []string{"logs"},
	Short:   "List recent extraction runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := getClient()
		if err != nil {
			return err
		}

		log.Debug().Msg("Retrieving extraction logs...")
		entries, correlationID, err := cli.Extractions(cmd.Context(), extractionsLimit)
		if err != nil {
			return logError(err, correlationID, "failed to list extractions")
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"ID", "Login", "Status", "Started", "Duration", "Error"})

		for _, entry := range entries {
			duration := "n/a"
			if entry.CompletedAt != nil {
				duration = entry.CompletedAt.Sub(entry.StartedAt).Round(time.Millisecond).String()
			}

			t.AppendRow(table.Row{
				truncate(entry.ID, 12),
				color.New(color.Bold).Sprint(entry.HubLogin),
				formatLogStatus(entry.Status),
				entry.StartedAt.Format(time.RFC3339),
				duration,
				truncate(entry.ErrorMessage, 48),
			})
		}

		applyTableFormat(t)
		t.Render()
		return nil
	},
}

func formatLogStatus(status core.LogStatus) string {
	switch status {
	case core.StatusSuccess:
		return greenCheck + " " + string(status)
	case core.StatusFailed:
		return redCross + " " + string(status)
	case core.StatusInProgress:
		return color.BlueString(string(status))
	default:
		return string(status)
	}
}

func init() {
	adminCmd.AddCommand(adminExtractionsCmd)

	adminExtractionsCmd.Flags().IntVarP(&extractionsLimit, "limit", "n", 50,
		fmt.Sprintf("Maximum number of entries to fetch (max %d)", 200))
}
