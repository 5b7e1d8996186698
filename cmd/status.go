package cmd

import (
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the server's extraction status",
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := getClient()
		if err != nil {
			return err
		}

		log.Debug().Msg("Fetching processing status...")
		state, correlationID, err := cli.Status(cmd.Context())
		if err != nil {
			return logError(err, correlationID, "failed to get status")
		}

		if state.IsProcessing {
			log.Info().Msgf("state: %s (process %s)",
				color.BlueString("extracting"), state.ProcessID)
			if state.StartTime != nil {
				log.Info().Msgf("running for %s",
					time.Since(*state.StartTime).Round(time.Second))
			}
		} else {
			log.Info().Msgf("state: %s", faint("idle"))
		}

		if last := state.LastResult; last != nil {
			prefix := redCross
			if last.Success {
				prefix = greenCheck
			}
			log.Info().Msgf("last result: %s %s", prefix, last.Message)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
