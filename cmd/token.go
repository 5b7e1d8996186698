package cmd

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token USER",
	Short: "Show the newest stored token for a hub login",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := getClient()
		if err != nil {
			return err
		}

		log.Debug().Msgf("Fetching latest token for '%s'...", args[0])
		view, correlationID, err := cli.LatestToken(cmd.Context(), args[0])
		if err != nil {
			return logError(err, correlationID, "failed to get token")
		}

		state := greenCheck + " active"
		if view.IsExpired {
			state = redCross + " expired"
		} else if !view.IsActive {
			state = faint("inactive")
		}

		log.Info().Msgf("token %s for %s", bold(view.ID), bold(view.UserLogin))
		log.Info().Msgf("value: %s", view.MaskedValue)
		log.Info().Msgf("state: %s", state)
		log.Info().Msgf("extracted: %s", view.ExtractedAt.Format(time.RFC3339))
		log.Info().Msgf("expires: %s", view.ExpiresAt.Format(time.RFC3339))
		if view.TimeUntilExpiry != "" {
			log.Info().Msgf("time left: %s", view.TimeUntilExpiry)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}
