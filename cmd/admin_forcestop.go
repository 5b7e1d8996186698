package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var adminForceStopCmd = &cobra.Command{
	Use:   "force-stop",
	Short: "Clear a wedged extraction guard",
	Long: `Marks the server's extraction guard as idle. Use this when a run
	crashed in a way that left the guard stuck; it does not kill the underlying
	automation process.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cli, err := getClient()
		if err != nil {
			return err
		}

		stopped, correlationID, err := cli.ForceStop(cmd.Context())
		if err != nil {
			return logError(err, correlationID, "force-stop failed")
		}

		if stopped {
			logSuccess("cleared a running extraction guard")
		} else {
			log.Info().Msg("no extraction was running, nothing to clear")
		}
		return nil
	},
}

func init() {
	adminCmd.AddCommand(adminForceStopCmd)
}
