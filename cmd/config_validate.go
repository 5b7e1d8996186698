package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mdMaikon/Mesa-Premium-sub001/internal/config"
)

// configValidateCmd represents the config validate command
var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			log.Error().Err(err).Msg("Configuration is invalid.")
			return BeQuietError{}
		}
		logSuccess("Configuration is valid.")
		log.Info().Msgf("automation: %s (%s), storage: %s, pool size: %d",
			cfg.Automation.Name, cfg.Automation.Type, cfg.Storage.Type, cfg.Pool.Size)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configValidateCmd)
}
