package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/mdMaikon/Mesa-Premium-sub001/pkg/client"
)

var (
	extractUser    string
	extractMFACode string
	extractForce   bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Run a token extraction on the server",
	Long: `Requests a token extraction for a hub account. The password is taken
	from the MESATOKEN_PASSWORD environment variable so it never shows up in the
	shell history or the process list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		password := os.Getenv("MESATOKEN_PASSWORD")
		if password == "" {
			return fmt.Errorf("password not provided, set MESATOKEN_PASSWORD")
		}

		cli, err := getClient()
		if err != nil {
			return err
		}

		log.Info().Msgf("Requesting extraction for %s...", bold(extractUser))
		result, correlationID, err := cli.ExtractToken(cmd.Context(), extractUser, password, client.ExtractTokenOptions{
			MFACode:      extractMFACode,
			ForceRefresh: extractForce,
		})
		if err != nil {
			return logError(err, correlationID, "extraction request failed")
		}

		if !result.Success {
			log.Error().Msgf("%s %s", redCross, result.Message)
			if result.ErrorDetails != "" {
				log.Error().Msgf("details: %s", result.ErrorDetails)
			}
			return BeQuietError{}
		}

		logSuccess("%s", result.Message)
		if result.TokenID != "" {
			log.Info().Msgf("token ID: %s", bold(result.TokenID))
		}
		if result.ExpiresAt != nil {
			log.Info().Msgf("expires: %s (in %s)",
				result.ExpiresAt.Format(time.RFC3339),
				time.Until(*result.ExpiresAt).Round(time.Second))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&extractUser, "user", "u", "", "Hub user login")
	extractCmd.Flags().StringVar(&extractMFACode, "mfa", "", "Six digit MFA code (optional)")
	extractCmd.Flags().BoolVar(&extractForce, "force", false, "Extract even when a valid token is on record")

	_ = extractCmd.MarkFlagRequired("user")
}
