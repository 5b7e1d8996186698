package cmd

import (
	"github.com/spf13/cobra"
)

// cfgFile points at the server configuration file, shared by serve and the
// config subcommands.
var cfgFile string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Interact with the configuration",
	Long:  `Utilities for validating and viewing the MesaToken configuration`,
}

func init() {
	rootCmd.AddCommand(configCmd)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "mesatoken.yaml",
		"Path to the server configuration file")
}
