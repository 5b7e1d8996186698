package cmd

import (
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrative server commands",
	Long:  `Inspect extraction history and clear a wedged extraction guard. Requires an operator token (MESATOKEN_TOKEN).`,
}

func init() {
	rootCmd.AddCommand(adminCmd)
}
