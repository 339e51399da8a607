package cmd

import (
	"fmt"

	"github.com/modernmt/mmt/internal/layout"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the MMT version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), layout.Version)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
