package cmd

import (
	"github.com/spf13/cobra"
)

var discardCmd = &cobra.Command{
	Use:   "discard <path...>",
	Short: "Drop local edits and restore committed links",
	Long:  "Restore each path to its last committed state. Edited content whose digest is unknown to the store is saved under the temp directory first.",
	Args:  usageArgs(cobra.MinimumNArgs(1)),
	RunE:  runDiscard,
}

func init() {
	rootCmd.AddCommand(discardCmd)
}

func runDiscard(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}
	results, err := eng.Discard(args)
	return finish(results, err)
}
