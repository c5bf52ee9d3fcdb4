package cmd

import (
	"github.com/spf13/cobra"
)

var unlockCmd = &cobra.Command{
	Use:   "unlock <path...>",
	Short: "Materialize linked files for editing",
	Long:  "Replace each store symlink with an ordinary file holding the blob's bytes. Paths that are not store links are skipped.",
	Args:  usageArgs(cobra.MinimumNArgs(1)),
	RunE:  runUnlock,
}

func init() {
	rootCmd.AddCommand(unlockCmd)
}

func runUnlock(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}
	results, err := eng.Unlock(args)
	return finish(results, err)
}
