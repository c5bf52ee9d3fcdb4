package cmd

import (
	"github.com/spf13/cobra"
)

var storeCmd = &cobra.Command{
	Use:   "store <path...>",
	Short: "Move files into the binary store",
	Long:  "Move each file's content into the store and replace the file with a symbolic link, staged in git. Directories are descended into; text files are staged directly.",
	Args:  usageArgs(cobra.MinimumNArgs(1)),
	RunE:  runStore,
}

func init() {
	rootCmd.AddCommand(storeCmd)
}

func runStore(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}
	results, err := eng.Store(args)
	return finish(results, err)
}
