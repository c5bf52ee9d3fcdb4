package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List blobs in the store",
	Long:  "List every blob in the store with its digest and size in bytes.",
	Args:  usageArgs(cobra.NoArgs),
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	eng, err := newEngine()
	if err != nil {
		return err
	}

	blobs, err := eng.List()
	if err != nil {
		return err
	}

	if len(blobs) == 0 {
		fmt.Println("(no blobs)")
		return nil
	}
	for _, blob := range blobs {
		fmt.Printf("%s\t%d\n", blob.Digest, blob.Size)
	}
	return nil
}
