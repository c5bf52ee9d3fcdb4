package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check blob integrity",
	Long:  "Re-digest every blob in the store and report entries whose content no longer matches their digest.",
	Args:  usageArgs(cobra.NoArgs),
	RunE:  runVerify,
}

func init() {
	verifyCmd.Flags().IntP("concurrency", "c", 0, "parallel workers (default: number of CPUs)")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	concurrency, _ := cmd.Flags().GetInt("concurrency")

	eng, err := newEngine()
	if err != nil {
		return err
	}

	corrupt, err := eng.Verify(cmd.Context(), concurrency)
	if err != nil {
		return err
	}

	if len(corrupt) > 0 {
		red := color.New(color.FgRed).SprintFunc()
		for _, digest := range corrupt {
			fmt.Printf("%s corrupt blob: %s\n", red("✗"), digest)
		}
		return &runError{exitFailure, fmt.Errorf("%d corrupt blob(s)", len(corrupt))}
	}

	blobs, err := eng.List()
	if err != nil {
		return err
	}
	fmt.Printf("OK: %d blob(s) verified\n", len(blobs))
	return nil
}
