package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "contactmerge",
	Short: "Find and merge duplicate contacts in address-book exports",
	Long: `contactmerge reads vCard, CSV or XLSX address-book exports, finds records
that likely describe the same person by comparing phone numbers, email
addresses and full names, and either links them (match/certainty columns) or
merges them into single records.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
