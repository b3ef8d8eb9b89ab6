package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdakit/go-mda/folder"
)

var lsCmd = &cobra.Command{
	Use:   "ls <dir>",
	Short: "Summarize every MDA file in a folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s := folder.NewScanner(folder.ScannerConfig{Logger: logger})
		res, err := s.Scan(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		for _, sum := range res.Summaries {
			fmt.Printf("%-40s scan %-6d rank %d  %-12s %8d bytes  %s\n",
				sum.Path, sum.ScanNumber, sum.Rank, joinInts(sum.Dimensions),
				sum.Size, sum.ModTime.Format("2006-01-02 15:04:05"))
		}
		if res.Skipped > 0 {
			fmt.Printf("%d file(s) skipped (unreadable or not valid MDA)\n", res.Skipped)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(lsCmd)
}
