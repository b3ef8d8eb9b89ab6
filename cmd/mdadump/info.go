package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mdakit/go-mda/mda"
)

var infoCmd = &cobra.Command{
	Use:   "info <file.mda>",
	Short: "Print the header and scan tree of an MDA file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := mda.Open(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("File:        %s\n", args[0])
		fmt.Printf("Version:     %.2f\n", f.Version)
		fmt.Printf("Scan number: %d\n", f.ScanNumber)
		fmt.Printf("Rank:        %d\n", f.Rank)
		fmt.Printf("Dimensions:  %s\n", joinInts(f.Dimensions))
		fmt.Printf("Regular:     %v\n", f.IsRegular)
		fmt.Printf("Extra PVs:   %d\n", len(f.Extra))
		fmt.Println()

		printScan(f.Scan, 0)
		return nil
	},
}

func printScan(s *mda.Scan, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%sScan %q (rank %d): %d/%d points, recorded %s\n",
		indent, s.Name, s.Rank, s.CurrentPoint, s.NPoints, s.Time)
	for _, p := range s.Positioners {
		fmt.Printf("%s  P%d %-28s %s [%s]\n", indent, p.Number, p.Name, p.Desc, p.Unit)
	}
	for _, d := range s.Detectors {
		fmt.Printf("%s  D%02d %-27s %s [%s]\n", indent, d.Number, d.Name, d.Desc, d.Unit)
	}
	for _, t := range s.Triggers {
		fmt.Printf("%s  T%d %-28s command=%g\n", indent, t.Number, t.Name, t.Command)
	}
	for i, inner := range s.Inner {
		if inner == nil {
			fmt.Printf("%s  [point %d not recorded]\n", indent, i)
			continue
		}
		printScan(inner, depth+1)
	}
}

func joinInts(v []int32) string {
	parts := make([]string, len(v))
	for i, d := range v {
		parts[i] = fmt.Sprint(d)
	}
	return strings.Join(parts, " x ")
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
