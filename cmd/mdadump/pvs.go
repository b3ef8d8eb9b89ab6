package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mdakit/go-mda/mda"
)

var pvsCmd = &cobra.Command{
	Use:   "pvs <file.mda>",
	Short: "List the extra process variables stored in an MDA file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := mda.Open(args[0])
		if err != nil {
			return err
		}
		if len(f.Extra) == 0 {
			fmt.Println("no extra PVs")
			return nil
		}
		for _, pv := range f.Extra {
			unit := ""
			if pv.Unit != "" {
				unit = " [" + pv.Unit + "]"
			}
			fmt.Printf("%-32s %-24s (%s) %v%s\n", pv.Name, pv.Desc, dbrName(pv.Type), pv.Value, unit)
		}
		return nil
	},
}

func dbrName(t int32) string {
	switch t {
	case mda.DBRString:
		return "string"
	case mda.DBRCtrlShort:
		return "short"
	case mda.DBRCtrlFloat:
		return "float"
	case mda.DBRCtrlChar:
		return "char"
	case mda.DBRCtrlLong:
		return "long"
	case mda.DBRCtrlDouble:
		return "double"
	default:
		return fmt.Sprintf("dbr %d", t)
	}
}

func init() {
	rootCmd.AddCommand(pvsCmd)
}
