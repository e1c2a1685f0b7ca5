package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a dataset file (.csv, .xls or .xlsx)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wb, err := newWorkbench()
		if err != nil {
			return err
		}

		result, err := wb.Upload(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Uploaded %s: %d rows, %d columns\n", result.FileName, result.Rows, result.Columns)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
