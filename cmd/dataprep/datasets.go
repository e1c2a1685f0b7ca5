package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/insightlab/dataprep/pkg/model"
	"github.com/insightlab/dataprep/pkg/render"
)

var (
	flagCleaned bool
	flagColumns string
)

var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List uploaded datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		wb, err := newWorkbench()
		if err != nil {
			return err
		}

		if flagColumns != "" {
			columns, err := wb.CleanedColumns(cmd.Context(), model.ID(flagColumns))
			if err != nil {
				return err
			}
			fmt.Printf("Columns of cleaned dataset %s: %s\n", flagColumns, strings.Join(columns, ", "))
			return nil
		}

		if flagCleaned {
			cleaned, err := wb.CleanedDatasets(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(render.CleanedDatasetTable(cleaned))
			return nil
		}

		datasets, err := wb.LoadDatasets(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(render.DatasetTable(datasets))
		return nil
	},
}

func init() {
	datasetsCmd.Flags().BoolVar(&flagCleaned, "cleaned", false, "list persisted cleaned datasets instead")
	datasetsCmd.Flags().StringVar(&flagColumns, "columns", "", "show the column names of the given cleaned dataset id")
	rootCmd.AddCommand(datasetsCmd)
}
