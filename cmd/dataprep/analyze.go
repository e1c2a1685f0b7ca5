package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insightlab/dataprep/pkg/model"
	"github.com/insightlab/dataprep/pkg/render"
	"github.com/insightlab/dataprep/pkg/workbench"
)

var flagPage int

var analyzeCmd = &cobra.Command{
	Use:   "analyze <dataset-id>",
	Short: "Analyze a dataset and show its quality and preview",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wb, err := newWorkbench()
		if err != nil {
			return err
		}

		if err := wb.Select(cmd.Context(), model.ID(args[0])); err != nil {
			return err
		}
		wb.SetPage(flagPage)
		printPreview(wb)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().IntVar(&flagPage, "page", 1, "preview page to show")
	rootCmd.AddCommand(analyzeCmd)
}

// printPreview renders the summary, per-column quality and the current
// preview page
func printPreview(wb *workbench.Session) {
	fmt.Println(render.SummaryTable(wb.Quality()))
	fmt.Println(render.QualityTable(wb.Preview()))

	rows, page, pageCount := wb.PageRows()
	start := (page-1)*wb.PageSize() + 1
	fmt.Println(render.PreviewTable(wb.Preview(), rows, start, page, pageCount))
}
