package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/insightlab/dataprep/pkg/model"
	"github.com/insightlab/dataprep/pkg/preview"
	"github.com/insightlab/dataprep/pkg/render"
)

var (
	flagOps  []string
	flagSave bool
)

var cleanCmd = &cobra.Command{
	Use:   "clean <dataset-id>",
	Short: "Simulate cleaning operations on a dataset preview",
	Long: `Analyze a dataset, apply cleaning operations to the local preview in
order, and show the result. Operations are only simulated; pass --save to
persist them to the backend in one batch.

Available operations:
  replace_nulls           replace every NULL with the N/A marker
  impute[=mean|median|mode]  fill numeric NULLs with a column statistic
  normalize               standard-scale numeric columns
  encode                  integer-code categorical columns`,
	Example: `  dataprep clean 12 --op replace_nulls --op normalize
  dataprep clean 12 --op impute=median --save`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(flagOps) == 0 {
			return fmt.Errorf("at least one --op is required")
		}

		requests := make([]preview.Request, 0, len(flagOps))
		for _, raw := range flagOps {
			req, err := parseOperation(raw)
			if err != nil {
				return err
			}
			requests = append(requests, req)
		}

		wb, err := newWorkbench()
		if err != nil {
			return err
		}

		if err := wb.Select(cmd.Context(), model.ID(args[0])); err != nil {
			return err
		}

		for _, req := range requests {
			if err := wb.Apply(req); err != nil {
				return err
			}
		}

		printPreview(wb)
		fmt.Println(render.PendingList(wb.PendingLabels()))

		if !flagSave {
			return nil
		}

		applied, err := wb.Save(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Saved %d operation(s): %s\n", len(applied), strings.Join(applied, ", "))
		wb.Metrics().LogSummary(logger)
		return nil
	},
}

func init() {
	cleanCmd.Flags().StringArrayVar(&flagOps, "op", nil, "operation to apply, repeatable (e.g. replace_nulls, impute=median)")
	cleanCmd.Flags().BoolVar(&flagSave, "save", false, "persist the queued operations to the backend")
	rootCmd.AddCommand(cleanCmd)
}

// parseOperation turns an "--op" value like "impute=median" into a preview
// request
func parseOperation(raw string) (preview.Request, error) {
	name, arg, _ := strings.Cut(raw, "=")

	req := preview.Request{Type: model.OperationType(name)}
	if req.Type == model.OpImpute {
		req.Method = model.ImputeMethod(arg)
	} else if arg != "" {
		return preview.Request{}, fmt.Errorf("operation %q takes no argument", name)
	}

	normalized, err := req.Normalize()
	if err != nil {
		return preview.Request{}, err
	}
	return normalized, nil
}
