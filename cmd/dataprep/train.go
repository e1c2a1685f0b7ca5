package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insightlab/dataprep/pkg/model"
	"github.com/insightlab/dataprep/pkg/render"
)

var (
	flagModelName   string
	flagAlgorithm   string
	flagTarget      string
	flagTestSize    float64
	flagRandomState int
)

var trainCmd = &cobra.Command{
	Use:   "train <dataset-id>",
	Short: "Train a model on a dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wb, err := newWorkbench()
		if err != nil {
			return err
		}

		result, err := wb.Train(cmd.Context(), model.TrainRequest{
			DatasetID:      model.ID(args[0]),
			Name:           flagModelName,
			Algorithm:      flagAlgorithm,
			TargetVariable: flagTarget,
			TestSize:       flagTestSize,
			RandomState:    flagRandomState,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Training started: %s (id %s)\n", result.Name, string(result.ID))
		for name, value := range result.Metrics {
			fmt.Printf("  %s: %v\n", name, value)
		}
		return nil
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List trained models",
	RunE: func(cmd *cobra.Command, args []string) error {
		wb, err := newWorkbench()
		if err != nil {
			return err
		}

		models, err := wb.Models(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println(render.ModelTable(models))
		return nil
	},
}

func init() {
	trainCmd.Flags().StringVar(&flagModelName, "name", "", "model name (required)")
	trainCmd.Flags().StringVar(&flagAlgorithm, "algorithm", "", "training algorithm (required)")
	trainCmd.Flags().StringVar(&flagTarget, "target", "", "target variable column (required)")
	trainCmd.Flags().Float64Var(&flagTestSize, "test-size", 0.2, "test split fraction")
	trainCmd.Flags().IntVar(&flagRandomState, "random-state", 42, "random seed for the split")
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(modelsCmd)
}
