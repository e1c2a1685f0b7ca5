package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/insightlab/dataprep/pkg/api"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend availability",
	RunE: func(cmd *cobra.Command, args []string) error {
		identity, err := newIdentity()
		if err != nil {
			return err
		}

		client, err := api.NewClient(cfg, identity, logger)
		if err != nil {
			return err
		}

		if err := client.Health(cmd.Context()); err != nil {
			return fmt.Errorf("backend unreachable: %w", err)
		}
		fmt.Println("Backend is healthy.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
