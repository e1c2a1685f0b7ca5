package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flagResetIdentity bool

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the persistent session identity",
	RunE: func(cmd *cobra.Command, args []string) error {
		identity, err := newIdentity()
		if err != nil {
			return err
		}

		if flagResetIdentity {
			if err := identity.Reset(); err != nil {
				return err
			}
			fmt.Println("Session identity reset.")
		}

		userID, err := identity.UserID()
		if err != nil {
			return err
		}
		fmt.Println(userID)
		return nil
	},
}

func init() {
	whoamiCmd.Flags().BoolVar(&flagResetIdentity, "reset", false, "discard the stored identity and mint a new one")
	rootCmd.AddCommand(whoamiCmd)
}
