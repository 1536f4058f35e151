package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check service and database health",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := checkStatus(newClient().R().Get("/api/health/db"))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	rootCmd.AddCommand(healthCmd)
}
