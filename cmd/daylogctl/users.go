package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	usersCmd := &cobra.Command{Use: "users", Short: "User operations"}

	var email, name string
	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				return fmt.Errorf("--email required")
			}
			payload := map[string]interface{}{"email": email}
			if name != "" {
				payload["name"] = name
			}
			data, err := checkStatus(newClient().R().SetBody(payload).Post("/api/users"))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	registerCmd.Flags().StringVarP(&email, "email", "e", "", "Account email (required)")
	registerCmd.Flags().StringVarP(&name, "name", "n", "", "Display name")
	_ = registerCmd.MarkFlagRequired("email")
	usersCmd.AddCommand(registerCmd)

	meCmd := &cobra.Command{
		Use:   "me",
		Short: "Show the account behind the token",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := checkStatus(newClient().R().Get("/api/users/me"))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	usersCmd.AddCommand(meCmd)

	rootCmd.AddCommand(usersCmd)
}
