package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	diariesCmd := &cobra.Command{Use: "diaries", Short: "Diary operations"}

	var date string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List diaries, optionally for one day",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := newClient().R()
			if date != "" {
				req.SetQueryParam("date", date)
			}
			data, err := checkStatus(req.Get("/api/diaries"))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	listCmd.Flags().StringVarP(&date, "date", "d", "", "Day filter (YYYY-MM-DD)")
	diariesCmd.AddCommand(listCmd)

	getCmd := &cobra.Command{
		Use:   "get DIARY_ID",
		Short: "Get one diary with its related events and todos",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := checkStatus(newClient().R().Get("/api/diaries/" + args[0]))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
	diariesCmd.AddCommand(getCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete DIARY_ID",
		Short: "Delete a diary and its image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := checkStatus(newClient().R().Delete("/api/diaries/" + args[0]))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(os.Stdout, "deleted")
			return nil
		},
	}
	diariesCmd.AddCommand(deleteCmd)

	rootCmd.AddCommand(diariesCmd)
}
