package main

import (
	"fmt"

	"bootcamp-assistant/internal/dispatcher"

	"github.com/spf13/cobra"
)

func newDigestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "digest <user-id>",
		Short: "Print the daily digest a user would receive now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, clock, err := a.repo()
			if err != nil {
				return err
			}
			record, err := repo.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dispatcher.Digest(record, clock.Now(), ""))
			return nil
		},
	}
}
