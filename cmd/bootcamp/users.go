package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newUsersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Inspect stored user records",
	}

	cmd.AddCommand(
		newUsersListCmd(a),
		newUsersShowCmd(a),
	)

	return cmd
}

func newUsersListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every user with streak, week and penalty",
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, _, err := a.repo()
			if err != nil {
				return err
			}
			users, err := repo.Load(cmd.Context())
			if err != nil {
				return err
			}

			ids := make([]string, 0, len(users))
			for id := range users {
				ids = append(ids, id)
			}
			sort.Strings(ids)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "USER\tNAME\tWEEK\tSTREAK\tDAYS\tPENALTY\tLAST CHECKLIST")
			for _, id := range ids {
				u := users[id]
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
					id, u.Name, u.CurrentWeek, u.Streak, u.TotalDays, humanize.Comma(u.Penalty), u.LastChecklistDate)
			}
			return w.Flush()
		},
	}
}

func newUsersShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <user-id>",
		Short: "Print one user record as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, _, err := a.repo()
			if err != nil {
				return err
			}
			record, err := repo.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(record)
		},
	}
}
