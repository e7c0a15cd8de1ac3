package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/isdelr/emote-panel-be/internal/models"
	"github.com/spf13/cobra"
)

func newServersCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "servers",
		Short: "Manage dispatch servers",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List servers in display order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(open, func(a *app) error {
				servers := a.catalog.ListServers(context.Background())
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tNAME\tORDER\tCOMMAND\tURL")
				for _, s := range servers {
					fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", s.ID, s.Name, s.Order, s.EffectiveCommand(), s.APIURL)
				}
				return w.Flush()
			})
		},
	}

	var (
		name    string
		apiURL  string
		order   int
		command string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := models.ServerDraft{Name: name, APIURL: apiURL, Command: command}
			if cmd.Flags().Changed("order") {
				draft.Order = &order
			}
			return withApp(open, func(a *app) error {
				server, err := a.catalog.AddServer(context.Background(), draft)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added server %s (%s).\n", server.Name, server.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&name, "name", "", "display name")
	add.Flags().StringVar(&apiURL, "url", "", "base API URL, or rcon://password@host:port")
	add.Flags().IntVar(&order, "order", 0, "display order, ascending")
	add.Flags().StringVar(&command, "command", "", "path segment sent to the server (default \"join\")")

	rm := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a server",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(open, func(a *app) error {
				if !a.catalog.DeleteServer(context.Background(), args[0]) {
					fmt.Fprintf(cmd.ErrOrStderr(), "No server with id %s.\n", args[0])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed server %s.\n", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(list, add, rm)
	return cmd
}
