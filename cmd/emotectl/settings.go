package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newSettingsCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change panel settings",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the settings record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(open, func(a *app) error {
				s := a.settings.GetSettings(context.Background())
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintf(w, "accessKey\t%s\n", s.AccessKey)
				fmt.Fprintf(w, "getKeyUrl\t%s\n", s.GetKeyURL)
				fmt.Fprintf(w, "maintenanceMode\t%t\n", s.MaintenanceMode)
				fmt.Fprintf(w, "adminEmail\t%s\n", s.AdminEmail)
				fmt.Fprintf(w, "youtube\t%s\n", s.SocialLinks.YouTube)
				fmt.Fprintf(w, "telegram\t%s\n", s.SocialLinks.Telegram)
				fmt.Fprintf(w, "instagram\t%s\n", s.SocialLinks.Instagram)
				fmt.Fprintf(w, "discord\t%s\n", s.SocialLinks.Discord)
				return w.Flush()
			})
		},
	}

	setKey := &cobra.Command{
		Use:   "set-key <key>",
		Short: "Replace the user access key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(open, func(a *app) error {
				ctx := context.Background()
				s := a.settings.GetSettings(ctx)
				s.AccessKey = args[0]
				a.settings.SaveSettings(ctx, s)
				fmt.Fprintln(cmd.OutOrStdout(), "Access key updated.")
				return nil
			})
		},
	}

	maintenance := &cobra.Command{
		Use:       "maintenance <on|off>",
		Short:     "Turn maintenance mode on or off",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(open, func(a *app) error {
				ctx := context.Background()
				s := a.settings.GetSettings(ctx)
				s.MaintenanceMode = args[0] == "on"
				a.settings.SaveSettings(ctx, s)
				fmt.Fprintf(cmd.OutOrStdout(), "Maintenance mode %s.\n", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(show, setKey, maintenance)
	return cmd
}
