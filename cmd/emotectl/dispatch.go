package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/isdelr/emote-panel-be/internal/models"
	"github.com/spf13/cobra"
)

func newDispatchCmd(open opener) *cobra.Command {
	var (
		req  models.DispatchRequest
		uids [len(models.UIDKeys)]string
	)
	cmd := &cobra.Command{
		Use:   "dispatch",
		Short: "Send one emote to a server",
		Long: `Send one emote the way the user panel does. The outcome is printed as the
panel would show it; a sent emote only means the request went out.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.UIDs = make(map[string]string, len(uids))
			for i, key := range models.UIDKeys {
				req.UIDs[key] = uids[i]
			}
			return withApp(open, func(a *app) error {
				result := a.dispatch.SendEmote(context.Background(), uuid.New().String(), req)
				out := cmd.OutOrStdout()
				fmt.Fprintln(out, result.Message)
				if result.URL != "" {
					fmt.Fprintln(out, result.URL)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.ServerID, "server", "", "server id")
	cmd.Flags().StringVar(&req.EmoteID, "emote", "", "emote id sent to the server")
	cmd.Flags().StringVar(&req.TeamCode, "tc", "", "team code")
	for i, key := range models.UIDKeys {
		cmd.Flags().StringVar(&uids[i], key, "", "target uid slot "+key[3:])
	}
	return cmd
}
