package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/isdelr/emote-panel-be/internal/models"
	"github.com/spf13/cobra"
)

func newEmotesCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emotes",
		Short: "Manage the emote catalog",
	}

	list := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List emotes",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(open, func(a *app) error {
				emotes := a.catalog.ListEmotes(context.Background())
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tCATEGORY\tEMOTE ID\tIMAGE")
				for _, e := range emotes {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.Category, e.EmoteID, e.ImageURL)
				}
				return w.Flush()
			})
		},
	}

	var draft models.EmoteDraft
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an emote",
		Long: `Add an emote to the catalog. Without --emote-id the id is taken from the
image file name, e.g. .../909000063.png becomes 909000063.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(open, func(a *app) error {
				emote, err := a.catalog.AddEmote(context.Background(), draft)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added emote %s (%s).\n", emote.EmoteID, emote.ID)
				return nil
			})
		},
	}
	add.Flags().StringVar(&draft.Category, "category", "", "display category")
	add.Flags().StringVar(&draft.ImageURL, "image", "", "image URL")
	add.Flags().StringVar(&draft.EmoteID, "emote-id", "", "id sent to the server")

	rm := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove an emote",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(open, func(a *app) error {
				if !a.catalog.DeleteEmote(context.Background(), args[0]) {
					fmt.Fprintf(cmd.ErrOrStderr(), "No emote with id %s.\n", args[0])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed emote %s.\n", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(list, add, rm)
	return cmd
}
