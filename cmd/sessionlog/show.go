package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/sessionlog/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print the accumulated events for a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := apiClient.GetSession(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if jsonOutput || !interactive() {
			return printJSON(docs)
		}

		if len(docs) == 0 {
			fmt.Printf("no events for session %s\n", args[0])
			return nil
		}
		if len(docs) > 1 {
			// More than one document means a create race left duplicates.
			fmt.Printf("warning: %d documents exist for session %s\n", len(docs), args[0])
		}
		bold, dim, reset := "", "", ""
		if ui.ShouldUseColor() {
			bold, dim, reset = "\033[1m", "\033[2m", "\033[0m"
		}
		for _, doc := range docs {
			fmt.Printf("%s%s%s (%d events)\n", bold, doc.ID, reset, len(doc.Events))
			for _, ev := range doc.Events {
				fmt.Printf("  %s%s%s  %-20s %s\n", dim, ev.CreatedAt.Format(time.RFC3339), reset, ev.Source, ev.Event)
			}
		}
		return nil
	},
}
