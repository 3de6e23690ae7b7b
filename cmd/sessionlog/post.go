package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/sessionlog/internal/model"
)

var postAt string

var postCmd = &cobra.Command{
	Use:   "post <session-id> <agent-name> <event>",
	Short: "Submit one event to the ingress",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		at := postAt
		if at == "" {
			at = time.Now().UTC().Format(time.RFC3339)
		}

		res, err := apiClient.PostEvent(cmd.Context(), model.EventRecord{
			SessionID: args[0],
			AgentName: args[1],
			Event:     args[2],
			CreatedAt: at,
		})
		if err != nil {
			return err
		}

		if jsonOutput || !interactive() {
			return printJSON(res)
		}
		if res.Action == "flush" {
			fmt.Printf("flushed %s: %d document(s) deleted\n", args[0], res.DeletedDocuments)
			return nil
		}
		verb := "appended to"
		if res.Created {
			verb = "created"
		}
		fmt.Printf("%s %s (%s)\n", verb, args[0], res.DocumentID)
		return nil
	},
}

func init() {
	postCmd.Flags().StringVar(&postAt, "at", "", "event timestamp (RFC 3339, default now)")
}
