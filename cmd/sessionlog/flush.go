package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flushCmd = &cobra.Command{
	Use:   "flush <session-id>",
	Short: "Delete every document accumulated for a session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := apiClient.Flush(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		if jsonOutput || !interactive() {
			return printJSON(res)
		}
		fmt.Printf("flushed %s: %d document(s) deleted\n", args[0], res.DeletedDocuments)
		return nil
	},
}
