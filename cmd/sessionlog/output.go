package main

import (
	"encoding/json"
	"fmt"

	"github.com/groblegark/sessionlog/internal/ui"
)

// interactive reports whether output should be formatted for a human.
func interactive() bool {
	return ui.IsInteractive()
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
