// Package tasktapecmder
package tasktapecmder

import (
	"github.com/spf13/cobra"

	servecmder "github.com/papercomputeco/tasktape/cmd/tasktape/serve"
)

const tasktapeLongDesc string = `Tasktape is a conversational task manager.

Chat with an LLM-backed agent that creates, lists, completes, updates,
and deletes your tasks through natural language.

Run the service using:
  tasktape serve       Run the HTTP API server`

const tasktapeShortDesc string = "Tasktape - Conversational Task Management"

func NewTasktapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasktape",
		Short: tasktapeShortDesc,
		Long:  tasktapeLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config", "", "Directory containing config.toml")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())

	return cmd
}
