// Package cmd wires the assistant-hub CLI.
package cmd

import "github.com/spf13/cobra"

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "assistant-hub",
		Short:         "Multi-assistant conversation hub",
		Long:          "assistant-hub serves HTTP chat endpoints backed by remote assistants and manages their provisioning.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newAssistantCmd(),
		newVersionCmd(),
	)

	return rootCmd
}
