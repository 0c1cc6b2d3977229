package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/auditdesk/assistant-hub/internal/config"
	"github.com/auditdesk/assistant-hub/internal/openai"
	"github.com/auditdesk/assistant-hub/internal/provision"
)

func newAssistantCmd() *cobra.Command {
	assistantCmd := &cobra.Command{
		Use:   "assistant",
		Short: "Manage remote assistants",
	}

	assistantCmd.AddCommand(
		newAssistantCreateCmd(),
		newAssistantListCmd(),
		newAssistantGetCmd(),
		newAssistantUpdateCmd(),
		newAssistantDeleteCmd(),
	)

	return assistantCmd
}

// provisioningClient builds an API client for provisioning flows, which,
// unlike the server, refuse to run without a credential.
func provisioningClient() (*openai.Client, *config.Config, error) {
	cfg := config.Load()
	if cfg.APIKey == "" {
		return nil, nil, errors.New("OPENAI_API_KEY is not set")
	}
	return openai.NewClient(cfg.APIKey), cfg, nil
}

func newAssistantCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <key>",
		Short: "Find or create the remote assistant for a local definition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := provisioningClient()
			if err != nil {
				return err
			}
			def, err := definitionByKey(cfg.AssistantsDir, args[0])
			if err != nil {
				return err
			}
			rt, err := provision.Ensure(cmd.Context(), client, def)
			if err != nil {
				return err
			}
			fmt.Printf("Assistant %q is provisioned\n", def.Key)
			fmt.Printf("  ID:    %s\n", rt.AssistantID)
			fmt.Printf("  Name:  %s\n", rt.Name)
			fmt.Printf("  Model: %s\n", rt.Model)
			fmt.Printf("  Runtime record: %s\n", filepath.Join(def.Dir, provision.RuntimeFile))
			return nil
		},
	}
}

func newAssistantListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all remote assistants",
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, _, err := provisioningClient()
			if err != nil {
				return err
			}
			assistants, err := client.ListAssistants(cmd.Context(), 100)
			if err != nil {
				return err
			}
			if len(assistants) == 0 {
				fmt.Println("No assistants found.")
				return nil
			}
			for i, a := range assistants {
				name := a.Name
				if name == "" {
					name = "(unnamed)"
				}
				fmt.Printf("%d. %s\n", i+1, name)
				fmt.Printf("   ID:      %s\n", a.ID)
				fmt.Printf("   Model:   %s\n", a.Model)
				fmt.Printf("   Created: %s\n", time.Unix(a.CreatedAt, 0).UTC().Format(time.RFC3339))
			}
			return nil
		},
	}
}

func newAssistantGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <assistant-id>",
		Short: "Show one remote assistant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := provisioningClient()
			if err != nil {
				return err
			}
			a, err := client.GetAssistant(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("ID:           %s\n", a.ID)
			fmt.Printf("Name:         %s\n", a.Name)
			fmt.Printf("Model:        %s\n", a.Model)
			fmt.Printf("Instructions: %s\n", a.Instructions)
			return nil
		},
	}
}

func newAssistantUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <key>",
		Short: "Push the local definition to the provisioned remote assistant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, cfg, err := provisioningClient()
			if err != nil {
				return err
			}
			def, err := definitionByKey(cfg.AssistantsDir, args[0])
			if err != nil {
				return err
			}
			rt, err := provision.LoadRuntime(def.Dir)
			if err != nil {
				return err
			}
			if rt == nil || rt.AssistantID == "" {
				return fmt.Errorf("assistant %q has no runtime record; run \"assistant create %s\" first", def.Key, def.Key)
			}
			updated, err := client.UpdateAssistant(cmd.Context(), rt.AssistantID, provision.Request(def.Config))
			if err != nil {
				return err
			}
			fmt.Printf("Updated assistant %s (%s)\n", updated.Name, updated.ID)
			return nil
		},
	}
}

func newAssistantDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <assistant-id>",
		Short: "Delete a remote assistant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, _, err := provisioningClient()
			if err != nil {
				return err
			}
			if err := client.DeleteAssistant(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Deleted assistant %s\n", args[0])
			return nil
		},
	}
}

func definitionByKey(dir, key string) (provision.Definition, error) {
	defs, err := provision.LoadDefinitions(dir)
	if err != nil {
		return provision.Definition{}, err
	}
	for _, def := range defs {
		if def.Key == key {
			return def, nil
		}
	}
	return provision.Definition{}, fmt.Errorf("no assistant definition %q under %s", key, dir)
}
