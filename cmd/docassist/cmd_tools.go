package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bububa/docassist/agents"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the tool definitions offered to each agent",
	Args:  cobra.NoArgs,
	RunE:  runTools,
}

func runTools(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	registry, err := newRegistry(ctx, cfg, zap.NewNop())
	if err != nil {
		return err
	}

	out := map[string]any{
		"tools": registry.Definitions(),
	}
	bound := make(map[string][]string, len(agentKinds))
	for _, kind := range agentKinds {
		bound[string(kind)] = agents.DefaultToolNames(kind)
	}
	out["agents"] = bound
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
