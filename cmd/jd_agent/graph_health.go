package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/jd-enhancer/internal/kg"
)

var graphHealthCmd = &cobra.Command{
	Use:   "graph-health",
	Short: "Probe the knowledge graph endpoint",
	Long:  "Probe the configured SPARQL endpoint and report reachability and the triple count estimate.",
	RunE:  runGraphHealth,
}

func init() {
	rootCmd.AddCommand(graphHealthCmd)
}

func runGraphHealth(cmd *cobra.Command, _ []string) error {
	endpoint := os.Getenv("FUSEKI_ENDPOINT")
	if endpoint == "" {
		return fmt.Errorf("FUSEKI_ENDPOINT environment variable is required")
	}

	gateway := kg.New(kg.Config{Endpoint: endpoint})
	health := gateway.Health(cmd.Context())

	out, err := json.MarshalIndent(health, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode health: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
