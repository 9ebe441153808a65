package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/jd-enhancer/internal/kg"
	"github.com/jonathan/jd-enhancer/internal/search"
	"github.com/jonathan/jd-enhancer/internal/taxonomy"
)

var searchSkillsCmd = &cobra.Command{
	Use:   "search-skills <query>",
	Short: "Search skills across the curated list, knowledge graph and framework index",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearchSkills,
}

var (
	searchExclude  []string
	searchLimit    int
	searchCategory bool
)

func init() {
	searchSkillsCmd.Flags().StringSliceVar(&searchExclude, "exclude", nil, "Skill names to exclude from results")
	searchSkillsCmd.Flags().IntVar(&searchLimit, "limit", search.DefaultLimit, "Maximum number of results")
	searchSkillsCmd.Flags().BoolVar(&searchCategory, "by-category", false, "Treat the query as a category name and list that category's skills from the knowledge graph")
	rootCmd.AddCommand(searchSkillsCmd)
}

func runSearchSkills(cmd *cobra.Command, args []string) error {
	var gateway *kg.Gateway
	if endpoint := os.Getenv("FUSEKI_ENDPOINT"); endpoint != "" {
		gateway = kg.New(kg.Config{Endpoint: endpoint})
	}

	if searchCategory {
		if gateway == nil {
			return fmt.Errorf("FUSEKI_ENDPOINT environment variable is required for --by-category")
		}
		records, err := gateway.SkillsByCategory(cmd.Context(), args[0], searchLimit)
		if err != nil {
			return fmt.Errorf("category search failed: %w", err)
		}
		return printJSON(cmd, records)
	}

	catalog, err := taxonomy.Load()
	if err != nil {
		return fmt.Errorf("failed to load skill taxonomy: %w", err)
	}

	engine := search.NewEngine(catalog, gateway)
	return printJSON(cmd, engine.Search(cmd.Context(), args[0], searchExclude, searchLimit))
}

func printJSON(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
