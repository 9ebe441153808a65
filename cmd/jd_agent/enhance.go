package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/jd-enhancer/internal/config"
	"github.com/jonathan/jd-enhancer/internal/extraction"
	"github.com/jonathan/jd-enhancer/internal/kg"
	"github.com/jonathan/jd-enhancer/internal/llm"
	"github.com/jonathan/jd-enhancer/internal/observability"
	"github.com/jonathan/jd-enhancer/internal/pipeline"
	"github.com/jonathan/jd-enhancer/internal/regeneration"
	"github.com/jonathan/jd-enhancer/internal/resolution"
	"github.com/jonathan/jd-enhancer/internal/taxonomy"
	"github.com/jonathan/jd-enhancer/internal/types"
)

var enhanceCmd = &cobra.Command{
	Use:   "enhance",
	Short: "Enhance a job description with framework skills",
	Long:  "Run the full enhancement pipeline over a job description file: extract keywords, resolve them to canonical skills, assign proficiency levels, and regenerate the text.",
	RunE:  runEnhance,
}

var (
	enhanceJobFile    string
	enhanceConfigPath string
	enhanceOutFile    string
	enhanceOrgFile    string
	enhanceFuseki     string
	enhanceVerbose    bool
)

func init() {
	enhanceCmd.Flags().StringVarP(&enhanceJobFile, "job", "j", "", "Path to job description text file")
	enhanceCmd.Flags().StringVarP(&enhanceConfigPath, "config", "c", "", "Path to JSON config file")
	enhanceCmd.Flags().StringVarP(&enhanceOutFile, "out", "o", "", "Write the result JSON to this file instead of stdout")
	enhanceCmd.Flags().StringVar(&enhanceOrgFile, "org-context", "", "Path to a JSON file with organizational context")
	enhanceCmd.Flags().StringVar(&enhanceFuseki, "fuseki", "", "Knowledge graph SPARQL endpoint (overrides FUSEKI_ENDPOINT)")
	enhanceCmd.Flags().BoolVarP(&enhanceVerbose, "verbose", "v", false, "Print detailed debug information")

	rootCmd.AddCommand(enhanceCmd)
}

func runEnhance(cmd *cobra.Command, _ []string) error {
	cfg := config.Config{
		Job:            enhanceJobFile,
		FusekiEndpoint: enhanceFuseki,
		APIKey:         os.Getenv("GEMINI_API_KEY"),
		Verbose:        enhanceVerbose,
	}
	if enhanceConfigPath != "" {
		fileCfg, err := config.LoadConfig(enhanceConfigPath)
		if err != nil {
			return err
		}
		cfg = cfg.MergeWithDefaults(*fileCfg)
	}
	if cfg.FusekiEndpoint == "" {
		cfg.FusekiEndpoint = os.Getenv("FUSEKI_ENDPOINT")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Job == "" {
		return fmt.Errorf("--job is required (or set 'job' in the config file)")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	jobText, err := os.ReadFile(cfg.Job)
	if err != nil {
		return fmt.Errorf("failed to read job file: %w", err)
	}

	var org *types.OrgContext
	if enhanceOrgFile != "" {
		data, err := os.ReadFile(enhanceOrgFile)
		if err != nil {
			return fmt.Errorf("failed to read org context file: %w", err)
		}
		org = &types.OrgContext{}
		if err := json.Unmarshal(data, org); err != nil {
			return fmt.Errorf("failed to parse org context JSON: %w", err)
		}
	}

	ctx := context.Background()

	catalog, err := taxonomy.Load()
	if err != nil {
		return fmt.Errorf("failed to load skill taxonomy: %w", err)
	}

	client, err := llm.NewClient(ctx, nil, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer func() { _ = client.Close() }()

	var gateway *kg.Gateway
	if cfg.FusekiEndpoint != "" {
		gateway = kg.New(kg.Config{Endpoint: cfg.FusekiEndpoint})
	}

	p := &pipeline.Pipeline{
		Extractor:   extraction.NewExtractor(client),
		Resolver:    resolution.NewResolver(gateway, catalog),
		Regenerator: regeneration.NewRegenerator(client),
		Verbose:     cfg.Verbose,
	}

	result, err := p.Enhance(ctx, string(jobText), org)
	if err != nil {
		return err
	}

	if cfg.Verbose {
		observability.NewPrinter(os.Stdout).PrintResult(result)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if enhanceOutFile != "" {
		if err := os.WriteFile(enhanceOutFile, append(out, '\n'), 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Result written to %s\n", enhanceOutFile)
		return nil
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
