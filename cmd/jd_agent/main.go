// Package main provides the entry point for the JD Enhancer CLI and server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jd_agent",
	Short: "Job Description Enhancer",
	Long:  "JD Enhancer rewrites job descriptions around canonical framework skills (SFIA, ESCO) resolved from a knowledge graph, with proficiency levels derived from the posting's seniority signals.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
