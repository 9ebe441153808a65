// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/jd-enhancer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 10
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintKeywords outputs the extracted keyword set.
func (p *Printer) PrintKeywords(keywords []string) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Extracted %d keywords\n\n", len(keywords)))

	count := min(len(keywords), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", keywords[i]))
	}
	if len(keywords) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(keywords)-maxItemsToShow))
	}

	p.printBox("EXTRACTED KEYWORDS", sb.String())
}

// PrintSkills outputs a human-readable summary of the leveled skill set.
func (p *Printer) PrintSkills(skills []types.LeveledSkill) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Resolved %d skills\n\n", len(skills)))

	count := min(len(skills), maxItemsToShow)
	for i := 0; i < count; i++ {
		s := skills[i]
		sb.WriteString(fmt.Sprintf("  • %s (%s)\n", s.Name, s.Code))
		sb.WriteString(fmt.Sprintf("    Level %d: %s [%s]\n", s.Level, s.LevelName, s.Framework))
	}
	if len(skills) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(skills)-maxItemsToShow))
	}

	p.printBox("RESOLVED SKILLS", sb.String())
}

// PrintCandidates outputs search candidates with their score bands.
func (p *Printer) PrintCandidates(candidates []types.Candidate) {
	var sb strings.Builder
	for _, c := range candidates {
		sb.WriteString(fmt.Sprintf("  %3d  %-8s %s\n", c.Score, c.Source, c.Record.Name))
	}
	if len(candidates) == 0 {
		sb.WriteString("  (no candidates)\n")
	}

	p.printBox("SKILL CANDIDATES", sb.String())
}

// PrintResult outputs a run summary: connectivity, counts and stage messages.
func (p *Printer) PrintResult(result *types.EnhancementResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Graph connected:  %t\n", result.GraphConnected))
	sb.WriteString(fmt.Sprintf("Keywords:         %d\n", len(result.ExtractedKeywords)))
	sb.WriteString(fmt.Sprintf("Skills:           %d\n", len(result.Skills)))
	sb.WriteString(fmt.Sprintf("Output length:    %d chars\n", len(result.RegeneratedText)))

	if len(result.Messages) > 0 {
		sb.WriteString("\nStages:\n")
		for _, msg := range result.Messages {
			sb.WriteString(fmt.Sprintf("  • %s\n", msg))
		}
	}

	p.printBox("ENHANCEMENT SUMMARY", sb.String())
}
