// Package pipeline provides the high-level orchestration for job description
// enhancement: extract keywords, resolve them to canonical skills, assign
// proficiency levels, and regenerate the text.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/jd-enhancer/internal/extraction"
	"github.com/jonathan/jd-enhancer/internal/leveling"
	"github.com/jonathan/jd-enhancer/internal/observability"
	"github.com/jonathan/jd-enhancer/internal/regeneration"
	"github.com/jonathan/jd-enhancer/internal/resolution"
	"github.com/jonathan/jd-enhancer/internal/types"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// Stage names, used in progress events and fatal errors
const (
	StageExtraction   = "extraction"
	StageResolution   = "resolution"
	StageLeveling     = "leveling"
	StageRegeneration = "regeneration"
)

// Pipeline wires the four enhancement stages together. State accumulates
// monotonically across stages: each stage only appends to the result, so a
// fatal failure can always hand back everything produced before it.
type Pipeline struct {
	Extractor   *extraction.Extractor
	Resolver    *resolution.Resolver
	Regenerator *regeneration.Regenerator
	Verbose     bool
	OnProgress  ProgressCallback
}

// Enhance runs the full pipeline over one job description. Extraction and
// regeneration failures degrade the result and are reported in Messages;
// knowledge graph failures after a healthy probe abort with an
// *EnhancementError carrying the partial result.
func (p *Pipeline) Enhance(ctx context.Context, jobText string, org *types.OrgContext) (*types.EnhancementResult, error) {
	if strings.TrimSpace(jobText) == "" {
		return nil, &EnhancementError{Kind: ErrInvalidInput, Stage: StageExtraction,
			Cause: fmt.Errorf("job description text is empty")}
	}

	runID := uuid.New().String()
	result := &types.EnhancementResult{RegeneratedText: jobText}
	printer := observability.NewPrinter(os.Stdout)

	// Step 1: extract keywords
	fmt.Printf("Step 1/4: Extracting skill keywords...\n")
	keywords, err := p.Extractor.ExtractKeywords(ctx, jobText, org)
	if err != nil {
		fmt.Printf("Warning: Keyword extraction failed after retry: %v\n", err)
		p.record(result, runID, StageExtraction, "keyword extraction failed, continuing with empty set")
	}
	result.ExtractedKeywords = keywords
	if len(keywords) == 0 {
		p.record(result, runID, StageExtraction, "no keywords extracted")
		fmt.Printf("No keywords extracted; returning original text.\n")
		return result, nil
	}
	p.record(result, runID, StageExtraction, fmt.Sprintf("extracted %d keywords", len(keywords)))
	if p.Verbose {
		printer.PrintKeywords(keywords)
	}

	// Step 2: resolve keywords against the graph or the curated fallback
	fmt.Printf("Step 2/4: Resolving keywords to canonical skills...\n")
	res, err := p.Resolver.Resolve(ctx, keywords)
	if err != nil {
		return nil, fatal(StageResolution, result, err)
	}
	result.GraphConnected = res.GraphConnected
	if !res.GraphConnected {
		p.record(result, runID, StageResolution, "knowledge graph unreachable, resolved against curated fallback")
	}
	p.record(result, runID, StageResolution, fmt.Sprintf("resolved %d skills", len(res.Matches)))

	// Step 3: assign proficiency levels from job text seniority signals
	fmt.Printf("Step 3/4: Assigning proficiency levels...\n")
	result.Skills = leveling.AssignLevels(jobText, res.Matches)
	p.record(result, runID, StageLeveling,
		fmt.Sprintf("assigned levels (seniority: %s)", leveling.DetectSeniority(jobText)))
	if p.Verbose {
		printer.PrintSkills(result.Skills)
	}

	// Step 4: regenerate the job description around the leveled skills
	fmt.Printf("Step 4/4: Regenerating job description...\n")
	text, err := p.Regenerator.Regenerate(ctx, jobText, result.Skills, org)
	if err != nil {
		fmt.Printf("Warning: Regeneration failed after retry, keeping original text: %v\n", err)
		p.record(result, runID, StageRegeneration, "regeneration failed, original text retained")
	} else {
		p.record(result, runID, StageRegeneration, "regenerated job description")
	}
	result.RegeneratedText = text

	fmt.Printf("Done! Enhanced job description with %d skills.\n", len(result.Skills))
	return result, nil
}

// record appends a stage message to the result and emits a progress event.
func (p *Pipeline) record(result *types.EnhancementResult, runID, stage, message string) {
	result.Messages = append(result.Messages, stage+": "+message)
	if p.OnProgress != nil {
		p.OnProgress(ProgressEvent{Step: stage, Message: message, RunID: runID})
	}
}
