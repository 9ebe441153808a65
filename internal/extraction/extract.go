// Package extraction implements the first pipeline stage: pulling salient
// skill and competency keywords out of a job description with one templated
// LLM call.
package extraction

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jonathan/jd-enhancer/internal/llm"
	"github.com/jonathan/jd-enhancer/internal/prompts"
	"github.com/jonathan/jd-enhancer/internal/schemas"
	"github.com/jonathan/jd-enhancer/internal/types"
)

const (
	// MaxKeywords bounds the extracted set
	MaxKeywords = 20
	// keyword length bounds, mirroring the cleaning the service always did
	minKeywordLen = 2
	maxKeywordLen = 50
	// DefaultBackoff is the fixed wait before the single retry
	DefaultBackoff = 500 * time.Millisecond
)

// Extractor runs keyword extraction against an injected LLM client.
type Extractor struct {
	Client  llm.Client
	Backoff time.Duration
}

// NewExtractor creates an extractor with the default retry backoff.
func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{Client: client, Backoff: DefaultBackoff}
}

// extractionOutput is the JSON shape the prompt asks the model for.
type extractionOutput struct {
	Keywords []string `json:"keywords"`
}

// ExtractKeywords extracts a deduplicated, case-normalized, bounded list of
// skill keywords from job text. The call is retried exactly once with a
// fixed backoff. After the second failure the empty set is returned together
// with the final error: an empty keyword set is a valid, reportable outcome
// and must not abort the pipeline.
func (e *Extractor) ExtractKeywords(ctx context.Context, jobText string, org *types.OrgContext) ([]string, error) {
	prompt := buildExtractionPrompt(jobText, org)

	keywords, err := e.attempt(ctx, prompt)
	if err == nil {
		return keywords, nil
	}

	if waitErr := sleepCtx(ctx, e.backoff()); waitErr != nil {
		return []string{}, &APICallError{Message: "extraction aborted during backoff", Cause: waitErr}
	}

	keywords, retryErr := e.attempt(ctx, prompt)
	if retryErr == nil {
		return keywords, nil
	}
	return []string{}, retryErr
}

// attempt makes one extraction call and normalizes its output.
func (e *Extractor) attempt(ctx context.Context, prompt string) ([]string, error) {
	responseText, err := e.Client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, &APICallError{Message: "failed to generate keywords", Cause: err}
	}

	responseText = llm.CleanJSONBlock(responseText)

	if err := schemas.ValidateExtraction(responseText); err != nil {
		return nil, &ParseError{Message: "keyword output failed schema validation", Cause: err}
	}

	var out extractionOutput
	if err := json.Unmarshal([]byte(responseText), &out); err != nil {
		return nil, &ParseError{Message: "failed to parse keyword JSON", Cause: err}
	}

	return normalizeKeywords(out.Keywords), nil
}

// normalizeKeywords trims, lowercases, strips artifacts, deduplicates and
// bounds the keyword list while preserving the model's ordering.
func normalizeKeywords(raw []string) []string {
	normalized := make([]string, 0, len(raw))
	seen := make(map[string]bool)

	for _, kw := range raw {
		kw = cleanKeyword(kw)
		if len(kw) < minKeywordLen || len(kw) > maxKeywordLen {
			continue
		}
		if seen[kw] {
			continue
		}
		seen[kw] = true
		normalized = append(normalized, kw)
		if len(normalized) == MaxKeywords {
			break
		}
	}
	return normalized
}

// cleanKeyword strips quoting and "label:" prefixes some models emit.
func cleanKeyword(kw string) string {
	kw = strings.TrimSpace(kw)
	if idx := strings.LastIndex(kw, ":"); idx >= 0 && idx > len(kw)/2 {
		kw = kw[idx+1:]
	}
	kw = strings.ReplaceAll(kw, `"`, "")
	kw = strings.ReplaceAll(kw, "'", "")
	return strings.ToLower(strings.TrimSpace(kw))
}

func buildExtractionPrompt(jobText string, org *types.OrgContext) string {
	template := prompts.MustGet("enhance.json", "extract-skills")

	orgSection := ""
	if summary := org.Summary(); summary != "" {
		orgSection = "Organizational context for this role:\n" + summary + "\n"
	}

	return prompts.Format(template, map[string]string{
		"JobDescription":    jobText,
		"OrgContextSection": orgSection,
	})
}

func (e *Extractor) backoff() time.Duration {
	if e.Backoff > 0 {
		return e.Backoff
	}
	return DefaultBackoff
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
