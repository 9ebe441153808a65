// Package regeneration rewrites a job description to incorporate resolved,
// leveled skills. Regeneration failure is recoverable: the caller gets the
// original text back so an enhancement never loses its input.
package regeneration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonathan/jd-enhancer/internal/llm"
	"github.com/jonathan/jd-enhancer/internal/prompts"
	"github.com/jonathan/jd-enhancer/internal/types"
)

// DefaultBackoff is the fixed wait before the single retry.
const DefaultBackoff = 500 * time.Millisecond

// GenerationError represents a failure producing the rewritten text.
type GenerationError struct {
	Message string
	Cause   error
}

func (e *GenerationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("regeneration failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("regeneration failed: %s", e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Cause
}

// Regenerator rewrites job descriptions against an injected LLM client.
type Regenerator struct {
	Client  llm.Client
	Backoff time.Duration
}

// NewRegenerator creates a regenerator with the default retry backoff.
func NewRegenerator(client llm.Client) *Regenerator {
	return &Regenerator{Client: client, Backoff: DefaultBackoff}
}

// Regenerate rewrites the job text around the leveled skills. The call is
// retried exactly once with a fixed backoff; after the second failure the
// ORIGINAL text is returned together with the error so the caller can keep
// the skills and report the degradation instead of aborting.
func (r *Regenerator) Regenerate(ctx context.Context, jobText string, skills []types.LeveledSkill, org *types.OrgContext) (string, error) {
	if len(skills) == 0 {
		return jobText, nil
	}

	prompt := buildRegenerationPrompt(jobText, skills, org)

	text, err := r.attempt(ctx, prompt)
	if err == nil {
		return text, nil
	}

	if waitErr := sleepCtx(ctx, r.backoff()); waitErr != nil {
		return jobText, &GenerationError{Message: "regeneration aborted during backoff", Cause: waitErr}
	}

	text, retryErr := r.attempt(ctx, prompt)
	if retryErr == nil {
		return text, nil
	}
	return jobText, retryErr
}

func (r *Regenerator) attempt(ctx context.Context, prompt string) (string, error) {
	text, err := r.Client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		return "", &GenerationError{Message: "failed to generate rewritten text", Cause: err}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &GenerationError{Message: "model returned empty text"}
	}
	return text, nil
}

func buildRegenerationPrompt(jobText string, skills []types.LeveledSkill, org *types.OrgContext) string {
	template := prompts.MustGet("enhance.json", "regenerate-jd")

	orgSection := ""
	if summary := org.Summary(); summary != "" {
		orgSection = "Organizational context to reflect in tone and framing:\n" + summary + "\n"
	}

	return prompts.Format(template, map[string]string{
		"JobDescription":    jobText,
		"Skills":            FormatSkills(skills),
		"OrgContextSection": orgSection,
	})
}

// FormatSkills renders leveled skills as the bulleted block the rewrite
// prompt expects.
func FormatSkills(skills []types.LeveledSkill) string {
	var sb strings.Builder
	for _, s := range skills {
		fmt.Fprintf(&sb, "- %s (%s), Level %d: %s", s.Name, s.Code, s.Level, s.LevelName)
		if s.Category != "" {
			fmt.Fprintf(&sb, " [%s]", s.Category)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func (r *Regenerator) backoff() time.Duration {
	if r.Backoff > 0 {
		return r.Backoff
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
