package regeneration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jd-enhancer/internal/llm"
	"github.com/jonathan/jd-enhancer/internal/types"
)

type fakeClient struct {
	responses []string
	errs      []error
	calls     int
	prompts   []string
}

func (f *fakeClient) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	f.prompts = append(f.prompts, prompt)
	i := f.calls
	f.calls++
	if i >= len(f.responses) {
		i = len(f.responses) - 1
	}
	return f.responses[i], f.errs[i]
}

func (f *fakeClient) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return f.GenerateContent(ctx, prompt, tier)
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake" }
func (f *fakeClient) Close() error                  { return nil }

var testSkills = []types.LeveledSkill{
	{Code: "PROG", Name: "Programming/software development", Level: 5,
		LevelName: "Ensure, advise", Category: "Development and implementation"},
}

func newTestRegenerator(client llm.Client) *Regenerator {
	return &Regenerator{Client: client, Backoff: time.Millisecond}
}

func TestRegenerate(t *testing.T) {
	client := &fakeClient{
		responses: []string{"# Enhanced Job Description\n\nGreat role."},
		errs:      []error{nil},
	}
	r := newTestRegenerator(client)

	text, err := r.Regenerate(context.Background(), "Original JD", testSkills, nil)
	require.NoError(t, err)
	assert.Equal(t, "# Enhanced Job Description\n\nGreat role.", text)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Original JD")
	assert.Contains(t, client.prompts[0], "Programming/software development")
	assert.Contains(t, client.prompts[0], "Level 5")
}

func TestRegenerateRetriesOnce(t *testing.T) {
	client := &fakeClient{
		responses: []string{"", "rewritten"},
		errs:      []error{errors.New("overloaded"), nil},
	}
	r := newTestRegenerator(client)

	text, err := r.Regenerate(context.Background(), "Original JD", testSkills, nil)
	require.NoError(t, err)
	assert.Equal(t, "rewritten", text)
	assert.Equal(t, 2, client.calls)
}

func TestRegenerateDoubleFailureKeepsOriginal(t *testing.T) {
	client := &fakeClient{
		responses: []string{"", ""},
		errs:      []error{errors.New("down"), errors.New("still down")},
	}
	r := newTestRegenerator(client)

	text, err := r.Regenerate(context.Background(), "Original JD", testSkills, nil)
	require.Error(t, err)
	assert.Equal(t, "Original JD", text, "the original text is never lost")
	assert.Equal(t, 2, client.calls)

	var genErr *GenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestRegenerateEmptyResponseIsFailure(t *testing.T) {
	client := &fakeClient{
		responses: []string{"   ", "rewritten"},
		errs:      []error{nil, nil},
	}
	r := newTestRegenerator(client)

	text, err := r.Regenerate(context.Background(), "Original JD", testSkills, nil)
	require.NoError(t, err)
	assert.Equal(t, "rewritten", text)
}

func TestRegenerateNoSkillsShortCircuits(t *testing.T) {
	client := &fakeClient{responses: []string{"unused"}, errs: []error{nil}}
	r := newTestRegenerator(client)

	text, err := r.Regenerate(context.Background(), "Original JD", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Original JD", text)
	assert.Zero(t, client.calls, "no LLM call without skills to incorporate")
}

func TestRegenerateIncludesOrgContext(t *testing.T) {
	client := &fakeClient{responses: []string{"rewritten"}, errs: []error{nil}}
	r := newTestRegenerator(client)

	org := &types.OrgContext{CompanyCulture: "remote-first collaboration"}
	_, err := r.Regenerate(context.Background(), "Original JD", testSkills, org)
	require.NoError(t, err)
	assert.Contains(t, client.prompts[0], "remote-first collaboration")
}

func TestFormatSkills(t *testing.T) {
	out := FormatSkills(testSkills)
	assert.Contains(t, out, "- Programming/software development (PROG), Level 5: Ensure, advise")
	assert.Contains(t, out, "[Development and implementation]")
}
