package observability

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/jd-enhancer/internal/types"
)

func TestPrintKeywords(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintKeywords([]string{"python", "aws"})
	out := buf.String()

	assert.Contains(t, out, "EXTRACTED KEYWORDS")
	assert.Contains(t, out, "python")
	assert.Contains(t, out, "aws")
}

func TestPrintKeywordsTruncatesLongLists(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	keywords := make([]string, 15)
	for i := range keywords {
		keywords[i] = "kw"
	}
	p.PrintKeywords(keywords)

	assert.Contains(t, buf.String(), "... and 5 more")
}

func TestPrintSkills(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintSkills([]types.LeveledSkill{
		{Code: "PROG", Name: "Programming/software development",
			Level: 5, LevelName: "Ensure, advise", Framework: types.FrameworkSFIA},
	})
	out := buf.String()

	assert.Contains(t, out, "RESOLVED SKILLS")
	assert.Contains(t, out, "PROG")
	assert.Contains(t, out, "Level 5")
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintResult(&types.EnhancementResult{
		RegeneratedText:   "text",
		ExtractedKeywords: []string{"python"},
		GraphConnected:    true,
		Messages:          []string{"extraction: extracted 1 keywords"},
	})
	out := buf.String()

	assert.Contains(t, out, "ENHANCEMENT SUMMARY")
	assert.Contains(t, out, "Graph connected:  true")
	assert.Contains(t, out, "extraction: extracted 1 keywords")
}

func TestPrintResultNil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintResult(nil)
	assert.Empty(t, buf.String())
}

func TestPrintCandidatesEmpty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintCandidates(nil)
	assert.Contains(t, buf.String(), "no candidates")
}
