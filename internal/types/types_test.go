package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSourcePriority(t *testing.T) {
	assert.Equal(t, 0, SourceCurated.Priority())
	assert.Equal(t, 1, SourceIndex.Priority())
	assert.Equal(t, 2, SourceGraph.Priority())
	assert.Equal(t, 3, SkillSource("bogus").Priority())
}

func TestHasScale(t *testing.T) {
	withScale := SkillRecord{Levels: []int{2, 3}}
	assert.True(t, withScale.HasScale())

	noScale := SkillRecord{}
	assert.False(t, noScale.HasScale())
}

func TestEqualNameFold(t *testing.T) {
	assert.True(t, EqualNameFold("Python", "python"))
	assert.True(t, EqualNameFold("  Python ", "PYTHON"))
	assert.False(t, EqualNameFold("Python", "Jython"))
}

func TestOrgContextIsEmpty(t *testing.T) {
	var nilCtx *OrgContext
	assert.True(t, nilCtx.IsEmpty())
	assert.True(t, (&OrgContext{}).IsEmpty())
	assert.True(t, (&OrgContext{Industry: "   "}).IsEmpty())
	assert.False(t, (&OrgContext{Industry: "Finance"}).IsEmpty())
}

func TestOrgContextSummary(t *testing.T) {
	var nilCtx *OrgContext
	assert.Empty(t, nilCtx.Summary())

	ctx := &OrgContext{
		Industry:    "Healthcare",
		CompanyName: "Acme Health",
		RoleType:    "permanent",
	}
	summary := ctx.Summary()
	assert.Contains(t, summary, "Industry: Healthcare")
	assert.Contains(t, summary, "Company: Acme Health")
	assert.Contains(t, summary, "Role type: permanent")
	assert.NotContains(t, summary, "Location")
}
