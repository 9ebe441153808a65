// Package types defines the shared data structures for the job description
// enhancement pipeline and the skill search engine.
package types

import "strings"

// Framework identifies the skills taxonomy a record originates from.
type Framework string

// Framework constants define the supported skill taxonomies
const (
	// FrameworkSFIA is the Skills Framework for the Information Age (1-7 levels)
	FrameworkSFIA Framework = "sfia"
	// FrameworkESCO is the EU skills/competences/occupations classification
	FrameworkESCO Framework = "esco"
	// FrameworkONET is the O*NET occupational taxonomy
	FrameworkONET Framework = "onet"
)

// SkillRecord is a canonical taxonomy entry. Records are read-only within
// the enhancement core; they are loaded from the embedded curated list or
// parsed from knowledge graph query results.
type SkillRecord struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Framework   Framework `json:"framework"`
	// Levels lists the proficiency levels (1-7) the source framework defines
	// for this skill. Empty when the framework has no per-skill scale.
	Levels []int `json:"levels,omitempty"`
}

// HasScale reports whether the record's framework defines a proficiency
// scale for this skill.
func (r *SkillRecord) HasScale() bool {
	return len(r.Levels) > 0
}

// SkillSource identifies which search source produced a match.
type SkillSource string

// Skill source constants, in fixed priority order
const (
	// SourceCurated is the embedded curated skill list (highest priority)
	SourceCurated SkillSource = "curated"
	// SourceIndex is the framework-specific (ESCO) index
	SourceIndex SkillSource = "index"
	// SourceGraph is the live knowledge graph search (lowest priority)
	SourceGraph SkillSource = "graph"
)

// Priority returns the tie-break rank of a source. Lower is stronger:
// curated > framework index > general graph search.
func (s SkillSource) Priority() int {
	switch s {
	case SourceCurated:
		return 0
	case SourceIndex:
		return 1
	case SourceGraph:
		return 2
	default:
		return 3
	}
}

// SkillMatch links an extracted keyword to a canonical SkillRecord.
// Matches are transient: they exist only inside one enhancement request
// or one autocomplete lookup.
type SkillMatch struct {
	Record  SkillRecord `json:"record"`
	Keyword string      `json:"keyword_matched,omitempty"`
	Score   int         `json:"score"`
	Source  SkillSource `json:"source"`
}

// LeveledSkill is a resolved skill with an assigned proficiency level.
type LeveledSkill struct {
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	Category         string    `json:"category,omitempty"`
	Description      string    `json:"description,omitempty"`
	Framework        Framework `json:"framework"`
	Level            int       `json:"level"`
	LevelName        string    `json:"level_name"`
	LevelDescription string    `json:"level_description"`
	KeywordMatched   string    `json:"keyword_matched,omitempty"`
}

// EqualNameFold reports whether two skill names are equal ignoring case.
// Name equality is how the search engine deduplicates across sources.
func EqualNameFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
