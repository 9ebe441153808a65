// Package taxonomy provides the embedded curated skill list and the
// framework-specific (ESCO) index. Both are static, parsed once at process
// start, and serve as search sources and as the fallback when the knowledge
// graph is unreachable.
package taxonomy

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/jd-enhancer/internal/types"
)

//go:embed curated.json esco_index.json
var dataFiles embed.FS

// curatedEntry is the on-disk shape of one curated list entry.
type curatedEntry struct {
	types.SkillRecord
	Score   int      `json:"score"`
	Aliases []string `json:"aliases,omitempty"`
}

// CuratedList is the embedded, internally prioritized skill list.
// Entries carry fixed scores from 100 down to 40.
type CuratedList struct {
	entries []curatedEntry
}

// FrameworkIndex is the embedded ESCO skill index. Hits score a flat band.
type FrameworkIndex struct {
	records []types.SkillRecord
}

// IndexScore is the flat score band for framework index hits.
const IndexScore = 50

// Catalog bundles the static skill sources loaded at process start.
type Catalog struct {
	Curated *CuratedList
	Index   *FrameworkIndex
}

// Load parses the embedded data files into a Catalog.
func Load() (*Catalog, error) {
	curated, err := loadCurated()
	if err != nil {
		return nil, err
	}
	index, err := loadIndex()
	if err != nil {
		return nil, err
	}
	return &Catalog{Curated: curated, Index: index}, nil
}

func loadCurated() (*CuratedList, error) {
	data, err := dataFiles.ReadFile("curated.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read curated skill list: %w", err)
	}
	var entries []curatedEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse curated skill list: %w", err)
	}
	return &CuratedList{entries: entries}, nil
}

func loadIndex() (*FrameworkIndex, error) {
	data, err := dataFiles.ReadFile("esco_index.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read framework index: %w", err)
	}
	var records []types.SkillRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse framework index: %w", err)
	}
	return &FrameworkIndex{records: records}, nil
}

// Len returns the number of curated entries.
func (c *CuratedList) Len() int { return len(c.entries) }

// ByCode returns the curated record with the given code, or nil.
func (c *CuratedList) ByCode(code string) *types.SkillRecord {
	for i := range c.entries {
		if strings.EqualFold(c.entries[i].Code, code) {
			rec := c.entries[i].SkillRecord
			return &rec
		}
	}
	return nil
}

// Search returns curated matches for a query, in list (priority) order.
// Matching is a case-insensitive substring test over name, description,
// category and aliases; the query matching an alias either way accounts for
// partial queries ("pyth") as well as phrase keywords ("python scripting").
func (c *CuratedList) Search(query string) []types.SkillMatch {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var matches []types.SkillMatch
	for _, e := range c.entries {
		if !e.matches(q) {
			continue
		}
		matches = append(matches, types.SkillMatch{
			Record:  e.SkillRecord,
			Keyword: query,
			Score:   e.Score,
			Source:  types.SourceCurated,
		})
	}
	return matches
}

func (e *curatedEntry) matches(q string) bool {
	if strings.Contains(strings.ToLower(e.Name), q) ||
		strings.Contains(strings.ToLower(e.Description), q) ||
		strings.Contains(strings.ToLower(e.Category), q) {
		return true
	}
	for _, alias := range e.Aliases {
		a := strings.ToLower(alias)
		if strings.Contains(a, q) || strings.Contains(q, a) {
			return true
		}
	}
	return false
}

// Len returns the number of index records.
func (i *FrameworkIndex) Len() int { return len(i.records) }

// Search returns framework index matches for a query at the flat index
// score band. Matching is a case-insensitive substring test over name and
// description.
func (i *FrameworkIndex) Search(query string) []types.SkillMatch {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}

	var matches []types.SkillMatch
	for _, rec := range i.records {
		if !strings.Contains(strings.ToLower(rec.Name), q) &&
			!strings.Contains(strings.ToLower(rec.Description), q) {
			continue
		}
		matches = append(matches, types.SkillMatch{
			Record:  rec,
			Keyword: query,
			Score:   IndexScore,
			Source:  types.SourceIndex,
		})
	}
	return matches
}
