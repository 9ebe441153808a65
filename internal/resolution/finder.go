// Package resolution maps extracted keywords to canonical skill records,
// querying the knowledge graph when it is healthy and falling back to the
// embedded curated list when it is not.
package resolution

import (
	"context"

	"github.com/jonathan/jd-enhancer/internal/kg"
	"github.com/jonathan/jd-enhancer/internal/taxonomy"
	"github.com/jonathan/jd-enhancer/internal/types"
)

// GraphScore is the flat score band for live knowledge graph matches.
const GraphScore = 70

// Finder resolves one keyword to a bounded list of candidate skills.
type Finder interface {
	Find(ctx context.Context, keyword string, limit int) ([]types.SkillMatch, error)
}

// GraphFinder resolves keywords against the live knowledge graph.
type GraphFinder struct {
	Gateway *kg.Gateway
}

// Find queries the graph for the keyword. Failures propagate as
// *kg.GatewayError; mid-pipeline graph failures are fatal, not degradable.
func (f *GraphFinder) Find(ctx context.Context, keyword string, limit int) ([]types.SkillMatch, error) {
	records, err := f.Gateway.SearchSkills(ctx, keyword, limit)
	if err != nil {
		return nil, err
	}
	matches := make([]types.SkillMatch, 0, len(records))
	for _, rec := range records {
		matches = append(matches, types.SkillMatch{
			Record:  rec,
			Keyword: keyword,
			Score:   GraphScore,
			Source:  types.SourceGraph,
		})
	}
	return matches, nil
}

// FallbackFinder resolves keywords against the embedded curated list.
// It never fails; an unknown keyword simply resolves to nothing.
type FallbackFinder struct {
	Curated *taxonomy.CuratedList
}

// Find searches the curated list and truncates to limit.
func (f *FallbackFinder) Find(_ context.Context, keyword string, limit int) ([]types.SkillMatch, error) {
	matches := f.Curated.Search(keyword)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}
