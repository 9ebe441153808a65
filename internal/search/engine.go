// Package search implements skill autocomplete over three sources: the
// curated list, the live knowledge graph, and the framework index. Each
// source contributes candidates in a fixed score band; the merged result is
// ordered, deduplicated by name, filtered against an exclusion set and
// truncated.
package search

import (
	"context"
	"sort"
	"strings"

	"github.com/jonathan/jd-enhancer/internal/kg"
	"github.com/jonathan/jd-enhancer/internal/resolution"
	"github.com/jonathan/jd-enhancer/internal/taxonomy"
	"github.com/jonathan/jd-enhancer/internal/types"
)

const (
	// MinQueryLength is the shortest query worth searching.
	MinQueryLength = 2
	// DefaultLimit applies when the caller passes no positive limit.
	DefaultLimit = 10
	// graphFetchSize over-fetches from the graph so dedup and exclusion
	// still leave enough candidates to fill the limit.
	graphFetchSize = 25
)

// Engine merges skill candidates across the static and live sources.
type Engine struct {
	Catalog *taxonomy.Catalog
	Gateway *kg.Gateway
}

// NewEngine creates a search engine. Gateway may be nil; the engine then
// serves from the static sources only.
func NewEngine(catalog *taxonomy.Catalog, gateway *kg.Gateway) *Engine {
	return &Engine{Catalog: catalog, Gateway: gateway}
}

// Search returns ranked skill candidates for a partial query. Queries
// shorter than two characters return the empty result. Names in exclude are
// filtered case-insensitively, so already-selected skills never reappear.
// A graph that is down or fails mid-query degrades the result to the static
// sources rather than failing the search.
func (e *Engine) Search(ctx context.Context, query string, exclude []string, limit int) []types.Candidate {
	query = strings.TrimSpace(query)
	if len(query) < MinQueryLength {
		return []types.Candidate{}
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	matches := e.Catalog.Curated.Search(query)
	matches = append(matches, e.graphMatches(ctx, query)...)
	matches = append(matches, e.Catalog.Index.Search(query)...)

	candidates := toCandidates(matches)
	orderCandidates(candidates)
	candidates = dedupeByName(candidates)
	candidates = applyExclusions(candidates, exclude)

	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates
}

// graphMatches queries the live graph when it is healthy. Any failure yields
// no graph candidates; autocomplete never surfaces upstream errors.
func (e *Engine) graphMatches(ctx context.Context, query string) []types.SkillMatch {
	if e.Gateway == nil {
		return nil
	}
	if health := e.Gateway.Health(ctx); !health.Reachable {
		return nil
	}
	records, err := e.Gateway.SearchSkills(ctx, query, graphFetchSize)
	if err != nil {
		return nil
	}
	matches := make([]types.SkillMatch, 0, len(records))
	for _, rec := range records {
		matches = append(matches, types.SkillMatch{
			Record:  rec,
			Keyword: query,
			Score:   resolution.GraphScore,
			Source:  types.SourceGraph,
		})
	}
	return matches
}

func toCandidates(matches []types.SkillMatch) []types.Candidate {
	candidates := make([]types.Candidate, 0, len(matches))
	for _, m := range matches {
		candidates = append(candidates, types.Candidate{
			Record:         m.Record,
			Score:          m.Score,
			SourcePriority: m.Source.Priority(),
			Source:         m.Source,
		})
	}
	return candidates
}

// orderCandidates sorts by score descending, then source priority, then
// case-insensitive name. The sort is stable so equal candidates keep their
// gather order.
func orderCandidates(candidates []types.Candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.SourcePriority != b.SourcePriority {
			return a.SourcePriority < b.SourcePriority
		}
		return strings.ToLower(a.Record.Name) < strings.ToLower(b.Record.Name)
	})
}

// dedupeByName keeps the first occurrence of each name, which after ordering
// is the strongest-scoring, highest-priority source for that skill.
func dedupeByName(candidates []types.Candidate) []types.Candidate {
	seen := make(map[string]bool, len(candidates))
	deduped := candidates[:0]
	for _, c := range candidates {
		key := strings.ToLower(strings.TrimSpace(c.Record.Name))
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, c)
	}
	return deduped
}

func applyExclusions(candidates []types.Candidate, exclude []string) []types.Candidate {
	if len(exclude) == 0 {
		return candidates
	}
	excluded := make(map[string]bool, len(exclude))
	for _, name := range exclude {
		excluded[strings.ToLower(strings.TrimSpace(name))] = true
	}
	kept := candidates[:0]
	for _, c := range candidates {
		if excluded[strings.ToLower(strings.TrimSpace(c.Record.Name))] {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}
