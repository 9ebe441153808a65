package resolution

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/jd-enhancer/internal/kg"
	"github.com/jonathan/jd-enhancer/internal/taxonomy"
	"github.com/jonathan/jd-enhancer/internal/types"
)

const (
	// CandidatesPerKeyword bounds how many matches one keyword contributes.
	CandidatesPerKeyword = 3
	// MaxConcurrency bounds the keyword fan-out against the graph.
	MaxConcurrency = 4
)

// Resolver turns extracted keywords into deduplicated skill matches.
type Resolver struct {
	Gateway *kg.Gateway
	Catalog *taxonomy.Catalog
}

// NewResolver creates a resolver. Gateway may be nil when no graph endpoint
// is configured; resolution then always runs against the curated fallback.
func NewResolver(gateway *kg.Gateway, catalog *taxonomy.Catalog) *Resolver {
	return &Resolver{Gateway: gateway, Catalog: catalog}
}

// Resolution is the outcome of resolving one keyword set.
type Resolution struct {
	Matches []types.SkillMatch
	// GraphConnected reports whether the live graph served this resolution.
	GraphConnected bool
}

// Resolve maps keywords to canonical skills. The graph health probe runs
// once at entry: a healthy graph is queried concurrently per keyword, an
// unreachable one drops the whole resolution to the embedded curated list
// without issuing live queries. Graph failures after a healthy probe are
// returned to the caller as *kg.GatewayError.
func (r *Resolver) Resolve(ctx context.Context, keywords []string) (*Resolution, error) {
	finder, connected := r.selectFinder(ctx)

	perKeyword := make([][]types.SkillMatch, len(keywords))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(MaxConcurrency)
	for i, kw := range keywords {
		group.Go(func() error {
			matches, err := finder.Find(gctx, kw, CandidatesPerKeyword)
			if err != nil {
				return err
			}
			perKeyword[i] = matches
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	var flat []types.SkillMatch
	for _, matches := range perKeyword {
		flat = append(flat, matches...)
	}
	return &Resolution{Matches: dedupeByCode(flat), GraphConnected: connected}, nil
}

// selectFinder probes graph health and picks the matching finder.
func (r *Resolver) selectFinder(ctx context.Context) (Finder, bool) {
	if r.Gateway == nil {
		return &FallbackFinder{Curated: r.Catalog.Curated}, false
	}
	if health := r.Gateway.Health(ctx); !health.Reachable {
		return &FallbackFinder{Curated: r.Catalog.Curated}, false
	}
	return &GraphFinder{Gateway: r.Gateway}, true
}

// dedupeByCode collapses matches sharing a skill code, keeping the first
// occurrence but lifting it to the strongest score and source seen. Keyword
// order is preserved so the first keyword that surfaced a skill stays
// attributed to it.
func dedupeByCode(matches []types.SkillMatch) []types.SkillMatch {
	index := make(map[string]int)
	deduped := make([]types.SkillMatch, 0, len(matches))

	for _, m := range matches {
		at, seen := index[m.Record.Code]
		if !seen {
			index[m.Record.Code] = len(deduped)
			deduped = append(deduped, m)
			continue
		}
		kept := &deduped[at]
		if m.Score > kept.Score ||
			(m.Score == kept.Score && m.Source.Priority() < kept.Source.Priority()) {
			kept.Record = m.Record
			kept.Score = m.Score
			kept.Source = m.Source
		}
	}
	return deduped
}
