// Package kg provides a thin gateway to the knowledge graph's SPARQL
// endpoint. It issues a small fixed set of read-only query templates,
// classifies every failure, and caches the health probe. Callers own the
// decision of what to do when the graph is unavailable.
package kg

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/jd-enhancer/internal/types"
)

// DefaultTimeout bounds every individual query round trip.
const DefaultTimeout = 10 * time.Second

// DefaultHealthTTL bounds how stale a cached health probe may be.
const DefaultHealthTTL = 30 * time.Second

// DefaultBackoff is the fixed wait before a failed query's single retry.
const DefaultBackoff = 500 * time.Millisecond

// Config holds gateway configuration.
type Config struct {
	// Endpoint is the SPARQL query endpoint, e.g. http://localhost:3030/unified/query
	Endpoint string
	// Timeout for each query; DefaultTimeout when zero
	Timeout time.Duration
	// HealthTTL for the cached health probe; DefaultHealthTTL when zero
	HealthTTL time.Duration
	// Backoff before the single retry; DefaultBackoff when zero
	Backoff time.Duration
	// HTTPClient overrides the transport, mainly for tests
	HTTPClient *http.Client
}

// Gateway issues fixed-template queries against one SPARQL endpoint.
// The health cache is the only shared mutable state; updates are
// single-writer-wins and staleness is bounded by the TTL.
type Gateway struct {
	endpoint  string
	client    *http.Client
	timeout   time.Duration
	healthTTL time.Duration
	backoff   time.Duration

	mu          sync.Mutex
	health      types.GraphHealth
	healthUntil time.Time
}

// New creates a gateway for the given endpoint.
func New(cfg Config) *Gateway {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ttl := cfg.HealthTTL
	if ttl <= 0 {
		ttl = DefaultHealthTTL
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &Gateway{
		endpoint:  cfg.Endpoint,
		client:    client,
		timeout:   timeout,
		healthTTL: ttl,
		backoff:   backoff,
	}
}

// SearchSkills returns up to limit skills whose name, description or
// category contains the keyword, case-insensitively.
func (g *Gateway) SearchSkills(ctx context.Context, keyword string, limit int) ([]types.SkillRecord, error) {
	rs, err := g.execute(ctx, "skill search", searchSkillsQuery(keyword, limit))
	if err != nil {
		return nil, err
	}

	records := make([]types.SkillRecord, 0, len(rs.Results.Bindings))
	for _, row := range rs.Results.Bindings {
		rec := recordFromRow(row)
		if rec.Code == "" || rec.Name == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// SkillsByCategory returns up to limit skills whose category label
// contains the given name, case-insensitively.
func (g *Gateway) SkillsByCategory(ctx context.Context, category string, limit int) ([]types.SkillRecord, error) {
	rs, err := g.execute(ctx, "category search", skillsByCategoryQuery(category, limit))
	if err != nil {
		return nil, err
	}

	records := make([]types.SkillRecord, 0, len(rs.Results.Bindings))
	for _, row := range rs.Results.Bindings {
		rec := recordFromRow(row)
		if rec.Code == "" || rec.Name == "" {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// SkillDetail is a skill record together with its per-level descriptions.
type SkillDetail struct {
	Record            types.SkillRecord
	LevelDescriptions map[int]string
}

// SkillByCode fetches one skill and its level descriptions.
// Returns (nil, nil) when the code is unknown to the graph.
func (g *Gateway) SkillByCode(ctx context.Context, code string) (*SkillDetail, error) {
	rs, err := g.execute(ctx, "skill fetch", skillByCodeQuery(code))
	if err != nil {
		return nil, err
	}
	if len(rs.Results.Bindings) == 0 {
		return nil, nil
	}

	first := rs.Results.Bindings[0]
	detail := &SkillDetail{
		Record: types.SkillRecord{
			Code:        first.value("code"),
			Name:        first.value("label"),
			Description: first.value("description"),
			Category:    first.value("category"),
			Framework:   types.FrameworkSFIA,
		},
		LevelDescriptions: make(map[int]string),
	}
	for _, row := range rs.Results.Bindings {
		n, err := strconv.Atoi(row.value("levelNumber"))
		if err != nil || n < 1 || n > 7 {
			continue
		}
		detail.Record.Levels = appendLevel(detail.Record.Levels, n)
		if desc := row.value("levelDescription"); desc != "" {
			detail.LevelDescriptions[n] = desc
		}
	}
	return detail, nil
}

// TripleCount runs the probe query and returns the store's triple count.
func (g *Gateway) TripleCount(ctx context.Context) (int64, error) {
	rs, err := g.execute(ctx, "health probe", tripleCountQuery)
	if err != nil {
		return 0, err
	}
	if len(rs.Results.Bindings) == 0 {
		return 0, malformed("health probe", "probe returned no rows")
	}
	count, err := strconv.ParseInt(rs.Results.Bindings[0].value("count"), 10, 64)
	if err != nil {
		return 0, malformed("health probe", "probe count is not numeric")
	}
	return count, nil
}

// Health returns the cached probe result, refreshing it when the TTL has
// expired. A failed probe is cached as unreachable for the same TTL so a
// down endpoint is not hammered on every search.
func (g *Gateway) Health(ctx context.Context) types.GraphHealth {
	g.mu.Lock()
	if time.Now().Before(g.healthUntil) {
		cached := g.health
		g.mu.Unlock()
		return cached
	}
	g.mu.Unlock()

	count, err := g.TripleCount(ctx)
	probe := types.GraphHealth{Reachable: err == nil, RecordCountEstimate: count}

	g.mu.Lock()
	g.health = probe
	g.healthUntil = time.Now().Add(g.healthTTL)
	g.mu.Unlock()
	return probe
}

// InvalidateHealth drops the cached probe so the next Health call re-probes.
func (g *Gateway) InvalidateHealth() {
	g.mu.Lock()
	g.healthUntil = time.Time{}
	g.mu.Unlock()
}

// execute runs one SPARQL query, retrying exactly once with a fixed backoff
// before the failure is classified as final. Every failure path returns a
// *GatewayError.
func (g *Gateway) execute(ctx context.Context, op, query string) (*resultSet, error) {
	rs, err := g.attempt(ctx, op, query)
	if err == nil {
		return rs, nil
	}

	if waitErr := sleepCtx(ctx, g.backoff); waitErr != nil {
		return nil, err
	}

	rs, retryErr := g.attempt(ctx, op, query)
	if retryErr != nil {
		return nil, retryErr
	}
	return rs, nil
}

// attempt makes one query round trip with its own timeout.
func (g *Gateway) attempt(ctx context.Context, op, query string) (*resultSet, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	form := url.Values{"query": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, classify(op, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/sparql-results+json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, classify(op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, malformed(op, "endpoint returned status "+resp.Status)
	}

	rs, err := parseResults(resp.Body)
	if err != nil {
		return nil, &GatewayError{Class: FailureMalformed, Op: op, Cause: err}
	}
	return rs, nil
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

func appendLevel(levels []int, n int) []int {
	for _, l := range levels {
		if l == n {
			return levels
		}
	}
	return append(levels, n)
}
