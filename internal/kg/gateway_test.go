package kg

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/jd-enhancer/internal/types"
)

// sparqlTerm builds one bound term in the tabular JSON format.
func sparqlTerm(value string) map[string]string {
	return map[string]string{"type": "literal", "value": value}
}

func writeSparqlJSON(w http.ResponseWriter, vars []string, bindings []map[string]map[string]string) {
	w.Header().Set("Content-Type", "application/sparql-results+json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"head":    map[string]any{"vars": vars},
		"results": map[string]any{"bindings": bindings},
	})
}

func TestSearchSkills(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Contains(t, r.Form.Get("query"), "regex")
		assert.Contains(t, r.Form.Get("query"), "python")

		writeSparqlJSON(w, []string{"code", "label", "description", "category", "levels"},
			[]map[string]map[string]string{
				{
					"code":        sparqlTerm("PROG"),
					"label":       sparqlTerm("Programming/software development"),
					"description": sparqlTerm("Developing software components."),
					"category":    sparqlTerm("Development and implementation"),
					"levels":      sparqlTerm("2,3,4,5,6"),
				},
				{
					// missing code, must be dropped
					"label": sparqlTerm("Orphan row"),
				},
			})
	}))
	defer srv.Close()

	g := New(Config{Endpoint: srv.URL})
	records, err := g.SearchSkills(context.Background(), "python", 3)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "PROG", records[0].Code)
	assert.Equal(t, types.FrameworkSFIA, records[0].Framework)
	assert.Equal(t, []int{2, 3, 4, 5, 6}, records[0].Levels)
}

func TestSearchSkillsConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // closed immediately so the port refuses connections

	g := New(Config{Endpoint: srv.URL, Backoff: time.Millisecond})
	_, err := g.SearchSkills(context.Background(), "python", 3)
	require.Error(t, err)

	var gerr *GatewayError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, FailureConnection, gerr.Class)
}

func TestSearchSkillsRetriesTransientFailure(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeSparqlJSON(w, []string{"code", "label"},
			[]map[string]map[string]string{
				{"code": sparqlTerm("PROG"), "label": sparqlTerm("Programming/software development")},
			})
	}))
	defer srv.Close()

	g := New(Config{Endpoint: srv.URL, Backoff: time.Millisecond})
	records, err := g.SearchSkills(context.Background(), "python", 3)
	require.NoError(t, err, "a single transient failure must be absorbed by the retry")
	require.Len(t, records, 1)
	assert.Equal(t, "PROG", records[0].Code)
	assert.Equal(t, int64(2), calls.Load())
}

func TestSearchSkillsRetriesExactlyOnce(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := New(Config{Endpoint: srv.URL, Backoff: time.Millisecond})
	_, err := g.SearchSkills(context.Background(), "python", 3)
	require.Error(t, err)

	var gerr *GatewayError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, FailureMalformed, gerr.Class)
	assert.Equal(t, int64(2), calls.Load(), "exactly one retry, then the failure is final")
}

func TestSearchSkillsTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	g := New(Config{Endpoint: srv.URL, Timeout: 50 * time.Millisecond, Backoff: time.Millisecond})
	_, err := g.SearchSkills(context.Background(), "python", 3)
	require.Error(t, err)

	var gerr *GatewayError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, FailureTimeout, gerr.Class)
}

func TestSearchSkillsMalformed(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"non-200 status", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"invalid JSON", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, "<html>not sparql</html>")
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			g := New(Config{Endpoint: srv.URL, Backoff: time.Millisecond})
			_, err := g.SearchSkills(context.Background(), "python", 3)
			require.Error(t, err)

			var gerr *GatewayError
			require.ErrorAs(t, err, &gerr)
			assert.Equal(t, FailureMalformed, gerr.Class)
		})
	}
}

func TestSkillsByCategory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Contains(t, r.Form.Get("query"), "hasCategory")
		assert.Contains(t, r.Form.Get("query"), "Development and implementation")

		writeSparqlJSON(w, []string{"code", "label", "category", "levels"},
			[]map[string]map[string]string{
				{
					"code":     sparqlTerm("PROG"),
					"label":    sparqlTerm("Programming/software development"),
					"category": sparqlTerm("Development and implementation"),
					"levels":   sparqlTerm("2,3,4,5,6"),
				},
				{
					"code":     sparqlTerm("TEST"),
					"label":    sparqlTerm("Testing"),
					"category": sparqlTerm("Development and implementation"),
					"levels":   sparqlTerm("1,2,3,4,5,6"),
				},
			})
	}))
	defer srv.Close()

	g := New(Config{Endpoint: srv.URL})
	records, err := g.SkillsByCategory(context.Background(), "Development and implementation", 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "PROG", records[0].Code)
	assert.Equal(t, "Development and implementation", records[1].Category)
}

func TestSkillByCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeSparqlJSON(w, []string{"code", "label", "levelNumber", "levelDescription"},
			[]map[string]map[string]string{
				{
					"code":             sparqlTerm("PROG"),
					"label":            sparqlTerm("Programming/software development"),
					"levelNumber":      sparqlTerm("2"),
					"levelDescription": sparqlTerm("Assists in programming tasks."),
				},
				{
					"code":             sparqlTerm("PROG"),
					"label":            sparqlTerm("Programming/software development"),
					"levelNumber":      sparqlTerm("3"),
					"levelDescription": sparqlTerm("Designs and codes moderately complex programs."),
				},
			})
	}))
	defer srv.Close()

	g := New(Config{Endpoint: srv.URL})
	detail, err := g.SkillByCode(context.Background(), "PROG")
	require.NoError(t, err)
	require.NotNil(t, detail)

	assert.Equal(t, "PROG", detail.Record.Code)
	assert.Equal(t, []int{2, 3}, detail.Record.Levels)
	assert.Equal(t, "Assists in programming tasks.", detail.LevelDescriptions[2])
}

func TestSkillByCodeUnknown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeSparqlJSON(w, []string{"code"}, nil)
	}))
	defer srv.Close()

	g := New(Config{Endpoint: srv.URL})
	detail, err := g.SkillByCode(context.Background(), "NOPE")
	require.NoError(t, err)
	assert.Nil(t, detail)
}

func TestHealthCaching(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeSparqlJSON(w, []string{"count"},
			[]map[string]map[string]string{{"count": sparqlTerm("1234")}})
	}))
	defer srv.Close()

	g := New(Config{Endpoint: srv.URL, HealthTTL: time.Hour})

	first := g.Health(context.Background())
	assert.True(t, first.Reachable)
	assert.Equal(t, int64(1234), first.RecordCountEstimate)

	second := g.Health(context.Background())
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), calls.Load(), "second probe within TTL must be served from cache")

	g.InvalidateHealth()
	g.Health(context.Background())
	assert.Equal(t, int64(2), calls.Load())
}

func TestHealthCachesFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	g := New(Config{Endpoint: srv.URL, HealthTTL: time.Hour, Backoff: time.Millisecond})
	assert.False(t, g.Health(context.Background()).Reachable)
	// a down endpoint stays cached as unreachable until the TTL expires
	assert.False(t, g.Health(context.Background()).Reachable)
}

func TestClassOf(t *testing.T) {
	assert.Equal(t, FailureTimeout, classOf(context.DeadlineExceeded))
	assert.Equal(t, FailureMalformed, classOf(errors.New("unexpected token")))
}

func TestEscapeLiteral(t *testing.T) {
	assert.Equal(t, `py\"thon`, escapeLiteral(`py"thon`))
	assert.Equal(t, `back\\slash`, escapeLiteral(`back\slash`))
	assert.Equal(t, "one line", escapeLiteral("one\nline"))
}

func TestParseLevels(t *testing.T) {
	assert.Equal(t, []int{2, 3, 4}, parseLevels("2,3,4"))
	assert.Equal(t, []int{1, 7}, parseLevels(" 1 , 7 "))
	assert.Nil(t, parseLevels(""))
	assert.Equal(t, []int{3}, parseLevels("0,3,9,x"))
}
