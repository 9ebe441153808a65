package kg

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/jonathan/jd-enhancer/internal/types"
)

// resultSet models the application/sparql-results+json response format.
type resultSet struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []bindingRow `json:"bindings"`
	} `json:"results"`
}

// bindingRow maps a variable name to its bound term for one result row.
type bindingRow map[string]struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

func (r bindingRow) value(name string) string {
	if term, ok := r[name]; ok {
		return term.Value
	}
	return ""
}

func parseResults(body io.Reader) (*resultSet, error) {
	var rs resultSet
	if err := json.NewDecoder(body).Decode(&rs); err != nil {
		return nil, err
	}
	return &rs, nil
}

// recordFromRow builds a SkillRecord from one tabular result row.
// Graph results are tagged with the SFIA framework; the unified store only
// exposes leveled SFIA skills through the fixed search template.
func recordFromRow(row bindingRow) types.SkillRecord {
	return types.SkillRecord{
		Code:        row.value("code"),
		Name:        row.value("label"),
		Description: row.value("description"),
		Category:    row.value("category"),
		Framework:   types.FrameworkSFIA,
		Levels:      parseLevels(row.value("levels")),
	}
}

// parseLevels decodes a GROUP_CONCAT level list like "2,3,4,5".
func parseLevels(concat string) []int {
	if strings.TrimSpace(concat) == "" {
		return nil
	}
	var levels []int
	for _, part := range strings.Split(concat, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 1 || n > 7 {
			continue
		}
		levels = append(levels, n)
	}
	return levels
}
