package types

// EnhancementResult is the final output of one enhancement request.
type EnhancementResult struct {
	RegeneratedText   string         `json:"regenerated_text"`
	Skills            []LeveledSkill `json:"skills"`
	ExtractedKeywords []string       `json:"extracted_keywords"`
	GraphConnected    bool           `json:"graph_connected"`
	// Messages records one line per completed stage, for diagnostics.
	Messages []string `json:"messages,omitempty"`
}

// Candidate is one entry in an autocomplete result: a record plus the
// cross-source score band and source priority used for ordering.
type Candidate struct {
	Record         SkillRecord `json:"record"`
	Score          int         `json:"score"`
	SourcePriority int         `json:"source_priority"`
	Source         SkillSource `json:"source"`
}

// GraphHealth is the monitoring surface for the knowledge graph gateway.
type GraphHealth struct {
	Reachable           bool  `json:"reachable"`
	RecordCountEstimate int64 `json:"record_count_estimate"`
}
