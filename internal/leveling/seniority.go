// Package leveling assigns proficiency levels to resolved skills. Level
// assignment is deterministic: it is driven entirely by seniority signals in
// the job text and the framework's per-skill scale, never by an LLM call, so
// repeated runs over the same input always produce the same levels.
package leveling

import "strings"

// Seniority is the band detected from job text.
type Seniority string

// Seniority bands, weakest to strongest
const (
	SeniorityJunior Seniority = "junior"
	SeniorityMid    Seniority = "mid"
	SenioritySenior Seniority = "senior"
	SeniorityLead   Seniority = "lead"
)

// seniorityLexicons maps each band to the phrases that indicate it.
var seniorityLexicons = map[Seniority][]string{
	SeniorityJunior: {"junior", "entry", "graduate", "0-2 years", "beginner"},
	SeniorityMid:    {"mid-level", "intermediate", "3-5 years", "experienced"},
	SenioritySenior: {"senior", "principal", "5+ years", "expert", "7+ years"},
	SeniorityLead:   {"lead", "architect", "manager", "head", "director", "principal"},
}

// baseLevels maps a seniority band to its starting proficiency level.
var baseLevels = map[Seniority]int{
	SeniorityJunior: 2,
	SeniorityMid:    4,
	SenioritySenior: 5,
	SeniorityLead:   6,
}

// DetectSeniority scans job text for seniority signals. Stronger bands win:
// a posting mentioning both "senior" and "director" is treated as lead. When
// no signal is present the mid band is assumed.
func DetectSeniority(jobText string) Seniority {
	lower := strings.ToLower(jobText)
	for _, band := range []Seniority{SeniorityLead, SenioritySenior, SeniorityMid, SeniorityJunior} {
		for _, phrase := range seniorityLexicons[band] {
			if strings.Contains(lower, phrase) {
				return band
			}
		}
	}
	return SeniorityMid
}

// phrase groups that each add one level on top of the seniority base
var (
	leadershipSignals = []string{"lead", "manage", "strategic", "architect"}
	mentoringSignals  = []string{"mentor", "train", "guide", "coach"}
)

// baselineLevel computes the framework-agnostic target level for job text:
// the seniority base, plus one for leadership language, plus one for
// mentoring language, capped at the top of the seven-point scale.
func baselineLevel(jobText string) int {
	lower := strings.ToLower(jobText)
	level := baseLevels[DetectSeniority(jobText)]
	if containsAny(lower, leadershipSignals) {
		level++
	}
	if containsAny(lower, mentoringSignals) {
		level++
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return level
}

func containsAny(text string, phrases []string) bool {
	for _, phrase := range phrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
