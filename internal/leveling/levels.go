package leveling

import (
	"github.com/jonathan/jd-enhancer/internal/types"
)

// MaxLevel is the top of the SFIA seven-point responsibility scale.
const MaxLevel = 7

// levelNames holds the canonical SFIA level names, indexed by level.
var levelNames = map[int]string{
	1: "Follow",
	2: "Assist",
	3: "Apply",
	4: "Enable",
	5: "Ensure, advise",
	6: "Initiate, influence",
	7: "Set strategy, inspire, mobilise",
}

// levelDescriptions holds short responsibility statements per level.
var levelDescriptions = map[int]string{
	1: "Works under close direction on routine tasks.",
	2: "Works under routine direction with some discretion.",
	3: "Works under general direction, completes work to agreed standards.",
	4: "Works under general direction within a clear framework of accountability, exercises substantial personal responsibility.",
	5: "Works under broad direction, is accountable for significant outcomes and advises others.",
	6: "Has defined authority for a significant area of work, influences policy and strategy formation.",
	7: "Has authority over a major function, sets organisational strategy and mobilises resources.",
}

// LevelName returns the SFIA name for a level, or empty for out-of-scale values.
func LevelName(level int) string {
	return levelNames[level]
}

// LevelDescription returns the responsibility statement for a level.
func LevelDescription(level int) string {
	return levelDescriptions[level]
}

// AssignLevels converts resolved skill matches into leveled skills. Every
// match receives the same text-derived baseline level, clamped onto the
// skill's own scale when the framework defines one. Input order is preserved
// and the operation is idempotent: re-running it over the same text and
// matches yields identical levels.
func AssignLevels(jobText string, matches []types.SkillMatch) []types.LeveledSkill {
	baseline := baselineLevel(jobText)

	leveled := make([]types.LeveledSkill, 0, len(matches))
	for _, m := range matches {
		level := clampToScale(baseline, m.Record.Levels)
		leveled = append(leveled, types.LeveledSkill{
			Code:             m.Record.Code,
			Name:             m.Record.Name,
			Category:         m.Record.Category,
			Description:      m.Record.Description,
			Framework:        m.Record.Framework,
			Level:            level,
			LevelName:        LevelName(level),
			LevelDescription: LevelDescription(level),
			KeywordMatched:   m.Keyword,
		})
	}
	return leveled
}

// clampToScale maps a baseline level onto a skill's defined scale. The
// highest defined level at or below the baseline wins; when the whole scale
// sits above the baseline, the scale's lowest level is used. Skills without
// a defined scale keep the baseline unchanged.
func clampToScale(baseline int, scale []int) int {
	if len(scale) == 0 {
		return baseline
	}
	best := 0
	min := scale[0]
	for _, l := range scale {
		if l <= baseline && l > best {
			best = l
		}
		if l < min {
			min = l
		}
	}
	if best == 0 {
		return min
	}
	return best
}
