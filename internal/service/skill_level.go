package service

import "strings"

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillExpert       SkillLevel = "expert"
)

type DifficultyKind int

const (
	DifficultyUnset DifficultyKind = iota
	DifficultyEasy
	DifficultyMedium
	DifficultyHard
	DifficultyCustom
)

// Difficulty is a challenge difficulty label. Custom keeps the raw text for
// labels outside the easy/medium/hard set.
type Difficulty struct {
	Kind  DifficultyKind
	Label string
}

func ParseDifficulty(raw string) Difficulty {
	label := strings.ToLower(strings.TrimSpace(raw))
	switch label {
	case "":
		return Difficulty{Kind: DifficultyUnset}
	case "easy":
		return Difficulty{Kind: DifficultyEasy, Label: label}
	case "medium":
		return Difficulty{Kind: DifficultyMedium, Label: label}
	case "hard":
		return Difficulty{Kind: DifficultyHard, Label: label}
	}
	return Difficulty{Kind: DifficultyCustom, Label: label}
}

type skillRule struct {
	level    SkillLevel
	keywords []string
}

// skillRules is checked in order and the first keyword hit wins.
var skillRules = []skillRule{
	{SkillBeginner, []string{"easy", "beginner", "novice", "entry", "simple", "basic"}},
	{SkillExpert, []string{"hard", "advanced", "difficult", "expert"}},
	{SkillIntermediate, []string{"medium", "intermediate", "moderate"}},
}

// SkillLevelFor maps a difficulty to the AI tier. It is total: anything that
// matches no rule is intermediate.
func SkillLevelFor(d Difficulty) SkillLevel {
	switch d.Kind {
	case DifficultyEasy:
		return SkillBeginner
	case DifficultyMedium:
		return SkillIntermediate
	case DifficultyHard:
		return SkillExpert
	case DifficultyCustom:
		for _, rule := range skillRules {
			for _, kw := range rule.keywords {
				if strings.Contains(d.Label, kw) {
					return rule.level
				}
			}
		}
	}
	return SkillIntermediate
}
