package service

import (
	"unicode/utf8"

	"github.com/lshigami/codeduel/internal/model"
)

const RatingStep = 10

// CaseOutcome is the sandbox verdict for one test case.
type CaseOutcome struct {
	TestCaseID uint
	Passed     bool
	TimeSec    float64
	MemoryKb   int
	Status     string
}

// ExecutionOutcome aggregates a run over every test case of a challenge.
// TimeSec and MemoryKb are the worst values seen across cases.
type ExecutionOutcome struct {
	Correct  bool
	TimeSec  float64
	MemoryKb int
	Cases    []CaseOutcome
}

type Competitor struct {
	Code    string
	Outcome ExecutionOutcome
}

// Judge decides the winner of one attempt. Correctness dominates; when both
// sides are correct the challenge category picks the metric and lower wins.
func Judge(category string, user, ai Competitor) string {
	switch {
	case !user.Outcome.Correct && ai.Outcome.Correct:
		return model.WinnerAI
	case user.Outcome.Correct && !ai.Outcome.Correct:
		return model.WinnerUser
	case !user.Outcome.Correct && !ai.Outcome.Correct:
		return model.WinnerTie
	}

	var u, a float64
	switch category {
	case model.CategoryCodeGolf:
		u, a = float64(codeLength(user.Code)), float64(codeLength(ai.Code))
	case model.CategoryMemoryOptimization:
		u, a = float64(user.Outcome.MemoryKb), float64(ai.Outcome.MemoryKb)
	default:
		u, a = user.Outcome.TimeSec, ai.Outcome.TimeSec
	}
	switch {
	case u < a:
		return model.WinnerUser
	case a < u:
		return model.WinnerAI
	}
	return model.WinnerTie
}

// codeLength counts runes, ignoring trailing whitespace.
func codeLength(code string) int {
	end := len(code)
	for end > 0 {
		c := code[end-1]
		if c != ' ' && c != '\n' && c != '\t' && c != '\r' {
			break
		}
		end--
	}
	return utf8.RuneCountInString(code[:end])
}

// RatingDelta is the bounded change applied to the category rating.
func RatingDelta(winner string) int {
	switch winner {
	case model.WinnerUser:
		return RatingStep
	case model.WinnerAI:
		return -RatingStep
	}
	return 0
}

// RatingColumnFor returns the rating column for a category, "" when none.
func RatingColumnFor(category string) string {
	return model.RatingColumns[category]
}
