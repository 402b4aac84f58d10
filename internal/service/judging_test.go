package service

import (
	"testing"

	"github.com/lshigami/codeduel/internal/model"
	"github.com/stretchr/testify/assert"
)

func competitor(correct bool, timeSec float64, memKb int, code string) Competitor {
	return Competitor{Code: code, Outcome: ExecutionOutcome{Correct: correct, TimeSec: timeSec, MemoryKb: memKb}}
}

func TestJudge(t *testing.T) {
	tests := []struct {
		name     string
		category string
		user, ai Competitor
		want     string
	}{
		{"time trial faster user", model.CategoryTimeTrial, competitor(true, 2.0, 100, "a"), competitor(true, 3.0, 100, "a"), model.WinnerUser},
		{"time trial faster ai", model.CategoryTimeTrial, competitor(true, 3.0, 100, "a"), competitor(true, 2.0, 100, "a"), model.WinnerAI},
		{"both wrong", model.CategoryTimeTrial, competitor(false, 1, 1, "a"), competitor(false, 1, 1, "a"), model.WinnerTie},
		{"only user right golf", model.CategoryCodeGolf, competitor(true, 9, 9, "long code"), competitor(false, 0, 0, "x"), model.WinnerUser},
		{"only user right memory", model.CategoryMemoryOptimization, competitor(true, 9, 9999, "a"), competitor(false, 0, 1, "a"), model.WinnerUser},
		{"only ai right", model.CategoryDebugging, competitor(false, 0, 0, "a"), competitor(true, 5, 5, "a"), model.WinnerAI},
		{"golf shorter user", model.CategoryCodeGolf, competitor(true, 5, 5, "print(1)"), competitor(true, 1, 1, "print( 1 )"), model.WinnerUser},
		{"golf trailing whitespace ignored", model.CategoryCodeGolf, competitor(true, 5, 5, "print(1)\n\n"), competitor(true, 1, 1, "print(1)"), model.WinnerTie},
		{"memory lower ai", model.CategoryMemoryOptimization, competitor(true, 1, 5000, "a"), competitor(true, 9, 4000, "a"), model.WinnerAI},
		{"untagged defaults to time", "", competitor(true, 0.5, 1, "a"), competitor(true, 0.7, 1, "a"), model.WinnerUser},
		{"equal metric ties", model.CategoryTimeTrial, competitor(true, 1.5, 1, "a"), competitor(true, 1.5, 2, "b"), model.WinnerTie},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Judge(tt.category, tt.user, tt.ai))
		})
	}
}

func TestRatingDelta(t *testing.T) {
	assert.Equal(t, RatingStep, RatingDelta(model.WinnerUser))
	assert.Equal(t, -RatingStep, RatingDelta(model.WinnerAI))
	assert.Equal(t, 0, RatingDelta(model.WinnerTie))
}

func TestRatingColumnFor(t *testing.T) {
	assert.Equal(t, "memory_opt_rating", RatingColumnFor(model.CategoryMemoryOptimization))
	assert.Equal(t, "", RatingColumnFor("unknown"))
}
