package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkillLevelFor(t *testing.T) {
	tests := []struct {
		raw  string
		want SkillLevel
	}{
		{"easy", SkillBeginner},
		{"  EASY ", SkillBeginner},
		{"Novice friendly", SkillBeginner},
		{"entry-level", SkillBeginner},
		{"medium", SkillIntermediate},
		{"Moderate", SkillIntermediate},
		{"hard", SkillExpert},
		{"Very Difficult", SkillExpert},
		{"advanced", SkillExpert},
		{"", SkillIntermediate},
		{"legendary", SkillIntermediate},
		// beginner rules are checked first
		{"easy to read, hard to solve", SkillBeginner},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, SkillLevelFor(ParseDifficulty(tt.raw)))
		})
	}
}

func TestParseDifficulty(t *testing.T) {
	assert.Equal(t, DifficultyUnset, ParseDifficulty("   ").Kind)
	assert.Equal(t, DifficultyHard, ParseDifficulty("Hard").Kind)
	custom := ParseDifficulty("Expert Only")
	assert.Equal(t, DifficultyCustom, custom.Kind)
	assert.Equal(t, "expert only", custom.Label)
}
