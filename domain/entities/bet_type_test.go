package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBetType_IsValid(t *testing.T) {
	assert.True(t, BetTypeMatchResult.IsValid())
	assert.True(t, BetTypeFirstScorer.IsValid())
	assert.False(t, BetType("PENALTY_SHOOTOUT").IsValid())
}

func TestBetType_ValidateSelection(t *testing.T) {
	line := "2.5"
	empty := ""

	tests := []struct {
		name      string
		betType   BetType
		selection string
		parameter *string
		wantErr   bool
	}{
		{"1X2 home", BetTypeMatchResult, "1", nil, false},
		{"1X2 draw", BetTypeMatchResult, "X", nil, false},
		{"1X2 unknown token", BetTypeMatchResult, "HOME", nil, true},
		{"double chance", BetTypeDoubleChance, "1X", nil, false},
		{"over/under with line", BetTypeOverUnder, "OVER", &line, false},
		{"over/under without line", BetTypeOverUnder, "OVER", nil, true},
		{"over/under empty line", BetTypeOverUnder, "UNDER", &empty, true},
		{"btts yes", BetTypeBothTeamsScore, "YES", nil, false},
		{"correct score freeform", BetTypeCorrectScore, "2:1", nil, false},
		{"correct score empty", BetTypeCorrectScore, "", nil, true},
		{"halftime fulltime", BetTypeHalftimeFulltime, "X/1", nil, false},
		{"halftime fulltime bad token", BetTypeHalftimeFulltime, "1-X", nil, true},
		{"first scorer any name", BetTypeFirstScorer, "Novak", nil, false},
		{"handicap needs line", BetTypeHandicap, "1", nil, true},
		{"handicap with line", BetTypeHandicap, "2", &line, false},
		{"handicap draw not a selection", BetTypeHandicap, "X", &line, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.betType.ValidateSelection(tt.selection, tt.parameter)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSelection)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMatchOutcome_Tokens(t *testing.T) {
	outcome := &MatchOutcome{HomeGoals: 2, AwayGoals: 1, HalfTimeHome: 0, HalfTimeAway: 1}

	assert.Equal(t, "1", outcome.ResultToken())
	assert.Equal(t, "2", outcome.HalfTimeToken())
	assert.Equal(t, "2:1", outcome.ScoreToken())
	assert.Equal(t, 3, outcome.TotalGoals())
	assert.True(t, outcome.BothTeamsScored())

	draw := &MatchOutcome{HomeGoals: 0, AwayGoals: 0}
	assert.Equal(t, "X", draw.ResultToken())
	assert.False(t, draw.BothTeamsScored())
}

func TestMatchOutcome_HandicapToken(t *testing.T) {
	outcome := &MatchOutcome{HomeGoals: 2, AwayGoals: 1}

	assert.Equal(t, SelectionHome, outcome.HandicapToken(0))
	assert.Equal(t, SelectionAway, outcome.HandicapToken(-1.5))
	// An exact handicap line is a push
	assert.Equal(t, SelectionDraw, outcome.HandicapToken(-1))
}

func TestNormalizeScoreToken(t *testing.T) {
	assert.Equal(t, "2:1", NormalizeScoreToken("2:1"))
	assert.Equal(t, "2:1", NormalizeScoreToken("2-1"))
	assert.Equal(t, "2:1", NormalizeScoreToken(" 2 : 1 "))
	assert.Equal(t, "oops", NormalizeScoreToken("oops"))
}
