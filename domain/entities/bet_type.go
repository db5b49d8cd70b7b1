package entities

import "fmt"

// BetType identifies a betting market kind.
type BetType string

const (
	BetTypeMatchResult      BetType = "1X2"
	BetTypeDoubleChance     BetType = "DOUBLE_CHANCE"
	BetTypeOverUnder        BetType = "OVER_UNDER"
	BetTypeBothTeamsScore   BetType = "BOTH_TEAMS_SCORE"
	BetTypeCorrectScore     BetType = "CORRECT_SCORE"
	BetTypeHalftimeFulltime BetType = "HALFTIME_FULLTIME"
	BetTypeFirstScorer      BetType = "FIRST_GOAL_SCORER"
	BetTypeHandicap         BetType = "HANDICAP"
)

// Common selection tokens.
const (
	SelectionHome  = "1"
	SelectionDraw  = "X"
	SelectionAway  = "2"
	SelectionOver  = "OVER"
	SelectionUnder = "UNDER"
	SelectionYes   = "YES"
	SelectionNo    = "NO"
)

// betTypeSpec declares the legal selections for a market kind and whether it
// needs a numeric parameter (e.g. the over/under goal line).
type betTypeSpec struct {
	selections        []string
	requiresParameter bool
	freeformSelection bool
}

var betTypes = map[BetType]betTypeSpec{
	BetTypeMatchResult:    {selections: []string{SelectionHome, SelectionDraw, SelectionAway}},
	BetTypeDoubleChance:   {selections: []string{"1X", "X2", "12"}},
	BetTypeOverUnder:      {selections: []string{SelectionOver, SelectionUnder}, requiresParameter: true},
	BetTypeBothTeamsScore: {selections: []string{SelectionYes, SelectionNo}},
	// Correct score and first scorer take dynamic selections (a score like
	// "2:1", a player name), so any non-empty token is accepted.
	BetTypeCorrectScore: {freeformSelection: true},
	BetTypeHalftimeFulltime: {selections: []string{
		"1/1", "1/X", "1/2", "X/1", "X/X", "X/2", "2/1", "2/X", "2/2",
	}},
	BetTypeFirstScorer: {freeformSelection: true},
	BetTypeHandicap:    {selections: []string{SelectionHome, SelectionAway}, requiresParameter: true},
}

// IsValid reports whether bt is a known market kind.
func (bt BetType) IsValid() bool {
	_, ok := betTypes[bt]
	return ok
}

// RequiresParameter reports whether the market needs a numeric parameter.
func (bt BetType) RequiresParameter() bool {
	return betTypes[bt].requiresParameter
}

// Selections returns the legal selection tokens for the market, or nil for
// markets with dynamic selections.
func (bt BetType) Selections() []string {
	return betTypes[bt].selections
}

// ValidateSelection checks that a selection (and parameter, when required) is
// legal for this market kind.
func (bt BetType) ValidateSelection(selection string, parameter *string) error {
	spec, ok := betTypes[bt]
	if !ok {
		return fmt.Errorf("%w: unknown bet type %q", ErrInvalidSelection, string(bt))
	}

	if spec.requiresParameter && (parameter == nil || *parameter == "") {
		return fmt.Errorf("%w: bet type %s requires a parameter", ErrInvalidSelection, bt)
	}

	if spec.freeformSelection {
		if selection == "" {
			return fmt.Errorf("%w: bet type %s requires a selection", ErrInvalidSelection, bt)
		}
		return nil
	}

	for _, s := range spec.selections {
		if s == selection {
			return nil
		}
	}
	return fmt.Errorf("%w: %q is not a legal selection for %s", ErrInvalidSelection, selection, bt)
}

// String returns the string representation of the bet type.
func (bt BetType) String() string {
	return string(bt)
}
