package entities

import (
	"time"

	"github.com/google/uuid"
)

// LegOutcome is the settlement outcome of a single leg.
type LegOutcome string

const (
	LegOutcomePending LegOutcome = "PENDING"
	LegOutcomeWon     LegOutcome = "WON"
	LegOutcomeLost    LegOutcome = "LOST"
	LegOutcomeVoid    LegOutcome = "VOID"
)

// BetLeg is one wager line within a bet. Price is the odds snapshot captured
// at placement time; market moves after placement never change it.
type BetLeg struct {
	ID                 int64      `db:"id"`
	BetID              int64      `db:"bet_id"`
	MatchID            uuid.UUID  `db:"match_id"`
	BetType            BetType    `db:"bet_type"`
	Selection          string     `db:"selection"`
	Parameter          *string    `db:"parameter"`
	Price              float64    `db:"price"`
	Outcome            LegOutcome `db:"outcome"`
	ResultDeterminedAt *time.Time `db:"result_determined_at"`
}

// IsDetermined reports whether the leg has a settlement outcome.
func (l *BetLeg) IsDetermined() bool {
	return l.Outcome != LegOutcomePending
}

// LegSelection is the caller's input for one leg of a candidate bet. The
// price is resolved server-side from the currently effective odds.
type LegSelection struct {
	MatchID   uuid.UUID
	BetType   BetType
	Selection string
	Parameter *string
}
