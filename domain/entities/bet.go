package entities

import (
	"fmt"
	"time"
)

// BetStructure distinguishes singles from accumulators.
type BetStructure string

const (
	BetStructureSingle      BetStructure = "SINGLE"
	BetStructureAccumulator BetStructure = "ACCUMULATOR"
)

// MaxAccumulatorLegs caps how many legs an accumulator may carry.
const MaxAccumulatorLegs = 20

// StructureForLegCount derives the structure from the number of legs.
func StructureForLegCount(n int) (BetStructure, error) {
	switch {
	case n <= 0:
		return "", ErrInvalidStructure
	case n == 1:
		return BetStructureSingle, nil
	case n > MaxAccumulatorLegs:
		return "", fmt.Errorf("%w: accumulator allows at most %d legs, got %d", ErrInvalidStructure, MaxAccumulatorLegs, n)
	default:
		return BetStructureAccumulator, nil
	}
}

// BetStatus is the lifecycle state of a bet. PENDING is the only non-terminal
// state; there is no transition out of WON, LOST or VOID.
type BetStatus string

const (
	BetStatusPending BetStatus = "PENDING"
	BetStatusWon     BetStatus = "WON"
	BetStatusLost    BetStatus = "LOST"
	BetStatusVoid    BetStatus = "VOID"
)

// IsTerminal reports whether the status is a settlement outcome.
func (s BetStatus) IsTerminal() bool {
	return s == BetStatusWon || s == BetStatusLost || s == BetStatusVoid
}

// Bet is a wager of one or more legs placed atomically by one user.
// Stake, PotentialReturn and Payout are in cents of club points.
type Bet struct {
	ID              int64        `db:"id"`
	UserID          int64        `db:"user_id"`
	Structure       BetStructure `db:"structure"`
	Stake           int64        `db:"stake"`
	CombinedOdds    float64      `db:"combined_odds"`
	PotentialReturn int64        `db:"potential_return"`
	Status          BetStatus    `db:"status"`
	Payout          int64        `db:"payout"`
	PlacedAt        time.Time    `db:"placed_at"`
	SettledAt       *time.Time   `db:"settled_at"`
	Legs            []*BetLeg    `db:"-"`
}

// AllLegsDetermined reports whether every leg has a non-pending outcome.
func (b *Bet) AllLegsDetermined() bool {
	for _, leg := range b.Legs {
		if leg.Outcome == LegOutcomePending {
			return false
		}
	}
	return len(b.Legs) > 0
}

// ResolveStatus derives the terminal status from the legs' outcomes.
// Any lost leg loses the whole bet; all-void refunds it; otherwise it won.
func (b *Bet) ResolveStatus() BetStatus {
	allVoid := true
	for _, leg := range b.Legs {
		switch leg.Outcome {
		case LegOutcomeLost:
			return BetStatusLost
		case LegOutcomeVoid:
		default:
			allVoid = false
		}
	}
	if allVoid {
		return BetStatusVoid
	}
	return BetStatusWon
}

// EffectiveOdds returns the product of the winning legs' snapshot prices.
// Void legs are excluded: a voided leg is "no bet" on that line, not a win.
func (b *Bet) EffectiveOdds() float64 {
	odds := 1.0
	for _, leg := range b.Legs {
		if leg.Outcome == LegOutcomeWon {
			odds *= leg.Price
		}
	}
	return odds
}

// NetProfit returns payout minus stake for a settled bet.
func (b *Bet) NetProfit() int64 {
	return b.Payout - b.Stake
}

// Validate performs structural validation on the bet aggregate.
func (b *Bet) Validate() error {
	if len(b.Legs) == 0 {
		return ErrInvalidStructure
	}
	if b.Structure == BetStructureAccumulator && (len(b.Legs) < 2 || len(b.Legs) > MaxAccumulatorLegs) {
		return ErrInvalidStructure
	}
	if b.Structure == BetStructureSingle && len(b.Legs) != 1 {
		return ErrInvalidStructure
	}
	if b.Stake <= 0 {
		return ErrInvalidStake
	}
	return nil
}
