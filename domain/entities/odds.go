package entities

import (
	"time"

	"github.com/google/uuid"
)

// OddsSource indicates where a price came from.
type OddsSource string

const (
	OddsSourceManual     OddsSource = "manual"
	OddsSourceCalculated OddsSource = "calculated"
	OddsSourceExternal   OddsSource = "external"
)

// Odds represents one priced outcome for a match market, valid for a time
// window. At most one row per (match, bet type, selection, parameter) tuple
// has a nil EffectiveUntil; superseding a price closes the window and appends
// an OddsHistory record. Placed legs copy the price rather than reference the
// row, so rows are never mutated retroactively.
type Odds struct {
	ID                 int64      `db:"id"`
	MatchID            uuid.UUID  `db:"match_id"`
	BetType            BetType    `db:"bet_type"`
	Selection          string     `db:"selection"`
	Parameter          *string    `db:"parameter"`
	Price              float64    `db:"price"`
	Source             OddsSource `db:"source"`
	BookmakerMargin    float64    `db:"bookmaker_margin"`
	ImpliedProbability float64    `db:"implied_probability"`
	EffectiveFrom      time.Time  `db:"effective_from"`
	EffectiveUntil     *time.Time `db:"effective_until"`
	CreatedAt          time.Time  `db:"created_at"`
}

// IsEffective reports whether the price is currently effective.
func (o *Odds) IsEffective() bool {
	return o.EffectiveUntil == nil
}

// SelectionKey returns the (bet type, selection, parameter) identity of the
// priced outcome within its match.
func (o *Odds) SelectionKey() string {
	key := string(o.BetType) + "|" + o.Selection
	if o.Parameter != nil {
		key += "|" + *o.Parameter
	}
	return key
}

// OddsHistory records a price supersession.
type OddsHistory struct {
	ID        int64     `db:"id"`
	MatchID   uuid.UUID `db:"match_id"`
	BetType   BetType   `db:"bet_type"`
	Selection string    `db:"selection"`
	Parameter *string   `db:"parameter"`
	OldPrice  float64   `db:"old_price"`
	NewPrice  float64   `db:"new_price"`
	ChangePct float64   `db:"change_pct"`
	ChangedAt time.Time `db:"changed_at"`
}

// MarketEntry is one selection/price pair submitted when publishing a market.
type MarketEntry struct {
	Selection string
	Parameter *string
	Price     float64
}
