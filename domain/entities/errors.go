package entities

import "errors"

// Domain failure taxonomy. Services return these (possibly wrapped) so the
// API layer can map them to specific responses with errors.Is.
var (
	// ErrInvalidStructure indicates an empty leg list or an accumulator with fewer than two legs.
	ErrInvalidStructure = errors.New("invalid bet structure")

	// ErrInvalidStake indicates a stake that is zero, negative, or outside the allowed bounds.
	ErrInvalidStake = errors.New("invalid stake")

	// ErrInvalidOdds indicates a decimal price at or below 1.0 or outside the allowed bounds.
	ErrInvalidOdds = errors.New("invalid odds")

	// ErrInvalidSelection indicates a selection that is not legal for the bet type,
	// or a missing parameter for a bet type that requires one.
	ErrInvalidSelection = errors.New("invalid selection for bet type")

	// ErrOddsNotAvailable indicates no currently effective price exists for a leg.
	ErrOddsNotAvailable = errors.New("odds not available")

	// ErrOddsExpired indicates the referenced match is no longer open for betting.
	ErrOddsExpired = errors.New("odds expired: match closed for betting")

	// ErrInsufficientBalance indicates the wallet balance does not cover the debit.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrCorrelatedLegs indicates an accumulator referencing the same match more than once.
	ErrCorrelatedLegs = errors.New("accumulator legs must reference distinct matches")

	// ErrAlreadySettled indicates a settlement attempt against a bet that is
	// already terminal. Settlement treats it as a no-op, never a hard failure.
	ErrAlreadySettled = errors.New("bet already settled")

	// ErrMarketInconsistent indicates a market whose implied probabilities sum
	// below 100%, i.e. an internal arbitrage. Such markets are rejected on entry.
	ErrMarketInconsistent = errors.New("market prices are internally inconsistent")

	// ErrUserNotFound indicates the wallet account does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrBetNotFound indicates the bet does not exist.
	ErrBetNotFound = errors.New("bet not found")

	// ErrMatchNotFound indicates the match catalog has no such match.
	ErrMatchNotFound = errors.New("match not found")
)
