package entities

import (
	"errors"
	"time"
)

// LedgerEntry is one append-only wallet movement. The wallet balance always
// equals the sum of a user's ChangeAmounts; every entry carries the balance
// before and after so the invariant is checkable row by row.
type LedgerEntry struct {
	ID              int64           `db:"id"`
	UserID          int64           `db:"user_id"`
	BalanceBefore   int64           `db:"balance_before"`
	BalanceAfter    int64           `db:"balance_after"`
	ChangeAmount    int64           `db:"change_amount"`
	TransactionType TransactionType `db:"transaction_type"`
	BetID           *int64          `db:"bet_id"`
	Metadata        map[string]any  `db:"metadata"`
	CreatedAt       time.Time       `db:"created_at"`
}

// IsCredit returns true if the entry increased the balance.
func (e *LedgerEntry) IsCredit() bool {
	return e.ChangeAmount > 0
}

// IsDebit returns true if the entry decreased the balance.
func (e *LedgerEntry) IsDebit() bool {
	return e.ChangeAmount < 0
}

// Validate performs basic consistency checks on the entry.
func (e *LedgerEntry) Validate() error {
	if e.ChangeAmount == 0 {
		return errors.New("change amount cannot be zero")
	}
	if e.BalanceAfter != e.BalanceBefore+e.ChangeAmount {
		return errors.New("balance calculation is inconsistent")
	}
	if e.BalanceAfter < 0 {
		return ErrInsufficientBalance
	}
	return nil
}
