package entities

import (
	"time"
)

// User is a wallet account holder. Balance is in cents of club points and is
// a cache of the ledger fold; the ledger remains the source of truth.
type User struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	Balance   int64     `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CanAfford checks if the user has sufficient balance for an amount.
func (u *User) CanAfford(amount int64) bool {
	return u.Balance >= amount
}

// ValidateAmount checks if an amount is positive and affordable.
func (u *User) ValidateAmount(amount int64) error {
	if amount <= 0 {
		return ErrInvalidStake
	}
	if !u.CanAfford(amount) {
		return ErrInsufficientBalance
	}
	return nil
}
