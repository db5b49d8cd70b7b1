package entities

// TransactionType represents the reason for a wallet balance change.
type TransactionType string

const (
	// TransactionTypeStakeDebit is the debit taken when a bet is placed.
	TransactionTypeStakeDebit TransactionType = "stake_debit"

	// TransactionTypePayoutCredit is the credit for a won bet's payout.
	TransactionTypePayoutCredit TransactionType = "payout_credit"

	// TransactionTypeVoidRefund is the stake returned for a voided bet.
	TransactionTypeVoidRefund TransactionType = "void_refund"

	// TransactionTypeInitial is the opening balance of a new wallet.
	TransactionTypeInitial TransactionType = "initial"
)

// IsCredit returns true if the transaction type increases the balance.
func (tt TransactionType) IsCredit() bool {
	return tt == TransactionTypePayoutCredit ||
		tt == TransactionTypeVoidRefund ||
		tt == TransactionTypeInitial
}

// IsDebit returns true if the transaction type decreases the balance.
func (tt TransactionType) IsDebit() bool {
	return tt == TransactionTypeStakeDebit
}

// String returns the string representation of the transaction type.
func (tt TransactionType) String() string {
	return string(tt)
}
