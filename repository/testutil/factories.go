package testutil

import (
	"time"

	"github.com/google/uuid"

	"clubbet/domain/entities"
)

// CreateTestLedgerEntry creates a valid ledger entry for a user
func CreateTestLedgerEntry(userID int64, transactionType entities.TransactionType) *entities.LedgerEntry {
	return &entities.LedgerEntry{
		UserID:          userID,
		BalanceBefore:   100000,
		BalanceAfter:    99000,
		ChangeAmount:    -1000,
		TransactionType: transactionType,
		Metadata: map[string]any{
			"test": true,
		},
	}
}

// CreateTestLedgerEntryWithAmounts creates a ledger entry with specific amounts
func CreateTestLedgerEntryWithAmounts(userID int64, before, after, change int64, transactionType entities.TransactionType) *entities.LedgerEntry {
	entry := CreateTestLedgerEntry(userID, transactionType)
	entry.BalanceBefore = before
	entry.BalanceAfter = after
	entry.ChangeAmount = change
	return entry
}

// CreateTestBet creates a pending single bet with one leg on the given match
func CreateTestBet(userID int64, matchID uuid.UUID, stake int64, price float64) *entities.Bet {
	return &entities.Bet{
		UserID:          userID,
		Structure:       entities.BetStructureSingle,
		Stake:           stake,
		CombinedOdds:    price,
		PotentialReturn: int64(float64(stake)*price + 0.5),
		Status:          entities.BetStatusPending,
		Legs: []*entities.BetLeg{
			{
				MatchID:   matchID,
				BetType:   entities.BetTypeMatchResult,
				Selection: "1",
				Price:     price,
				Outcome:   entities.LegOutcomePending,
			},
		},
	}
}

// CreateTestAccumulator creates a pending accumulator with one leg per match
func CreateTestAccumulator(userID int64, matchIDs []uuid.UUID, stake int64, price float64) *entities.Bet {
	legs := make([]*entities.BetLeg, 0, len(matchIDs))
	combined := 1.0
	for _, matchID := range matchIDs {
		legs = append(legs, &entities.BetLeg{
			MatchID:   matchID,
			BetType:   entities.BetTypeMatchResult,
			Selection: "1",
			Price:     price,
			Outcome:   entities.LegOutcomePending,
		})
		combined *= price
	}

	return &entities.Bet{
		UserID:          userID,
		Structure:       entities.BetStructureAccumulator,
		Stake:           stake,
		CombinedOdds:    combined,
		PotentialReturn: int64(float64(stake)*combined + 0.5),
		Status:          entities.BetStatusPending,
		Legs:            legs,
	}
}

// CreateTestOdds creates an effective match result price
func CreateTestOdds(matchID uuid.UUID, selection string, price float64) *entities.Odds {
	return &entities.Odds{
		MatchID:            matchID,
		BetType:            entities.BetTypeMatchResult,
		Selection:          selection,
		Price:              price,
		Source:             entities.OddsSourceManual,
		ImpliedProbability: 100 / price,
		EffectiveFrom:      time.Now().UTC(),
	}
}
