package utils

import (
	"context"
	"fmt"

	"clubbet/domain/entities"
	"clubbet/domain/events"
	"clubbet/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// RecordLedgerEntry records a wallet ledger entry and emits the matching events.
// This is the single entry point for all balance changes in the system.
func RecordLedgerEntry(ctx context.Context, ledgerRepo interfaces.LedgerRepository, eventPublisher interfaces.EventPublisher, entry *entities.LedgerEntry) error {
	if err := entry.Validate(); err != nil {
		return fmt.Errorf("invalid ledger entry: %w", err)
	}

	if err := ledgerRepo.Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record ledger entry: %w", err)
	}

	event := events.BalanceChangeEvent{
		UserID:          entry.UserID,
		OldBalance:      entry.BalanceBefore,
		NewBalance:      entry.BalanceAfter,
		ChangeAmount:    entry.ChangeAmount,
		TransactionType: entry.TransactionType,
		BetID:           entry.BetID,
	}
	log.WithFields(log.Fields{
		"userID":          event.UserID,
		"oldBalance":      event.OldBalance,
		"newBalance":      event.NewBalance,
		"transactionType": event.TransactionType,
		"changeAmount":    event.ChangeAmount,
	}).Debug("Publishing BalanceChangeEvent")
	if err := eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}

	if entry.TransactionType == entities.TransactionTypeInitial {
		if username, ok := entry.Metadata["username"].(string); ok {
			userCreatedEvent := events.UserCreatedEvent{
				UserID:         entry.UserID,
				Username:       username,
				InitialBalance: entry.BalanceAfter,
			}
			if err := eventPublisher.Publish(userCreatedEvent); err != nil {
				log.WithError(err).Error("Failed to publish user created event")
			}
		}
	}

	return nil
}
