package services

import (
	"context"
	"fmt"

	"clubbet/domain/entities"
	"clubbet/domain/interfaces"
	"clubbet/domain/utils"

	log "github.com/sirupsen/logrus"
)

type walletService struct {
	userRepo       interfaces.UserRepository
	ledgerRepo     interfaces.LedgerRepository
	eventPublisher interfaces.EventPublisher
	initialBalance int64
}

// NewWalletService creates a new wallet service
func NewWalletService(
	userRepo interfaces.UserRepository,
	ledgerRepo interfaces.LedgerRepository,
	eventPublisher interfaces.EventPublisher,
	initialBalance int64,
) interfaces.WalletService {
	return &walletService{
		userRepo:       userRepo,
		ledgerRepo:     ledgerRepo,
		eventPublisher: eventPublisher,
		initialBalance: initialBalance,
	}
}

// GetOrCreateUser retrieves an existing wallet account or opens a new one
// with the initial balance and a matching ledger entry.
func (s *walletService) GetOrCreateUser(ctx context.Context, userID int64, username string) (*entities.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = s.userRepo.Create(ctx, userID, username, s.initialBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	entry := &entities.LedgerEntry{
		UserID:          userID,
		BalanceBefore:   0,
		BalanceAfter:    s.initialBalance,
		ChangeAmount:    s.initialBalance,
		TransactionType: entities.TransactionTypeInitial,
		Metadata:        map[string]any{"username": username},
	}
	if err := utils.RecordLedgerEntry(ctx, s.ledgerRepo, s.eventPublisher, entry); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"userID":   userID,
		"username": username,
		"balance":  user.Balance,
	}).Info("Created new wallet account")

	return user, nil
}

// Debit removes amount from the wallet inside the caller's unit of work.
// The row lock on the user serializes concurrent balance checks.
func (s *walletService) Debit(ctx context.Context, userID int64, amount int64, reason entities.TransactionType, betID *int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: debit amount must be positive, got %d", entities.ErrInvalidStake, amount)
	}

	user, err := s.userRepo.GetByIDForUpdate(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return entities.ErrUserNotFound
	}
	if !user.CanAfford(amount) {
		return fmt.Errorf("%w: have %s, need %s", entities.ErrInsufficientBalance,
			utils.FormatAmount(user.Balance), utils.FormatAmount(amount))
	}

	newBalance := user.Balance - amount
	if err := s.userRepo.UpdateBalance(ctx, userID, newBalance); err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	entry := &entities.LedgerEntry{
		UserID:          userID,
		BalanceBefore:   user.Balance,
		BalanceAfter:    newBalance,
		ChangeAmount:    -amount,
		TransactionType: reason,
		BetID:           betID,
	}
	return utils.RecordLedgerEntry(ctx, s.ledgerRepo, s.eventPublisher, entry)
}

// Credit adds amount to the wallet. Crediting never fails on balance grounds.
func (s *walletService) Credit(ctx context.Context, userID int64, amount int64, reason entities.TransactionType, betID *int64) error {
	if amount <= 0 {
		return fmt.Errorf("%w: credit amount must be positive, got %d", entities.ErrInvalidStake, amount)
	}

	user, err := s.userRepo.GetByIDForUpdate(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return entities.ErrUserNotFound
	}

	newBalance := user.Balance + amount
	if err := s.userRepo.UpdateBalance(ctx, userID, newBalance); err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	entry := &entities.LedgerEntry{
		UserID:          userID,
		BalanceBefore:   user.Balance,
		BalanceAfter:    newBalance,
		ChangeAmount:    amount,
		TransactionType: reason,
		BetID:           betID,
	}
	return utils.RecordLedgerEntry(ctx, s.ledgerRepo, s.eventPublisher, entry)
}

// Balance returns the current cached balance. The ledger remains the
// source of truth; LedgerRepository.SumByUser reconstructs it.
func (s *walletService) Balance(ctx context.Context, userID int64) (int64, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return 0, entities.ErrUserNotFound
	}
	return user.Balance, nil
}

// History returns ledger entries for a user, newest first
func (s *walletService) History(ctx context.Context, userID int64, limit, offset int) ([]*entities.LedgerEntry, error) {
	entries, err := s.ledgerRepo.GetByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries: %w", err)
	}
	return entries, nil
}
