package testhelpers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"clubbet/domain/entities"
	"clubbet/domain/events"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, userID int64) (*entities.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDForUpdate(ctx context.Context, userID int64) (*entities.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, userID int64, username string, initialBalance int64) (*entities.User, error) {
	args := m.Called(ctx, userID, username, initialBalance)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) UpdateBalance(ctx context.Context, userID int64, newBalance int64) error {
	args := m.Called(ctx, userID, newBalance)
	return args.Error(0)
}

func (m *MockUserRepository) GetAll(ctx context.Context) ([]*entities.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.User), args.Error(1)
}

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Record(ctx context.Context, entry *entities.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) GetByUser(ctx context.Context, userID int64, limit, offset int) ([]*entities.LedgerEntry, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LedgerEntry), args.Error(1)
}

func (m *MockLedgerRepository) SumByUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockBetRepository is a mock implementation of BetRepository
type MockBetRepository struct {
	mock.Mock
}

func (m *MockBetRepository) Create(ctx context.Context, bet *entities.Bet) error {
	args := m.Called(ctx, bet)
	return args.Error(0)
}

func (m *MockBetRepository) GetByID(ctx context.Context, id int64) (*entities.Bet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Bet), args.Error(1)
}

func (m *MockBetRepository) GetByUser(ctx context.Context, userID int64, status *entities.BetStatus, limit, offset int) ([]*entities.Bet, error) {
	args := m.Called(ctx, userID, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Bet), args.Error(1)
}

func (m *MockBetRepository) GetPendingByMatch(ctx context.Context, matchID uuid.UUID) ([]*entities.Bet, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Bet), args.Error(1)
}

func (m *MockBetRepository) UpdateLegOutcome(ctx context.Context, legID int64, outcome entities.LegOutcome, determinedAt time.Time) error {
	args := m.Called(ctx, legID, outcome, determinedAt)
	return args.Error(0)
}

func (m *MockBetRepository) SettleBet(ctx context.Context, betID int64, status entities.BetStatus, payout int64, settledAt time.Time) (bool, error) {
	args := m.Called(ctx, betID, status, payout, settledAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockBetRepository) GetPlacedSince(ctx context.Context, since time.Time) ([]*entities.Bet, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Bet), args.Error(1)
}

// MockOddsRepository is a mock implementation of OddsRepository
type MockOddsRepository struct {
	mock.Mock
}

func (m *MockOddsRepository) GetEffective(ctx context.Context, matchID uuid.UUID, betType entities.BetType, selection string, parameter *string) (*entities.Odds, error) {
	args := m.Called(ctx, matchID, betType, selection, parameter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Odds), args.Error(1)
}

func (m *MockOddsRepository) GetEffectiveByMatch(ctx context.Context, matchID uuid.UUID) ([]*entities.Odds, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Odds), args.Error(1)
}

func (m *MockOddsRepository) CloseEffective(ctx context.Context, matchID uuid.UUID, betType *entities.BetType, at time.Time) ([]*entities.Odds, error) {
	args := m.Called(ctx, matchID, betType, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Odds), args.Error(1)
}

func (m *MockOddsRepository) CloseEffectiveSelection(ctx context.Context, matchID uuid.UUID, betType entities.BetType, selection string, parameter *string, at time.Time) (*entities.Odds, error) {
	args := m.Called(ctx, matchID, betType, selection, parameter, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Odds), args.Error(1)
}

func (m *MockOddsRepository) Insert(ctx context.Context, odds *entities.Odds) error {
	args := m.Called(ctx, odds)
	return args.Error(0)
}

func (m *MockOddsRepository) RecordHistory(ctx context.Context, h *entities.OddsHistory) error {
	args := m.Called(ctx, h)
	return args.Error(0)
}

func (m *MockOddsRepository) GetHistory(ctx context.Context, matchID uuid.UUID, limit int) ([]*entities.OddsHistory, error) {
	args := m.Called(ctx, matchID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.OddsHistory), args.Error(1)
}

// MockLeaderboardSnapshotRepository is a mock implementation of LeaderboardSnapshotRepository
type MockLeaderboardSnapshotRepository struct {
	mock.Mock
}

func (m *MockLeaderboardSnapshotRepository) Save(ctx context.Context, snapshot *entities.LeaderboardSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockLeaderboardSnapshotRepository) GetLatest(ctx context.Context, period entities.Period, metric entities.SortMetric) (*entities.LeaderboardSnapshot, error) {
	args := m.Called(ctx, period, metric)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.LeaderboardSnapshot), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}

// MockMatchCatalog is a mock implementation of MatchCatalog
type MockMatchCatalog struct {
	mock.Mock
}

func (m *MockMatchCatalog) GetMatch(ctx context.Context, matchID uuid.UUID) (*entities.MatchInfo, error) {
	args := m.Called(ctx, matchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.MatchInfo), args.Error(1)
}

// MockLeaderboardCache is a mock implementation of LeaderboardCache
type MockLeaderboardCache struct {
	mock.Mock
}

func (m *MockLeaderboardCache) Get(ctx context.Context, period entities.Period, metric entities.SortMetric) ([]*entities.LeaderboardEntry, bool) {
	args := m.Called(ctx, period, metric)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]*entities.LeaderboardEntry), args.Bool(1)
}

func (m *MockLeaderboardCache) Set(ctx context.Context, period entities.Period, metric entities.SortMetric, entries []*entities.LeaderboardEntry) {
	m.Called(ctx, period, metric, entries)
}

// MockWalletService is a mock implementation of WalletService
type MockWalletService struct {
	mock.Mock
}

func (m *MockWalletService) GetOrCreateUser(ctx context.Context, userID int64, username string) (*entities.User, error) {
	args := m.Called(ctx, userID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockWalletService) Debit(ctx context.Context, userID int64, amount int64, reason entities.TransactionType, betID *int64) error {
	args := m.Called(ctx, userID, amount, reason, betID)
	return args.Error(0)
}

func (m *MockWalletService) Credit(ctx context.Context, userID int64, amount int64, reason entities.TransactionType, betID *int64) error {
	args := m.Called(ctx, userID, amount, reason, betID)
	return args.Error(0)
}

func (m *MockWalletService) Balance(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWalletService) History(ctx context.Context, userID int64, limit, offset int) ([]*entities.LedgerEntry, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.LedgerEntry), args.Error(1)
}
