package application

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clubbet/domain/entities"
	"clubbet/domain/interfaces"
	"clubbet/domain/testhelpers"
)

type fakeUnitOfWork struct {
	userRepo     *testhelpers.MockUserRepository
	ledgerRepo   *testhelpers.MockLedgerRepository
	betRepo      *testhelpers.MockBetRepository
	oddsRepo     *testhelpers.MockOddsRepository
	snapshotRepo *testhelpers.MockLeaderboardSnapshotRepository
	publisher    *testhelpers.MockEventPublisher
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (u *fakeUnitOfWork) Commit() error                   { return nil }
func (u *fakeUnitOfWork) Rollback() error                 { return nil }

func (u *fakeUnitOfWork) UserRepository() interfaces.UserRepository     { return u.userRepo }
func (u *fakeUnitOfWork) LedgerRepository() interfaces.LedgerRepository { return u.ledgerRepo }
func (u *fakeUnitOfWork) BetRepository() interfaces.BetRepository       { return u.betRepo }
func (u *fakeUnitOfWork) OddsRepository() interfaces.OddsRepository     { return u.oddsRepo }
func (u *fakeUnitOfWork) LeaderboardSnapshotRepository() interfaces.LeaderboardSnapshotRepository {
	return u.snapshotRepo
}
func (u *fakeUnitOfWork) EventBus() interfaces.EventPublisher { return u.publisher }

type fakeUnitOfWorkFactory struct {
	uow     *fakeUnitOfWork
	created int
}

func (f *fakeUnitOfWorkFactory) Create() UnitOfWork {
	f.created++
	return f.uow
}

func newHandlerFixture() (*MatchResultHandler, *fakeUnitOfWorkFactory) {
	uow := &fakeUnitOfWork{
		userRepo:     new(testhelpers.MockUserRepository),
		ledgerRepo:   new(testhelpers.MockLedgerRepository),
		betRepo:      new(testhelpers.MockBetRepository),
		oddsRepo:     new(testhelpers.MockOddsRepository),
		snapshotRepo: new(testhelpers.MockLeaderboardSnapshotRepository),
		publisher:    new(testhelpers.MockEventPublisher),
	}
	factory := &fakeUnitOfWorkFactory{uow: uow}
	handler := NewMatchResultHandler(factory, uow.publisher, 100000)
	return handler, factory
}

func pendingSingle(betID, userID, legID int64, matchID uuid.UUID) *entities.Bet {
	return &entities.Bet{
		ID:           betID,
		UserID:       userID,
		Structure:    entities.BetStructureSingle,
		Stake:        1000,
		CombinedOdds: 2.00,
		Status:       entities.BetStatusPending,
		Legs: []*entities.BetLeg{{
			ID:        legID,
			BetID:     betID,
			MatchID:   matchID,
			BetType:   entities.BetTypeMatchResult,
			Selection: entities.SelectionHome,
			Price:     2.00,
			Outcome:   entities.LegOutcomePending,
		}},
	}
}

func TestHandleMatchResult_SettlesAllPendingBets(t *testing.T) {
	handler, factory := newHandlerFixture()
	uow := factory.uow
	ctx := context.Background()
	matchID := uuid.New()

	betA := pendingSingle(1, 7, 10, matchID)
	betB := pendingSingle(2, 8, 20, matchID)

	uow.oddsRepo.On("CloseEffective", ctx, matchID, (*entities.BetType)(nil), mock.Anything).
		Return([]*entities.Odds{}, nil)
	uow.betRepo.On("GetPendingByMatch", ctx, matchID).Return([]*entities.Bet{betA, betB}, nil)
	uow.betRepo.On("GetByID", ctx, int64(1)).Return(betA, nil)
	uow.betRepo.On("GetByID", ctx, int64(2)).Return(betB, nil)
	uow.betRepo.On("UpdateLegOutcome", ctx, mock.Anything, entities.LegOutcomeWon, mock.Anything).Return(nil)
	uow.betRepo.On("SettleBet", ctx, mock.Anything, entities.BetStatusWon, int64(2000), mock.Anything).Return(true, nil)
	uow.userRepo.On("GetByIDForUpdate", ctx, mock.Anything).Return(&entities.User{ID: 7, Balance: 5000}, nil)
	uow.userRepo.On("UpdateBalance", ctx, mock.Anything, mock.Anything).Return(nil)
	uow.ledgerRepo.On("Record", ctx, mock.Anything).Return(nil)
	uow.publisher.On("Publish", mock.Anything).Return(nil)

	outcome := &entities.MatchOutcome{MatchID: matchID, HomeGoals: 2, AwayGoals: 0}
	resolved, err := handler.HandleMatchResult(ctx, outcome)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, resolved)

	// One transaction for the lock, then one per bet.
	assert.Equal(t, 3, factory.created)
}

func TestHandleMatchResult_FailedBetDoesNotBlockOthers(t *testing.T) {
	handler, factory := newHandlerFixture()
	uow := factory.uow
	ctx := context.Background()
	matchID := uuid.New()

	betA := pendingSingle(1, 7, 10, matchID)
	betB := pendingSingle(2, 8, 20, matchID)

	uow.oddsRepo.On("CloseEffective", ctx, matchID, (*entities.BetType)(nil), mock.Anything).
		Return([]*entities.Odds{}, nil)
	uow.betRepo.On("GetPendingByMatch", ctx, matchID).Return([]*entities.Bet{betA, betB}, nil)
	uow.betRepo.On("GetByID", ctx, int64(1)).Return(betA, nil)
	uow.betRepo.On("GetByID", ctx, int64(2)).Return(betB, nil)
	uow.betRepo.On("UpdateLegOutcome", ctx, mock.Anything, entities.LegOutcomeWon, mock.Anything).Return(nil)
	uow.betRepo.On("SettleBet", ctx, mock.Anything, entities.BetStatusWon, int64(2000), mock.Anything).Return(true, nil)

	// The first bet's payout cannot be credited; the second pays out fine.
	uow.userRepo.On("GetByIDForUpdate", ctx, int64(7)).Return(nil, errors.New("connection reset"))
	uow.userRepo.On("GetByIDForUpdate", ctx, int64(8)).Return(&entities.User{ID: 8, Balance: 5000}, nil)
	uow.userRepo.On("UpdateBalance", ctx, int64(8), int64(7000)).Return(nil)
	uow.ledgerRepo.On("Record", ctx, mock.Anything).Return(nil)
	uow.publisher.On("Publish", mock.Anything).Return(nil)

	outcome := &entities.MatchOutcome{MatchID: matchID, HomeGoals: 2, AwayGoals: 0}
	resolved, err := handler.HandleMatchResult(ctx, outcome)

	// The second bet settled and its wallet was credited.
	assert.Equal(t, []int64{2}, resolved)
	uow.userRepo.AssertCalled(t, "UpdateBalance", ctx, int64(8), int64(7000))

	// The failure surfaces so the delivery is retried for the first bet.
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to settle")

	assert.Equal(t, 3, factory.created)
}
