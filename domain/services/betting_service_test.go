package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"clubbet/domain/entities"
	"clubbet/domain/interfaces"
	"clubbet/domain/testhelpers"
)

const (
	testMinStake int64 = 100
	testMaxStake int64 = 1000000
)

type bettingServiceMocks struct {
	betRepo      *testhelpers.MockBetRepository
	oddsRepo     *testhelpers.MockOddsRepository
	wallet       *testhelpers.MockWalletService
	matchCatalog *testhelpers.MockMatchCatalog
	publisher    *testhelpers.MockEventPublisher
}

func newTestBettingService() (interfaces.BettingService, *bettingServiceMocks) {
	m := &bettingServiceMocks{
		betRepo:      new(testhelpers.MockBetRepository),
		oddsRepo:     new(testhelpers.MockOddsRepository),
		wallet:       new(testhelpers.MockWalletService),
		matchCatalog: new(testhelpers.MockMatchCatalog),
		publisher:    new(testhelpers.MockEventPublisher),
	}
	svc := NewBettingService(m.betRepo, m.oddsRepo, m.wallet, m.matchCatalog, m.publisher, testMinStake, testMaxStake)
	return svc, m
}

func upcomingMatch(id uuid.UUID) *entities.MatchInfo {
	return &entities.MatchInfo{
		ID:        id,
		HomeTeam:  "Svinov",
		AwayTeam:  "Polanka",
		KickoffAt: time.Now().Add(2 * time.Hour),
		Status:    entities.MatchStatusUpcoming,
	}
}

func effectiveOdds(matchID uuid.UUID, betType entities.BetType, selection string, price float64) *entities.Odds {
	return &entities.Odds{
		ID:            1,
		MatchID:       matchID,
		BetType:       betType,
		Selection:     selection,
		Price:         price,
		Source:        entities.OddsSourceManual,
		EffectiveFrom: time.Now().Add(-time.Hour),
	}
}

func TestPlaceBet_Single(t *testing.T) {
	svc, m := newTestBettingService()
	ctx := context.Background()
	matchID := uuid.New()

	m.matchCatalog.On("GetMatch", ctx, matchID).Return(upcomingMatch(matchID), nil)
	m.oddsRepo.On("GetEffective", ctx, matchID, entities.BetTypeMatchResult, entities.SelectionHome, (*string)(nil)).
		Return(effectiveOdds(matchID, entities.BetTypeMatchResult, entities.SelectionHome, 2.50), nil)
	m.betRepo.On("Create", ctx, mock.AnythingOfType("*entities.Bet")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*entities.Bet).ID = 42
		}).Return(nil)
	m.wallet.On("Debit", ctx, int64(7), int64(1000), entities.TransactionTypeStakeDebit, mock.AnythingOfType("*int64")).Return(nil)
	m.publisher.On("Publish", mock.Anything).Return(nil)

	legs := []entities.LegSelection{
		{MatchID: matchID, BetType: entities.BetTypeMatchResult, Selection: entities.SelectionHome},
	}
	bet, err := svc.PlaceBet(ctx, 7, legs, 1000)
	require.NoError(t, err)

	assert.Equal(t, int64(42), bet.ID)
	assert.Equal(t, entities.BetStructureSingle, bet.Structure)
	assert.InDelta(t, 2.50, bet.CombinedOdds, 0.0001)
	assert.Equal(t, int64(2500), bet.PotentialReturn)
	assert.Equal(t, entities.BetStatusPending, bet.Status)
	require.Len(t, bet.Legs, 1)
	assert.InDelta(t, 2.50, bet.Legs[0].Price, 0.0001)

	m.wallet.AssertCalled(t, "Debit", ctx, int64(7), int64(1000), entities.TransactionTypeStakeDebit, mock.AnythingOfType("*int64"))
}

func TestPlaceBet_Accumulator(t *testing.T) {
	svc, m := newTestBettingService()
	ctx := context.Background()
	matchA := uuid.New()
	matchB := uuid.New()

	m.matchCatalog.On("GetMatch", ctx, matchA).Return(upcomingMatch(matchA), nil)
	m.matchCatalog.On("GetMatch", ctx, matchB).Return(upcomingMatch(matchB), nil)
	m.oddsRepo.On("GetEffective", ctx, matchA, entities.BetTypeMatchResult, entities.SelectionHome, (*string)(nil)).
		Return(effectiveOdds(matchA, entities.BetTypeMatchResult, entities.SelectionHome, 1.80), nil)
	m.oddsRepo.On("GetEffective", ctx, matchB, entities.BetTypeMatchResult, entities.SelectionAway, (*string)(nil)).
		Return(effectiveOdds(matchB, entities.BetTypeMatchResult, entities.SelectionAway, 2.20), nil)
	m.betRepo.On("Create", ctx, mock.AnythingOfType("*entities.Bet")).Return(nil)
	m.wallet.On("Debit", ctx, int64(7), int64(1000), entities.TransactionTypeStakeDebit, mock.Anything).Return(nil)
	m.publisher.On("Publish", mock.Anything).Return(nil)

	legs := []entities.LegSelection{
		{MatchID: matchA, BetType: entities.BetTypeMatchResult, Selection: entities.SelectionHome},
		{MatchID: matchB, BetType: entities.BetTypeMatchResult, Selection: entities.SelectionAway},
	}
	bet, err := svc.PlaceBet(ctx, 7, legs, 1000)
	require.NoError(t, err)

	assert.Equal(t, entities.BetStructureAccumulator, bet.Structure)
	assert.InDelta(t, 3.96, bet.CombinedOdds, 0.0001)
	assert.Equal(t, int64(3960), bet.PotentialReturn)
}

func TestPlaceBet_InsufficientBalance(t *testing.T) {
	svc, m := newTestBettingService()
	ctx := context.Background()
	matchID := uuid.New()

	m.matchCatalog.On("GetMatch", ctx, matchID).Return(upcomingMatch(matchID), nil)
	m.oddsRepo.On("GetEffective", ctx, matchID, entities.BetTypeMatchResult, entities.SelectionHome, (*string)(nil)).
		Return(effectiveOdds(matchID, entities.BetTypeMatchResult, entities.SelectionHome, 2.50), nil)
	m.betRepo.On("Create", ctx, mock.Anything).Return(nil)
	m.wallet.On("Debit", ctx, int64(7), int64(1000), entities.TransactionTypeStakeDebit, mock.Anything).
		Return(entities.ErrInsufficientBalance)

	legs := []entities.LegSelection{
		{MatchID: matchID, BetType: entities.BetTypeMatchResult, Selection: entities.SelectionHome},
	}
	bet, err := svc.PlaceBet(ctx, 7, legs, 1000)
	assert.ErrorIs(t, err, entities.ErrInsufficientBalance)
	assert.Nil(t, bet)

	// The surrounding transaction rolls back, so nothing may be published.
	m.publisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestPlaceBet_CorrelatedLegsRejected(t *testing.T) {
	svc, m := newTestBettingService()
	ctx := context.Background()
	matchID := uuid.New()

	legs := []entities.LegSelection{
		{MatchID: matchID, BetType: entities.BetTypeMatchResult, Selection: entities.SelectionHome},
		{MatchID: matchID, BetType: entities.BetTypeBothTeamsScore, Selection: entities.SelectionYes},
	}
	_, err := svc.PlaceBet(ctx, 7, legs, 1000)
	assert.ErrorIs(t, err, entities.ErrCorrelatedLegs)

	m.betRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.wallet.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceBet_MissingParameter(t *testing.T) {
	svc, _ := newTestBettingService()
	ctx := context.Background()

	legs := []entities.LegSelection{
		{MatchID: uuid.New(), BetType: entities.BetTypeOverUnder, Selection: entities.SelectionOver},
	}
	_, err := svc.PlaceBet(ctx, 7, legs, 1000)
	assert.ErrorIs(t, err, entities.ErrInvalidSelection)
}

func TestPlaceBet_OddsNotAvailable(t *testing.T) {
	svc, m := newTestBettingService()
	ctx := context.Background()
	matchID := uuid.New()

	m.matchCatalog.On("GetMatch", ctx, matchID).Return(upcomingMatch(matchID), nil)
	m.oddsRepo.On("GetEffective", ctx, matchID, entities.BetTypeMatchResult, entities.SelectionHome, (*string)(nil)).
		Return(nil, nil)

	legs := []entities.LegSelection{
		{MatchID: matchID, BetType: entities.BetTypeMatchResult, Selection: entities.SelectionHome},
	}
	_, err := svc.PlaceBet(ctx, 7, legs, 1000)
	assert.ErrorIs(t, err, entities.ErrOddsNotAvailable)
}

func TestPlaceBet_BettingClosed(t *testing.T) {
	svc, m := newTestBettingService()
	ctx := context.Background()
	matchID := uuid.New()

	live := upcomingMatch(matchID)
	live.Status = entities.MatchStatusLive
	m.matchCatalog.On("GetMatch", ctx, matchID).Return(live, nil)

	legs := []entities.LegSelection{
		{MatchID: matchID, BetType: entities.BetTypeMatchResult, Selection: entities.SelectionHome},
	}
	_, err := svc.PlaceBet(ctx, 7, legs, 1000)
	assert.ErrorIs(t, err, entities.ErrOddsExpired)
}

func TestPlaceBet_StakeBounds(t *testing.T) {
	svc, _ := newTestBettingService()
	ctx := context.Background()

	legs := []entities.LegSelection{
		{MatchID: uuid.New(), BetType: entities.BetTypeMatchResult, Selection: entities.SelectionHome},
	}

	_, err := svc.PlaceBet(ctx, 7, legs, testMinStake-1)
	assert.ErrorIs(t, err, entities.ErrInvalidStake)

	_, err = svc.PlaceBet(ctx, 7, legs, testMaxStake+1)
	assert.ErrorIs(t, err, entities.ErrInvalidStake)

	_, err = svc.PlaceBet(ctx, 7, legs, 0)
	assert.ErrorIs(t, err, entities.ErrInvalidStake)
}

func TestPlaceBet_NoLegs(t *testing.T) {
	svc, _ := newTestBettingService()

	_, err := svc.PlaceBet(context.Background(), 7, nil, 1000)
	assert.ErrorIs(t, err, entities.ErrInvalidStructure)
}

func TestPlaceBet_TooManyLegs(t *testing.T) {
	svc, m := newTestBettingService()

	legs := make([]entities.LegSelection, entities.MaxAccumulatorLegs+1)
	for i := range legs {
		legs[i] = entities.LegSelection{
			MatchID:   uuid.New(),
			BetType:   entities.BetTypeMatchResult,
			Selection: entities.SelectionHome,
		}
	}

	_, err := svc.PlaceBet(context.Background(), 7, legs, 1000)
	assert.ErrorIs(t, err, entities.ErrInvalidStructure)
	m.matchCatalog.AssertNotCalled(t, "GetMatch", mock.Anything, mock.Anything)
	m.wallet.AssertNotCalled(t, "Debit", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
