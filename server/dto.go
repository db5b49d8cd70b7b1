package server

import (
	"fmt"
	"time"

	"clubbet/domain/entities"
	"clubbet/domain/utils"

	"github.com/google/uuid"
)

// All wire amounts are club points with two decimals; storage is cents.

type legRequest struct {
	MatchID   string  `json:"match_id"`
	BetType   string  `json:"bet_type"`
	Selection string  `json:"selection"`
	Parameter *string `json:"parameter,omitempty"`
}

type placeBetRequest struct {
	Stake float64      `json:"stake"`
	Legs  []legRequest `json:"legs"`
}

func (req *placeBetRequest) toSelections() ([]entities.LegSelection, error) {
	if len(req.Legs) == 0 {
		return nil, fmt.Errorf("%w: at least one leg required", entities.ErrInvalidStructure)
	}

	selections := make([]entities.LegSelection, 0, len(req.Legs))
	for i, leg := range req.Legs {
		matchID, err := uuid.Parse(leg.MatchID)
		if err != nil {
			return nil, fmt.Errorf("%w: leg %d has invalid match id %q", entities.ErrInvalidSelection, i, leg.MatchID)
		}
		selections = append(selections, entities.LegSelection{
			MatchID:   matchID,
			BetType:   entities.BetType(leg.BetType),
			Selection: leg.Selection,
			Parameter: leg.Parameter,
		})
	}
	return selections, nil
}

type legResponse struct {
	ID        int64      `json:"id"`
	MatchID   string     `json:"match_id"`
	BetType   string     `json:"bet_type"`
	Selection string     `json:"selection"`
	Parameter *string    `json:"parameter,omitempty"`
	Price     float64    `json:"price"`
	Outcome   string     `json:"outcome"`
	SettledAt *time.Time `json:"settled_at,omitempty"`
}

type betResponse struct {
	ID              int64         `json:"id"`
	Structure       string        `json:"structure"`
	Stake           float64       `json:"stake"`
	CombinedOdds    float64       `json:"combined_odds"`
	PotentialReturn float64       `json:"potential_return"`
	Status          string        `json:"status"`
	Payout          float64       `json:"payout"`
	PlacedAt        time.Time     `json:"placed_at"`
	SettledAt       *time.Time    `json:"settled_at,omitempty"`
	Legs            []legResponse `json:"legs"`
}

func toBetResponse(bet *entities.Bet) betResponse {
	legs := make([]legResponse, 0, len(bet.Legs))
	for _, leg := range bet.Legs {
		legs = append(legs, legResponse{
			ID:        leg.ID,
			MatchID:   leg.MatchID.String(),
			BetType:   string(leg.BetType),
			Selection: leg.Selection,
			Parameter: leg.Parameter,
			Price:     leg.Price,
			Outcome:   string(leg.Outcome),
			SettledAt: leg.ResultDeterminedAt,
		})
	}

	return betResponse{
		ID:              bet.ID,
		Structure:       string(bet.Structure),
		Stake:           utils.AmountToFloat(bet.Stake),
		CombinedOdds:    bet.CombinedOdds,
		PotentialReturn: utils.AmountToFloat(bet.PotentialReturn),
		Status:          string(bet.Status),
		Payout:          utils.AmountToFloat(bet.Payout),
		PlacedAt:        bet.PlacedAt,
		SettledAt:       bet.SettledAt,
		Legs:            legs,
	}
}

type walletResponse struct {
	UserID   int64   `json:"user_id"`
	Username string  `json:"username"`
	Balance  float64 `json:"balance"`
}

type transactionResponse struct {
	ID            int64     `json:"id"`
	ChangeAmount  float64   `json:"change_amount"`
	BalanceBefore float64   `json:"balance_before"`
	BalanceAfter  float64   `json:"balance_after"`
	Type          string    `json:"type"`
	BetID         *int64    `json:"bet_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func toTransactionResponse(entry *entities.LedgerEntry) transactionResponse {
	return transactionResponse{
		ID:            entry.ID,
		ChangeAmount:  utils.AmountToFloat(entry.ChangeAmount),
		BalanceBefore: utils.AmountToFloat(entry.BalanceBefore),
		BalanceAfter:  utils.AmountToFloat(entry.BalanceAfter),
		Type:          string(entry.TransactionType),
		BetID:         entry.BetID,
		CreatedAt:     entry.CreatedAt,
	}
}

type oddsResponse struct {
	Selection          string    `json:"selection"`
	Parameter          *string   `json:"parameter,omitempty"`
	Price              float64   `json:"price"`
	Source             string    `json:"source"`
	ImpliedProbability float64   `json:"implied_probability"`
	BookmakerMargin    float64   `json:"bookmaker_margin"`
	EffectiveFrom      time.Time `json:"effective_from"`
}

// toMarketsResponse groups effective prices by bet type
func toMarketsResponse(odds []*entities.Odds) map[string][]oddsResponse {
	markets := make(map[string][]oddsResponse)
	for _, o := range odds {
		markets[string(o.BetType)] = append(markets[string(o.BetType)], oddsResponse{
			Selection:          o.Selection,
			Parameter:          o.Parameter,
			Price:              o.Price,
			Source:             string(o.Source),
			ImpliedProbability: o.ImpliedProbability,
			BookmakerMargin:    o.BookmakerMargin,
			EffectiveFrom:      o.EffectiveFrom,
		})
	}
	return markets
}

type oddsHistoryResponse struct {
	BetType   string    `json:"bet_type"`
	Selection string    `json:"selection"`
	Parameter *string   `json:"parameter,omitempty"`
	OldPrice  float64   `json:"old_price"`
	NewPrice  float64   `json:"new_price"`
	ChangePct float64   `json:"change_pct"`
	ChangedAt time.Time `json:"changed_at"`
}

type marketEntryRequest struct {
	Selection string  `json:"selection"`
	Parameter *string `json:"parameter,omitempty"`
	Price     float64 `json:"price"`
}

type publishOddsRequest struct {
	BetType string               `json:"bet_type"`
	Source  string               `json:"source"`
	Entries []marketEntryRequest `json:"entries"`
}

type settleMatchRequest struct {
	HomeGoals    int    `json:"home_goals"`
	AwayGoals    int    `json:"away_goals"`
	HalfTimeHome int    `json:"half_time_home"`
	HalfTimeAway int    `json:"half_time_away"`
	FirstScorer  string `json:"first_scorer"`
	Cancelled    bool   `json:"cancelled"`
}

type leaderboardEntryResponse struct {
	Rank          int     `json:"rank"`
	RankChange    int     `json:"rank_change"`
	UserID        int64   `json:"user_id"`
	Username      string  `json:"username"`
	TotalBets     int     `json:"total_bets"`
	PendingBets   int     `json:"pending_bets"`
	WonBets       int     `json:"won_bets"`
	LostBets      int     `json:"lost_bets"`
	VoidBets      int     `json:"void_bets"`
	TotalStaked   float64 `json:"total_staked"`
	TotalReturned float64 `json:"total_returned"`
	NetProfit     float64 `json:"net_profit"`
	WinRate       float64 `json:"win_rate"`
	ROI           float64 `json:"roi"`
	AverageOdds   float64 `json:"average_odds"`
}

func toLeaderboardEntryResponse(e *entities.LeaderboardEntry) leaderboardEntryResponse {
	return leaderboardEntryResponse{
		Rank:          e.Rank,
		RankChange:    e.RankChange,
		UserID:        e.UserID,
		Username:      e.Username,
		TotalBets:     e.TotalBets,
		PendingBets:   e.PendingBets,
		WonBets:       e.WonBets,
		LostBets:      e.LostBets,
		VoidBets:      e.VoidBets,
		TotalStaked:   utils.AmountToFloat(e.TotalStaked),
		TotalReturned: utils.AmountToFloat(e.TotalReturned),
		NetProfit:     utils.AmountToFloat(e.NetProfit),
		WinRate:       e.WinRate,
		ROI:           e.ROI,
		AverageOdds:   e.AverageOdds,
	}
}

type userRankResponse struct {
	UserID     int64                     `json:"user_id"`
	Rank       int                       `json:"rank"`
	RankChange int                       `json:"rank_change"`
	TotalUsers int                       `json:"total_users"`
	Percentile float64                   `json:"percentile"`
	Entry      *leaderboardEntryResponse `json:"entry,omitempty"`
}

type leaderboardStatsResponse struct {
	TotalUsers         int     `json:"total_users"`
	TotalBetsPlaced    int     `json:"total_bets_placed"`
	TotalAmountWagered float64 `json:"total_amount_wagered"`
	AverageBetSize     float64 `json:"average_bet_size"`
	HighestProfit      float64 `json:"highest_profit"`
	HighestROI         float64 `json:"highest_roi"`
	BestWinRate        float64 `json:"best_win_rate"`
}
