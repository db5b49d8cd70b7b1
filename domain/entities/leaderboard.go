package entities

import "time"

// Period selects the reporting window for leaderboard aggregation.
type Period string

const (
	PeriodDaily   Period = "DAILY"
	PeriodWeekly  Period = "WEEKLY"
	PeriodMonthly Period = "MONTHLY"
	PeriodSeason  Period = "SEASON"
	PeriodAllTime Period = "ALL_TIME"
)

// IsValid reports whether p is a known reporting period.
func (p Period) IsValid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodSeason, PeriodAllTime:
		return true
	}
	return false
}

// SortMetric selects the ranking key for the leaderboard.
type SortMetric string

const (
	SortByProfit      SortMetric = "PROFIT"
	SortByROI         SortMetric = "ROI"
	SortByWinRate     SortMetric = "WIN_RATE"
	SortByTotalBets   SortMetric = "TOTAL_BETS"
	SortByTotalStaked SortMetric = "TOTAL_STAKED"
)

// IsValid reports whether m is a known sort metric.
func (m SortMetric) IsValid() bool {
	switch m {
	case SortByProfit, SortByROI, SortByWinRate, SortByTotalBets, SortByTotalStaked:
		return true
	}
	return false
}

// LeaderboardEntry is one user's derived performance line for a period. It is
// recomputed from the bet history on demand and holds no independent state.
// Money fields are in cents; rate fields are percentages 0-100.
type LeaderboardEntry struct {
	Rank          int     `json:"rank"`
	RankChange    int     `json:"rank_change"`
	UserID        int64   `json:"user_id"`
	Username      string  `json:"username"`
	TotalBets     int     `json:"total_bets"`
	PendingBets   int     `json:"pending_bets"`
	WonBets       int     `json:"won_bets"`
	LostBets      int     `json:"lost_bets"`
	VoidBets      int     `json:"void_bets"`
	TotalStaked   int64   `json:"total_staked"`
	TotalReturned int64   `json:"total_returned"`
	NetProfit     int64   `json:"net_profit"`
	WinRate       float64 `json:"win_rate"`
	ROI           float64 `json:"roi"`
	AverageOdds   float64 `json:"average_odds"`
}

// MetricValue returns the entry's value for a sort metric as a float so the
// aggregator can sort uniformly.
func (e *LeaderboardEntry) MetricValue(m SortMetric) float64 {
	switch m {
	case SortByROI:
		return e.ROI
	case SortByWinRate:
		return e.WinRate
	case SortByTotalBets:
		return float64(e.TotalBets)
	case SortByTotalStaked:
		return float64(e.TotalStaked)
	default:
		return float64(e.NetProfit)
	}
}

// UserRankInfo is a single user's position within a computed leaderboard.
type UserRankInfo struct {
	UserID     int64             `json:"user_id"`
	Rank       int               `json:"rank"`
	RankChange int               `json:"rank_change"`
	TotalUsers int               `json:"total_users"`
	Percentile float64           `json:"percentile"`
	Entry      *LeaderboardEntry `json:"entry"`
}

// CalculatePercentile expresses a rank as a fraction of the ranked population.
func CalculatePercentile(rank, totalUsers int) float64 {
	if totalUsers == 0 {
		return 0
	}
	return float64(rank) / float64(totalUsers)
}

// LeaderboardSnapshot is a persisted ranking used to compute rank_change on
// the next computation.
type LeaderboardSnapshot struct {
	ID         int64         `db:"id"`
	Period     Period        `db:"period"`
	SortMetric SortMetric    `db:"sort_metric"`
	Ranks      map[int64]int `db:"ranks"`
	ComputedAt time.Time     `db:"computed_at"`
}

// LeaderboardStats summarizes an entire computed leaderboard.
type LeaderboardStats struct {
	TotalUsers         int     `json:"total_users"`
	TotalBetsPlaced    int     `json:"total_bets_placed"`
	TotalAmountWagered int64   `json:"total_amount_wagered"`
	AverageBetSize     float64 `json:"average_bet_size"`
	HighestProfit      int64   `json:"highest_profit"`
	HighestROI         float64 `json:"highest_roi"`
	BestWinRate        float64 `json:"best_win_rate"`
}
