package server

import (
	"net/http"

	"clubbet/application"
	"clubbet/domain/entities"
	"clubbet/domain/interfaces"
	"clubbet/domain/services"
)

// LeaderboardHandler handles ranking and stats requests
type LeaderboardHandler struct {
	uowFactory application.UnitOfWorkFactory
	cache      interfaces.LeaderboardCache
}

// NewLeaderboardHandler creates a new leaderboard handler. cache may be nil.
func NewLeaderboardHandler(uowFactory application.UnitOfWorkFactory, cache interfaces.LeaderboardCache) *LeaderboardHandler {
	return &LeaderboardHandler{
		uowFactory: uowFactory,
		cache:      cache,
	}
}

func periodFromRequest(r *http.Request) (entities.Period, bool) {
	period := entities.Period(r.URL.Query().Get("period"))
	if period == "" {
		period = entities.PeriodAllTime
	}
	return period, period.IsValid()
}

// GetLeaderboard returns ranked entries for a period and sort metric.
// Query params: period, sort_by, limit, offset.
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	period, ok := periodFromRequest(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown period", nil)
		return
	}

	sortBy := entities.SortMetric(r.URL.Query().Get("sort_by"))
	if sortBy == "" {
		sortBy = entities.SortByProfit
	}
	if !sortBy.IsValid() {
		respondError(w, http.StatusBadRequest, "unknown sort metric", nil)
		return
	}

	limit := parseIntParam(r, "limit", 50)
	if limit > 500 {
		limit = 500
	}
	offset := parseIntParam(r, "offset", 0)

	var entries []*entities.LeaderboardEntry
	err := application.WithUnitOfWork(r.Context(), h.uowFactory, func(uow application.UnitOfWork) error {
		svc := h.leaderboardService(uow)
		found, err := svc.GetLeaderboard(r.Context(), period, sortBy, limit, offset)
		if err != nil {
			return err
		}
		entries = found
		return nil
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	responses := make([]leaderboardEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, toLeaderboardEntryResponse(entry))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"period":  string(period),
		"sort_by": string(sortBy),
		"entries": responses,
		"count":   len(responses),
		"limit":   limit,
		"offset":  offset,
	})
}

// GetMyRank returns the calling user's position for a period
func (h *LeaderboardHandler) GetMyRank(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing or invalid X-User-ID header", nil)
		return
	}

	period, valid := periodFromRequest(r)
	if !valid {
		respondError(w, http.StatusBadRequest, "unknown period", nil)
		return
	}

	var rank *entities.UserRankInfo
	err := application.WithUnitOfWork(r.Context(), h.uowFactory, func(uow application.UnitOfWork) error {
		svc := h.leaderboardService(uow)
		found, err := svc.GetUserRank(r.Context(), userID, period)
		if err != nil {
			return err
		}
		rank = found
		return nil
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if rank == nil {
		respondError(w, http.StatusNotFound, "no bets in period", nil)
		return
	}

	resp := userRankResponse{
		UserID:     rank.UserID,
		Rank:       rank.Rank,
		RankChange: rank.RankChange,
		TotalUsers: rank.TotalUsers,
		Percentile: rank.Percentile,
	}
	if rank.Entry != nil {
		entry := toLeaderboardEntryResponse(rank.Entry)
		resp.Entry = &entry
	}

	respondJSON(w, http.StatusOK, resp)
}

// GetStats summarizes the whole leaderboard for a period
func (h *LeaderboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	period, ok := periodFromRequest(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "unknown period", nil)
		return
	}

	var stats *entities.LeaderboardStats
	err := application.WithUnitOfWork(r.Context(), h.uowFactory, func(uow application.UnitOfWork) error {
		svc := h.leaderboardService(uow)
		found, err := svc.GetStats(r.Context(), period)
		if err != nil {
			return err
		}
		stats = found
		return nil
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, leaderboardStatsResponse{
		TotalUsers:         stats.TotalUsers,
		TotalBetsPlaced:    stats.TotalBetsPlaced,
		TotalAmountWagered: float64(stats.TotalAmountWagered) / 100,
		AverageBetSize:     stats.AverageBetSize / 100,
		HighestProfit:      float64(stats.HighestProfit) / 100,
		HighestROI:         stats.HighestROI,
		BestWinRate:        stats.BestWinRate,
	})
}

func (h *LeaderboardHandler) leaderboardService(uow application.UnitOfWork) interfaces.LeaderboardService {
	return services.NewLeaderboardService(
		uow.BetRepository(), uow.UserRepository(),
		uow.LeaderboardSnapshotRepository(), h.cache,
	)
}
