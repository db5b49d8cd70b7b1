package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"clubbet/application"
	"clubbet/domain/entities"
	"clubbet/domain/services"
)

// OddsHandler handles market publication, odds reads and manual settlement
type OddsHandler struct {
	uowFactory    application.UnitOfWorkFactory
	resultHandler *application.MatchResultHandler
}

// NewOddsHandler creates a new odds handler
func NewOddsHandler(uowFactory application.UnitOfWorkFactory, resultHandler *application.MatchResultHandler) *OddsHandler {
	return &OddsHandler{
		uowFactory:    uowFactory,
		resultHandler: resultHandler,
	}
}

func matchIDFromURL(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "matchID"))
}

// GetOdds returns the currently effective prices for a match, grouped by market
func (h *OddsHandler) GetOdds(w http.ResponseWriter, r *http.Request) {
	matchID, err := matchIDFromURL(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid match id", nil)
		return
	}

	var odds []*entities.Odds
	err = application.WithUnitOfWork(r.Context(), h.uowFactory, func(uow application.UnitOfWork) error {
		svc := services.NewOddsService(uow.OddsRepository(), uow.EventBus())
		found, err := svc.CurrentOdds(r.Context(), matchID)
		if err != nil {
			return err
		}
		odds = found
		return nil
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"match_id": matchID.String(),
		"markets":  toMarketsResponse(odds),
	})
}

// PublishOdds stores a full market's prices, superseding the effective ones
func (h *OddsHandler) PublishOdds(w http.ResponseWriter, r *http.Request) {
	matchID, err := matchIDFromURL(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid match id", nil)
		return
	}

	var req publishOddsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	betType := entities.BetType(req.BetType)
	if !betType.IsValid() {
		respondError(w, http.StatusBadRequest, "unknown bet type", nil)
		return
	}

	source := entities.OddsSource(req.Source)
	if source == "" {
		source = entities.OddsSourceManual
	}

	entries := make([]entities.MarketEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, entities.MarketEntry{
			Selection: e.Selection,
			Parameter: e.Parameter,
			Price:     e.Price,
		})
	}

	err = application.WithUnitOfWork(r.Context(), h.uowFactory, func(uow application.UnitOfWork) error {
		svc := services.NewOddsService(uow.OddsRepository(), uow.EventBus())
		return svc.PublishMarket(r.Context(), matchID, betType, entries, source)
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"match_id": matchID.String(),
		"bet_type": string(betType),
		"count":    len(entries),
	})
}

// GetOddsHistory returns supersession records for a match, newest first
func (h *OddsHandler) GetOddsHistory(w http.ResponseWriter, r *http.Request) {
	matchID, err := matchIDFromURL(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid match id", nil)
		return
	}

	limit := parseIntParam(r, "limit", 100)
	if limit > 500 {
		limit = 500
	}

	var history []*entities.OddsHistory
	err = application.WithUnitOfWork(r.Context(), h.uowFactory, func(uow application.UnitOfWork) error {
		svc := services.NewOddsService(uow.OddsRepository(), uow.EventBus())
		found, err := svc.OddsHistory(r.Context(), matchID, limit)
		if err != nil {
			return err
		}
		history = found
		return nil
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	responses := make([]oddsHistoryResponse, 0, len(history))
	for _, rec := range history {
		responses = append(responses, oddsHistoryResponse{
			BetType:   string(rec.BetType),
			Selection: rec.Selection,
			Parameter: rec.Parameter,
			OldPrice:  rec.OldPrice,
			NewPrice:  rec.NewPrice,
			ChangePct: rec.ChangePct,
			ChangedAt: rec.ChangedAt,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"match_id": matchID.String(),
		"history":  responses,
	})
}

// SettleMatch applies a final match result, grading and paying out every
// pending bet on the match. Safe to repeat; already settled bets are skipped.
func (h *OddsHandler) SettleMatch(w http.ResponseWriter, r *http.Request) {
	matchID, err := matchIDFromURL(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid match id", nil)
		return
	}

	var req settleMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	outcome := &entities.MatchOutcome{
		MatchID:      matchID,
		HomeGoals:    req.HomeGoals,
		AwayGoals:    req.AwayGoals,
		HalfTimeHome: req.HalfTimeHome,
		HalfTimeAway: req.HalfTimeAway,
		FirstScorer:  req.FirstScorer,
		Cancelled:    req.Cancelled,
	}

	resolved, err := h.resultHandler.HandleMatchResult(r.Context(), outcome)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"match_id":      matchID.String(),
		"resolved_bets": resolved,
		"count":         len(resolved),
	})
}
