package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"clubbet/application"
	"clubbet/config"
	"clubbet/domain/entities"
	"clubbet/domain/interfaces"
	"clubbet/domain/services"
	"clubbet/domain/utils"
)

// BetHandler handles bet placement and retrieval requests
type BetHandler struct {
	uowFactory   application.UnitOfWorkFactory
	matchCatalog interfaces.MatchCatalog
	cfg          *config.Config
}

// NewBetHandler creates a new bet handler
func NewBetHandler(uowFactory application.UnitOfWorkFactory, matchCatalog interfaces.MatchCatalog, cfg *config.Config) *BetHandler {
	return &BetHandler{
		uowFactory:   uowFactory,
		matchCatalog: matchCatalog,
		cfg:          cfg,
	}
}

// PlaceBet places a new bet for the calling user
func (h *BetHandler) PlaceBet(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing or invalid X-User-ID header", nil)
		return
	}

	var req placeBetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	selections, err := req.toSelections()
	if err != nil {
		respondDomainError(w, err)
		return
	}
	stake := utils.AmountFromFloat(req.Stake)

	var bet *entities.Bet
	err = application.WithUnitOfWork(r.Context(), h.uowFactory, func(uow application.UnitOfWork) error {
		wallet := services.NewWalletService(uow.UserRepository(), uow.LedgerRepository(), uow.EventBus(), h.cfg.InitialBalance)
		if _, err := wallet.GetOrCreateUser(r.Context(), userID, usernameFromRequest(r, userID)); err != nil {
			return err
		}

		betting := services.NewBettingService(
			uow.BetRepository(), uow.OddsRepository(), wallet,
			h.matchCatalog, uow.EventBus(),
			h.cfg.MinStake, h.cfg.MaxStake,
		)

		placed, err := betting.PlaceBet(r.Context(), userID, selections, stake)
		if err != nil {
			return err
		}
		bet = placed
		return nil
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toBetResponse(bet))
}

// GetBet retrieves one of the calling user's bets
func (h *BetHandler) GetBet(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing or invalid X-User-ID header", nil)
		return
	}

	betID, err := strconv.ParseInt(chi.URLParam(r, "betID"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid bet id", nil)
		return
	}

	var bet *entities.Bet
	err = application.WithUnitOfWork(r.Context(), h.uowFactory, func(uow application.UnitOfWork) error {
		betting := h.bettingService(uow)
		found, err := betting.GetBet(r.Context(), betID)
		if err != nil {
			return err
		}
		bet = found
		return nil
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	// A bet belongs to its owner only
	if bet.UserID != userID {
		respondError(w, http.StatusNotFound, entities.ErrBetNotFound.Error(), nil)
		return
	}

	respondJSON(w, http.StatusOK, toBetResponse(bet))
}

// GetBets lists the calling user's bets, newest first.
// Query params: status, limit, offset.
func (h *BetHandler) GetBets(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing or invalid X-User-ID header", nil)
		return
	}

	var status *entities.BetStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := entities.BetStatus(raw)
		switch s {
		case entities.BetStatusPending, entities.BetStatusWon, entities.BetStatusLost, entities.BetStatusVoid:
			status = &s
		default:
			respondError(w, http.StatusBadRequest, "invalid status filter", nil)
			return
		}
	}

	limit := parseIntParam(r, "limit", 50)
	if limit > 500 {
		limit = 500
	}
	offset := parseIntParam(r, "offset", 0)

	var bets []*entities.Bet
	err := application.WithUnitOfWork(r.Context(), h.uowFactory, func(uow application.UnitOfWork) error {
		betting := h.bettingService(uow)
		found, err := betting.GetUserBets(r.Context(), userID, status, limit, offset)
		if err != nil {
			return err
		}
		bets = found
		return nil
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	responses := make([]betResponse, 0, len(bets))
	for _, bet := range bets {
		responses = append(responses, toBetResponse(bet))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"bets":   responses,
		"count":  len(responses),
		"limit":  limit,
		"offset": offset,
	})
}

func (h *BetHandler) bettingService(uow application.UnitOfWork) interfaces.BettingService {
	wallet := services.NewWalletService(uow.UserRepository(), uow.LedgerRepository(), uow.EventBus(), h.cfg.InitialBalance)
	return services.NewBettingService(
		uow.BetRepository(), uow.OddsRepository(), wallet,
		h.matchCatalog, uow.EventBus(),
		h.cfg.MinStake, h.cfg.MaxStake,
	)
}
