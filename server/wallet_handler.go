package server

import (
	"net/http"

	"clubbet/application"
	"clubbet/config"
	"clubbet/domain/entities"
	"clubbet/domain/services"
	"clubbet/domain/utils"
)

// WalletHandler handles wallet balance and ledger requests
type WalletHandler struct {
	uowFactory application.UnitOfWorkFactory
	cfg        *config.Config
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(uowFactory application.UnitOfWorkFactory, cfg *config.Config) *WalletHandler {
	return &WalletHandler{
		uowFactory: uowFactory,
		cfg:        cfg,
	}
}

// GetWallet returns the calling user's wallet, opening one on first contact
func (h *WalletHandler) GetWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing or invalid X-User-ID header", nil)
		return
	}

	var user *entities.User
	err := application.WithUnitOfWork(r.Context(), h.uowFactory, func(uow application.UnitOfWork) error {
		wallet := services.NewWalletService(uow.UserRepository(), uow.LedgerRepository(), uow.EventBus(), h.cfg.InitialBalance)
		found, err := wallet.GetOrCreateUser(r.Context(), userID, usernameFromRequest(r, userID))
		if err != nil {
			return err
		}
		user = found
		return nil
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, walletResponse{
		UserID:   user.ID,
		Username: user.Username,
		Balance:  utils.AmountToFloat(user.Balance),
	})
}

// GetTransactions lists the calling user's ledger entries, newest first.
// Query params: limit, offset.
func (h *WalletHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "missing or invalid X-User-ID header", nil)
		return
	}

	limit := parseIntParam(r, "limit", 50)
	if limit > 500 {
		limit = 500
	}
	offset := parseIntParam(r, "offset", 0)

	var entries []*entities.LedgerEntry
	err := application.WithUnitOfWork(r.Context(), h.uowFactory, func(uow application.UnitOfWork) error {
		wallet := services.NewWalletService(uow.UserRepository(), uow.LedgerRepository(), uow.EventBus(), h.cfg.InitialBalance)
		found, err := wallet.History(r.Context(), userID, limit, offset)
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

	responses := make([]transactionResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, toTransactionResponse(entry))
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": responses,
		"count":        len(responses),
		"limit":        limit,
		"offset":       offset,
	})
}
