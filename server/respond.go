package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"clubbet/domain/entities"

	log "github.com/sirupsen/logrus"
)

// ErrorResponse is the JSON body for all error replies
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		log.WithFields(log.Fields{
			"status": status,
			"error":  err,
		}).Warn(message)
	}

	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}

// respondDomainError maps the domain error taxonomy onto HTTP statuses.
// Unrecognized errors become a 500 without leaking internals.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entities.ErrInvalidStake),
		errors.Is(err, entities.ErrInvalidStructure),
		errors.Is(err, entities.ErrInvalidSelection),
		errors.Is(err, entities.ErrInvalidOdds),
		errors.Is(err, entities.ErrCorrelatedLegs):
		respondError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, entities.ErrInsufficientBalance):
		respondError(w, http.StatusPaymentRequired, err.Error(), nil)
	case errors.Is(err, entities.ErrUserNotFound),
		errors.Is(err, entities.ErrBetNotFound),
		errors.Is(err, entities.ErrMatchNotFound),
		errors.Is(err, entities.ErrOddsNotAvailable):
		respondError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, entities.ErrOddsExpired),
		errors.Is(err, entities.ErrAlreadySettled):
		respondError(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, entities.ErrMarketInconsistent):
		respondError(w, http.StatusUnprocessableEntity, err.Error(), nil)
	default:
		respondError(w, http.StatusInternalServerError, "internal error", err)
	}
}

func parseIntParam(r *http.Request, param string, defaultValue int) int {
	value := r.URL.Query().Get(param)
	if value == "" {
		return defaultValue
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return defaultValue
	}
	return parsed
}

// userIDFromRequest reads the caller identity set by the gateway.
// Authentication happens upstream; this service trusts the header.
func userIDFromRequest(r *http.Request) (int64, bool) {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		return 0, false
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// usernameFromRequest reads the optional display name header
func usernameFromRequest(r *http.Request, userID int64) string {
	if name := r.Header.Get("X-Username"); name != "" {
		return name
	}
	return "user-" + strconv.FormatInt(userID, 10)
}
