package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/middleware"
	"server/internal/service"
)

// App is the handler container; it holds the services and cross-cutting
// dependencies every endpoint needs.
type App struct {
	Users     *service.UserService
	Campaigns *service.CampaignService
	Donations *service.DonationService
	Logger    infra.Logger
	JWTSecret string
}

// NewApp builds the handler container.
func NewApp(users *service.UserService, campaigns *service.CampaignService, donations *service.DonationService, logger infra.Logger, jwtSecret string) *App {
	return &App{
		Users:     users,
		Campaigns: campaigns,
		Donations: donations,
		Logger:    logger,
		JWTSecret: jwtSecret,
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"error":   errCode,
		"message": message,
	})
}

// domainError maps service errors onto HTTP responses.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "invalid credentials")
	case errors.Is(err, domain.ErrUserBlocked):
		a.error(w, http.StatusForbidden, "blocked", "account is blocked")
	case errors.Is(err, domain.ErrDuplicateTransaction):
		a.error(w, http.StatusConflict, "duplicate_transaction", "transaction already recorded")
	case errors.Is(err, domain.ErrUsernameTaken),
		errors.Is(err, domain.ErrEmailTaken),
		errors.Is(err, domain.ErrWalletTaken):
		a.error(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidTxHash),
		errors.Is(err, service.ErrInvalidSignup),
		errors.Is(err, service.ErrInvalidCampaign),
		errors.Is(err, service.ErrInvalidAddress):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrChainUnavailable),
		errors.Is(err, domain.ErrChainSchemaMismatch):
		a.error(w, http.StatusBadGateway, "chain_unavailable", "chain query failed")
	default:
		a.Logger.Error().Err(err).Msg("unhandled error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func (a *App) currentUserID(r *http.Request) string {
	return middleware.UserIDFromContext(r.Context())
}
