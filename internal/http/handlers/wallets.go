package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"server/internal/domain"
)

type walletConnectRequest struct {
	Address string `json:"address"`
}

type walletDTO struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Address     string    `json:"address"`
	Verified    bool      `json:"verified"`
	ConnectedAt time.Time `json:"connected_at"`
}

func toWalletDTO(w *domain.Wallet) walletDTO {
	return walletDTO{
		ID:          w.ID,
		UserID:      w.UserID,
		Address:     w.Address,
		Verified:    w.Verified,
		ConnectedAt: w.ConnectedAt,
	}
}

// WalletsConnect binds a chain address to the caller.
func (a *App) WalletsConnect(w http.ResponseWriter, r *http.Request) {
	var req walletConnectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	wallet, err := a.Users.ConnectWallet(r.Context(), a.currentUserID(r), req.Address)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toWalletDTO(wallet))
}

// WalletsMe returns the caller's connected wallet.
func (a *App) WalletsMe(w http.ResponseWriter, r *http.Request) {
	wallet, err := a.Users.Wallet(r.Context(), a.currentUserID(r))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toWalletDTO(wallet))
}
