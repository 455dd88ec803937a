package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// AdminUsers lists every account.
func (a *App) AdminUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.Users.ListUsers(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	items := make([]userDTO, 0, len(users))
	for i := range users {
		items = append(items, toUserDTO(&users[i]))
	}
	a.json(w, http.StatusOK, map[string]any{"items": items})
}

// AdminBlockUser bars an account from campaign and donation actions.
func (a *App) AdminBlockUser(w http.ResponseWriter, r *http.Request) {
	user, err := a.Users.Block(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toUserDTO(user))
}

// AdminUnblockUser restores an account.
func (a *App) AdminUnblockUser(w http.ResponseWriter, r *http.Request) {
	user, err := a.Users.Unblock(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toUserDTO(user))
}

// AdminCampaigns lists all campaigns regardless of status.
func (a *App) AdminCampaigns(w http.ResponseWriter, r *http.Request) {
	items, err := a.Campaigns.ListAll(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toCampaignList(items)})
}

// AdminCancelCampaign force-cancels a campaign in the local store. The
// contract is untouched; cancelling on chain is the owner's call.
func (a *App) AdminCancelCampaign(w http.ResponseWriter, r *http.Request) {
	if err := a.Campaigns.Cancel(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "cancelled"})
}
