package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"server/internal/domain"
	"server/internal/service"
)

type campaignCreateRequest struct {
	ChainID     int64      `json:"chain_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	Category    string     `json:"category"`
	GoalAmount  string     `json:"goal_amount"`
	Deadline    *time.Time `json:"deadline"`
}

type campaignDTO struct {
	ID               string     `json:"id"`
	ChainID          int64      `json:"chain_id"`
	CreatorID        string     `json:"creator_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	ImageURL         string     `json:"image_url"`
	Category         string     `json:"category"`
	GoalAmount       string     `json:"goal_amount"`
	TotalRaised      string     `json:"total_raised"`
	Deadline         *time.Time `json:"deadline"`
	GoalReached      bool       `json:"goal_reached"`
	FundsWithdrawn   bool       `json:"funds_withdrawn"`
	Status           string     `json:"status"`
	DonationCount    *int64     `json:"donation_count,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	LastReconciledAt *time.Time `json:"last_reconciled_at"`
}

func toCampaignDTO(c *domain.Campaign) campaignDTO {
	return campaignDTO{
		ID:               c.ID,
		ChainID:          c.ChainID,
		CreatorID:        c.CreatorID,
		Title:            c.Title,
		Description:      c.Description,
		ImageURL:         c.ImageURL,
		Category:         c.Category,
		GoalAmount:       c.GoalAmount.String(),
		TotalRaised:      c.TotalRaised.String(),
		Deadline:         c.Deadline,
		GoalReached:      c.GoalReached,
		FundsWithdrawn:   c.FundsWithdrawn,
		Status:           string(c.Status),
		CreatedAt:        c.CreatedAt,
		LastReconciledAt: c.LastReconciledAt,
	}
}

func toCampaignList(items []domain.Campaign) []campaignDTO {
	dtos := make([]campaignDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, toCampaignDTO(&items[i]))
	}
	return dtos
}

// CampaignsListActive returns campaigns currently accepting donations.
func (a *App) CampaignsListActive(w http.ResponseWriter, r *http.Request) {
	items, err := a.Campaigns.ListActive(r.Context())
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toCampaignList(items)})
}

// CampaignsGet reconciles and returns one campaign. The reconciler absorbs
// chain outages, so the response always carries at least the local ledger
// total.
func (a *App) CampaignsGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	campaign, err := a.Campaigns.Get(r.Context(), id)
	if err != nil {
		a.domainError(w, err)
		return
	}
	dto := toCampaignDTO(campaign)
	if count, err := a.Campaigns.DonationCount(r.Context(), campaign.ID); err == nil {
		dto.DonationCount = &count
	}
	a.json(w, http.StatusOK, dto)
}

// CampaignsCreate registers metadata for a campaign already created on chain.
func (a *App) CampaignsCreate(w http.ResponseWriter, r *http.Request) {
	var req campaignCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	goal, err := decimal.NewFromString(req.GoalAmount)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "goal_amount must be a decimal string")
		return
	}

	campaign, err := a.Campaigns.Register(r.Context(), a.currentUserID(r), service.RegisterInput{
		ChainID:     req.ChainID,
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Category:    req.Category,
		GoalAmount:  goal,
		Deadline:    req.Deadline,
	})
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toCampaignDTO(campaign))
}

// CampaignsMine lists campaigns registered by the caller.
func (a *App) CampaignsMine(w http.ResponseWriter, r *http.Request) {
	items, err := a.Campaigns.ListByCreator(r.Context(), a.currentUserID(r))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toCampaignList(items)})
}

// CampaignsSync exposes an explicit reconcile trigger.
func (a *App) CampaignsSync(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	campaign, err := a.Campaigns.Reconcile(r.Context(), id)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, toCampaignDTO(campaign))
}

// CampaignsDonations lists recorded donations for a campaign.
func (a *App) CampaignsDonations(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	items, err := a.Donations.ListByCampaign(r.Context(), id)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toDonationList(items)})
}

// CampaignsChainState returns the raw on-chain facts for a campaign. Chain
// errors propagate: the caller asked for the chain view, not the reconciled
// one.
func (a *App) CampaignsChainState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := a.Campaigns.ChainState(r.Context(), id)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"owner":           view.Facts.Owner,
		"goal":            view.Facts.Goal.String(),
		"deadline":        view.Facts.Deadline,
		"total_raised":    view.Facts.TotalRaised.String(),
		"goal_reached":    view.Facts.GoalReached,
		"funds_withdrawn": view.Facts.FundsWithdrawn,
		"active":          view.Facts.Active,
		"donation_count":  view.DonationCount,
		"refundable":      view.Refundable,
	})
}
