package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"server/internal/domain"
)

type donationRecordRequest struct {
	CampaignID  string `json:"campaign_id"`
	TxHash      string `json:"tx_hash"`
	Amount      string `json:"amount"`
	BlockNumber *int64 `json:"block_number"`
}

type donationDTO struct {
	ID          string    `json:"id"`
	CampaignID  string    `json:"campaign_id"`
	DonorID     string    `json:"donor_id"`
	TxHash      string    `json:"tx_hash"`
	Amount      string    `json:"amount"`
	BlockNumber *int64    `json:"block_number"`
	DonatedAt   time.Time `json:"donated_at"`
}

func toDonationDTO(d *domain.Donation) donationDTO {
	return donationDTO{
		ID:          d.ID,
		CampaignID:  d.CampaignID,
		DonorID:     d.DonorID,
		TxHash:      d.TxHash,
		Amount:      d.Amount.String(),
		BlockNumber: d.BlockNumber,
		DonatedAt:   d.DonatedAt,
	}
}

func toDonationList(items []domain.Donation) []donationDTO {
	dtos := make([]donationDTO, 0, len(items))
	for i := range items {
		dtos = append(dtos, toDonationDTO(&items[i]))
	}
	return dtos
}

// DonationsRecord stores a donation the caller just submitted on chain.
func (a *App) DonationsRecord(w http.ResponseWriter, r *http.Request) {
	var req donationRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "amount must be a decimal string")
		return
	}

	donation, err := a.Donations.Record(r.Context(), req.CampaignID, a.currentUserID(r), req.TxHash, amount, req.BlockNumber)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, toDonationDTO(donation))
}

// DonationsMine lists the caller's donations.
func (a *App) DonationsMine(w http.ResponseWriter, r *http.Request) {
	items, err := a.Donations.ListByDonor(r.Context(), a.currentUserID(r))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": toDonationList(items)})
}
