package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CampaignStatus enumerates campaign lifecycle states.
type CampaignStatus string

const (
	CampaignStatusActive    CampaignStatus = "ACTIVE"
	CampaignStatusCompleted CampaignStatus = "COMPLETED"
	CampaignStatusCancelled CampaignStatus = "CANCELLED"
)

// Campaign is the durable, displayable state of one crowdfunding campaign.
// Metadata (title, goal, deadline) is set at registration and immutable.
// TotalRaised is always the sum of locally recorded donations; the on-chain
// raised amount is advisory only and never persisted here. GoalReached is
// sticky: once true it is never reset by a later reconciliation.
type Campaign struct {
	ID               string
	ChainID          int64 // campaign id inside the smart contract
	CreatorID        string
	Title            string
	Description      string
	ImageURL         string
	Category         string
	GoalAmount       decimal.Decimal
	TotalRaised      decimal.Decimal
	Deadline         *time.Time
	GoalReached      bool
	FundsWithdrawn   bool
	Status           CampaignStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
	LastReconciledAt *time.Time
}

// ReconciledState carries the fields a reconciliation run is allowed to write
// back. TotalRaised overwrites, GoalReached is merged monotonically (OR) at
// the store, Status and FundsWithdrawn are last-writer-wins.
type ReconciledState struct {
	TotalRaised    decimal.Decimal
	GoalReached    bool
	FundsWithdrawn bool
	Status         CampaignStatus
}
