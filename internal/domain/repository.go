package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// CampaignRepository defines persistence for campaign state.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *Campaign) error
	GetByID(ctx context.Context, id string) (*Campaign, error)
	GetByChainID(ctx context.Context, chainID int64) (*Campaign, error)
	ListByStatus(ctx context.Context, status CampaignStatus) ([]Campaign, error)
	ListByCreator(ctx context.Context, creatorID string) ([]Campaign, error)
	ListAll(ctx context.Context) ([]Campaign, error)
	// UpdateReconciled persists a reconciliation result. TotalRaised is
	// overwritten, GoalReached is OR-ed into the stored value so a racing
	// stale reader can never unset it, Status and FundsWithdrawn are
	// last-writer-wins. LastReconciledAt is stamped by the store.
	UpdateReconciled(ctx context.Context, id string, state ReconciledState) (*Campaign, error)
	SetStatus(ctx context.Context, id string, status CampaignStatus) error
}

// DonationRepository is the append-only local donation ledger.
type DonationRepository interface {
	// Insert stores a donation, failing with ErrDuplicateTransaction when a
	// record with the same transaction hash already exists. Uniqueness is
	// enforced by the store so concurrent inserts resolve to one winner.
	Insert(ctx context.Context, donation *Donation) (*Donation, error)
	// SumByCampaign returns the exact decimal sum of recorded amounts for a
	// campaign; zero when no donations exist.
	SumByCampaign(ctx context.Context, campaignID string) (decimal.Decimal, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]Donation, error)
	ListByDonor(ctx context.Context, donorID string) ([]Donation, error)
	CountByCampaign(ctx context.Context, campaignID string) (int64, error)
}

// UserRepository defines access methods for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	ListAll(ctx context.Context) ([]User, error)
	SetStatus(ctx context.Context, id string, status UserStatus) (*User, error)
}

// WalletRepository handles wallet persistence.
type WalletRepository interface {
	GetByUserID(ctx context.Context, userID string) (*Wallet, error)
	GetByAddress(ctx context.Context, address string) (*Wallet, error)
	Upsert(ctx context.Context, wallet *Wallet) (*Wallet, error)
}
