package service

import (
	"context"
	"regexp"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"server/internal/domain"
	"server/internal/infra"
)

var txHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// DonationService records client-observed donation transactions into the
// local ledger and keeps the owning campaign's state current.
type DonationService struct {
	campaigns  domain.CampaignRepository
	donations  domain.DonationRepository
	users      domain.UserRepository
	reconciler *Reconciler
	logger     infra.Logger
}

// NewDonationService creates a donation recorder.
func NewDonationService(campaigns domain.CampaignRepository, donations domain.DonationRepository, users domain.UserRepository, reconciler *Reconciler, logger infra.Logger) *DonationService {
	return &DonationService{
		campaigns:  campaigns,
		donations:  donations,
		users:      users,
		reconciler: reconciler,
		logger:     logger,
	}
}

// Record stores a newly observed donation and triggers reconciliation of the
// owning campaign. The transaction hash is the idempotency key: resubmitting
// it fails with ErrDuplicateTransaction and the amount is never counted
// twice. The insert commits before reconciliation runs, so a failed
// reconciliation leaves the record in place; the campaign state catches up on
// the next read or write.
func (s *DonationService) Record(ctx context.Context, campaignID, donorID, txHash string, amount decimal.Decimal, blockNumber *int64) (*domain.Donation, error) {
	if amount.Sign() <= 0 {
		return nil, domain.ErrInvalidAmount
	}
	if !txHashPattern.MatchString(txHash) {
		return nil, domain.ErrInvalidTxHash
	}

	donor, err := s.users.GetByID(ctx, donorID)
	if err != nil {
		return nil, err
	}
	if donor.IsBlocked() {
		return nil, domain.ErrUserBlocked
	}

	campaign, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	donation, err := s.donations.Insert(ctx, &domain.Donation{
		ID:          uuid.NewString(),
		CampaignID:  campaign.ID,
		DonorID:     donor.ID,
		TxHash:      txHash,
		Amount:      amount,
		BlockNumber: blockNumber,
	})
	if err != nil {
		return nil, err
	}

	if _, err := s.reconciler.Reconcile(ctx, campaign.ID); err != nil {
		s.logger.Warn().Err(err).
			Str("campaign_id", campaign.ID).
			Str("tx_hash", txHash).
			Msg("post-donation reconcile failed, donation kept")
	}

	return donation, nil
}

// ListByDonor returns the caller's donations, oldest first.
func (s *DonationService) ListByDonor(ctx context.Context, donorID string) ([]domain.Donation, error) {
	return s.donations.ListByDonor(ctx, donorID)
}

// ListByCampaign returns all recorded donations for a campaign, oldest first.
func (s *DonationService) ListByCampaign(ctx context.Context, campaignID string) ([]domain.Donation, error) {
	if _, err := s.campaigns.GetByID(ctx, campaignID); err != nil {
		return nil, err
	}
	return s.donations.ListByCampaign(ctx, campaignID)
}
