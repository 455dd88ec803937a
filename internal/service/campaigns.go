package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/providers/chain"
)

// ErrInvalidCampaign rejects registration payloads without a usable title or
// positive goal.
var ErrInvalidCampaign = errors.New("campaign title and positive goal are required")

// ContractReader extends ChainReader with the auxiliary contract queries used
// by the chain-view endpoint.
type ContractReader interface {
	ChainReader
	DonationCount(ctx context.Context, campaignChainID int64) (int64, error)
	IsRefundable(ctx context.Context, campaignChainID int64) (bool, error)
}

// ChainView is the raw on-chain picture of one campaign, exposed for
// debugging and for the refund flow. Display state comes from the reconciled
// local record, not from here.
type ChainView struct {
	Facts         *chain.CampaignFacts
	DonationCount int64
	Refundable    bool
}

// CampaignService exposes campaign registration, reads, and the
// administrative override. Reads go through the reconciler first so returned
// state is as fresh as the ledger and chain allow.
type CampaignService struct {
	campaigns  domain.CampaignRepository
	donations  domain.DonationRepository
	users      domain.UserRepository
	contract   ContractReader
	reconciler *Reconciler
	logger     infra.Logger
}

// NewCampaignService wires campaign operations.
func NewCampaignService(campaigns domain.CampaignRepository, donations domain.DonationRepository, users domain.UserRepository, contract ContractReader, reconciler *Reconciler, logger infra.Logger) *CampaignService {
	return &CampaignService{
		campaigns:  campaigns,
		donations:  donations,
		users:      users,
		contract:   contract,
		reconciler: reconciler,
		logger:     logger,
	}
}

// RegisterInput carries campaign metadata supplied after the client created
// the campaign on chain.
type RegisterInput struct {
	ChainID     int64
	Title       string
	Description string
	ImageURL    string
	Category    string
	GoalAmount  decimal.Decimal
	Deadline    *time.Time
}

// Register stores campaign state for a contract campaign the creator already
// deployed. The campaign starts ACTIVE with a zero raised total.
func (s *CampaignService) Register(ctx context.Context, creatorID string, input RegisterInput) (*domain.Campaign, error) {
	creator, err := s.users.GetByID(ctx, creatorID)
	if err != nil {
		return nil, err
	}
	if creator.IsBlocked() {
		return nil, domain.ErrUserBlocked
	}
	if strings.TrimSpace(input.Title) == "" || input.GoalAmount.Sign() <= 0 {
		return nil, ErrInvalidCampaign
	}

	campaign := &domain.Campaign{
		ID:          uuid.NewString(),
		ChainID:     input.ChainID,
		CreatorID:   creator.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Category:    input.Category,
		GoalAmount:  input.GoalAmount,
		TotalRaised: decimal.Zero,
		Deadline:    input.Deadline,
		Status:      domain.CampaignStatusActive,
	}
	if err := s.campaigns.Create(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// Get reconciles then returns one campaign. A read must always succeed with
// at least the locally known donation total, so a reconcile that fails on
// anything except a missing campaign degrades to the last persisted state.
func (s *CampaignService) Get(ctx context.Context, id string) (*domain.Campaign, error) {
	campaign, err := s.reconciler.Reconcile(ctx, id)
	if err == nil {
		return campaign, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	s.logger.Warn().Err(err).Str("campaign_id", id).Msg("read-triggered reconcile failed, serving persisted state")
	return s.campaigns.GetByID(ctx, id)
}

// Reconcile exposes an explicit sync trigger.
func (s *CampaignService) Reconcile(ctx context.Context, id string) (*domain.Campaign, error) {
	return s.reconciler.Reconcile(ctx, id)
}

// ListActive returns campaigns currently accepting donations.
func (s *CampaignService) ListActive(ctx context.Context) ([]domain.Campaign, error) {
	return s.campaigns.ListByStatus(ctx, domain.CampaignStatusActive)
}

// ListByCreator returns the caller's campaigns.
func (s *CampaignService) ListByCreator(ctx context.Context, creatorID string) ([]domain.Campaign, error) {
	return s.campaigns.ListByCreator(ctx, creatorID)
}

// ListAll returns every campaign for the admin view.
func (s *CampaignService) ListAll(ctx context.Context) ([]domain.Campaign, error) {
	return s.campaigns.ListAll(ctx)
}

// Cancel force-sets CANCELLED without consulting the chain. A later
// reconciliation may resurrect the campaign if the contract still reports it
// active; cancelling the contract itself is the owner's job.
func (s *CampaignService) Cancel(ctx context.Context, id string) error {
	return s.campaigns.SetStatus(ctx, id, domain.CampaignStatusCancelled)
}

// DonationCount reports how many donations the local ledger has observed.
func (s *CampaignService) DonationCount(ctx context.Context, id string) (int64, error) {
	return s.donations.CountByCampaign(ctx, id)
}

// ChainState fetches the raw contract facts for one campaign. Unlike
// Reconcile, chain errors propagate here: the caller asked for the chain
// specifically.
func (s *CampaignService) ChainState(ctx context.Context, id string) (*ChainView, error) {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	facts, err := s.contract.FetchCampaignFacts(ctx, campaign.ChainID)
	if err != nil {
		return nil, err
	}
	count, err := s.contract.DonationCount(ctx, campaign.ChainID)
	if err != nil {
		return nil, err
	}
	refundable, err := s.contract.IsRefundable(ctx, campaign.ChainID)
	if err != nil {
		return nil, err
	}
	return &ChainView{Facts: facts, DonationCount: count, Refundable: refundable}, nil
}
