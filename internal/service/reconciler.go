package service

import (
	"context"
	"time"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/providers/chain"
)

// ChainReader is the read-only view of the crowdfunding contract consumed by
// the reconciliation engine.
type ChainReader interface {
	FetchCampaignFacts(ctx context.Context, campaignChainID int64) (*chain.CampaignFacts, error)
}

// Reconciler recomputes a campaign's displayable state from the local
// donation ledger and a best-effort read of the chain.
//
// The local ledger is authoritative for total_raised: the sum is computed
// first and always persisted, whatever happens to the chain call. The chain
// is authoritative for funds_withdrawn and the active flag; when it cannot be
// reached those stay at their last persisted values and the run still
// succeeds. goal_reached is derived from the local total and merged
// monotonically, so no retry or concurrent run can unset it.
//
// Reconcile is idempotent and safe to invoke concurrently: state is always
// recomputed from durable storage, never incremented.
type Reconciler struct {
	campaigns domain.CampaignRepository
	donations domain.DonationRepository
	chain     ChainReader
	logger    infra.Logger
	timeout   time.Duration
}

// NewReconciler wires the engine. timeout bounds the chain call; on expiry
// the run degrades the same way it does when the chain is unreachable.
func NewReconciler(campaigns domain.CampaignRepository, donations domain.DonationRepository, reader ChainReader, logger infra.Logger, timeout time.Duration) *Reconciler {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Reconciler{
		campaigns: campaigns,
		donations: donations,
		chain:     reader,
		logger:    logger,
		timeout:   timeout,
	}
}

// Reconcile merges ledger and chain facts for one campaign and persists the
// result. It fails only on missing campaigns and storage errors; chain
// failures are absorbed.
func (r *Reconciler) Reconcile(ctx context.Context, campaignID string) (*domain.Campaign, error) {
	campaign, err := r.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	localTotal, err := r.donations.SumByCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}

	// Last-known values survive a chain outage.
	fundsWithdrawn := campaign.FundsWithdrawn
	status := campaign.Status

	chainCtx, cancel := context.WithTimeout(ctx, r.timeout)
	facts, err := r.chain.FetchCampaignFacts(chainCtx, campaign.ChainID)
	cancel()
	if err != nil {
		r.logger.Warn().Err(err).
			Str("campaign_id", campaignID).
			Int64("chain_id", campaign.ChainID).
			Msg("chain fetch failed, keeping last-known status flags")
	} else {
		fundsWithdrawn = facts.FundsWithdrawn
		switch {
		case !facts.Active:
			status = domain.CampaignStatusCancelled
		case facts.FundsWithdrawn:
			status = domain.CampaignStatusCompleted
		default:
			status = domain.CampaignStatusActive
		}
		if !facts.TotalRaised.Equal(localTotal) {
			// Advisory cross-check only; the chain amount is never persisted.
			r.logger.Debug().
				Str("campaign_id", campaignID).
				Str("local_total", localTotal.String()).
				Str("chain_total", facts.TotalRaised.String()).
				Msg("chain raised amount differs from local ledger sum")
		}
	}

	goalReached := campaign.GoalReached || localTotal.GreaterThanOrEqual(campaign.GoalAmount)

	updated, err := r.campaigns.UpdateReconciled(ctx, campaignID, domain.ReconciledState{
		TotalRaised:    localTotal,
		GoalReached:    goalReached,
		FundsWithdrawn: fundsWithdrawn,
		Status:         status,
	})
	if err != nil {
		return nil, err
	}

	r.logger.Debug().
		Str("campaign_id", campaignID).
		Str("total_raised", localTotal.String()).
		Str("status", string(updated.Status)).
		Msg("campaign reconciled")
	return updated, nil
}
