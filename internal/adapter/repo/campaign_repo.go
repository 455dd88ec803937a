package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

const campaignColumns = `id, chain_id, creator_id, title, description, image_url, category,
goal_amount, total_raised, deadline, goal_reached, funds_withdrawn, status,
created_at, updated_at, last_reconciled_at`

// CampaignRepositoryPG implements domain.CampaignRepository backed by PostgreSQL.
type CampaignRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository creates a new CampaignRepositoryPG.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepositoryPG {
	return &CampaignRepositoryPG{pool: pool}
}

// Create inserts campaign state at registration time.
func (r *CampaignRepositoryPG) Create(ctx context.Context, c *domain.Campaign) error {
	query := `
INSERT INTO campaigns (id, chain_id, creator_id, title, description, image_url, category,
                       goal_amount, total_raised, deadline, goal_reached, funds_withdrawn, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING created_at, updated_at;
`
	row := r.pool.QueryRow(ctx, query,
		c.ID,
		c.ChainID,
		c.CreatorID,
		c.Title,
		c.Description,
		c.ImageURL,
		c.Category,
		c.GoalAmount,
		c.TotalRaised,
		c.Deadline,
		c.GoalReached,
		c.FundsWithdrawn,
		c.Status,
	)
	if err := row.Scan(&c.CreatedAt, &c.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("campaign chain_id %d already registered: %w", c.ChainID, err)
		}
		return err
	}
	return nil
}

// GetByID fetches a campaign by UUID.
func (r *CampaignRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id)
	return scanCampaign(row)
}

// GetByChainID fetches a campaign by its smart-contract identifier.
func (r *CampaignRepositoryPG) GetByChainID(ctx context.Context, chainID int64) (*domain.Campaign, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE chain_id = $1`, chainID)
	return scanCampaign(row)
}

// ListByStatus returns campaigns in a given lifecycle state, newest first.
func (r *CampaignRepositoryPG) ListByStatus(ctx context.Context, status domain.CampaignStatus) ([]domain.Campaign, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE status = $1 ORDER BY created_at DESC`, status)
	if err != nil {
		return nil, err
	}
	return collectCampaigns(rows)
}

// ListByCreator returns campaigns registered by one creator, newest first.
func (r *CampaignRepositoryPG) ListByCreator(ctx context.Context, creatorID string) ([]domain.Campaign, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE creator_id = $1 ORDER BY created_at DESC`, creatorID)
	if err != nil {
		return nil, err
	}
	return collectCampaigns(rows)
}

// ListAll returns every campaign regardless of status, newest first.
func (r *CampaignRepositoryPG) ListAll(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+campaignColumns+` FROM campaigns ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	return collectCampaigns(rows)
}

// UpdateReconciled persists the outcome of a reconciliation run. goal_reached
// is OR-ed in SQL so concurrent writers are monotonic on that flag.
func (r *CampaignRepositoryPG) UpdateReconciled(ctx context.Context, id string, state domain.ReconciledState) (*domain.Campaign, error) {
	query := `
UPDATE campaigns
SET total_raised = $2,
    goal_reached = goal_reached OR $3,
    funds_withdrawn = $4,
    status = $5,
    last_reconciled_at = NOW(),
    updated_at = NOW()
WHERE id = $1
RETURNING ` + campaignColumns + `;
`
	row := r.pool.QueryRow(ctx, query, id, state.TotalRaised, state.GoalReached, state.FundsWithdrawn, state.Status)
	return scanCampaign(row)
}

// SetStatus force-sets lifecycle status (administrative cancel path).
func (r *CampaignRepositoryPG) SetStatus(ctx context.Context, id string, status domain.CampaignStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE campaigns SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var c domain.Campaign
	err := row.Scan(
		&c.ID,
		&c.ChainID,
		&c.CreatorID,
		&c.Title,
		&c.Description,
		&c.ImageURL,
		&c.Category,
		&c.GoalAmount,
		&c.TotalRaised,
		&c.Deadline,
		&c.GoalReached,
		&c.FundsWithdrawn,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
		&c.LastReconciledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func collectCampaigns(rows pgx.Rows) ([]domain.Campaign, error) {
	defer rows.Close()

	var items []domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
