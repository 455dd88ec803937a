package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"server/internal/domain"
)

const donationColumns = `id, campaign_id, donor_id, tx_hash, amount, block_number, donated_at`

// DonationRepositoryPG implements domain.DonationRepository using PostgreSQL.
// The donations table carries a unique index on tx_hash, so duplicate
// submissions lose the insert race at the store rather than in application
// code.
type DonationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewDonationRepository creates a new donation repo.
func NewDonationRepository(pool *pgxpool.Pool) *DonationRepositoryPG {
	return &DonationRepositoryPG{pool: pool}
}

// Insert appends a donation record. A transaction hash collision yields
// domain.ErrDuplicateTransaction.
func (r *DonationRepositoryPG) Insert(ctx context.Context, d *domain.Donation) (*domain.Donation, error) {
	query := `
INSERT INTO donations (id, campaign_id, donor_id, tx_hash, amount, block_number)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING donated_at;
`
	row := r.pool.QueryRow(ctx, query, d.ID, d.CampaignID, d.DonorID, d.TxHash, d.Amount, d.BlockNumber)
	if err := row.Scan(&d.DonatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicateTransaction
		}
		return nil, err
	}
	return d, nil
}

// SumByCampaign returns the exact numeric sum of donation amounts for a
// campaign. The accumulation happens in the database over NUMERIC(36,18), so
// no floating point is ever involved.
func (r *DonationRepositoryPG) SumByCampaign(ctx context.Context, campaignID string) (decimal.Decimal, error) {
	row := r.pool.QueryRow(ctx, `
SELECT COALESCE(SUM(amount), 0)
FROM donations
WHERE campaign_id = $1;
`, campaignID)

	var total decimal.Decimal
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// ListByCampaign returns donations for a campaign, oldest first.
func (r *DonationRepositoryPG) ListByCampaign(ctx context.Context, campaignID string) ([]domain.Donation, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+donationColumns+` FROM donations WHERE campaign_id = $1 ORDER BY donated_at ASC`, campaignID)
	if err != nil {
		return nil, err
	}
	return collectDonations(rows)
}

// ListByDonor returns donations made by a user, oldest first.
func (r *DonationRepositoryPG) ListByDonor(ctx context.Context, donorID string) ([]domain.Donation, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+donationColumns+` FROM donations WHERE donor_id = $1 ORDER BY donated_at ASC`, donorID)
	if err != nil {
		return nil, err
	}
	return collectDonations(rows)
}

// CountByCampaign returns how many donations were recorded locally.
func (r *DonationRepositoryPG) CountByCampaign(ctx context.Context, campaignID string) (int64, error) {
	row := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM donations WHERE campaign_id = $1`, campaignID)

	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func collectDonations(rows pgx.Rows) ([]domain.Donation, error) {
	defer rows.Close()

	var items []domain.Donation
	for rows.Next() {
		var d domain.Donation
		if err := rows.Scan(&d.ID, &d.CampaignID, &d.DonorID, &d.TxHash, &d.Amount, &d.BlockNumber, &d.DonatedAt); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
