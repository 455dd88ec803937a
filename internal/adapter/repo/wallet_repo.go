package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"server/internal/domain"
)

// WalletRepositoryPG implements domain.WalletRepository using PostgreSQL.
type WalletRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewWalletRepository creates a new wallet repo.
func NewWalletRepository(pool *pgxpool.Pool) *WalletRepositoryPG {
	return &WalletRepositoryPG{pool: pool}
}

// GetByUserID fetches the wallet connected by a user.
func (r *WalletRepositoryPG) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, user_id, address, verified, connected_at FROM wallets WHERE user_id = $1`, userID)
	return scanWallet(row)
}

// GetByAddress fetches a wallet by chain address.
func (r *WalletRepositoryPG) GetByAddress(ctx context.Context, address string) (*domain.Wallet, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, user_id, address, verified, connected_at FROM wallets WHERE address = $1`, address)
	return scanWallet(row)
}

// Upsert creates the user's wallet or replaces its address on reconnect. The
// unique index on address rejects an address already claimed by another user.
func (r *WalletRepositoryPG) Upsert(ctx context.Context, w *domain.Wallet) (*domain.Wallet, error) {
	query := `
INSERT INTO wallets (id, user_id, address, verified, connected_at)
VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (user_id) DO UPDATE
SET address = EXCLUDED.address,
    connected_at = NOW()
RETURNING id, user_id, address, verified, connected_at;
`
	row := r.pool.QueryRow(ctx, query, w.ID, w.UserID, w.Address, w.Verified)
	wallet, err := scanWallet(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrWalletTaken
		}
		return nil, err
	}
	return wallet, nil
}

func scanWallet(row pgx.Row) (*domain.Wallet, error) {
	var w domain.Wallet
	if err := row.Scan(&w.ID, &w.UserID, &w.Address, &w.Verified, &w.ConnectedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}
