package domain

import "time"

// Wallet maps a user to their chain wallet address. One wallet per user; an
// address belongs to at most one user.
type Wallet struct {
	ID          string
	UserID      string
	Address     string
	Verified    bool
	ConnectedAt time.Time
}
