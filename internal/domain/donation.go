package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Donation is a locally observed donation transaction. The transaction hash
// is the idempotency key: at most one record per hash, ever. Records are
// append-only and never mutated.
type Donation struct {
	ID          string
	CampaignID  string
	DonorID     string
	TxHash      string
	Amount      decimal.Decimal
	BlockNumber *int64
	DonatedAt   time.Time
}
