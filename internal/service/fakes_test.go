package service

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"server/internal/domain"
	"server/internal/providers/chain"
)

// In-memory repository fakes mirroring the PostgreSQL semantics the services
// rely on: unique tx_hash with one insert winner, monotonic goal_reached
// merge, read-your-writes sums.

type memCampaigns struct {
	mu    sync.Mutex
	items map[string]*domain.Campaign
}

func newMemCampaigns() *memCampaigns {
	return &memCampaigns{items: map[string]*domain.Campaign{}}
}

func (m *memCampaigns) Create(_ context.Context, c *domain.Campaign) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	cp := *c
	m.items[c.ID] = &cp
	return nil
}

func (m *memCampaigns) GetByID(_ context.Context, id string) (*domain.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCampaigns) GetByChainID(_ context.Context, chainID int64) (*domain.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.items {
		if c.ChainID == chainID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCampaigns) ListByStatus(_ context.Context, status domain.CampaignStatus) ([]domain.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []domain.Campaign
	for _, c := range m.items {
		if c.Status == status {
			items = append(items, *c)
		}
	}
	return items, nil
}

func (m *memCampaigns) ListByCreator(_ context.Context, creatorID string) ([]domain.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []domain.Campaign
	for _, c := range m.items {
		if c.CreatorID == creatorID {
			items = append(items, *c)
		}
	}
	return items, nil
}

func (m *memCampaigns) ListAll(_ context.Context) ([]domain.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []domain.Campaign
	for _, c := range m.items {
		items = append(items, *c)
	}
	return items, nil
}

func (m *memCampaigns) UpdateReconciled(_ context.Context, id string, state domain.ReconciledState) (*domain.Campaign, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	c.TotalRaised = state.TotalRaised
	c.GoalReached = c.GoalReached || state.GoalReached
	c.FundsWithdrawn = state.FundsWithdrawn
	c.Status = state.Status
	c.UpdatedAt = now
	c.LastReconciledAt = &now
	cp := *c
	return &cp, nil
}

func (m *memCampaigns) SetStatus(_ context.Context, id string, status domain.CampaignStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Status = status
	return nil
}

type memDonations struct {
	mu     sync.Mutex
	byHash map[string]*domain.Donation
	items  []*domain.Donation
}

func newMemDonations() *memDonations {
	return &memDonations{byHash: map[string]*domain.Donation{}}
}

func (m *memDonations) Insert(_ context.Context, d *domain.Donation) (*domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byHash[d.TxHash]; ok {
		return nil, domain.ErrDuplicateTransaction
	}
	d.DonatedAt = time.Now()
	cp := *d
	m.byHash[d.TxHash] = &cp
	m.items = append(m.items, &cp)
	return d, nil
}

func (m *memDonations) SumByCampaign(_ context.Context, campaignID string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := decimal.Zero
	for _, d := range m.items {
		if d.CampaignID == campaignID {
			total = total.Add(d.Amount)
		}
	}
	return total, nil
}

func (m *memDonations) ListByCampaign(_ context.Context, campaignID string) ([]domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []domain.Donation
	for _, d := range m.items {
		if d.CampaignID == campaignID {
			items = append(items, *d)
		}
	}
	return items, nil
}

func (m *memDonations) ListByDonor(_ context.Context, donorID string) ([]domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []domain.Donation
	for _, d := range m.items {
		if d.DonorID == donorID {
			items = append(items, *d)
		}
	}
	return items, nil
}

func (m *memDonations) CountByCampaign(_ context.Context, campaignID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var count int64
	for _, d := range m.items {
		if d.CampaignID == campaignID {
			count++
		}
	}
	return count, nil
}

type memUsers struct {
	mu    sync.Mutex
	items map[string]*domain.User
}

func newMemUsers() *memUsers {
	return &memUsers{items: map[string]*domain.User{}}
}

func (m *memUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.Username == u.Username {
			return nil, domain.ErrUsernameTaken
		}
		if existing.Email == u.Email {
			return nil, domain.ErrEmailTaken
		}
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	m.items[u.ID] = &cp
	return u, nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.items {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) ListAll(_ context.Context) ([]domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []domain.User
	for _, u := range m.items {
		items = append(items, *u)
	}
	return items, nil
}

func (m *memUsers) SetStatus(_ context.Context, id string, status domain.UserStatus) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Status = status
	cp := *u
	return &cp, nil
}

type memWallets struct {
	mu    sync.Mutex
	items map[string]*domain.Wallet // keyed by user id
}

func newMemWallets() *memWallets {
	return &memWallets{items: map[string]*domain.Wallet{}}
}

func (m *memWallets) GetByUserID(_ context.Context, userID string) (*domain.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.items[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (m *memWallets) GetByAddress(_ context.Context, address string) (*domain.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.items {
		if w.Address == address {
			cp := *w
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memWallets) Upsert(_ context.Context, w *domain.Wallet) (*domain.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for userID, existing := range m.items {
		if existing.Address == w.Address && userID != w.UserID {
			return nil, domain.ErrWalletTaken
		}
	}
	if existing, ok := m.items[w.UserID]; ok {
		existing.Address = w.Address
		existing.ConnectedAt = time.Now()
		cp := *existing
		return &cp, nil
	}
	w.ConnectedAt = time.Now()
	cp := *w
	m.items[w.UserID] = &cp
	return w, nil
}

// fakeChain is a scriptable ContractReader.
type fakeChain struct {
	mu         sync.Mutex
	facts      *chain.CampaignFacts
	err        error
	calls      int
	count      int64
	refundable bool
}

func (f *fakeChain) FetchCampaignFacts(_ context.Context, _ int64) (*chain.CampaignFacts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	cp := *f.facts
	return &cp, nil
}

func (f *fakeChain) DonationCount(_ context.Context, _ int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	return f.count, nil
}

func (f *fakeChain) IsRefundable(_ context.Context, _ int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	return f.refundable, nil
}

func (f *fakeChain) set(facts *chain.CampaignFacts, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.facts = facts
	f.err = err
}
