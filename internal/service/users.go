package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"server/internal/domain"
	"server/internal/infra"
)

var (
	// ErrInvalidSignup rejects signup payloads missing required fields.
	ErrInvalidSignup = errors.New("username, email and password are required")
	// ErrInvalidAddress rejects malformed wallet addresses.
	ErrInvalidAddress = errors.New("invalid wallet address")

	addressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)
)

// UserService handles accounts and wallet binding.
type UserService struct {
	users   domain.UserRepository
	wallets domain.WalletRepository
	logger  infra.Logger
}

// NewUserService creates a user service.
func NewUserService(users domain.UserRepository, wallets domain.WalletRepository, logger infra.Logger) *UserService {
	return &UserService{users: users, wallets: wallets, logger: logger}
}

// SignupInput carries registration fields.
type SignupInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Country  string
}

// Signup registers a new account with the default donor role.
func (s *UserService) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if username == "" || email == "" || input.Password == "" {
		return nil, ErrInvalidSignup
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	return s.users.Create(ctx, &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		FullName:     input.FullName,
		Country:      input.Country,
		Role:         domain.UserRoleUser,
		Status:       domain.UserStatusActive,
	})
}

// Authenticate verifies credentials and returns the account. Unknown users
// and wrong passwords are indistinguishable to the caller.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// Get fetches an account by id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// ConnectWallet binds a chain address to the user, replacing any address they
// connected before. An address held by another user is rejected.
func (s *UserService) ConnectWallet(ctx context.Context, userID, address string) (*domain.Wallet, error) {
	address = strings.TrimSpace(address)
	if !addressPattern.MatchString(address) {
		return nil, ErrInvalidAddress
	}
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	existing, err := s.wallets.GetByAddress(ctx, address)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil && existing.UserID != userID {
		return nil, domain.ErrWalletTaken
	}

	return s.wallets.Upsert(ctx, &domain.Wallet{
		ID:      uuid.NewString(),
		UserID:  userID,
		Address: address,
	})
}

// Wallet returns the user's connected wallet.
func (s *UserService) Wallet(ctx context.Context, userID string) (*domain.Wallet, error) {
	return s.wallets.GetByUserID(ctx, userID)
}

// ListUsers returns all accounts for the admin view.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.ListAll(ctx)
}

// Block bars a user from campaign and donation actions.
func (s *UserService) Block(ctx context.Context, id string) (*domain.User, error) {
	return s.users.SetStatus(ctx, id, domain.UserStatusBlocked)
}

// Unblock restores an account.
func (s *UserService) Unblock(ctx context.Context, id string) (*domain.User, error) {
	return s.users.SetStatus(ctx, id, domain.UserStatusActive)
}
