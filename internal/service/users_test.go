package service

import (
	"context"
	"errors"
	"testing"

	"server/internal/domain"
)

func newUserEnv() *UserService {
	return NewUserService(newMemUsers(), newMemWallets(), testLogger())
}

func TestSignupAndAuthenticate(t *testing.T) {
	svc := newUserEnv()

	user, err := svc.Signup(context.Background(), SignupInput{
		Username: "carol",
		Email:    "Carol@Example.com",
		Password: "hunter22",
	})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if user.Email != "carol@example.com" {
		t.Fatalf("Email = %q, want lowercased", user.Email)
	}
	if user.Role != domain.UserRoleUser {
		t.Fatalf("Role = %s, want default user role", user.Role)
	}
	if user.PasswordHash == "hunter22" {
		t.Fatalf("password stored in plain text")
	}

	authed, err := svc.Authenticate(context.Background(), "carol", "hunter22")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("authenticated id = %q, want %q", authed.ID, user.ID)
	}

	if _, err := svc.Authenticate(context.Background(), "carol", "wrong"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("wrong password error = %v, want ErrUnauthorized", err)
	}
	if _, err := svc.Authenticate(context.Background(), "nobody", "hunter22"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("unknown user error = %v, want ErrUnauthorized", err)
	}
}

func TestSignupValidation(t *testing.T) {
	svc := newUserEnv()

	if _, err := svc.Signup(context.Background(), SignupInput{Username: "", Email: "x@example.com", Password: "p"}); !errors.Is(err, ErrInvalidSignup) {
		t.Fatalf("Signup error = %v, want ErrInvalidSignup", err)
	}
}

func TestSignupDuplicateUsername(t *testing.T) {
	svc := newUserEnv()

	if _, err := svc.Signup(context.Background(), SignupInput{Username: "dave", Email: "dave@example.com", Password: "p"}); err != nil {
		t.Fatalf("first Signup: %v", err)
	}
	_, err := svc.Signup(context.Background(), SignupInput{Username: "dave", Email: "other@example.com", Password: "p"})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("Signup error = %v, want ErrUsernameTaken", err)
	}
}

const (
	addrA = "0x00000000000000000000000000000000000000aa"
	addrB = "0x00000000000000000000000000000000000000bb"
)

func TestConnectWallet(t *testing.T) {
	svc := newUserEnv()
	user, err := svc.Signup(context.Background(), SignupInput{Username: "erin", Email: "erin@example.com", Password: "p"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	wallet, err := svc.ConnectWallet(context.Background(), user.ID, addrA)
	if err != nil {
		t.Fatalf("ConnectWallet: %v", err)
	}
	if wallet.Address != addrA {
		t.Fatalf("Address = %q, want %q", wallet.Address, addrA)
	}

	// Reconnecting replaces the user's own address.
	wallet, err = svc.ConnectWallet(context.Background(), user.ID, addrB)
	if err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	if wallet.Address != addrB {
		t.Fatalf("Address = %q, want %q after reconnect", wallet.Address, addrB)
	}

	other, err := svc.Signup(context.Background(), SignupInput{Username: "frank", Email: "frank@example.com", Password: "p"})
	if err != nil {
		t.Fatalf("Signup frank: %v", err)
	}
	if _, err := svc.ConnectWallet(context.Background(), other.ID, addrB); !errors.Is(err, domain.ErrWalletTaken) {
		t.Fatalf("ConnectWallet error = %v, want ErrWalletTaken", err)
	}
}

func TestConnectWalletRejectsMalformedAddress(t *testing.T) {
	svc := newUserEnv()
	user, err := svc.Signup(context.Background(), SignupInput{Username: "gail", Email: "gail@example.com", Password: "p"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	for _, addr := range []string{"", "0x123", "not-an-address", addrA + "ff"} {
		if _, err := svc.ConnectWallet(context.Background(), user.ID, addr); !errors.Is(err, ErrInvalidAddress) {
			t.Fatalf("ConnectWallet(%q) error = %v, want ErrInvalidAddress", addr, err)
		}
	}
}

func TestBlockUnblock(t *testing.T) {
	svc := newUserEnv()
	user, err := svc.Signup(context.Background(), SignupInput{Username: "hank", Email: "hank@example.com", Password: "p"})
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	blocked, err := svc.Block(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Block: %v", err)
	}
	if !blocked.IsBlocked() {
		t.Fatalf("Status = %s, want blocked", blocked.Status)
	}

	restored, err := svc.Unblock(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Unblock: %v", err)
	}
	if restored.IsBlocked() {
		t.Fatalf("Status = %s, want active", restored.Status)
	}
}
