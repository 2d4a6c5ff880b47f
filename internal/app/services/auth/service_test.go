package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/verdeviva/plantcare/internal/app/storage"
	"github.com/verdeviva/plantcare/internal/app/storage/memory"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := New(memory.New(), nil)

	u, err := svc.Register(ctx, "Ana", "Ana@Example.COM", "hunter22")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Email != "ana@example.com" {
		t.Errorf("email = %q, want lowercased", u.Email)
	}
	if u.PasswordHash == "hunter22" || u.PasswordHash == "" {
		t.Error("password stored without hashing")
	}

	got, err := svc.Authenticate(ctx, "ana@example.com", "hunter22")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("authenticated user %d, want %d", got.ID, u.ID)
	}
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc := New(memory.New(), nil)

	if _, err := svc.Register(ctx, "Ana", "ana@example.com", "hunter22"); err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := svc.Authenticate(ctx, "ana@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: err = %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: err = %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := New(memory.New(), nil)

	if _, err := svc.Register(ctx, "", "ana@example.com", "hunter22"); err == nil {
		t.Error("empty name accepted")
	}
	if _, err := svc.Register(ctx, "Ana", "ana@example.com", "short"); err == nil {
		t.Error("short password accepted")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := New(memory.New(), nil)

	if _, err := svc.Register(ctx, "Ana", "ana@example.com", "hunter22"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, "Other", "ANA@example.com", "hunter23"); !errors.Is(err, storage.ErrDuplicateEmail) {
		t.Errorf("duplicate email: err = %v", err)
	}
}
