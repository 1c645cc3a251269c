package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tmanorigins/tman-server/internal/domain"
	"github.com/tmanorigins/tman-server/internal/store"
)

func makeTestAdmin(id, email string) *domain.Admin {
	a := &domain.Admin{
		Record:       domain.Record{ID: id},
		Email:        email,
		PasswordHash: "hash-" + id,
	}
	a.InitTimestamps()
	return a
}

func TestCreateAndGetAdmin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateAdmin(ctx, makeTestAdmin("adm-1", "Owner@Example.com")); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}

	got, err := s.GetAdmin(ctx, "adm-1")
	if err != nil {
		t.Fatalf("GetAdmin: %v", err)
	}
	if got.PasswordHash != "hash-adm-1" {
		t.Errorf("PasswordHash: got %q", got.PasswordHash)
	}

	byEmail, err := s.GetAdminByEmail(ctx, "owner@example.com")
	if err != nil {
		t.Fatalf("GetAdminByEmail: %v", err)
	}
	if byEmail.ID != "adm-1" {
		t.Errorf("ID: got %q", byEmail.ID)
	}

	if _, err := s.GetAdminByEmail(ctx, "nobody@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateAdmin_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateAdmin(ctx, makeTestAdmin("adm-1", "owner@example.com")); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	err := s.CreateAdmin(ctx, makeTestAdmin("adm-2", "OWNER@example.com"))
	if !errors.Is(err, store.ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUpdateAdmin(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := makeTestAdmin("adm-1", "owner@example.com")
	if err := s.CreateAdmin(ctx, a); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}

	a.PasswordHash = "new-hash"
	a.Touch()
	if err := s.UpdateAdmin(ctx, a); err != nil {
		t.Fatalf("UpdateAdmin: %v", err)
	}

	got, err := s.GetAdmin(ctx, "adm-1")
	if err != nil {
		t.Fatalf("GetAdmin: %v", err)
	}
	if got.PasswordHash != "new-hash" {
		t.Errorf("PasswordHash: got %q", got.PasswordHash)
	}

	if err := s.UpdateAdmin(ctx, makeTestAdmin("missing", "x@example.com")); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPasswordReset_ConsumeOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateAdmin(ctx, makeTestAdmin("adm-1", "owner@example.com")); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}

	now := time.Now().UTC()
	reset := &domain.PasswordReset{
		TokenHash: "abc123",
		AdminID:   "adm-1",
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
	if err := s.CreatePasswordReset(ctx, reset); err != nil {
		t.Fatalf("CreatePasswordReset: %v", err)
	}

	got, err := s.ConsumePasswordReset(ctx, "abc123")
	if err != nil {
		t.Fatalf("ConsumePasswordReset: %v", err)
	}
	if got.AdminID != "adm-1" || got.IsExpired(now) {
		t.Errorf("unexpected reset: %+v", got)
	}

	if _, err := s.ConsumePasswordReset(ctx, "abc123"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on reuse, got %v", err)
	}
}

func TestDeleteExpiredPasswordResets(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateAdmin(ctx, makeTestAdmin("adm-1", "owner@example.com")); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}

	now := time.Now().UTC()
	for hash, expires := range map[string]time.Time{
		"expired": now.Add(-time.Minute),
		"valid":   now.Add(time.Hour),
	} {
		err := s.CreatePasswordReset(ctx, &domain.PasswordReset{
			TokenHash: hash, AdminID: "adm-1", ExpiresAt: expires, CreatedAt: now,
		})
		if err != nil {
			t.Fatalf("CreatePasswordReset %s: %v", hash, err)
		}
	}

	n, err := s.DeleteExpiredPasswordResets(ctx, now)
	if err != nil {
		t.Fatalf("DeleteExpiredPasswordResets: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted, got %d", n)
	}
	if _, err := s.ConsumePasswordReset(ctx, "valid"); err != nil {
		t.Errorf("valid token removed: %v", err)
	}
}
