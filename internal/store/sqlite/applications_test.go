package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tmanorigins/tman-server/internal/domain"
	"github.com/tmanorigins/tman-server/internal/store"
)

func makeTestApplication(id, name string) *domain.Application {
	return domain.NewApplication(id, name, name+"@example.com", "@"+name, "fitness")
}

func TestCreateAndGetApplication(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	app := makeTestApplication("app-1", "ada")
	if err := s.CreateApplication(ctx, app); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}

	got, err := s.GetApplication(ctx, "app-1")
	if err != nil {
		t.Fatalf("GetApplication: %v", err)
	}
	if got.Name != "ada" || got.Email != "ada@example.com" || got.Niche != "fitness" {
		t.Errorf("unexpected fields: %+v", got)
	}
	if got.Status != domain.ApplicationStatusNew {
		t.Errorf("Status: got %q, want new", got.Status)
	}
}

func TestCreateApplication_EmptyStatusDefaultsToNew(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	app := makeTestApplication("app-1", "ada")
	app.Status = ""
	if err := s.CreateApplication(ctx, app); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}

	got, err := s.GetApplication(ctx, "app-1")
	if err != nil {
		t.Fatalf("GetApplication: %v", err)
	}
	if got.Status != domain.ApplicationStatusNew {
		t.Errorf("Status: got %q, want new", got.Status)
	}
}

func TestListApplications_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i, id := range []string{"app-1", "app-2", "app-3"} {
		app := makeTestApplication(id, id)
		app.CreatedAt = base.Add(time.Duration(i) * time.Second)
		if err := s.CreateApplication(ctx, app); err != nil {
			t.Fatalf("CreateApplication %s: %v", id, err)
		}
	}

	apps, err := s.ListApplications(ctx)
	if err != nil {
		t.Fatalf("ListApplications: %v", err)
	}
	if len(apps) != 3 {
		t.Fatalf("expected 3 applications, got %d", len(apps))
	}
	if apps[0].ID != "app-3" || apps[2].ID != "app-1" {
		t.Errorf("order: got %s, %s, %s", apps[0].ID, apps[1].ID, apps[2].ID)
	}
}

func TestUpdateApplicationStatus_AnyTransition(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateApplication(ctx, makeTestApplication("app-1", "ada")); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}

	sequence := []domain.ApplicationStatus{
		domain.ApplicationStatusApproved,
		domain.ApplicationStatusNew,
		domain.ApplicationStatusRejected,
		domain.ApplicationStatusReviewing,
	}
	for _, status := range sequence {
		got, err := s.UpdateApplicationStatus(ctx, "app-1", status)
		if err != nil {
			t.Fatalf("UpdateApplicationStatus(%s): %v", status, err)
		}
		if got.Status != status {
			t.Errorf("Status: got %q, want %q", got.Status, status)
		}
	}
}

func TestUpdateApplicationStatus_Invalid(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateApplication(ctx, makeTestApplication("app-1", "ada")); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}

	_, err := s.UpdateApplicationStatus(ctx, "app-1", "archived")
	if !errors.Is(err, store.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	_, err = s.UpdateApplicationStatus(ctx, "missing", domain.ApplicationStatusApproved)
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteApplication(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateApplication(ctx, makeTestApplication("app-1", "ada")); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}
	if err := s.DeleteApplication(ctx, "app-1"); err != nil {
		t.Fatalf("DeleteApplication: %v", err)
	}
	if _, err := s.GetApplication(ctx, "app-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.DeleteApplication(ctx, "app-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
