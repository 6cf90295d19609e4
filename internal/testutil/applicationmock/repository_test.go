package applicationmock

import (
	"context"
	"errors"
	"testing"

	domain "agrifin-backend/internal/domain/application"
)

func TestRepo_Defaults(t *testing.T) {
	ctx := context.Background()
	m := &Repo{}

	if err := m.Create(ctx, &domain.Application{}); err != nil {
		t.Fatalf("Create default: want nil, got %v", err)
	}
	if err := m.CompleteReview(ctx, &domain.Application{}); err != nil {
		t.Fatalf("CompleteReview default: want nil, got %v", err)
	}
	if _, err := m.FindPendingByID(ctx, 1); !errors.Is(err, context.Canceled) {
		t.Fatalf("FindPendingByID default: want context.Canceled, got %v", err)
	}
	if _, err := m.ListByUser(ctx, 1, 50); !errors.Is(err, context.Canceled) {
		t.Fatalf("ListByUser default: want context.Canceled, got %v", err)
	}
	if _, err := m.ListByStatus(ctx, domain.StatusPending, 50); !errors.Is(err, context.Canceled) {
		t.Fatalf("ListByStatus default: want context.Canceled, got %v", err)
	}
	if _, err := m.CountByStatus(ctx, domain.StatusPending); !errors.Is(err, context.Canceled) {
		t.Fatalf("CountByStatus default: want context.Canceled, got %v", err)
	}
}

func TestRepo_ForwardsToFuncs(t *testing.T) {
	ctx := context.Background()
	called := 0
	m := &Repo{
		CreateFn: func(_ context.Context, a *domain.Application) error {
			called++
			a.ID = 42
			return nil
		},
		CountByStatusFn: func(_ context.Context, s domain.Status) (int64, error) {
			called++
			if s != domain.StatusApproved {
				t.Fatalf("status mismatch: %s", s)
			}
			return 3, nil
		},
	}

	a := &domain.Application{}
	if err := m.Create(ctx, a); err != nil || a.ID != 42 {
		t.Fatalf("Create: got id=%d err=%v", a.ID, err)
	}
	if n, _ := m.CountByStatus(ctx, domain.StatusApproved); n != 3 {
		t.Fatalf("CountByStatus: got %d", n)
	}
	if called != 2 {
		t.Fatalf("expected 2 calls, got %d", called)
	}
}
