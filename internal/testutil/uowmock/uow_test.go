package uowmock

import (
	"context"
	"errors"
	"testing"

	"agrifin-backend/internal/domain/application"
	"agrifin-backend/internal/domain/uow"
	"agrifin-backend/internal/testutil/applicationmock"
	"agrifin-backend/internal/testutil/loanmock"
)

func TestUoW_WithinTx_Happy(t *testing.T) {
	ctx := context.Background()

	loans := &loanmock.Repo{}
	apps := &applicationmock.Repo{}
	repos := uow.Repos{Loans: loans, Applications: apps}

	innerCalled := false
	m := &UoW{
		WithinTxFn: func(gotCtx context.Context, fn func(r uow.Repos) error) error {
			if gotCtx != ctx {
				t.Fatalf("WithinTx: ctx mismatch")
			}
			return fn(repos)
		},
	}

	err := m.WithinTx(ctx, func(r uow.Repos) error {
		innerCalled = true
		if r.Loans != loans || r.Applications != apps {
			t.Fatalf("WithinTx: repos not forwarded correctly")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: unexpected err: %v", err)
	}
	if !innerCalled {
		t.Fatalf("WithinTx: inner fn not called")
	}
}

func TestUoW_WithinTx_PropagatesError(t *testing.T) {
	sentinel := errors.New("boom")
	m := &UoW{
		WithinTxFn: func(context.Context, func(uow.Repos) error) error { return sentinel },
	}
	if err := m.WithinTx(context.Background(), func(uow.Repos) error { return nil }); !errors.Is(err, sentinel) {
		t.Fatalf("WithinTx: want %v, got %v", sentinel, err)
	}
}

func TestUoW_Default_Unimplemented(t *testing.T) {
	ctx := context.Background()
	m := &UoW{}
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx default: want errUnimplemented, got %v", err)
	}
	err := m.WithinPendingApplicationTx(ctx, 1, func(uow.Repos, *application.Application) error { return nil })
	if !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinPendingApplicationTx default: want errUnimplemented, got %v", err)
	}
}

func TestPassthrough(t *testing.T) {
	ctx := context.Background()
	pending := &application.Application{ID: 7, Status: application.StatusPending}
	m := Passthrough(uow.Repos{}, pending)

	var got *application.Application
	if err := m.WithinPendingApplicationTx(ctx, 7, func(_ uow.Repos, a *application.Application) error {
		got = a
		return nil
	}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if got != pending {
		t.Fatalf("pending application not forwarded")
	}

	err := m.WithinPendingApplicationTx(ctx, 8, func(uow.Repos, *application.Application) error { return nil })
	if !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("want ErrNotFound for other id, got %v", err)
	}
}

func TestUoW_FluentSetters_And_Reset(t *testing.T) {
	m := New()
	m.WithWithinTx(func(context.Context, func(uow.Repos) error) error { return nil }).
		WithWithinPendingApplicationTx(func(context.Context, uint64, func(uow.Repos, *application.Application) error) error { return nil })

	if m.WithinTxFn == nil || m.WithinPendingApplicationTxFn == nil {
		t.Fatalf("fluent setters didn't assign funcs")
	}
	m.Reset()
	if m.WithinTxFn != nil || m.WithinPendingApplicationTxFn != nil {
		t.Fatalf("Reset should clear function fields")
	}
}
