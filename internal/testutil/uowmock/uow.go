package uowmock

import (
	"context"
	"errors"

	"agrifin-backend/internal/domain/application"
	"agrifin-backend/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn                   func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinPendingApplicationTxFn func(ctx context.Context, applicationID uint64, fn func(r uow.Repos, a *application.Application) error) error
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinPendingApplicationTx(fn func(context.Context, uint64, func(uow.Repos, *application.Application) error) error) *UoW {
	m.WithinPendingApplicationTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

// Passthrough returns a UoW that runs fn directly against repos and hands it
// pending (or application.ErrNotFound when pending is nil).
func Passthrough(repos uow.Repos, pending *application.Application) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error { return fn(repos) },
		WithinPendingApplicationTxFn: func(_ context.Context, id uint64, fn func(uow.Repos, *application.Application) error) error {
			if pending == nil || pending.ID != id {
				return application.ErrNotFound
			}
			return fn(repos, pending)
		},
	}
}

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinPendingApplicationTx(ctx context.Context, applicationID uint64, fn func(r uow.Repos, a *application.Application) error) error {
	if m.WithinPendingApplicationTxFn != nil {
		return m.WithinPendingApplicationTxFn(ctx, applicationID, fn)
	}
	return errUnimplemented
}
