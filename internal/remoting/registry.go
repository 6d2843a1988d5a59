// Package remoting exposes the account facade as a remote-object surface:
// callers look up a per-account handle and invoke methods on it, instead of
// addressing resources by URL. Handles are stateless delegators — they hold
// only the account identifier and never cache balance state, so they cannot
// diverge from the facade's view.
package remoting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harborbank/account-facade/internal/models"
)

// Facade defines the facade operations the remote-object surface delegates to.
type Facade interface {
	CreateAccount(ctx context.Context, accountID, holderName string, initialBalance decimal.Decimal) (*models.Account, error)
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*models.Account, error)
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (*models.Account, error)
	Transfer(ctx context.Context, sourceID, destinationID string, amount decimal.Decimal) error
	GetTransactionHistory(ctx context.Context, accountID string) ([]models.Transaction, error)
}

// Registry hands out account handles.
type Registry struct {
	facade Facade
}

func NewRegistry(facade Facade) *Registry {
	return &Registry{facade: facade}
}

// Lookup returns a handle bound to the account identifier. A missing account
// is an absence signal (found == false), not an error; only a store failure
// is reported as an error.
func (r *Registry) Lookup(ctx context.Context, accountID string) (*Handle, bool, error) {
	_, err := r.facade.GetAccount(ctx, accountID)
	if errors.Is(err, models.ErrAccountNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return r.handle(accountID), true, nil
}

// CreateAccount creates the account and returns a handle bound to it.
func (r *Registry) CreateAccount(ctx context.Context, accountID, holderName string, initialBalance decimal.Decimal) (*Handle, error) {
	if _, err := r.facade.CreateAccount(ctx, accountID, holderName, initialBalance); err != nil {
		return nil, err
	}
	return r.handle(accountID), nil
}

func (r *Registry) handle(accountID string) *Handle {
	return &Handle{facade: r.facade, accountID: accountID}
}

// Handle is an object-like view of a single account. Every method delegates
// to the facade using the identifier captured at lookup time; in particular
// Balance re-queries on every call so repeated calls reflect the latest
// committed state.
type Handle struct {
	facade    Facade
	accountID string
}

func (h *Handle) AccountID() string { return h.accountID }

func (h *Handle) Balance(ctx context.Context) (decimal.Decimal, error) {
	account, err := h.facade.GetAccount(ctx, h.accountID)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

func (h *Handle) HolderName(ctx context.Context) (string, error) {
	account, err := h.facade.GetAccount(ctx, h.accountID)
	if err != nil {
		return "", err
	}
	return account.HolderName, nil
}

func (h *Handle) CreatedAt(ctx context.Context) (time.Time, error) {
	account, err := h.facade.GetAccount(ctx, h.accountID)
	if err != nil {
		return time.Time{}, err
	}
	return account.CreatedAt, nil
}

// Deposit adds amount to the account and returns the new balance.
func (h *Handle) Deposit(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: deposit amount must be positive", models.ErrInvalidArgument)
	}
	account, err := h.facade.Deposit(ctx, h.accountID, amount)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// Withdraw subtracts amount from the account and returns the new balance.
func (h *Handle) Withdraw(ctx context.Context, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: withdrawal amount must be positive", models.ErrInvalidArgument)
	}
	account, err := h.facade.Withdraw(ctx, h.accountID, amount)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// TransferTo moves amount from this account to the peer handle's account.
func (h *Handle) TransferTo(ctx context.Context, destination *Handle, amount decimal.Decimal) error {
	if destination == nil {
		return fmt.Errorf("%w: destination handle is required", models.ErrInvalidArgument)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: transfer amount must be positive", models.ErrInvalidArgument)
	}
	return h.facade.Transfer(ctx, h.accountID, destination.accountID, amount)
}

func (h *Handle) TransactionHistory(ctx context.Context) ([]models.Transaction, error) {
	return h.facade.GetTransactionHistory(ctx, h.accountID)
}
