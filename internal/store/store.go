// Package store defines the data-access contract for the backing account
// tier and the clients that implement it. The store is the system of record;
// nothing here holds business logic.
package store

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/harborbank/account-facade/internal/models"
)

// Store is the contract the facade uses to reach the backing tier. Each call
// is a single request to the store; the store offers no transaction
// coordination across calls.
//
// Implementations report models.ErrAccountNotFound, models.ErrAccountExists
// and wrap transport failures in models.ErrStoreUnavailable.
type Store interface {
	CreateAccount(ctx context.Context, account *models.Account) error
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	SetBalance(ctx context.Context, accountID string, balance decimal.Decimal) error
	AppendTransaction(ctx context.Context, tx *models.Transaction) error
	ListTransactions(ctx context.Context, accountID string) ([]models.Transaction, error)
}
