// Package facade is the orchestration core of the service: the single choke
// point for every balance-affecting operation. It composes the account store
// and the cache layer, enforces funds and argument invariants, generates
// transaction records, and is the only component allowed to decide
// "insufficient funds" or "not found".
package facade

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harborbank/account-facade/internal/cache"
	"github.com/harborbank/account-facade/internal/models"
	"github.com/harborbank/account-facade/internal/store"
	"github.com/harborbank/account-facade/internal/utils"
)

// Facade orchestrates account operations over the store and cache. It is
// safe for concurrent use: mutations on the same account are serialized by a
// per-account lock, mutations on different accounts run in parallel.
type Facade struct {
	store    store.Store
	accounts cache.Cache[models.Account]
	lists    cache.Cache[[]models.Account]
	locks    *accountLocks
	listMu   sync.Mutex
}

func New(st store.Store, accounts cache.Cache[models.Account], lists cache.Cache[[]models.Account]) *Facade {
	return &Facade{
		store:    st,
		accounts: accounts,
		lists:    lists,
		locks:    newAccountLocks(),
	}
}

// CreateAccount creates a new account with the given identifier, holder name
// and initial balance. A duplicate identifier fails with ErrAccountExists; a
// malformed identifier or negative initial balance with ErrInvalidArgument.
func (f *Facade) CreateAccount(ctx context.Context, accountID, holderName string, initialBalance decimal.Decimal) (*models.Account, error) {
	if !utils.ValidAccountID(accountID) {
		return nil, fmt.Errorf("%w: malformed account id %q", models.ErrInvalidArgument, accountID)
	}
	if holderName == "" {
		return nil, fmt.Errorf("%w: holder name is required", models.ErrInvalidArgument)
	}
	if initialBalance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance must not be negative", models.ErrInvalidArgument)
	}

	unlock := f.locks.lock(accountID)
	defer unlock()

	account := &models.Account{
		AccountID:  accountID,
		HolderName: holderName,
		Balance:    initialBalance,
		CreatedAt:  time.Now().UTC(),
	}
	if err := f.store.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	log.Printf("created account %s for %s", accountID, holderName)

	f.accounts.Put(ctx, accountID, account)
	f.invalidateList(ctx)
	return account, nil
}

// GetAccount returns the account, consulting the cache before the store and
// filling the cache on a miss. The fill runs under the account's lock: a slow
// store read must not put a pre-write balance back into the cache after a
// mutation already invalidated it, or the next mutation would compute from
// the stale entry and lose the earlier write.
func (f *Facade) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	if account, ok := f.accounts.Get(ctx, accountID); ok {
		return account, nil
	}
	unlock := f.locks.lock(accountID)
	defer unlock()
	return f.fetchAccount(ctx, accountID)
}

// ListAccounts returns all accounts in store order. An empty store yields an
// empty slice, never an error. The fill holds listMu for the same reason
// GetAccount holds the account lock: the store read and the cache write must
// not straddle a mutation's invalidate.
func (f *Facade) ListAccounts(ctx context.Context) ([]models.Account, error) {
	if accounts, ok := f.lists.Get(ctx, cache.AllAccountsKey); ok {
		return *accounts, nil
	}
	f.listMu.Lock()
	defer f.listMu.Unlock()
	if accounts, ok := f.lists.Get(ctx, cache.AllAccountsKey); ok {
		return *accounts, nil
	}
	accounts, err := f.store.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}
	if accounts == nil {
		accounts = []models.Account{}
	}
	f.lists.Put(ctx, cache.AllAccountsKey, &accounts)
	return accounts, nil
}

// Deposit adds amount to the account's balance and records a DEPOSIT
// transaction. If recording fails after the balance write committed, the
// operation is reported as failed even though the balance change took
// effect; the backing store offers no way to tie the two calls together.
func (f *Facade) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*models.Account, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: deposit amount must be positive", models.ErrInvalidArgument)
	}
	unlock := f.locks.lock(accountID)
	defer unlock()

	account, err := f.fetchAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	newBalance := account.Balance.Add(amount)
	if err := f.store.SetBalance(ctx, accountID, newBalance); err != nil {
		return nil, err
	}
	recordErr := f.store.AppendTransaction(ctx, &models.Transaction{
		ID:                   utils.GenerateID("tan"),
		AccountID:            accountID,
		Type:                 models.TransactionDeposit,
		Amount:               amount,
		ResultingBalance:     newBalance,
		Description:          "Deposit",
		DestinationAccountID: accountID,
		CreatedAt:            time.Now().UTC(),
	})
	f.invalidate(ctx, accountID)
	if recordErr != nil {
		return nil, fmt.Errorf("record deposit on %s: %w", accountID, recordErr)
	}
	log.Printf("deposited %s to account %s, new balance %s", amount, accountID, newBalance)

	account.Balance = newBalance
	return account, nil
}

// Withdraw subtracts amount from the account's balance and records a
// WITHDRAWAL transaction. An attempted overdraft fails with
// InsufficientFundsError and performs no mutation.
func (f *Facade) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (*models.Account, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: withdrawal amount must be positive", models.ErrInvalidArgument)
	}
	unlock := f.locks.lock(accountID)
	defer unlock()

	account, err := f.fetchAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.Balance.LessThan(amount) {
		return nil, &models.InsufficientFundsError{Requested: amount, Available: account.Balance}
	}
	newBalance := account.Balance.Sub(amount)
	if err := f.store.SetBalance(ctx, accountID, newBalance); err != nil {
		return nil, err
	}
	recordErr := f.store.AppendTransaction(ctx, &models.Transaction{
		ID:               utils.GenerateID("tan"),
		AccountID:        accountID,
		Type:             models.TransactionWithdrawal,
		Amount:           amount,
		ResultingBalance: newBalance,
		Description:      "Withdrawal",
		SourceAccountID:  accountID,
		CreatedAt:        time.Now().UTC(),
	})
	f.invalidate(ctx, accountID)
	if recordErr != nil {
		return nil, fmt.Errorf("record withdrawal on %s: %w", accountID, recordErr)
	}
	log.Printf("withdrew %s from account %s, new balance %s", amount, accountID, newBalance)

	account.Balance = newBalance
	return account, nil
}

// Transfer moves amount from the source account to the destination account,
// recording a TRANSFER_OUT leg on the source and a TRANSFER_IN leg on the
// destination. The two balance writes are separate store calls: the source
// debit is durable before the destination credit begins. If anything fails
// after the debit committed, the transfer is surfaced as a
// PartialTransferError rather than reported as success.
func (f *Facade) Transfer(ctx context.Context, sourceID, destinationID string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: transfer amount must be positive", models.ErrInvalidArgument)
	}
	if sourceID == destinationID {
		return fmt.Errorf("%w: source and destination accounts must differ", models.ErrInvalidArgument)
	}
	unlock := f.locks.lockPair(sourceID, destinationID)
	defer unlock()

	source, err := f.fetchAccount(ctx, sourceID)
	if err != nil {
		return err
	}
	destination, err := f.fetchAccount(ctx, destinationID)
	if err != nil {
		return err
	}
	if source.Balance.LessThan(amount) {
		return &models.InsufficientFundsError{Requested: amount, Available: source.Balance}
	}

	sourceBalance := source.Balance.Sub(amount)
	if err := f.store.SetBalance(ctx, sourceID, sourceBalance); err != nil {
		f.invalidate(ctx, sourceID)
		return err
	}
	// The debit is committed from here on; every failure below leaves funds
	// out of the source without a matching credit.
	now := time.Now().UTC()
	if err := f.store.AppendTransaction(ctx, &models.Transaction{
		ID:                   utils.GenerateID("tan"),
		AccountID:            sourceID,
		Type:                 models.TransactionTransferOut,
		Amount:               amount,
		ResultingBalance:     sourceBalance,
		Description:          "Transfer to account " + destinationID,
		SourceAccountID:      sourceID,
		DestinationAccountID: destinationID,
		CreatedAt:            now,
	}); err != nil {
		f.invalidate(ctx, sourceID, destinationID)
		return &models.PartialTransferError{
			SourceAccountID:      sourceID,
			DestinationAccountID: destinationID,
			Amount:               amount,
			Cause:                err,
		}
	}

	destinationBalance := destination.Balance.Add(amount)
	if err := f.store.SetBalance(ctx, destinationID, destinationBalance); err != nil {
		f.invalidate(ctx, sourceID, destinationID)
		return &models.PartialTransferError{
			SourceAccountID:      sourceID,
			DestinationAccountID: destinationID,
			Amount:               amount,
			Cause:                err,
		}
	}
	recordErr := f.store.AppendTransaction(ctx, &models.Transaction{
		ID:                   utils.GenerateID("tan"),
		AccountID:            destinationID,
		Type:                 models.TransactionTransferIn,
		Amount:               amount,
		ResultingBalance:     destinationBalance,
		Description:          "Transfer from account " + sourceID,
		SourceAccountID:      sourceID,
		DestinationAccountID: destinationID,
		CreatedAt:            now,
	})
	f.invalidate(ctx, sourceID, destinationID)
	if recordErr != nil {
		// Both balances moved; only the incoming record is missing. The
		// funds are consistent, so this is a failed operation rather than a
		// partial transfer.
		return fmt.Errorf("record transfer into %s: %w", destinationID, recordErr)
	}
	log.Printf("transferred %s from account %s to account %s", amount, sourceID, destinationID)
	return nil
}

// GetTransactionHistory returns the account's transactions in store order.
// An account with no transactions yields an empty slice; an unknown account
// fails with ErrAccountNotFound.
func (f *Facade) GetTransactionHistory(ctx context.Context, accountID string) ([]models.Transaction, error) {
	if _, err := f.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	txs, err := f.store.ListTransactions(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []models.Transaction{}
	}
	return txs, nil
}

// fetchAccount reads through the cache, filling it on a miss. The caller
// must hold the account's lock.
func (f *Facade) fetchAccount(ctx context.Context, accountID string) (*models.Account, error) {
	if account, ok := f.accounts.Get(ctx, accountID); ok {
		return account, nil
	}
	account, err := f.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	f.accounts.Put(ctx, accountID, account)
	return account, nil
}

// invalidate drops the given accounts and the all-accounts listing from the
// cache. Called after any write that may have changed a balance, before the
// operation returns, so no read within this process can observe a pre-write
// value.
func (f *Facade) invalidate(ctx context.Context, accountIDs ...string) {
	for _, id := range accountIDs {
		f.accounts.Invalidate(ctx, id)
	}
	f.invalidateList(ctx)
}

// invalidateList drops the all-accounts listing under listMu so it cannot
// interleave with a fill in ListAccounts.
func (f *Facade) invalidateList(ctx context.Context) {
	f.listMu.Lock()
	defer f.listMu.Unlock()
	f.lists.Invalidate(ctx, cache.AllAccountsKey)
}
