package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/harborbank/account-facade/internal/models"
)

const pgUniqueViolation = "23505"

// PostgresStore implements the Store contract against a Postgres-backed
// account tier. Each method is a single statement; there is deliberately no
// multi-statement transaction here — the facade owns cross-call ordering.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateAccount(ctx context.Context, account *models.Account) error {
	query := `
		INSERT INTO accounts (account_id, holder_name, balance, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query,
		account.AccountID, account.HolderName, account.Balance, account.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return models.ErrAccountExists
		}
		return fmt.Errorf("%w: create account: %v", models.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	query := `
		SELECT account_id, holder_name, balance, created_at
		FROM accounts
		WHERE account_id = $1
	`
	var account models.Account
	err := s.db.QueryRowContext(ctx, query, accountID).Scan(
		&account.AccountID, &account.HolderName, &account.Balance, &account.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, models.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: get account: %v", models.ErrStoreUnavailable, err)
	}
	return &account, nil
}

func (s *PostgresStore) ListAccounts(ctx context.Context) ([]models.Account, error) {
	query := `
		SELECT account_id, holder_name, balance, created_at
		FROM accounts
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list accounts: %v", models.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	accounts := []models.Account{}
	for rows.Next() {
		var account models.Account
		if err := rows.Scan(&account.AccountID, &account.HolderName, &account.Balance, &account.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan account: %v", models.ErrStoreUnavailable, err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list accounts: %v", models.ErrStoreUnavailable, err)
	}
	return accounts, nil
}

func (s *PostgresStore) SetBalance(ctx context.Context, accountID string, balance decimal.Decimal) error {
	query := `UPDATE accounts SET balance = $2 WHERE account_id = $1`
	res, err := s.db.ExecContext(ctx, query, accountID, balance)
	if err != nil {
		return fmt.Errorf("%w: set balance: %v", models.ErrStoreUnavailable, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: set balance: %v", models.ErrStoreUnavailable, err)
	}
	if affected == 0 {
		return models.ErrAccountNotFound
	}
	return nil
}

func (s *PostgresStore) AppendTransaction(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO transactions
			(id, account_id, type, amount, resulting_balance, description,
			 source_account_id, destination_account_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.ExecContext(ctx, query,
		tx.ID, tx.AccountID, string(tx.Type), tx.Amount, tx.ResultingBalance,
		tx.Description, nullable(tx.SourceAccountID), nullable(tx.DestinationAccountID), tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: append transaction: %v", models.ErrStoreUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) ListTransactions(ctx context.Context, accountID string) ([]models.Transaction, error) {
	query := `
		SELECT id, account_id, type, amount, resulting_balance, description,
		       source_account_id, destination_account_id, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at
	`
	rows, err := s.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("%w: list transactions: %v", models.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		var tx models.Transaction
		var txType string
		var source, destination sql.NullString
		if err := rows.Scan(
			&tx.ID, &tx.AccountID, &txType, &tx.Amount, &tx.ResultingBalance,
			&tx.Description, &source, &destination, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan transaction: %v", models.ErrStoreUnavailable, err)
		}
		tx.Type = models.TransactionType(txType)
		if source.Valid {
			tx.SourceAccountID = source.String
		}
		if destination.Valid {
			tx.DestinationAccountID = destination.String
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: list transactions: %v", models.ErrStoreUnavailable, err)
	}
	return txs, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
