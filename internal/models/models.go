package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a balance movement.
type TransactionType string

const (
	TransactionDeposit     TransactionType = "DEPOSIT"
	TransactionWithdrawal  TransactionType = "WITHDRAWAL"
	TransactionTransferIn  TransactionType = "TRANSFER_IN"
	TransactionTransferOut TransactionType = "TRANSFER_OUT"
)

// Account is the facade's transient copy of an account record. The backing
// store remains the system of record; the balance here is only as fresh as
// the last read or write that produced it.
type Account struct {
	AccountID  string          `json:"accountId"`
	HolderName string          `json:"holderName"`
	Balance    decimal.Decimal `json:"balance"`
	CreatedAt  time.Time       `json:"createdTimestamp"`
}

// Transaction is an append-only record of a single balance movement.
// ResultingBalance is the post-operation balance of the account the record
// belongs to. SourceAccountID and DestinationAccountID are set depending on
// the type: deposits carry only a destination, withdrawals only a source,
// transfer legs carry both.
type Transaction struct {
	ID                   string          `json:"id"`
	AccountID            string          `json:"accountId"`
	Type                 TransactionType `json:"type"`
	Amount               decimal.Decimal `json:"amount"`
	ResultingBalance     decimal.Decimal `json:"resultingBalance"`
	Description          string          `json:"description"`
	SourceAccountID      string          `json:"sourceAccountId,omitempty"`
	DestinationAccountID string          `json:"destinationAccountId,omitempty"`
	CreatedAt            time.Time       `json:"createdTimestamp"`
}
