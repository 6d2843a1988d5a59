package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Sentinel errors for the outcomes every interface has to distinguish.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrAccountNotFound  = errors.New("account not found")
	ErrAccountExists    = errors.New("account already exists")
	ErrStoreUnavailable = errors.New("account store unavailable")
)

// InsufficientFundsError reports an attempted overdraft. It carries the
// requested amount and the balance that was available at decision time so
// both interfaces can surface them verbatim.
type InsufficientFundsError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: requested %s, available %s",
		e.Requested.String(), e.Available.String())
}

// PartialTransferError reports a transfer whose source debit committed but
// whose destination credit did not. It is not retryable as a plain transfer;
// the funds need reconciliation or a compensating credit.
type PartialTransferError struct {
	SourceAccountID      string
	DestinationAccountID string
	Amount               decimal.Decimal
	Cause                error
}

func (e *PartialTransferError) Error() string {
	return fmt.Sprintf("partial transfer failure: %s debited %s but credit to %s failed: %v",
		e.SourceAccountID, e.Amount.String(), e.DestinationAccountID, e.Cause)
}

func (e *PartialTransferError) Unwrap() error { return e.Cause }

// Machine-readable error kinds used in response payloads on both surfaces.
const (
	KindInvalidArgument     = "INVALID_ARGUMENT"
	KindNotFound            = "NOT_FOUND"
	KindAlreadyExists       = "ALREADY_EXISTS"
	KindInsufficientFunds   = "INSUFFICIENT_FUNDS"
	KindUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	KindPartialTransfer     = "PARTIAL_TRANSFER_FAILURE"
	KindInternal            = "INTERNAL"
)

// ErrorKind classifies err into one of the Kind constants.
func ErrorKind(err error) string {
	var insufficient *InsufficientFundsError
	var partial *PartialTransferError
	switch {
	case errors.As(err, &partial):
		return KindPartialTransfer
	case errors.As(err, &insufficient):
		return KindInsufficientFunds
	case errors.Is(err, ErrInvalidArgument):
		return KindInvalidArgument
	case errors.Is(err, ErrAccountNotFound):
		return KindNotFound
	case errors.Is(err, ErrAccountExists):
		return KindAlreadyExists
	case errors.Is(err, ErrStoreUnavailable):
		return KindUpstreamUnavailable
	default:
		return KindInternal
	}
}
