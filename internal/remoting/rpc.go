package remoting

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/rpc"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harborbank/account-facade/internal/models"
)

// ServiceName is the name the RPC service registers under; clients address
// methods as "AccountRegistry.<Method>".
const ServiceName = "AccountRegistry"

// RemoteError is the wire form of a typed facade failure. net/rpc flattens
// errors to strings, so business failures travel inside the reply instead,
// carrying the kind and its fields for the client to reconstruct.
type RemoteError struct {
	Kind                 string
	Message              string
	RequestedAmount      decimal.Decimal
	AvailableBalance     decimal.Decimal
	SourceAccountID      string
	DestinationAccountID string
	Amount               decimal.Decimal
}

// remoteError converts err into its wire form, or nil for a nil error.
func remoteError(err error) *RemoteError {
	if err == nil {
		return nil
	}
	re := &RemoteError{Kind: models.ErrorKind(err), Message: err.Error()}
	var insufficient *models.InsufficientFundsError
	if errors.As(err, &insufficient) {
		re.RequestedAmount = insufficient.Requested
		re.AvailableBalance = insufficient.Available
	}
	var partial *models.PartialTransferError
	if errors.As(err, &partial) {
		re.SourceAccountID = partial.SourceAccountID
		re.DestinationAccountID = partial.DestinationAccountID
		re.Amount = partial.Amount
	}
	return re
}

// Err reconstructs the typed error on the client side.
func (e *RemoteError) Err() error {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case models.KindInsufficientFunds:
		return &models.InsufficientFundsError{Requested: e.RequestedAmount, Available: e.AvailableBalance}
	case models.KindPartialTransfer:
		return &models.PartialTransferError{
			SourceAccountID:      e.SourceAccountID,
			DestinationAccountID: e.DestinationAccountID,
			Amount:               e.Amount,
			Cause:                errors.New(e.Message),
		}
	case models.KindInvalidArgument:
		return sentinel(models.ErrInvalidArgument, e.Message)
	case models.KindNotFound:
		return sentinel(models.ErrAccountNotFound, e.Message)
	case models.KindAlreadyExists:
		return sentinel(models.ErrAccountExists, e.Message)
	case models.KindUpstreamUnavailable:
		return sentinel(models.ErrStoreUnavailable, e.Message)
	default:
		return errors.New(e.Message)
	}
}

// sentinel rebuilds a sentinel-kind error so errors.Is keeps working while
// the server-side detail (which argument, which account) survives the wire.
func sentinel(base error, message string) error {
	detail := strings.TrimPrefix(message, base.Error())
	detail = strings.TrimPrefix(detail, ": ")
	if detail == "" {
		return base
	}
	return fmt.Errorf("%w: %s", base, detail)
}

type LookupArgs struct {
	AccountID string
}

type LookupReply struct {
	Found bool
	Err   *RemoteError
}

type CreateAccountArgs struct {
	AccountID      string
	HolderName     string
	InitialBalance decimal.Decimal
}

type CreateAccountReply struct {
	Err *RemoteError
}

type AccountArgs struct {
	AccountID string
}

type BalanceReply struct {
	Balance decimal.Decimal
	Err     *RemoteError
}

type HolderNameReply struct {
	HolderName string
	Err        *RemoteError
}

type CreatedAtReply struct {
	CreatedAt time.Time
	Err       *RemoteError
}

type AmountArgs struct {
	AccountID string
	Amount    decimal.Decimal
}

type TransferArgs struct {
	SourceAccountID      string
	DestinationAccountID string
	Amount               decimal.Decimal
}

type TransferReply struct {
	Success bool
	Err     *RemoteError
}

type HistoryReply struct {
	Transactions []models.Transaction
	Err          *RemoteError
}

// Service adapts the registry to net/rpc. Business failures are soft: the
// call itself succeeds and the reply carries a RemoteError, so typed error
// information survives the wire.
type Service struct {
	registry *Registry
	timeout  time.Duration
}

// NewService wraps registry; timeout bounds every store round trip made on
// behalf of one RPC call. A zero timeout falls back to 10 seconds.
func NewService(registry *Registry, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Service{registry: registry, timeout: timeout}
}

func (s *Service) callCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

func (s *Service) Lookup(args *LookupArgs, reply *LookupReply) error {
	ctx, cancel := s.callCtx()
	defer cancel()
	_, found, err := s.registry.Lookup(ctx, args.AccountID)
	reply.Found = found
	reply.Err = remoteError(err)
	return nil
}

func (s *Service) CreateAccount(args *CreateAccountArgs, reply *CreateAccountReply) error {
	ctx, cancel := s.callCtx()
	defer cancel()
	_, err := s.registry.CreateAccount(ctx, args.AccountID, args.HolderName, args.InitialBalance)
	reply.Err = remoteError(err)
	return nil
}

func (s *Service) Balance(args *AccountArgs, reply *BalanceReply) error {
	ctx, cancel := s.callCtx()
	defer cancel()
	balance, err := s.registry.handle(args.AccountID).Balance(ctx)
	reply.Balance = balance
	reply.Err = remoteError(err)
	return nil
}

func (s *Service) HolderName(args *AccountArgs, reply *HolderNameReply) error {
	ctx, cancel := s.callCtx()
	defer cancel()
	name, err := s.registry.handle(args.AccountID).HolderName(ctx)
	reply.HolderName = name
	reply.Err = remoteError(err)
	return nil
}

func (s *Service) CreatedAt(args *AccountArgs, reply *CreatedAtReply) error {
	ctx, cancel := s.callCtx()
	defer cancel()
	createdAt, err := s.registry.handle(args.AccountID).CreatedAt(ctx)
	reply.CreatedAt = createdAt
	reply.Err = remoteError(err)
	return nil
}

func (s *Service) Deposit(args *AmountArgs, reply *BalanceReply) error {
	ctx, cancel := s.callCtx()
	defer cancel()
	balance, err := s.registry.handle(args.AccountID).Deposit(ctx, args.Amount)
	reply.Balance = balance
	reply.Err = remoteError(err)
	return nil
}

func (s *Service) Withdraw(args *AmountArgs, reply *BalanceReply) error {
	ctx, cancel := s.callCtx()
	defer cancel()
	balance, err := s.registry.handle(args.AccountID).Withdraw(ctx, args.Amount)
	reply.Balance = balance
	reply.Err = remoteError(err)
	return nil
}

func (s *Service) Transfer(args *TransferArgs, reply *TransferReply) error {
	ctx, cancel := s.callCtx()
	defer cancel()
	source := s.registry.handle(args.SourceAccountID)
	destination := s.registry.handle(args.DestinationAccountID)
	err := source.TransferTo(ctx, destination, args.Amount)
	reply.Success = err == nil
	reply.Err = remoteError(err)
	return nil
}

func (s *Service) TransactionHistory(args *AccountArgs, reply *HistoryReply) error {
	ctx, cancel := s.callCtx()
	defer cancel()
	txs, err := s.registry.handle(args.AccountID).TransactionHistory(ctx)
	reply.Transactions = txs
	reply.Err = remoteError(err)
	return nil
}

// Serve registers svc and accepts connections on l until the listener is
// closed.
func Serve(l net.Listener, svc *Service) error {
	server := rpc.NewServer()
	if err := server.RegisterName(ServiceName, svc); err != nil {
		return err
	}
	for {
		conn, err := l.Accept()
		if err != nil {
			return err
		}
		go func() {
			defer conn.Close()
			server.ServeConn(conn)
		}()
	}
}

// ListenAndServe listens on addr and serves until the process exits. Accept
// errors after shutdown are logged, not fatal.
func ListenAndServe(addr string, svc *Service) (net.Listener, error) {
	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	go func() {
		if err := Serve(l, svc); err != nil {
			log.Printf("rpc server stopped: %v", err)
		}
	}()
	return l, nil
}
