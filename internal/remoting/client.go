package remoting

import (
	"net/rpc"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harborbank/account-facade/internal/models"
)

// Client is the caller side of the remote-object surface. It mirrors the
// registry: look up or create an account, then operate on the returned
// RemoteAccount stub.
type Client struct {
	rpc *rpc.Client
}

// Dial connects to an account facade's RPC listener.
func Dial(addr string) (*Client, error) {
	c, err := rpc.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Client{rpc: c}, nil
}

func (c *Client) Close() error { return c.rpc.Close() }

// Lookup returns a stub bound to the account, or found == false when no such
// account exists.
func (c *Client) Lookup(accountID string) (*RemoteAccount, bool, error) {
	var reply LookupReply
	if err := c.rpc.Call(ServiceName+".Lookup", &LookupArgs{AccountID: accountID}, &reply); err != nil {
		return nil, false, err
	}
	if err := reply.Err.Err(); err != nil {
		return nil, false, err
	}
	if !reply.Found {
		return nil, false, nil
	}
	return &RemoteAccount{client: c, accountID: accountID}, true, nil
}

// CreateAccount creates the account and returns a stub bound to it.
func (c *Client) CreateAccount(accountID, holderName string, initialBalance decimal.Decimal) (*RemoteAccount, error) {
	var reply CreateAccountReply
	args := &CreateAccountArgs{AccountID: accountID, HolderName: holderName, InitialBalance: initialBalance}
	if err := c.rpc.Call(ServiceName+".CreateAccount", args, &reply); err != nil {
		return nil, err
	}
	if err := reply.Err.Err(); err != nil {
		return nil, err
	}
	return &RemoteAccount{client: c, accountID: accountID}, nil
}

// RemoteAccount is the client-side stub of an account handle. Like the
// server-side handle it holds no balance state; every call goes back to the
// facade.
type RemoteAccount struct {
	client    *Client
	accountID string
}

func (a *RemoteAccount) AccountID() string { return a.accountID }

func (a *RemoteAccount) Balance() (decimal.Decimal, error) {
	var reply BalanceReply
	if err := a.client.rpc.Call(ServiceName+".Balance", &AccountArgs{AccountID: a.accountID}, &reply); err != nil {
		return decimal.Zero, err
	}
	return reply.Balance, reply.Err.Err()
}

func (a *RemoteAccount) HolderName() (string, error) {
	var reply HolderNameReply
	if err := a.client.rpc.Call(ServiceName+".HolderName", &AccountArgs{AccountID: a.accountID}, &reply); err != nil {
		return "", err
	}
	return reply.HolderName, reply.Err.Err()
}

func (a *RemoteAccount) CreatedAt() (time.Time, error) {
	var reply CreatedAtReply
	if err := a.client.rpc.Call(ServiceName+".CreatedAt", &AccountArgs{AccountID: a.accountID}, &reply); err != nil {
		return time.Time{}, err
	}
	return reply.CreatedAt, reply.Err.Err()
}

// Deposit adds amount to the account and returns the new balance.
func (a *RemoteAccount) Deposit(amount decimal.Decimal) (decimal.Decimal, error) {
	var reply BalanceReply
	args := &AmountArgs{AccountID: a.accountID, Amount: amount}
	if err := a.client.rpc.Call(ServiceName+".Deposit", args, &reply); err != nil {
		return decimal.Zero, err
	}
	return reply.Balance, reply.Err.Err()
}

// Withdraw subtracts amount from the account and returns the new balance.
func (a *RemoteAccount) Withdraw(amount decimal.Decimal) (decimal.Decimal, error) {
	var reply BalanceReply
	args := &AmountArgs{AccountID: a.accountID, Amount: amount}
	if err := a.client.rpc.Call(ServiceName+".Withdraw", args, &reply); err != nil {
		return decimal.Zero, err
	}
	return reply.Balance, reply.Err.Err()
}

// TransferTo moves amount from this account to the peer stub's account.
func (a *RemoteAccount) TransferTo(destination *RemoteAccount, amount decimal.Decimal) error {
	if destination == nil {
		return models.ErrInvalidArgument
	}
	var reply TransferReply
	args := &TransferArgs{
		SourceAccountID:      a.accountID,
		DestinationAccountID: destination.accountID,
		Amount:               amount,
	}
	if err := a.client.rpc.Call(ServiceName+".Transfer", args, &reply); err != nil {
		return err
	}
	return reply.Err.Err()
}

func (a *RemoteAccount) TransactionHistory() ([]models.Transaction, error) {
	var reply HistoryReply
	if err := a.client.rpc.Call(ServiceName+".TransactionHistory", &AccountArgs{AccountID: a.accountID}, &reply); err != nil {
		return nil, err
	}
	return reply.Transactions, reply.Err.Err()
}
