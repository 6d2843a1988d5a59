package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/harborbank/account-facade/internal/models"
)

// HTTPStore reaches the database tier over its REST API. It is the default
// client in deployments where the backing tier is another service rather
// than a directly reachable database.
type HTTPStore struct {
	baseURL string
	client  *http.Client
}

// NewHTTPStore creates an HTTPStore for the database tier at baseURL.
// A zero timeout falls back to 10 seconds; calls are never unbounded.
func NewHTTPStore(baseURL string, timeout time.Duration) *HTTPStore {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPStore{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPStore) CreateAccount(ctx context.Context, account *models.Account) error {
	resp, err := s.do(ctx, http.MethodPost, "/api/accounts", account)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusConflict:
		return models.ErrAccountExists
	case resp.StatusCode >= 400:
		return s.unexpected("create account", resp)
	}
	return json.NewDecoder(resp.Body).Decode(account)
}

func (s *HTTPStore) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	resp, err := s.do(ctx, http.MethodGet, "/api/accounts/"+accountID, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, models.ErrAccountNotFound
	case resp.StatusCode >= 400:
		return nil, s.unexpected("get account", resp)
	}
	var account models.Account
	if err := json.NewDecoder(resp.Body).Decode(&account); err != nil {
		return nil, fmt.Errorf("%w: decode account: %v", models.ErrStoreUnavailable, err)
	}
	return &account, nil
}

func (s *HTTPStore) ListAccounts(ctx context.Context) ([]models.Account, error) {
	resp, err := s.do(ctx, http.MethodGet, "/api/accounts", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, s.unexpected("list accounts", resp)
	}
	var accounts []models.Account
	if err := json.NewDecoder(resp.Body).Decode(&accounts); err != nil {
		return nil, fmt.Errorf("%w: decode accounts: %v", models.ErrStoreUnavailable, err)
	}
	return accounts, nil
}

func (s *HTTPStore) SetBalance(ctx context.Context, accountID string, balance decimal.Decimal) error {
	body := map[string]decimal.Decimal{"balance": balance}
	resp, err := s.do(ctx, http.MethodPut, "/api/accounts/"+accountID+"/balance", body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return models.ErrAccountNotFound
	case resp.StatusCode >= 400:
		return s.unexpected("set balance", resp)
	}
	return nil
}

func (s *HTTPStore) AppendTransaction(ctx context.Context, tx *models.Transaction) error {
	resp, err := s.do(ctx, http.MethodPost, "/api/transactions", tx)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return s.unexpected("append transaction", resp)
	}
	return nil
}

func (s *HTTPStore) ListTransactions(ctx context.Context, accountID string) ([]models.Transaction, error) {
	resp, err := s.do(ctx, http.MethodGet, "/api/transactions/account/"+accountID, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, s.unexpected("list transactions", resp)
	}
	var txs []models.Transaction
	if err := json.NewDecoder(resp.Body).Decode(&txs); err != nil {
		return nil, fmt.Errorf("%w: decode transactions: %v", models.ErrStoreUnavailable, err)
	}
	return txs, nil
}

func (s *HTTPStore) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", models.ErrStoreUnavailable, method, path, err)
	}
	return resp, nil
}

func (s *HTTPStore) unexpected(op string, resp *http.Response) error {
	// Drain a little of the body for the log line; the caller only sees the kind.
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
	return fmt.Errorf("%w: %s returned %d: %s", models.ErrStoreUnavailable, op, resp.StatusCode, string(snippet))
}
