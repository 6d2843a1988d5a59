package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/harborbank/account-facade/internal/middleware"
	"github.com/harborbank/account-facade/internal/models"
)

// AccountFacade defines the facade operations used by AccountHandler.
type AccountFacade interface {
	CreateAccount(ctx context.Context, accountID, holderName string, initialBalance decimal.Decimal) (*models.Account, error)
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
	ListAccounts(ctx context.Context) ([]models.Account, error)
	Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*models.Account, error)
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal) (*models.Account, error)
	Transfer(ctx context.Context, sourceID, destinationID string, amount decimal.Decimal) error
	GetTransactionHistory(ctx context.Context, accountID string) ([]models.Transaction, error)
}

// AccountHandler translates HTTP requests into facade calls and facade
// outcomes into structured responses. Only syntactic validation happens
// here; funds and existence checks belong to the facade.
type AccountHandler struct {
	facade AccountFacade
}

func NewAccountHandler(facade AccountFacade) *AccountHandler {
	return &AccountHandler{facade: facade}
}

// RegisterRoutes mounts the account API under /v1.
func (h *AccountHandler) RegisterRoutes(router gin.IRouter) {
	v1 := router.Group("/v1/accounts")
	{
		v1.POST("", h.CreateAccount)
		v1.GET("", h.ListAccounts)
		v1.GET("/:accountId", h.GetAccount)
		v1.POST("/:accountId/deposit", h.Deposit)
		v1.POST("/:accountId/withdraw", h.Withdraw)
		v1.POST("/:accountId/transfer", h.Transfer)
		v1.GET("/:accountId/transactions", h.GetTransactionHistory)
	}
}

type CreateAccountRequest struct {
	AccountID      string          `json:"accountId" validate:"required"`
	HolderName     string          `json:"holderName" validate:"required"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type TransferRequest struct {
	DestinationAccountID string          `json:"destinationAccountId" validate:"required"`
	Amount               decimal.Decimal `json:"amount"`
}

type TransferResponse struct {
	Success              bool            `json:"success"`
	SourceAccountID      string          `json:"sourceAccountId"`
	DestinationAccountID string          `json:"destinationAccountId"`
	Amount               decimal.Decimal `json:"amount"`
}

type ListAccountsResponse struct {
	Accounts []models.Account `json:"accounts"`
}

type ListTransactionsResponse struct {
	Transactions []models.Transaction `json:"transactions"`
}

func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, models.KindInvalidArgument, "Invalid request body", nil)
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}

	account, err := h.facade.CreateAccount(c.Request.Context(), req.AccountID, req.HolderName, req.InitialBalance)
	if err != nil {
		respondFacadeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

func (h *AccountHandler) GetAccount(c *gin.Context) {
	account, err := h.facade.GetAccount(c.Request.Context(), c.Param("accountId"))
	if err != nil {
		respondFacadeError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.facade.ListAccounts(c.Request.Context())
	if err != nil {
		respondFacadeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListAccountsResponse{Accounts: accounts})
}

func (h *AccountHandler) Deposit(c *gin.Context) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, models.KindInvalidArgument, "Invalid request body", nil)
		return
	}
	if !req.Amount.IsPositive() {
		middleware.RespondWithError(c, http.StatusBadRequest, models.KindInvalidArgument, "Amount must be positive", nil)
		return
	}

	account, err := h.facade.Deposit(c.Request.Context(), c.Param("accountId"), req.Amount)
	if err != nil {
		respondFacadeError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) Withdraw(c *gin.Context) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, models.KindInvalidArgument, "Invalid request body", nil)
		return
	}
	if !req.Amount.IsPositive() {
		middleware.RespondWithError(c, http.StatusBadRequest, models.KindInvalidArgument, "Amount must be positive", nil)
		return
	}

	account, err := h.facade.Withdraw(c.Request.Context(), c.Param("accountId"), req.Amount)
	if err != nil {
		respondFacadeError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) Transfer(c *gin.Context) {
	sourceID := c.Param("accountId")

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.RespondWithError(c, http.StatusBadRequest, models.KindInvalidArgument, "Invalid request body", nil)
		return
	}
	if validationErrors := middleware.ValidateRequest(req); validationErrors != nil {
		middleware.RespondWithValidationError(c, validationErrors)
		return
	}
	if !req.Amount.IsPositive() {
		middleware.RespondWithError(c, http.StatusBadRequest, models.KindInvalidArgument, "Amount must be positive", nil)
		return
	}

	if err := h.facade.Transfer(c.Request.Context(), sourceID, req.DestinationAccountID, req.Amount); err != nil {
		respondFacadeError(c, err)
		return
	}
	c.JSON(http.StatusOK, TransferResponse{
		Success:              true,
		SourceAccountID:      sourceID,
		DestinationAccountID: req.DestinationAccountID,
		Amount:               req.Amount,
	})
}

func (h *AccountHandler) GetTransactionHistory(c *gin.Context) {
	transactions, err := h.facade.GetTransactionHistory(c.Request.Context(), c.Param("accountId"))
	if err != nil {
		respondFacadeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ListTransactionsResponse{Transactions: transactions})
}

// respondFacadeError maps a facade error to a status code and a structured
// payload carrying the machine-readable kind plus any error-specific fields.
func respondFacadeError(c *gin.Context, err error) {
	var insufficient *models.InsufficientFundsError
	var partial *models.PartialTransferError

	switch {
	case errors.As(err, &partial):
		middleware.RespondWithError(c, http.StatusInternalServerError, models.KindPartialTransfer,
			"Transfer partially failed: source debited, destination not credited", map[string]any{
				"sourceAccountId":      partial.SourceAccountID,
				"destinationAccountId": partial.DestinationAccountID,
				"amount":               partial.Amount,
			})
	case errors.As(err, &insufficient):
		middleware.RespondWithError(c, http.StatusUnprocessableEntity, models.KindInsufficientFunds,
			"Insufficient funds", map[string]any{
				"requestedAmount":  insufficient.Requested,
				"availableBalance": insufficient.Available,
			})
	case errors.Is(err, models.ErrInvalidArgument):
		middleware.RespondWithError(c, http.StatusBadRequest, models.KindInvalidArgument, err.Error(), nil)
	case errors.Is(err, models.ErrAccountNotFound):
		middleware.RespondWithError(c, http.StatusNotFound, models.KindNotFound, "Account not found", nil)
	case errors.Is(err, models.ErrAccountExists):
		middleware.RespondWithError(c, http.StatusConflict, models.KindAlreadyExists, "Account already exists", nil)
	case errors.Is(err, models.ErrStoreUnavailable):
		middleware.RespondWithError(c, http.StatusBadGateway, models.KindUpstreamUnavailable,
			"Account store unavailable", nil)
	default:
		middleware.RespondWithError(c, http.StatusInternalServerError, models.KindInternal,
			"Internal server error", nil)
	}
}
