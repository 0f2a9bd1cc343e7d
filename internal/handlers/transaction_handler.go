package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "moneybook/internal/errors"
	"moneybook/internal/ledger"
	"moneybook/internal/models"
	"moneybook/internal/services"
)

// TransactionHandler handles transaction endpoints.
type TransactionHandler struct {
	service services.LedgerServicer
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(service services.LedgerServicer) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// TransactionRequest is the payload for creating or replacing a transaction.
type TransactionRequest struct {
	Date         string                 `json:"date" binding:"omitempty,datetime=2006-01-02" example:"2026-08-30"`
	Kind         models.TransactionKind `json:"kind" binding:"required,transaction_kind" example:"expense"`
	Category     string                 `json:"category" binding:"omitempty,max=50" example:"餐饮"`
	Description  string                 `json:"description" binding:"omitempty,max=200" example:"lunch"`
	Amount       int64                  `json:"amount" binding:"required,gt=0" example:"2500"`
	Currency     string                 `json:"currency" binding:"required,iso4217" example:"CNY"`
	Account      string                 `json:"account" binding:"required,min=1,max=100" example:"招商银行"`
	ToAccount    string                 `json:"to_account" binding:"omitempty,max=100"`
	ExchangeRate float64                `json:"exchange_rate" binding:"omitempty,gt=0" example:"1.0"`
	DebtName     string                 `json:"debt_name" binding:"omitempty,max=100"`
	Notes        string                 `json:"notes" binding:"omitempty,max=500"`
}

func (r *TransactionRequest) toModel() (models.Transaction, error) {
	date, err := parseDate(r.Date)
	if err != nil {
		return models.Transaction{}, err
	}
	return models.Transaction{
		Date:         date,
		Kind:         r.Kind,
		Category:     r.Category,
		Description:  r.Description,
		Amount:       r.Amount,
		Currency:     r.Currency,
		Account:      r.Account,
		ToAccount:    r.ToAccount,
		ExchangeRate: r.ExchangeRate,
		DebtName:     r.DebtName,
		Notes:        r.Notes,
	}, nil
}

// Create godoc
// @Summary Record a transaction
// @Description Appends an income, expense, or transfer to the ledger and applies its balance effects
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param transaction body TransactionRequest true "Transaction details"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /transactions [post]
func (h *TransactionHandler) Create(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := req.toModel()
	if err != nil {
		respondWithError(c, err)
		return
	}

	created, err := h.service.AddTransaction(username, transaction)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// List godoc
// @Summary List transactions
// @Description Returns the transaction log, optionally filtered by kind, category, account, or date range
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param kind query string false "Transaction kind" Enums(income, expense, transfer)
// @Param category query string false "Category"
// @Param account query string false "Account name (matches source or destination)"
// @Param from query string false "Earliest date (YYYY-MM-DD)"
// @Param to query string false "Latest date (YYYY-MM-DD)"
// @Success 200 {array} models.Transaction
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	filter, err := buildTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactions, err := h.service.ListTransactions(username, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"count":        len(transactions),
	})
}

// Update godoc
// @Summary Replace a transaction
// @Description Reverses the original transaction's effects and applies the replacement atomically
// @Tags transactions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Param transaction body TransactionRequest true "Replacement transaction"
// @Success 200 {object} models.Transaction
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /transactions/{id} [put]
func (h *TransactionHandler) Update(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID := c.Param("id")

	var req TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := req.toModel()
	if err != nil {
		respondWithError(c, err)
		return
	}

	updated, err := h.service.EditTransaction(username, transactionID, transaction)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

// Delete godoc
// @Summary Delete a transaction
// @Description Removes a transaction from the log and reverses its balance, debt, and budget effects
// @Tags transactions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transaction ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.service.DeleteTransaction(username, c.Param("id")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transaction deleted successfully"})
}

// buildTransactionFilter parses the shared list/statistics query parameters.
func buildTransactionFilter(c *gin.Context) (ledger.TransactionFilter, error) {
	filter := ledger.TransactionFilter{
		Category: c.Query("category"),
		Account:  c.Query("account"),
	}

	if kind := c.Query("kind"); kind != "" {
		k := models.TransactionKind(kind)
		switch k {
		case models.KindIncome, models.KindExpense, models.KindTransfer:
			filter.Kind = &k
		default:
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "kind must be income, expense, or transfer")
		}
	}

	if from := c.Query("from"); from != "" {
		date, err := parseDate(from)
		if err != nil {
			return filter, err
		}
		filter.FromDate = &date
	}

	if to := c.Query("to"); to != "" {
		date, err := parseDate(to)
		if err != nil {
			return filter, err
		}
		filter.ToDate = &date
	}

	return filter, nil
}
