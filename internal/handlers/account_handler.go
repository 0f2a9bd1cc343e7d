package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	apperrors "moneybook/internal/errors"
	"moneybook/internal/services"
)

// AccountHandler handles bank account endpoints.
type AccountHandler struct {
	service services.LedgerServicer
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(service services.LedgerServicer) *AccountHandler {
	return &AccountHandler{service: service}
}

// AccountRequest is the payload for registering a bank account.
type AccountRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=100" example:"招商银行"`
	Currency       string `json:"currency" binding:"required,iso4217" example:"CNY"`
	InitialBalance int64  `json:"initial_balance" binding:"omitempty,gte=0" example:"100000"`
}

// BalanceRequest is the payload for a direct balance adjustment.
type BalanceRequest struct {
	Balance *int64 `json:"balance" binding:"required" example:"250000"`
}

// AccountResponse is a bank account together with its name.
type AccountResponse struct {
	Name     string `json:"name"`
	Balance  int64  `json:"balance"`
	Currency string `json:"currency"`
}

// Create godoc
// @Summary Register a bank account
// @Description Adds a tracked bank account with an optional opening balance
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param account body AccountRequest true "Account details"
// @Success 201 {object} AccountResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /accounts [post]
func (h *AccountHandler) Create(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.service.AddBankAccount(username, req.Name, req.Currency, req.InitialBalance)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, AccountResponse{
		Name:     req.Name,
		Balance:  account.Balance,
		Currency: account.Currency,
	})
}

// List godoc
// @Summary List bank accounts
// @Description Returns all tracked bank accounts sorted by name
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} AccountResponse
// @Failure 401 {object} map[string]interface{}
// @Router /accounts [get]
func (h *AccountHandler) List(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	state, err := h.service.GetLedger(username)
	if err != nil {
		respondWithError(c, err)
		return
	}

	accounts := make([]AccountResponse, 0, len(state.BankAccounts))
	for name, account := range state.BankAccounts {
		accounts = append(accounts, AccountResponse{
			Name:     name,
			Balance:  account.Balance,
			Currency: account.Currency,
		})
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })

	c.JSON(http.StatusOK, gin.H{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// UpdateBalance godoc
// @Summary Adjust an account balance
// @Description Sets a bank account's balance directly without recording a transaction
// @Tags accounts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "Account name"
// @Param balance body BalanceRequest true "New balance in minor units"
// @Success 200 {object} AccountResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /accounts/{name}/balance [put]
func (h *AccountHandler) UpdateBalance(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	name := c.Param("name")

	var req BalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	account, err := h.service.AdjustBankAccountBalance(username, name, *req.Balance)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, AccountResponse{
		Name:     name,
		Balance:  account.Balance,
		Currency: account.Currency,
	})
}

// Delete godoc
// @Summary Delete a bank account
// @Description Removes a bank account; rejected while transactions still reference it
// @Tags accounts
// @Produce json
// @Security BearerAuth
// @Param name path string true "Account name"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /accounts/{name} [delete]
func (h *AccountHandler) Delete(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.service.DeleteBankAccount(username, c.Param("name")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
