package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "moneybook/internal/errors"
	"moneybook/internal/models"
	"moneybook/internal/services"
)

// DebtHandler handles debt and repayment endpoints.
type DebtHandler struct {
	service services.LedgerServicer
}

// NewDebtHandler creates a new debt handler.
func NewDebtHandler(service services.LedgerServicer) *DebtHandler {
	return &DebtHandler{service: service}
}

// DebtRequest is the payload for registering a debt.
type DebtRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=100" example:"房贷"`
	Total     int64  `json:"total" binding:"required,gt=0" example:"50000000"`
	Remaining *int64 `json:"remaining" binding:"omitempty,gte=0" example:"48000000"`
	Currency  string `json:"currency" binding:"required,iso4217" example:"CNY"`
}

// DebtUpdateRequest is the payload for editing a debt. Omitted fields keep
// their current values.
type DebtUpdateRequest struct {
	Total     *int64 `json:"total" binding:"omitempty,gt=0"`
	Remaining *int64 `json:"remaining" binding:"omitempty,gte=0"`
	Currency  string `json:"currency" binding:"omitempty,iso4217"`
}

// RepaymentRequest is the payload for recording a repayment against a debt.
type RepaymentRequest struct {
	Account string `json:"account" binding:"required,min=1,max=100" example:"招商银行"`
	Amount  int64  `json:"amount" binding:"required,gt=0" example:"300000"`
	Date    string `json:"date" binding:"omitempty,datetime=2006-01-02" example:"2026-08-30"`
	Notes   string `json:"notes" binding:"omitempty,max=500"`
}

// DebtResponse is a debt together with its name and repayment history.
type DebtResponse struct {
	Name       string                   `json:"name"`
	Total      int64                    `json:"total"`
	Remaining  int64                    `json:"remaining"`
	Status     models.DebtStatus        `json:"status"`
	Currency   string                   `json:"currency"`
	Repayments []models.RepaymentRecord `json:"repayments"`
}

func debtResponse(name string, debt *models.Debt) DebtResponse {
	repayments := debt.Repayments
	if repayments == nil {
		repayments = []models.RepaymentRecord{}
	}
	return DebtResponse{
		Name:       name,
		Total:      debt.Total,
		Remaining:  debt.Remaining,
		Status:     debt.Status,
		Currency:   debt.Currency,
		Repayments: repayments,
	}
}

// Create godoc
// @Summary Register a debt
// @Description Adds a debt with a total and remaining amount; remaining defaults to the total
// @Tags debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param debt body DebtRequest true "Debt details"
// @Success 201 {object} DebtResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /debts [post]
func (h *DebtHandler) Create(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req DebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	remaining := req.Total
	if req.Remaining != nil {
		remaining = *req.Remaining
	}

	debt, err := h.service.AddDebt(username, req.Name, req.Total, remaining, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, debtResponse(req.Name, debt))
}

// List godoc
// @Summary List debts
// @Description Returns all debts in the order they were registered
// @Tags debts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} DebtResponse
// @Failure 401 {object} map[string]interface{}
// @Router /debts [get]
func (h *DebtHandler) List(c *gin.Context) {
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

	debts := make([]DebtResponse, 0, len(state.Debts))
	for _, name := range state.DebtOrder {
		debt, ok := state.Debts[name]
		if !ok {
			continue
		}
		debts = append(debts, debtResponse(name, debt))
	}

	c.JSON(http.StatusOK, gin.H{
		"debts": debts,
		"count": len(debts),
	})
}

// Update godoc
// @Summary Edit a debt
// @Description Updates a debt's total, remaining amount, or currency; status is re-derived from the remaining amount
// @Tags debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "Debt name"
// @Param debt body DebtUpdateRequest true "Fields to update"
// @Success 200 {object} DebtResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /debts/{name} [put]
func (h *DebtHandler) Update(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	name := c.Param("name")

	var req DebtUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	debt, err := h.service.EditDebt(username, name, req.Total, req.Remaining, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, debtResponse(name, debt))
}

// Delete godoc
// @Summary Delete a debt
// @Description Removes a debt; a warning is returned when the debt still has an outstanding balance
// @Tags debts
// @Produce json
// @Security BearerAuth
// @Param name path string true "Debt name"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /debts/{name} [delete]
func (h *DebtHandler) Delete(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	deletion, err := h.service.DeleteDebt(username, c.Param("name"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	response := gin.H{"message": "Debt deleted successfully"}
	if deletion.Warning != "" {
		response["warning"] = deletion.Warning
	}
	c.JSON(http.StatusOK, response)
}

// CreateRepayment godoc
// @Summary Record a repayment
// @Description Records an expense transaction that pays down the named debt; payments beyond the remaining amount floor it at zero
// @Tags debts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param name path string true "Debt name"
// @Param repayment body RepaymentRequest true "Repayment details"
// @Success 201 {object} models.Transaction
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /debts/{name}/repayments [post]
func (h *DebtHandler) CreateRepayment(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	name := c.Param("name")

	var req RepaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transaction, err := h.service.RecordRepayment(username, name, req.Account, req.Amount, date, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, transaction)
}

// DeleteRepayment godoc
// @Summary Delete a repayment record
// @Description Removes a repayment record and restores the debt's remaining amount; the linked transaction is reversed as well
// @Tags debts
// @Produce json
// @Security BearerAuth
// @Param name path string true "Debt name"
// @Param recordID path string true "Repayment record ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /debts/{name}/repayments/{recordID} [delete]
func (h *DebtHandler) DeleteRepayment(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.service.DeleteRepaymentRecord(username, c.Param("name"), c.Param("recordID")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Repayment record deleted successfully"})
}
