package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "moneybook/internal/errors"
	"moneybook/internal/services"
)

// BudgetHandler handles budget endpoints. Budgets are addressed by category
// plus an optional month; a budget without a month applies to the whole
// transaction history.
type BudgetHandler struct {
	service services.LedgerServicer
}

// NewBudgetHandler creates a new budget handler.
func NewBudgetHandler(service services.LedgerServicer) *BudgetHandler {
	return &BudgetHandler{service: service}
}

// BudgetRequest is the payload for setting a budget.
type BudgetRequest struct {
	Category string `json:"category" binding:"required,min=1,max=50" example:"餐饮"`
	Month    string `json:"month" binding:"omitempty,budget_month" example:"2026-08"`
	Amount   int64  `json:"amount" binding:"required,gt=0" example:"200000"`
	Currency string `json:"currency" binding:"required,iso4217" example:"CNY"`
}

// BudgetUpdateRequest is the payload for editing a budget. The budget is
// addressed by the category and month query parameters.
type BudgetUpdateRequest struct {
	Amount   *int64 `json:"amount" binding:"omitempty,gt=0"`
	Currency string `json:"currency" binding:"omitempty,iso4217"`
}

// Create godoc
// @Summary Set a budget
// @Description Creates a spending budget for a category, optionally scoped to a single month
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param budget body BudgetRequest true "Budget details"
// @Success 201 {object} services.BudgetReport
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /budgets [post]
func (h *BudgetHandler) Create(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req BudgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	report, err := h.service.AddBudget(username, req.Category, req.Month, req.Amount, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, report)
}

// List godoc
// @Summary List budgets
// @Description Recomputes usage from the transaction log and returns every budget with its status
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} services.BudgetReport
// @Failure 401 {object} map[string]interface{}
// @Router /budgets [get]
func (h *BudgetHandler) List(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	reports, err := h.service.RecomputeBudgets(username)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"budgets": reports,
		"count":   len(reports),
	})
}

// Update godoc
// @Summary Edit a budget
// @Description Updates the amount or currency of the budget identified by the category and month query parameters
// @Tags budgets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param category query string true "Budget category"
// @Param month query string false "Budget month (YYYY-MM)"
// @Param budget body BudgetUpdateRequest true "Fields to update"
// @Success 200 {object} services.BudgetReport
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /budgets [put]
func (h *BudgetHandler) Update(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	category := c.Query("category")
	if category == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "category query parameter is required"))
		return
	}

	var req BudgetUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	report, err := h.service.EditBudget(username, category, c.Query("month"), req.Amount, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Delete godoc
// @Summary Delete a budget
// @Description Removes the budget identified by the category and month query parameters
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Param category query string true "Budget category"
// @Param month query string false "Budget month (YYYY-MM)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /budgets [delete]
func (h *BudgetHandler) Delete(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	category := c.Query("category")
	if category == "" {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "category query parameter is required"))
		return
	}

	if err := h.service.DeleteBudget(username, category, c.Query("month")); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Budget deleted successfully"})
}

// Recompute godoc
// @Summary Recompute budget usage
// @Description Rebuilds every budget's used amount from the transaction log and persists the result
// @Tags budgets
// @Produce json
// @Security BearerAuth
// @Success 200 {array} services.BudgetReport
// @Failure 401 {object} map[string]interface{}
// @Router /budgets/recompute [post]
func (h *BudgetHandler) Recompute(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	reports, err := h.service.RecomputeBudgets(username)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"budgets": reports,
		"count":   len(reports),
	})
}
