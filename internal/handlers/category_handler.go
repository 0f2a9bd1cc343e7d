package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"moneybook/internal/models"
)

// CategoryHandler serves the suggested category and payment-method lists.
// These are suggestions for clients building entry forms; the ledger accepts
// any category string.
type CategoryHandler struct{}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{}
}

// List godoc
// @Summary Suggested categories and payment methods
// @Description Returns the suggested income and expense categories and the built-in untracked payment methods
// @Tags categories
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /categories [get]
func (h *CategoryHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"income_categories":  models.IncomeCategories,
		"expense_categories": models.ExpenseCategories,
		"payment_methods":    models.CashMethods,
	})
}
