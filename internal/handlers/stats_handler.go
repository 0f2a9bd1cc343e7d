package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"moneybook/internal/services"
)

// StatsHandler handles statistics and summary endpoints.
type StatsHandler struct {
	service services.LedgerServicer
}

// NewStatsHandler creates a new statistics handler.
func NewStatsHandler(service services.LedgerServicer) *StatsHandler {
	return &StatsHandler{service: service}
}

// Statistics godoc
// @Summary Per-currency income and expense totals
// @Description Sums income and expenses per currency over the (optionally filtered) transaction log; transfers are excluded
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Param kind query string false "Transaction kind" Enums(income, expense, transfer)
// @Param category query string false "Category"
// @Param account query string false "Account name"
// @Param from query string false "Earliest date (YYYY-MM-DD)"
// @Param to query string false "Latest date (YYYY-MM-DD)"
// @Success 200 {object} map[string]ledger.CurrencyStats
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /statistics [get]
func (h *StatsHandler) Statistics(c *gin.Context) {
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

	stats, err := h.service.GetCurrencyStatistics(username, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"statistics": stats})
}

// Summary godoc
// @Summary Net worth summary
// @Description Returns per-currency assets, outstanding debt, and net worth
// @Tags statistics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ledger.Summary
// @Failure 401 {object} map[string]interface{}
// @Router /summary [get]
func (h *StatsHandler) Summary(c *gin.Context) {
	username, err := getUsername(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.service.GetSummary(username)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
