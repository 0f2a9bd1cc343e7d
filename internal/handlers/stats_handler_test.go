package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"moneybook/internal/ledger"
	"moneybook/internal/models"
)

func setupStatsRouter(handler *StatsHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUsername("alice"))
	auth.GET("/statistics", handler.Statistics)
	auth.GET("/summary", handler.Summary)
	return r
}

func TestStatsHandler_Statistics(t *testing.T) {
	t.Run("returns per-currency totals", func(t *testing.T) {
		svc := &mockLedgerService{
			getCurrencyStatisticsFn: func(string, ledger.TransactionFilter) (map[string]ledger.CurrencyStats, error) {
				return map[string]ledger.CurrencyStats{
					"CNY": {Income: 500000, Expense: 20000, Balance: 480000},
				}, nil
			},
		}
		r := setupStatsRouter(NewStatsHandler(svc))

		rec := doRequest(r, "GET", "/statistics", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		stats := result["statistics"].(map[string]interface{})
		cny := stats["CNY"].(map[string]interface{})
		if cny["balance"].(float64) != 480000 {
			t.Errorf("expected balance 480000, got %v", cny["balance"])
		}
	})

	t.Run("passes filters through", func(t *testing.T) {
		var captured ledger.TransactionFilter
		svc := &mockLedgerService{
			getCurrencyStatisticsFn: func(_ string, filter ledger.TransactionFilter) (map[string]ledger.CurrencyStats, error) {
				captured = filter
				return map[string]ledger.CurrencyStats{}, nil
			},
		}
		r := setupStatsRouter(NewStatsHandler(svc))

		rec := doRequest(r, "GET", "/statistics?kind=income&account=招商银行", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if captured.Kind == nil || *captured.Kind != models.KindIncome || captured.Account != "招商银行" {
			t.Errorf("unexpected filter %+v", captured)
		}
	})

	t.Run("returns 400 on bad date", func(t *testing.T) {
		r := setupStatsRouter(NewStatsHandler(&mockLedgerService{}))

		rec := doRequest(r, "GET", "/statistics?from=yesterday", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestStatsHandler_Summary(t *testing.T) {
	t.Run("returns net worth per currency", func(t *testing.T) {
		svc := &mockLedgerService{
			getSummaryFn: func(string) (*ledger.Summary, error) {
				return &ledger.Summary{
					Assets:   map[string]int64{"CNY": 150000},
					Debts:    map[string]int64{"CNY": 120000},
					NetWorth: map[string]int64{"CNY": 30000},
				}, nil
			},
		}
		r := setupStatsRouter(NewStatsHandler(svc))

		rec := doRequest(r, "GET", "/summary", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		result := parseJSON(t, rec)
		netWorth := result["net_worth"].(map[string]interface{})
		if netWorth["CNY"].(float64) != 30000 {
			t.Errorf("expected net worth 30000, got %v", netWorth["CNY"])
		}
	})
}
