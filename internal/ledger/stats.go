package ledger

import (
	"time"

	"moneybook/internal/models"
)

// CurrencyStats aggregates income, expense, and balance for one currency.
// Transfers are excluded from the aggregate entirely.
type CurrencyStats struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Balance int64 `json:"balance"`
}

// CurrencyStatistics sums income and expense amounts per currency over the
// given transaction set. A currency with only one side present reports the
// other side as zero. Balance is income minus expense.
func CurrencyStatistics(transactions []models.Transaction) map[string]CurrencyStats {
	stats := map[string]CurrencyStats{}
	for i := range transactions {
		t := &transactions[i]
		switch t.Kind {
		case models.KindIncome:
			entry := stats[t.Currency]
			entry.Income += t.Amount
			stats[t.Currency] = entry
		case models.KindExpense:
			entry := stats[t.Currency]
			entry.Expense += t.Amount
			stats[t.Currency] = entry
		}
	}
	for currency, entry := range stats {
		entry.Balance = entry.Income - entry.Expense
		stats[currency] = entry
	}
	return stats
}

// Summary aggregates the ledger per currency: total tracked assets, total
// outstanding debt, and net worth (assets minus debt).
type Summary struct {
	Assets   map[string]int64 `json:"assets"`
	Debts    map[string]int64 `json:"debts"`
	NetWorth map[string]int64 `json:"net_worth"`
}

// Summarize computes the per-currency asset/debt/net-worth summary.
func Summarize(s *models.LedgerState) Summary {
	summary := Summary{
		Assets:   map[string]int64{},
		Debts:    map[string]int64{},
		NetWorth: map[string]int64{},
	}
	for _, account := range s.BankAccounts {
		summary.Assets[account.Currency] += account.Balance
	}
	for _, debt := range s.Debts {
		summary.Debts[debt.Currency] += debt.Remaining
	}
	for currency, assets := range summary.Assets {
		summary.NetWorth[currency] = assets - summary.Debts[currency]
	}
	for currency, owed := range summary.Debts {
		if _, ok := summary.Assets[currency]; !ok {
			summary.NetWorth[currency] = -owed
		}
	}
	return summary
}

// TransactionFilter holds optional filter parameters for listing
// transactions.
type TransactionFilter struct {
	Kind     *models.TransactionKind
	Category string
	Account  string
	FromDate *time.Time
	ToDate   *time.Time
}

// FilterTransactions returns the transactions matching the filter, in log
// order.
func FilterTransactions(s *models.LedgerState, f TransactionFilter) []models.Transaction {
	matched := []models.Transaction{}
	for i := range s.Transactions {
		t := &s.Transactions[i]
		if f.Kind != nil && t.Kind != *f.Kind {
			continue
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if f.Account != "" && t.Account != f.Account && t.ToAccount != f.Account {
			continue
		}
		if f.FromDate != nil && t.Date.Before(*f.FromDate) {
			continue
		}
		if f.ToDate != nil && t.Date.After(*f.ToDate) {
			continue
		}
		matched = append(matched, *t)
	}
	return matched
}
