package services

import (
	"time"

	"moneybook/internal/ledger"
	"moneybook/internal/models"
)

// BudgetReport is a budget together with its derived usage classification.
type BudgetReport struct {
	Category  string              `json:"category"`
	Month     string              `json:"month,omitempty"`
	Amount    int64               `json:"budgeted_amount"`
	Used      int64               `json:"used_amount"`
	Remaining int64               `json:"remaining_amount"`
	Currency  string              `json:"currency"`
	Percent   float64             `json:"usage_percent"`
	Status    models.BudgetStatus `json:"status"`
}

// DebtDeletion reports the outcome of deleting a debt; Warning is non-empty
// when the debt still had an outstanding balance.
type DebtDeletion struct {
	Warning string `json:"warning,omitempty"`
}

// LedgerServicer defines the contract for all ledger operations. Every
// method takes the authenticated username, used purely as the
// storage-partition key. Business-rule violations are returned as AppError
// values, never panics.
type LedgerServicer interface {
	GetLedger(username string) (*models.LedgerState, error)

	AddTransaction(username string, t models.Transaction) (*models.Transaction, error)
	EditTransaction(username, transactionID string, t models.Transaction) (*models.Transaction, error)
	DeleteTransaction(username, transactionID string) error
	ListTransactions(username string, filter ledger.TransactionFilter) ([]models.Transaction, error)

	AddBankAccount(username, name, currency string, initialBalance int64) (*models.BankAccount, error)
	AdjustBankAccountBalance(username, name string, balance int64) (*models.BankAccount, error)
	DeleteBankAccount(username, name string) error

	AddDebt(username, name string, total, remaining int64, currency string) (*models.Debt, error)
	EditDebt(username, name string, total, remaining *int64, currency string) (*models.Debt, error)
	DeleteDebt(username, name string) (*DebtDeletion, error)
	RecordRepayment(username, debtName, account string, amount int64, date time.Time, notes string) (*models.Transaction, error)
	DeleteRepaymentRecord(username, debtName, recordID string) error

	AddBudget(username, category, month string, amount int64, currency string) (*BudgetReport, error)
	EditBudget(username, category, month string, amount *int64, currency string) (*BudgetReport, error)
	DeleteBudget(username, category, month string) error
	RecomputeBudgets(username string) ([]BudgetReport, error)

	GetCurrencyStatistics(username string, filter ledger.TransactionFilter) (map[string]ledger.CurrencyStats, error)
	GetSummary(username string) (*ledger.Summary, error)
}
