package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"moneybook/internal/ledger"
	"moneybook/internal/models"
	"moneybook/internal/services"
	"moneybook/internal/validator"
)

// --- mock ledger service ---

type mockLedgerService struct {
	getLedgerFn func(username string) (*models.LedgerState, error)

	addTransactionFn    func(username string, t models.Transaction) (*models.Transaction, error)
	editTransactionFn   func(username, transactionID string, t models.Transaction) (*models.Transaction, error)
	deleteTransactionFn func(username, transactionID string) error
	listTransactionsFn  func(username string, filter ledger.TransactionFilter) ([]models.Transaction, error)

	addBankAccountFn           func(username, name, currency string, initialBalance int64) (*models.BankAccount, error)
	adjustBankAccountBalanceFn func(username, name string, balance int64) (*models.BankAccount, error)
	deleteBankAccountFn        func(username, name string) error

	addDebtFn               func(username, name string, total, remaining int64, currency string) (*models.Debt, error)
	editDebtFn              func(username, name string, total, remaining *int64, currency string) (*models.Debt, error)
	deleteDebtFn            func(username, name string) (*services.DebtDeletion, error)
	recordRepaymentFn       func(username, debtName, account string, amount int64, date time.Time, notes string) (*models.Transaction, error)
	deleteRepaymentRecordFn func(username, debtName, recordID string) error

	addBudgetFn        func(username, category, month string, amount int64, currency string) (*services.BudgetReport, error)
	editBudgetFn       func(username, category, month string, amount *int64, currency string) (*services.BudgetReport, error)
	deleteBudgetFn     func(username, category, month string) error
	recomputeBudgetsFn func(username string) ([]services.BudgetReport, error)

	getCurrencyStatisticsFn func(username string, filter ledger.TransactionFilter) (map[string]ledger.CurrencyStats, error)
	getSummaryFn            func(username string) (*ledger.Summary, error)
}

func (m *mockLedgerService) GetLedger(username string) (*models.LedgerState, error) {
	if m.getLedgerFn != nil {
		return m.getLedgerFn(username)
	}
	return models.NewLedgerState(), nil
}

func (m *mockLedgerService) AddTransaction(username string, t models.Transaction) (*models.Transaction, error) {
	if m.addTransactionFn != nil {
		return m.addTransactionFn(username, t)
	}
	return &t, nil
}

func (m *mockLedgerService) EditTransaction(username, transactionID string, t models.Transaction) (*models.Transaction, error) {
	if m.editTransactionFn != nil {
		return m.editTransactionFn(username, transactionID, t)
	}
	t.ID = transactionID
	return &t, nil
}

func (m *mockLedgerService) DeleteTransaction(username, transactionID string) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(username, transactionID)
	}
	return nil
}

func (m *mockLedgerService) ListTransactions(username string, filter ledger.TransactionFilter) ([]models.Transaction, error) {
	if m.listTransactionsFn != nil {
		return m.listTransactionsFn(username, filter)
	}
	return []models.Transaction{}, nil
}

func (m *mockLedgerService) AddBankAccount(username, name, currency string, initialBalance int64) (*models.BankAccount, error) {
	if m.addBankAccountFn != nil {
		return m.addBankAccountFn(username, name, currency, initialBalance)
	}
	return &models.BankAccount{Name: name, Balance: initialBalance, Currency: currency}, nil
}

func (m *mockLedgerService) AdjustBankAccountBalance(username, name string, balance int64) (*models.BankAccount, error) {
	if m.adjustBankAccountBalanceFn != nil {
		return m.adjustBankAccountBalanceFn(username, name, balance)
	}
	return &models.BankAccount{Name: name, Balance: balance}, nil
}

func (m *mockLedgerService) DeleteBankAccount(username, name string) error {
	if m.deleteBankAccountFn != nil {
		return m.deleteBankAccountFn(username, name)
	}
	return nil
}

func (m *mockLedgerService) AddDebt(username, name string, total, remaining int64, currency string) (*models.Debt, error) {
	if m.addDebtFn != nil {
		return m.addDebtFn(username, name, total, remaining, currency)
	}
	return &models.Debt{Name: name, Total: total, Remaining: remaining, Status: models.DebtStatusRepaying, Currency: currency}, nil
}

func (m *mockLedgerService) EditDebt(username, name string, total, remaining *int64, currency string) (*models.Debt, error) {
	if m.editDebtFn != nil {
		return m.editDebtFn(username, name, total, remaining, currency)
	}
	return &models.Debt{Name: name}, nil
}

func (m *mockLedgerService) DeleteDebt(username, name string) (*services.DebtDeletion, error) {
	if m.deleteDebtFn != nil {
		return m.deleteDebtFn(username, name)
	}
	return &services.DebtDeletion{}, nil
}

func (m *mockLedgerService) RecordRepayment(username, debtName, account string, amount int64, date time.Time, notes string) (*models.Transaction, error) {
	if m.recordRepaymentFn != nil {
		return m.recordRepaymentFn(username, debtName, account, amount, date, notes)
	}
	return &models.Transaction{}, nil
}

func (m *mockLedgerService) DeleteRepaymentRecord(username, debtName, recordID string) error {
	if m.deleteRepaymentRecordFn != nil {
		return m.deleteRepaymentRecordFn(username, debtName, recordID)
	}
	return nil
}

func (m *mockLedgerService) AddBudget(username, category, month string, amount int64, currency string) (*services.BudgetReport, error) {
	if m.addBudgetFn != nil {
		return m.addBudgetFn(username, category, month, amount, currency)
	}
	return &services.BudgetReport{Category: category, Month: month, Amount: amount, Currency: currency}, nil
}

func (m *mockLedgerService) EditBudget(username, category, month string, amount *int64, currency string) (*services.BudgetReport, error) {
	if m.editBudgetFn != nil {
		return m.editBudgetFn(username, category, month, amount, currency)
	}
	return &services.BudgetReport{Category: category, Month: month}, nil
}

func (m *mockLedgerService) DeleteBudget(username, category, month string) error {
	if m.deleteBudgetFn != nil {
		return m.deleteBudgetFn(username, category, month)
	}
	return nil
}

func (m *mockLedgerService) RecomputeBudgets(username string) ([]services.BudgetReport, error) {
	if m.recomputeBudgetsFn != nil {
		return m.recomputeBudgetsFn(username)
	}
	return []services.BudgetReport{}, nil
}

func (m *mockLedgerService) GetCurrencyStatistics(username string, filter ledger.TransactionFilter) (map[string]ledger.CurrencyStats, error) {
	if m.getCurrencyStatisticsFn != nil {
		return m.getCurrencyStatisticsFn(username, filter)
	}
	return map[string]ledger.CurrencyStats{}, nil
}

func (m *mockLedgerService) GetSummary(username string) (*ledger.Summary, error) {
	if m.getSummaryFn != nil {
		return m.getSummaryFn(username)
	}
	return &ledger.Summary{}, nil
}

var _ services.LedgerServicer = (*mockLedgerService)(nil)

// --- test helpers ---

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
}

func injectUsername(username string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("username", username)
		c.Next()
	}
}

func doRequest(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}
