package services

import (
	"sort"
	"sync"
	"time"

	apperrors "moneybook/internal/errors"
	"moneybook/internal/ledger"
	"moneybook/internal/models"
	"moneybook/internal/store"
)

// ledgerService orchestrates ledger operations: it serializes access per
// user, loads the document, runs the engine operation, and saves the
// result. All mutations for one user go through the same mutex; the store's
// revision check covers concurrent sessions in other processes.
type ledgerService struct {
	store store.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLedgerService creates a new LedgerServicer backed by the given store.
func NewLedgerService(s store.Store) LedgerServicer {
	return &ledgerService{
		store: s,
		locks: map[string]*sync.Mutex{},
	}
}

func (s *ledgerService) userLock(username string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[username]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[username] = lock
	}
	return lock
}

// mutate runs fn against the user's loaded ledger and saves the document.
// The save is the last step: a validation failure inside fn leaves the
// persisted document untouched.
func (s *ledgerService) mutate(username string, fn func(*models.LedgerState) error) error {
	lock := s.userLock(username)
	lock.Lock()
	defer lock.Unlock()

	state, err := s.store.Load(username)
	if err != nil {
		return err
	}
	if err := fn(state); err != nil {
		return err
	}
	return s.store.Save(username, state)
}

// view runs fn against the user's loaded ledger without saving. Budget
// usage is recomputed on every load so reads never trust stored values.
func (s *ledgerService) view(username string, fn func(*models.LedgerState) error) error {
	lock := s.userLock(username)
	lock.Lock()
	defer lock.Unlock()

	state, err := s.store.Load(username)
	if err != nil {
		return err
	}
	ledger.RecomputeBudgets(state)
	return fn(state)
}

func (s *ledgerService) GetLedger(username string) (*models.LedgerState, error) {
	var result *models.LedgerState
	err := s.view(username, func(state *models.LedgerState) error {
		result = state
		return nil
	})
	return result, err
}

func (s *ledgerService) AddTransaction(username string, t models.Transaction) (*models.Transaction, error) {
	var result models.Transaction
	err := s.mutate(username, func(state *models.LedgerState) error {
		added, err := ledger.AddTransaction(state, t)
		if err != nil {
			return err
		}
		result = *added
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *ledgerService) EditTransaction(username, transactionID string, t models.Transaction) (*models.Transaction, error) {
	var result models.Transaction
	err := s.mutate(username, func(state *models.LedgerState) error {
		edited, err := ledger.EditTransaction(state, transactionID, t)
		if err != nil {
			return err
		}
		result = *edited
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *ledgerService) DeleteTransaction(username, transactionID string) error {
	return s.mutate(username, func(state *models.LedgerState) error {
		return ledger.DeleteTransaction(state, transactionID)
	})
}

func (s *ledgerService) ListTransactions(username string, filter ledger.TransactionFilter) ([]models.Transaction, error) {
	var result []models.Transaction
	err := s.view(username, func(state *models.LedgerState) error {
		result = ledger.FilterTransactions(state, filter)
		return nil
	})
	return result, err
}

func (s *ledgerService) AddBankAccount(username, name, currency string, initialBalance int64) (*models.BankAccount, error) {
	var result models.BankAccount
	err := s.mutate(username, func(state *models.LedgerState) error {
		account, err := ledger.AddBankAccount(state, name, currency, initialBalance)
		if err != nil {
			return err
		}
		result = *account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *ledgerService) AdjustBankAccountBalance(username, name string, balance int64) (*models.BankAccount, error) {
	var result models.BankAccount
	err := s.mutate(username, func(state *models.LedgerState) error {
		account, err := ledger.AdjustBankAccountBalance(state, name, balance)
		if err != nil {
			return err
		}
		result = *account
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *ledgerService) DeleteBankAccount(username, name string) error {
	return s.mutate(username, func(state *models.LedgerState) error {
		return ledger.DeleteBankAccount(state, name)
	})
}

func (s *ledgerService) AddDebt(username, name string, total, remaining int64, currency string) (*models.Debt, error) {
	var result models.Debt
	err := s.mutate(username, func(state *models.LedgerState) error {
		debt, err := ledger.AddDebt(state, name, total, remaining, currency)
		if err != nil {
			return err
		}
		result = *debt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *ledgerService) EditDebt(username, name string, total, remaining *int64, currency string) (*models.Debt, error) {
	var result models.Debt
	err := s.mutate(username, func(state *models.LedgerState) error {
		debt, err := ledger.EditDebt(state, name, total, remaining, currency)
		if err != nil {
			return err
		}
		result = *debt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *ledgerService) DeleteDebt(username, name string) (*DebtDeletion, error) {
	var result DebtDeletion
	err := s.mutate(username, func(state *models.LedgerState) error {
		warning, err := ledger.DeleteDebt(state, name)
		if err != nil {
			return err
		}
		result.Warning = warning
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RecordRepayment posts a repayment expense against an explicit debt. The
// transaction currency follows the debt; a tracked paying account must
// cover the amount.
func (s *ledgerService) RecordRepayment(username, debtName, account string, amount int64, date time.Time, notes string) (*models.Transaction, error) {
	var result models.Transaction
	err := s.mutate(username, func(state *models.LedgerState) error {
		debt, ok := state.Debts[debtName]
		if !ok {
			return apperrors.ErrDebtNotFound
		}
		if amount <= 0 {
			return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
		}
		if paying, tracked := state.BankAccounts[account]; tracked && paying.Balance < amount {
			return apperrors.ErrInsufficientBalance
		}

		added, err := ledger.AddTransaction(state, models.Transaction{
			Date:        date,
			Kind:        models.KindExpense,
			Category:    models.RepaymentCategory,
			Description: models.RepaymentCategory + "-" + debtName,
			Amount:      amount,
			Currency:    debt.Currency,
			Account:     account,
			DebtName:    debtName,
			Notes:       notes,
		})
		if err != nil {
			return err
		}
		result = *added
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *ledgerService) DeleteRepaymentRecord(username, debtName, recordID string) error {
	return s.mutate(username, func(state *models.LedgerState) error {
		return ledger.DeleteRepaymentRecord(state, debtName, recordID)
	})
}

func (s *ledgerService) AddBudget(username, category, month string, amount int64, currency string) (*BudgetReport, error) {
	var result BudgetReport
	err := s.mutate(username, func(state *models.LedgerState) error {
		budget, err := ledger.AddBudget(state, category, month, amount, currency)
		if err != nil {
			return err
		}
		result = budgetReport(budget)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *ledgerService) EditBudget(username, category, month string, amount *int64, currency string) (*BudgetReport, error) {
	var result BudgetReport
	err := s.mutate(username, func(state *models.LedgerState) error {
		budget, err := ledger.EditBudget(state, models.BudgetKey(month, category), amount, currency)
		if err != nil {
			return err
		}
		result = budgetReport(budget)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (s *ledgerService) DeleteBudget(username, category, month string) error {
	return s.mutate(username, func(state *models.LedgerState) error {
		return ledger.DeleteBudget(state, models.BudgetKey(month, category))
	})
}

// RecomputeBudgets rederives every budget's usage from the transaction log
// and persists the recomputed document.
func (s *ledgerService) RecomputeBudgets(username string) ([]BudgetReport, error) {
	var reports []BudgetReport
	err := s.mutate(username, func(state *models.LedgerState) error {
		ledger.RecomputeBudgets(state)
		reports = budgetReports(state)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *ledgerService) GetCurrencyStatistics(username string, filter ledger.TransactionFilter) (map[string]ledger.CurrencyStats, error) {
	var result map[string]ledger.CurrencyStats
	err := s.view(username, func(state *models.LedgerState) error {
		result = ledger.CurrencyStatistics(ledger.FilterTransactions(state, filter))
		return nil
	})
	return result, err
}

func (s *ledgerService) GetSummary(username string) (*ledger.Summary, error) {
	var result ledger.Summary
	err := s.view(username, func(state *models.LedgerState) error {
		result = ledger.Summarize(state)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func budgetReport(b *models.Budget) BudgetReport {
	percent, status := ledger.BudgetProgress(b)
	return BudgetReport{
		Category:  b.Category,
		Month:     b.Month,
		Amount:    b.Amount,
		Used:      b.Used,
		Remaining: b.Amount - b.Used,
		Currency:  b.Currency,
		Percent:   percent,
		Status:    status,
	}
}

func budgetReports(state *models.LedgerState) []BudgetReport {
	keys := make([]string, 0, len(state.Budgets))
	for key := range state.Budgets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	reports := make([]BudgetReport, 0, len(keys))
	for _, key := range keys {
		reports = append(reports, budgetReport(state.Budgets[key]))
	}
	return reports
}
