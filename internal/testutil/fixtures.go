// Package testutil provides test fixtures and assertion helpers for working
// with ledger state.
package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"moneybook/internal/models"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// NewTestLedger returns an empty ledger state.
func NewTestLedger(t *testing.T) *models.LedgerState {
	t.Helper()
	return models.NewLedgerState()
}

// SeedAccount adds a tracked bank account directly to the state.
func SeedAccount(t *testing.T, s *models.LedgerState, name, currency string, balance int64) *models.BankAccount {
	t.Helper()

	if _, exists := s.BankAccounts[name]; exists {
		t.Fatalf("account %q already seeded", name)
	}
	account := &models.BankAccount{Name: name, Balance: balance, Currency: currency}
	s.BankAccounts[name] = account
	return account
}

// SeedDebt adds a debt directly to the state with status derived from the
// remaining amount.
func SeedDebt(t *testing.T, s *models.LedgerState, name, currency string, total, remaining int64) *models.Debt {
	t.Helper()

	if _, exists := s.Debts[name]; exists {
		t.Fatalf("debt %q already seeded", name)
	}
	status := models.DebtStatusRepaying
	if remaining == 0 {
		status = models.DebtStatusPaidOff
	}
	debt := &models.Debt{
		Name:       name,
		Total:      total,
		Remaining:  remaining,
		Status:     status,
		Currency:   currency,
		Repayments: []models.RepaymentRecord{},
	}
	s.Debts[name] = debt
	s.DebtOrder = append(s.DebtOrder, name)
	return debt
}

// SeedBudget adds a budget directly to the state. Month may be empty for a
// budget covering the whole history.
func SeedBudget(t *testing.T, s *models.LedgerState, category, month, currency string, amount int64) *models.Budget {
	t.Helper()

	budget := &models.Budget{Category: category, Month: month, Amount: amount, Currency: currency}
	key := budget.Key()
	if _, exists := s.Budgets[key]; exists {
		t.Fatalf("budget %q already seeded", key)
	}
	s.Budgets[key] = budget
	return budget
}

// NewExpense builds an expense transaction with a unique description.
func NewExpense(account, category, currency string, amount int64, date time.Time) models.Transaction {
	return models.Transaction{
		Date:        date,
		Kind:        models.KindExpense,
		Category:    category,
		Description: fmt.Sprintf("expense %d", nextID()),
		Amount:      amount,
		Currency:    currency,
		Account:     account,
	}
}

// NewIncome builds an income transaction with a unique description.
func NewIncome(account, category, currency string, amount int64, date time.Time) models.Transaction {
	return models.Transaction{
		Date:        date,
		Kind:        models.KindIncome,
		Category:    category,
		Description: fmt.Sprintf("income %d", nextID()),
		Amount:      amount,
		Currency:    currency,
		Account:     account,
	}
}

// NewTransfer builds a transfer transaction between two accounts.
func NewTransfer(from, to, currency string, amount int64, rate float64, date time.Time) models.Transaction {
	return models.Transaction{
		Date:         date,
		Kind:         models.KindTransfer,
		Description:  fmt.Sprintf("transfer %d", nextID()),
		Amount:       amount,
		Currency:     currency,
		Account:      from,
		ToAccount:    to,
		ExchangeRate: rate,
	}
}
