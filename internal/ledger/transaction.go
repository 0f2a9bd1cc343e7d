// Package ledger implements the mutation and reconciliation engine: it
// applies and reverses the financial effect of transactions on an explicit
// LedgerState, amortizes debts, recomputes budget usage, and derives
// per-currency statistics. All operations validate before mutating; once
// validated, apply and reverse are pure bookkeeping and never fail.
package ledger

import (
	"math"
	"time"

	apperrors "moneybook/internal/errors"
	"moneybook/internal/models"
	"moneybook/internal/uuid"
)

// convert applies an exchange rate to an amount in minor units, rounding
// half away from zero. Reverse recomputes the identical expression, so an
// apply/reverse pair cancels exactly.
func convert(amount int64, rate float64) int64 {
	return int64(math.Round(float64(amount) * rate))
}

// validateTransaction checks the business rules that must hold before a
// transaction is applied. It never mutates state.
func validateTransaction(s *models.LedgerState, t *models.Transaction) error {
	switch t.Kind {
	case models.KindIncome, models.KindExpense, models.KindTransfer:
	default:
		return apperrors.ErrInvalidTransactionKind
	}

	if t.Amount <= 0 {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}

	if t.Account == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "account is required")
	}

	if t.Kind == models.KindTransfer && t.Account == t.ToAccount {
		return apperrors.ErrSameAccountTransfer
	}

	if t.DebtName != "" {
		if _, ok := s.Debts[t.DebtName]; !ok {
			return apperrors.ErrDebtNotFound
		}
	}

	return nil
}

// normalizeTransaction fills defaults: a fresh ID, today's date when none is
// given, exchange rate 1.0 on transfers, and no transfer-only fields on
// income and expense records.
func normalizeTransaction(t *models.Transaction) {
	if t.ID == "" {
		t.ID = uuid.New()
	}
	if t.Date.IsZero() {
		t.Date = time.Now()
	}
	if t.Kind == models.KindTransfer {
		if t.ExchangeRate == 0 {
			t.ExchangeRate = 1.0
		}
	} else {
		t.ToAccount = ""
		t.ExchangeRate = 0
	}
}

// AddTransaction validates the transaction, appends it to the log, applies
// its effect, and recomputes budget usage.
func AddTransaction(s *models.LedgerState, t models.Transaction) (*models.Transaction, error) {
	if err := validateTransaction(s, &t); err != nil {
		return nil, err
	}
	normalizeTransaction(&t)

	apply(s, &t)
	s.Transactions = append(s.Transactions, t)
	RecomputeBudgets(s)

	return &s.Transactions[len(s.Transactions)-1], nil
}

// EditTransaction replaces the transaction with the given ID. The edit is
// modeled as reverse-old-effect then apply-new-effect, so balances, debts,
// and budgets end up as if the new transaction had been recorded instead of
// the old one.
func EditTransaction(s *models.LedgerState, id string, updated models.Transaction) (*models.Transaction, error) {
	i := findTransaction(s, id)
	if i < 0 {
		return nil, apperrors.ErrTransactionNotFound
	}

	updated.ID = id
	if err := validateTransaction(s, &updated); err != nil {
		return nil, err
	}
	normalizeTransaction(&updated)

	reverse(s, &s.Transactions[i])
	s.Transactions[i] = updated
	apply(s, &s.Transactions[i])
	RecomputeBudgets(s)

	return &s.Transactions[i], nil
}

// DeleteTransaction reverses the transaction's effect, removes it from the
// log, and recomputes budget usage.
func DeleteTransaction(s *models.LedgerState, id string) error {
	i := findTransaction(s, id)
	if i < 0 {
		return apperrors.ErrTransactionNotFound
	}

	reverse(s, &s.Transactions[i])
	s.Transactions = append(s.Transactions[:i], s.Transactions[i+1:]...)
	RecomputeBudgets(s)

	return nil
}

func findTransaction(s *models.LedgerState, id string) int {
	for i := range s.Transactions {
		if s.Transactions[i].ID == id {
			return i
		}
	}
	return -1
}

// apply posts the transaction's effect to bank account balances and, for
// repayment expenses, to the targeted debt. Untracked payment methods
// (cash, wallets, third parties) carry no balance.
func apply(s *models.LedgerState, t *models.Transaction) {
	source, sourceTracked := s.BankAccounts[t.Account]

	switch t.Kind {
	case models.KindIncome:
		if sourceTracked {
			source.Balance += t.Amount
		}

	case models.KindExpense:
		if sourceTracked {
			source.Balance -= t.Amount
		}
		if t.Category == models.RepaymentCategory {
			amortize(s, t)
		}

	case models.KindTransfer:
		dest, destTracked := s.BankAccounts[t.ToAccount]
		if sourceTracked && destTracked {
			// Self-transfer: the only place the exchange rate has effect.
			source.Balance -= t.Amount
			dest.Balance += convert(t.Amount, t.ExchangeRate)
		} else if sourceTracked {
			// Transfer to an untracked destination behaves like an expense.
			source.Balance -= t.Amount
		}
	}
}

// reverse is the exact algebraic inverse of apply for the same transaction.
func reverse(s *models.LedgerState, t *models.Transaction) {
	source, sourceTracked := s.BankAccounts[t.Account]

	switch t.Kind {
	case models.KindIncome:
		if sourceTracked {
			source.Balance -= t.Amount
		}

	case models.KindExpense:
		if sourceTracked {
			source.Balance += t.Amount
		}
		if t.Category == models.RepaymentCategory {
			reverseRepayment(s, t)
		}

	case models.KindTransfer:
		dest, destTracked := s.BankAccounts[t.ToAccount]
		if sourceTracked && destTracked {
			source.Balance += t.Amount
			dest.Balance -= convert(t.Amount, t.ExchangeRate)
		} else if sourceTracked {
			source.Balance += t.Amount
		}
	}
}
