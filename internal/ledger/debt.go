package ledger

import (
	apperrors "moneybook/internal/errors"
	"moneybook/internal/models"
	"moneybook/internal/uuid"
)

// amortize reduces a debt's remaining balance in response to a repayment
// expense. The target is the transaction's explicit debt when named,
// otherwise the first debt in insertion order still in Repaying status.
// Remaining floors at zero; any excess is silently discarded. Every
// amortization appends a repayment record carrying the transaction's ID so
// the effect can be reversed exactly.
func amortize(s *models.LedgerState, t *models.Transaction) {
	debt := repaymentTarget(s, t)
	if debt == nil {
		return
	}

	before := debt.Remaining
	after := before - t.Amount
	if after < 0 {
		after = 0
	}
	debt.Remaining = after
	if after == 0 {
		debt.Status = models.DebtStatusPaidOff
	}

	debt.Repayments = append(debt.Repayments, models.RepaymentRecord{
		ID:              uuid.New(),
		TransactionID:   t.ID,
		Date:            t.Date,
		Amount:          t.Amount,
		Account:         t.Account,
		RemainingBefore: before,
		RemainingAfter:  after,
	})
}

// repaymentTarget resolves which debt a repayment expense pays down.
func repaymentTarget(s *models.LedgerState, t *models.Transaction) *models.Debt {
	if t.DebtName != "" {
		return s.Debts[t.DebtName]
	}
	// Implicit selection is deprecated; kept for expenses recorded without
	// naming a debt. Insertion order makes it deterministic.
	for _, name := range s.DebtOrder {
		if debt := s.Debts[name]; debt != nil && debt.Status == models.DebtStatusRepaying {
			return debt
		}
	}
	return nil
}

// reverseRepayment undoes the amortization recorded for the given
// transaction: remaining is restored from the record's remaining-before
// value, which is exact even when the original payment was floored at zero.
// A transaction that amortized nothing (no repaying debt existed) has no
// record and reverses to a no-op.
func reverseRepayment(s *models.LedgerState, t *models.Transaction) {
	for _, debt := range s.Debts {
		for i := range debt.Repayments {
			if debt.Repayments[i].TransactionID != t.ID {
				continue
			}
			debt.Remaining = debt.Repayments[i].RemainingBefore
			if debt.Remaining > 0 {
				debt.Status = models.DebtStatusRepaying
			} else {
				debt.Status = models.DebtStatusPaidOff
			}
			debt.Repayments = append(debt.Repayments[:i], debt.Repayments[i+1:]...)
			return
		}
	}
}

// AddDebt creates a new debt. Status is derived from the remaining amount.
func AddDebt(s *models.LedgerState, name string, total, remaining int64, currency string) (*models.Debt, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "debt name is required")
	}
	if _, exists := s.Debts[name]; exists {
		return nil, apperrors.ErrDuplicateDebt
	}
	if total < 0 || remaining < 0 || remaining > total {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "remaining must be between zero and the total amount")
	}

	debt := &models.Debt{
		Name:       name,
		Total:      total,
		Remaining:  remaining,
		Status:     debtStatus(remaining),
		Currency:   currency,
		Repayments: []models.RepaymentRecord{},
	}
	s.Debts[name] = debt
	s.DebtOrder = append(s.DebtOrder, name)
	return debt, nil
}

// EditDebt updates a debt's total, remaining, or currency. Status is
// re-derived so it stays consistent with the remaining amount.
func EditDebt(s *models.LedgerState, name string, total, remaining *int64, currency string) (*models.Debt, error) {
	debt, ok := s.Debts[name]
	if !ok {
		return nil, apperrors.ErrDebtNotFound
	}

	newTotal := debt.Total
	newRemaining := debt.Remaining
	if total != nil {
		newTotal = *total
	}
	if remaining != nil {
		newRemaining = *remaining
	}
	if newTotal < 0 || newRemaining < 0 || newRemaining > newTotal {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "remaining must be between zero and the total amount")
	}

	debt.Total = newTotal
	debt.Remaining = newRemaining
	debt.Status = debtStatus(newRemaining)
	if currency != "" {
		debt.Currency = currency
	}
	return debt, nil
}

// DeleteDebt removes a debt. An outstanding balance does not block deletion;
// the returned warning is non-empty when the debt was not yet paid off.
func DeleteDebt(s *models.LedgerState, name string) (string, error) {
	debt, ok := s.Debts[name]
	if !ok {
		return "", apperrors.ErrDebtNotFound
	}

	warning := ""
	if debt.Remaining > 0 {
		warning = "debt still has an outstanding balance"
	}

	delete(s.Debts, name)
	for i, n := range s.DebtOrder {
		if n == name {
			s.DebtOrder = append(s.DebtOrder[:i], s.DebtOrder[i+1:]...)
			break
		}
	}
	return warning, nil
}

// DeleteRepaymentRecord reverses exactly the repayment captured by the
// record and removes the transaction log entry it is linked to.
func DeleteRepaymentRecord(s *models.LedgerState, debtName, recordID string) error {
	debt, ok := s.Debts[debtName]
	if !ok {
		return apperrors.ErrDebtNotFound
	}

	var record *models.RepaymentRecord
	for i := range debt.Repayments {
		if debt.Repayments[i].ID == recordID {
			record = &debt.Repayments[i]
			break
		}
	}
	if record == nil {
		return apperrors.ErrRepaymentNotFound
	}

	// Deleting the linked transaction reverses the balance effect and the
	// amortization (which removes the record) in one pass.
	if findTransaction(s, record.TransactionID) >= 0 {
		return DeleteTransaction(s, record.TransactionID)
	}

	// Imported documents may carry records whose transaction is gone;
	// fall back to reversing from the record alone.
	if account, tracked := s.BankAccounts[record.Account]; tracked {
		account.Balance += record.Amount
	}
	debt.Remaining = record.RemainingBefore
	debt.Status = debtStatus(debt.Remaining)
	for i := range debt.Repayments {
		if debt.Repayments[i].ID == recordID {
			debt.Repayments = append(debt.Repayments[:i], debt.Repayments[i+1:]...)
			break
		}
	}
	return nil
}

func debtStatus(remaining int64) models.DebtStatus {
	if remaining == 0 {
		return models.DebtStatusPaidOff
	}
	return models.DebtStatusRepaying
}
