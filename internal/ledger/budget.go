package ledger

import (
	apperrors "moneybook/internal/errors"
	"moneybook/internal/models"
)

// Budget usage thresholds, as percentages of the budgeted amount.
const (
	budgetWarningPercent   = 80.0
	budgetOverspentPercent = 100.0
)

// AddBudget creates a budget for a category. A non-empty month ("2006-01")
// scopes the budget to that month; an empty month makes it cover the whole
// transaction history.
func AddBudget(s *models.LedgerState, category, month string, amount int64, currency string) (*models.Budget, error) {
	if category == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget category is required")
	}
	if amount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budgeted amount cannot be negative")
	}

	budget := &models.Budget{
		Category: category,
		Month:    month,
		Amount:   amount,
		Currency: currency,
	}
	if _, exists := s.Budgets[budget.Key()]; exists {
		return nil, apperrors.ErrDuplicateBudget
	}

	s.Budgets[budget.Key()] = budget
	recomputeBudget(s, budget)
	return budget, nil
}

// EditBudget updates a budget's amount or currency and recomputes its usage.
func EditBudget(s *models.LedgerState, key string, amount *int64, currency string) (*models.Budget, error) {
	budget, ok := s.Budgets[key]
	if !ok {
		return nil, apperrors.ErrBudgetNotFound
	}

	if amount != nil {
		if *amount < 0 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budgeted amount cannot be negative")
		}
		budget.Amount = *amount
	}
	if currency != "" {
		budget.Currency = currency
	}
	recomputeBudget(s, budget)
	return budget, nil
}

// DeleteBudget removes a budget by key.
func DeleteBudget(s *models.LedgerState, key string) error {
	if _, ok := s.Budgets[key]; !ok {
		return apperrors.ErrBudgetNotFound
	}
	delete(s.Budgets, key)
	return nil
}

// RecomputeBudgets rederives every budget's used amount from the
// transaction log. Used amounts are never trusted from storage; this runs
// on load and after every mutating ledger operation. It is idempotent and
// never fails.
func RecomputeBudgets(s *models.LedgerState) {
	for _, budget := range s.Budgets {
		recomputeBudget(s, budget)
	}
}

// recomputeBudget sums expense transactions matching the budget's category,
// currency, and (for month-scoped budgets) year-month. Cross-currency
// expenses in the same category are deliberately excluded.
func recomputeBudget(s *models.LedgerState, b *models.Budget) {
	b.Used = 0
	for i := range s.Transactions {
		t := &s.Transactions[i]
		if t.Kind != models.KindExpense || t.Category != b.Category || t.Currency != b.Currency {
			continue
		}
		if b.Month != "" && t.Month() != b.Month {
			continue
		}
		b.Used += t.Amount
	}
}

// BudgetProgress reports a budget's usage percentage and status. A zero
// budgeted amount is defined as 0% (Normal), never a division error.
func BudgetProgress(b *models.Budget) (float64, models.BudgetStatus) {
	if b.Amount <= 0 {
		return 0, models.BudgetStatusNormal
	}
	percent := float64(b.Used) / float64(b.Amount) * 100
	switch {
	case percent <= budgetWarningPercent:
		return percent, models.BudgetStatusNormal
	case percent <= budgetOverspentPercent:
		return percent, models.BudgetStatusWarning
	default:
		return percent, models.BudgetStatusOverspent
	}
}
