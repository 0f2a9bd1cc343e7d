package ledger

import (
	"testing"
	"time"

	"moneybook/internal/models"
	"moneybook/internal/testutil"
)

func TestAddBudget(t *testing.T) {
	t.Run("computes_initial_usage_from_log", func(t *testing.T) {
		s := testutil.NewTestLedger(t)
		testutil.SeedAccount(t, s, "招商银行", "CNY", 100000)
		_, err := AddTransaction(s, testutil.NewExpense("招商银行", "餐饮", "CNY", 3000, testDate))
		testutil.AssertNoError(t, err)

		budget, err := AddBudget(s, "餐饮", "", 10000, "CNY")
		testutil.AssertNoError(t, err)

		if budget.Used != 3000 {
			t.Errorf("expected used 3000, got %d", budget.Used)
		}
	})

	t.Run("rejects_duplicate_category_and_month", func(t *testing.T) {
		s := testutil.NewTestLedger(t)
		testutil.SeedBudget(t, s, "餐饮", "2026-03", "CNY", 10000)

		_, err := AddBudget(s, "餐饮", "2026-03", 5000, "CNY")
		testutil.AssertAppError(t, err, "DUPLICATE_BUDGET")
	})

	t.Run("same_category_different_months_coexist", func(t *testing.T) {
		s := testutil.NewTestLedger(t)

		_, err := AddBudget(s, "餐饮", "2026-03", 10000, "CNY")
		testutil.AssertNoError(t, err)
		_, err = AddBudget(s, "餐饮", "2026-04", 10000, "CNY")
		testutil.AssertNoError(t, err)
		_, err = AddBudget(s, "餐饮", "", 10000, "CNY")
		testutil.AssertNoError(t, err)

		if len(s.Budgets) != 3 {
			t.Errorf("expected 3 budgets, got %d", len(s.Budgets))
		}
	})
}

func TestRecomputeBudgets(t *testing.T) {
	t.Run("month_scoped_counts_matching_month_only", func(t *testing.T) {
		s := testutil.NewTestLedger(t)
		testutil.SeedAccount(t, s, "招商银行", "CNY", 100000)
		testutil.SeedBudget(t, s, "餐饮", "2026-03", "CNY", 10000)

		march := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
		april := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
		_, err := AddTransaction(s, testutil.NewExpense("招商银行", "餐饮", "CNY", 3000, march))
		testutil.AssertNoError(t, err)
		_, err = AddTransaction(s, testutil.NewExpense("招商银行", "餐饮", "CNY", 7000, april))
		testutil.AssertNoError(t, err)

		if got := s.Budgets[models.BudgetKey("2026-03", "餐饮")].Used; got != 3000 {
			t.Errorf("expected march usage 3000, got %d", got)
		}
	})

	t.Run("ignores_income_and_transfers", func(t *testing.T) {
		s := testutil.NewTestLedger(t)
		testutil.SeedAccount(t, s, "招商银行", "CNY", 100000)
		testutil.SeedAccount(t, s, "工商银行", "CNY", 0)
		testutil.SeedBudget(t, s, "餐饮", "", "CNY", 10000)

		_, err := AddTransaction(s, testutil.NewIncome("招商银行", "餐饮", "CNY", 5000, testDate))
		testutil.AssertNoError(t, err)
		_, err = AddTransaction(s, testutil.NewTransfer("招商银行", "工商银行", "CNY", 5000, 1.0, testDate))
		testutil.AssertNoError(t, err)

		if got := s.Budgets["餐饮"].Used; got != 0 {
			t.Errorf("expected usage 0, got %d", got)
		}
	})

	t.Run("ignores_other_currencies", func(t *testing.T) {
		s := testutil.NewTestLedger(t)
		testutil.SeedAccount(t, s, "美元账户", "USD", 100000)
		testutil.SeedBudget(t, s, "餐饮", "", "CNY", 10000)

		_, err := AddTransaction(s, testutil.NewExpense("美元账户", "餐饮", "USD", 3000, testDate))
		testutil.AssertNoError(t, err)

		if got := s.Budgets["餐饮"].Used; got != 0 {
			t.Errorf("expected usage 0 for cross-currency expense, got %d", got)
		}
	})

	t.Run("deleting_expense_lowers_usage", func(t *testing.T) {
		s := testutil.NewTestLedger(t)
		testutil.SeedAccount(t, s, "招商银行", "CNY", 100000)
		testutil.SeedBudget(t, s, "餐饮", "", "CNY", 10000)

		created, err := AddTransaction(s, testutil.NewExpense("招商银行", "餐饮", "CNY", 3000, testDate))
		testutil.AssertNoError(t, err)
		testutil.AssertNoError(t, DeleteTransaction(s, created.ID))

		if got := s.Budgets["餐饮"].Used; got != 0 {
			t.Errorf("expected usage back to 0, got %d", got)
		}
	})
}

func TestBudgetProgress(t *testing.T) {
	cases := []struct {
		name       string
		amount     int64
		used       int64
		wantStatus models.BudgetStatus
	}{
		{"under_warning_threshold", 10000, 8000, models.BudgetStatusNormal},
		{"between_thresholds", 10000, 8001, models.BudgetStatusWarning},
		{"exactly_at_limit", 10000, 10000, models.BudgetStatusWarning},
		{"over_limit", 10000, 10001, models.BudgetStatusOverspent},
		{"zero_amount_is_normal", 0, 5000, models.BudgetStatusNormal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := &models.Budget{Category: "餐饮", Amount: tc.amount, Used: tc.used, Currency: "CNY"}
			percent, status := BudgetProgress(b)
			if status != tc.wantStatus {
				t.Errorf("expected status %q, got %q (percent %.2f)", tc.wantStatus, status, percent)
			}
			if tc.amount == 0 && percent != 0 {
				t.Errorf("expected 0%% for zero budget, got %.2f", percent)
			}
		})
	}
}

func TestEditAndDeleteBudget(t *testing.T) {
	t.Run("edit_recomputes_usage", func(t *testing.T) {
		s := testutil.NewTestLedger(t)
		testutil.SeedAccount(t, s, "招商银行", "CNY", 100000)
		testutil.SeedBudget(t, s, "餐饮", "", "CNY", 10000)
		_, err := AddTransaction(s, testutil.NewExpense("招商银行", "餐饮", "CNY", 3000, testDate))
		testutil.AssertNoError(t, err)

		amount := int64(20000)
		budget, err := EditBudget(s, "餐饮", &amount, "")
		testutil.AssertNoError(t, err)

		if budget.Amount != 20000 || budget.Used != 3000 {
			t.Errorf("unexpected budget %+v", budget)
		}
	})

	t.Run("delete_unknown_budget", func(t *testing.T) {
		s := testutil.NewTestLedger(t)
		testutil.AssertAppError(t, DeleteBudget(s, "missing"), "BUDGET_NOT_FOUND")
	})
}
