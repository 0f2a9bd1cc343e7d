// Package models defines the per-user ledger document: the transaction log,
// bank accounts, debts, and budgets that together form the unit of
// persistence.
package models

import (
	"sort"
	"time"
)

// TransactionKind represents the kind of a ledger transaction.
type TransactionKind string

const (
	KindIncome   TransactionKind = "income"
	KindExpense  TransactionKind = "expense"
	KindTransfer TransactionKind = "transfer"
)

// RepaymentCategory is the expense category that triggers debt amortization.
const RepaymentCategory = "还款"

// IncomeCategories and ExpenseCategories are the suggested category sets per
// transaction kind. They are suggestions for the presentation layer; the
// ledger accepts any category string.
var (
	IncomeCategories = []string{"工资", "兼职", "投资收入", "奖金", "退款", "其他收入"}

	ExpenseCategories = []string{
		"房租", "水电费", "生活费", "奶粉", "学费", "购物",
		"餐饮", "交通", "娱乐", "医疗", RepaymentCategory, "其他支出",
	}
)

// CashMethods are the built-in untracked payment methods. Any source or
// destination that is not a tracked bank account behaves the same way; these
// are only offered as suggestions.
var CashMethods = []string{"现金", "微信支付", "支付宝"}

// Transaction is one recorded financial event. Amounts are integer minor
// units (cents). ExchangeRate is meaningful only for transfers between two
// tracked accounts.
type Transaction struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	Kind        TransactionKind `json:"kind"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      int64           `json:"amount"`
	Currency    string          `json:"currency"`
	Account     string          `json:"account"`
	ToAccount   string          `json:"to_account,omitempty"`
	ExchangeRate float64        `json:"exchange_rate,omitempty"`
	DebtName    string          `json:"debt_name,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// Month returns the year-month key of the transaction date.
func (t *Transaction) Month() string {
	return t.Date.Format("2006-01")
}

// BankAccount is a named store of value. Balance is the running sum of all
// transaction effects applied to it and may go negative.
type BankAccount struct {
	Name     string `json:"-"`
	Balance  int64  `json:"balance"`
	Currency string `json:"currency"`
}

// DebtStatus represents the repayment status of a debt.
type DebtStatus string

const (
	DebtStatusRepaying DebtStatus = "repaying"
	DebtStatusPaidOff  DebtStatus = "paid_off"
)

// RepaymentRecord is one repayment applied to a debt. TransactionID links
// the record to the expense transaction that produced it so that reversal
// restores the exact prior state.
type RepaymentRecord struct {
	ID              string    `json:"id"`
	TransactionID   string    `json:"transaction_id"`
	Date            time.Time `json:"date"`
	Amount          int64     `json:"amount"`
	Account         string    `json:"account"`
	RemainingBefore int64     `json:"remaining_before"`
	RemainingAfter  int64     `json:"remaining_after"`
}

// Debt is an outstanding obligation being paid down.
// Invariant: 0 <= Remaining <= Total, Status is PaidOff iff Remaining == 0.
type Debt struct {
	Name       string            `json:"-"`
	Total      int64             `json:"total"`
	Remaining  int64             `json:"remaining"`
	Status     DebtStatus        `json:"status"`
	Currency   string            `json:"currency"`
	Repayments []RepaymentRecord `json:"repayment_history"`
}

// BudgetStatus classifies budget usage by ratio.
type BudgetStatus string

const (
	BudgetStatusNormal    BudgetStatus = "normal"
	BudgetStatusWarning   BudgetStatus = "warning"
	BudgetStatusOverspent BudgetStatus = "overspent"
)

// Budget is a spending ceiling for a category. Month is a "2006-01" key for
// month-scoped budgets; an empty Month means the budget covers the whole
// transaction history. Used is derived and recomputed, never trusted from
// storage.
type Budget struct {
	Category string `json:"category"`
	Month    string `json:"month,omitempty"`
	Amount   int64  `json:"budgeted_amount"`
	Used     int64  `json:"used_amount"`
	Currency string `json:"currency"`
}

// Key returns the budgets-map key: the category for lifetime budgets, or
// "month:category" for month-scoped ones.
func (b *Budget) Key() string {
	if b.Month == "" {
		return b.Category
	}
	return b.Month + ":" + b.Category
}

// BudgetKey builds the budgets-map key for a month/category pair.
func BudgetKey(month, category string) string {
	if month == "" {
		return category
	}
	return month + ":" + category
}

// LedgerState aggregates one user's complete ledger. It is the unit of
// persistence: loaded and saved as a single document. DebtOrder preserves
// debt insertion order so that implicit repayment targeting is
// deterministic. Revision supports optimistic concurrency on save.
type LedgerState struct {
	Revision     int64                   `json:"revision"`
	Transactions []Transaction           `json:"transactions"`
	BankAccounts map[string]*BankAccount `json:"bank_accounts"`
	Debts        map[string]*Debt        `json:"debts"`
	DebtOrder    []string                `json:"debt_order,omitempty"`
	Budgets      map[string]*Budget      `json:"budgets"`
}

// NewLedgerState returns an empty ledger with all collections initialized.
func NewLedgerState() *LedgerState {
	return &LedgerState{
		Transactions: []Transaction{},
		BankAccounts: map[string]*BankAccount{},
		Debts:        map[string]*Debt{},
		Budgets:      map[string]*Budget{},
	}
}

// EnsureCollections initializes any nil collection, and restores the map-key
// names on accounts and debts after JSON decoding. Missing top-level keys in
// a stored document default to empty collections.
func (s *LedgerState) EnsureCollections() {
	if s.Transactions == nil {
		s.Transactions = []Transaction{}
	}
	if s.BankAccounts == nil {
		s.BankAccounts = map[string]*BankAccount{}
	}
	if s.Debts == nil {
		s.Debts = map[string]*Debt{}
	}
	if s.Budgets == nil {
		s.Budgets = map[string]*Budget{}
	}
	for name, account := range s.BankAccounts {
		account.Name = name
	}
	for name, debt := range s.Debts {
		debt.Name = name
	}
	// Older documents may predate DebtOrder; rebuild it deterministically.
	if len(s.DebtOrder) != len(s.Debts) {
		s.DebtOrder = s.DebtOrder[:0]
		for name := range s.Debts {
			s.DebtOrder = append(s.DebtOrder, name)
		}
		sort.Strings(s.DebtOrder)
	}
}
