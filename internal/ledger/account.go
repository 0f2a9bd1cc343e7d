package ledger

import (
	apperrors "moneybook/internal/errors"
	"moneybook/internal/models"
)

// AddBankAccount creates a tracked bank account with an initial balance.
func AddBankAccount(s *models.LedgerState, name, currency string, initialBalance int64) (*models.BankAccount, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "account name is required")
	}
	if _, exists := s.BankAccounts[name]; exists {
		return nil, apperrors.ErrDuplicateAccount
	}
	if initialBalance < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "initial balance cannot be negative")
	}

	account := &models.BankAccount{
		Name:     name,
		Balance:  initialBalance,
		Currency: currency,
	}
	s.BankAccounts[name] = account
	return account, nil
}

// AdjustBankAccountBalance sets an account's balance to an explicit value.
// This is an administrative correction and records no transaction.
func AdjustBankAccountBalance(s *models.LedgerState, name string, balance int64) (*models.BankAccount, error) {
	account, ok := s.BankAccounts[name]
	if !ok {
		return nil, apperrors.ErrAccountNotFound
	}
	account.Balance = balance
	return account, nil
}

// DeleteBankAccount removes an account. An account referenced by any
// transaction as source or destination cannot be deleted.
func DeleteBankAccount(s *models.LedgerState, name string) error {
	if _, ok := s.BankAccounts[name]; !ok {
		return apperrors.ErrAccountNotFound
	}

	for i := range s.Transactions {
		if s.Transactions[i].Account == name || s.Transactions[i].ToAccount == name {
			return apperrors.ErrAccountInUse
		}
	}

	delete(s.BankAccounts, name)
	return nil
}
