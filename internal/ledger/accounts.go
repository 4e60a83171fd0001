package ledger

import (
	"strings"

	"pennywise/internal/core"
)

// AccountInput describes a new account. A non-zero OpeningBalance is recorded
// as a Starting Balance transaction dated OpeningDate (today when empty).
type AccountInput struct {
	Name           string
	Type           core.AccountType
	OpeningBalance core.Money
	OpeningDate    core.Date
}

// AccountPatch carries the fields to change; nil fields are left alone.
// Balances are never assigned directly.
type AccountPatch struct {
	Name *string
	Type *core.AccountType
}

func (l *Ledger) AddAccount(in AccountInput) (core.Account, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return core.Account{}, core.ErrEmptyName
	}
	if !in.Type.IsValid() {
		return core.Account{}, core.Invalid("type", "unknown account type "+string(in.Type))
	}

	acc := core.Account{ID: l.newID(), Name: name, Type: in.Type}
	l.accounts = append(l.accounts, acc)

	if !in.OpeningBalance.IsZero() {
		date := in.OpeningDate
		if date.IsEmpty() {
			date = core.Today()
		}
		tx := TransactionInput{
			AccountID: acc.ID,
			Date:      date,
			Payee:     core.StartingBalanceCategory,
			Category:  core.StartingBalanceCategory,
		}
		if in.OpeningBalance.IsPositive() {
			tx.Income = in.OpeningBalance
		} else {
			tx.Expense = in.OpeningBalance.Neg()
		}
		if _, err := l.AddTransaction(tx); err != nil {
			l.accounts = l.accounts[:len(l.accounts)-1]
			return core.Account{}, err
		}
	}
	return l.Account(acc.ID)
}

func (l *Ledger) UpdateAccount(id string, patch AccountPatch) error {
	i := l.accountIndex(id)
	if i < 0 {
		return core.NotFound(core.KindAccount, id)
	}
	updated := l.accounts[i]
	if patch.Name != nil {
		updated.Name = strings.TrimSpace(*patch.Name)
		if updated.Name == "" {
			return core.ErrEmptyName
		}
	}
	if patch.Type != nil {
		if !patch.Type.IsValid() {
			return core.Invalid("type", "unknown account type "+string(*patch.Type))
		}
		updated.Type = *patch.Type
	}
	l.accounts[i] = updated
	return nil
}

// DeleteAccount removes the account and every transaction attributed to it.
// The removed transactions do not touch any balance: the only balance they
// contributed to disappears with the account.
func (l *Ledger) DeleteAccount(id string) error {
	i := l.accountIndex(id)
	if i < 0 {
		return core.NotFound(core.KindAccount, id)
	}
	kept := l.transactions[:0:0]
	for _, tx := range l.transactions {
		if tx.AccountID != id {
			kept = append(kept, tx)
		}
	}
	l.transactions = kept
	l.accounts = append(l.accounts[:i:i], l.accounts[i+1:]...)
	return nil
}
