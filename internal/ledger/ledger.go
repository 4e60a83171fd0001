// Package ledger owns accounts and transactions and keeps every account
// balance equal to the net of the transactions attributed to it.
//
// A Ledger is not safe for concurrent use; services.Book serialises access
// and works on clones so that a failed command never leaves a partial update.
package ledger

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"pennywise/internal/aggregate"
	"pennywise/internal/core"
)

type Ledger struct {
	accounts     []core.Account
	transactions []core.Transaction
	newID        func() string
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithIDGenerator replaces the default random UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(l *Ledger) { l.newID = gen }
}

// New creates an empty ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{newID: uuid.NewString}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Restore rebuilds a ledger from persisted collections. Stored balances are
// kept as they are; call Verify to check them against the transactions.
func Restore(accounts []core.Account, transactions []core.Transaction, opts ...Option) *Ledger {
	l := New(opts...)
	l.accounts = slices.Clone(accounts)
	l.transactions = slices.Clone(transactions)
	return l
}

// Clone returns an independent copy sharing no mutable state.
func (l *Ledger) Clone() *Ledger {
	return &Ledger{
		accounts:     slices.Clone(l.accounts),
		transactions: slices.Clone(l.transactions),
		newID:        l.newID,
	}
}

func (l *Ledger) Accounts() []core.Account         { return slices.Clone(l.accounts) }
func (l *Ledger) Transactions() []core.Transaction { return slices.Clone(l.transactions) }

func (l *Ledger) Account(id string) (core.Account, error) {
	i := l.accountIndex(id)
	if i < 0 {
		return core.Account{}, core.NotFound(core.KindAccount, id)
	}
	return l.accounts[i], nil
}

func (l *Ledger) Transaction(id string) (core.Transaction, error) {
	i := l.transactionIndex(id)
	if i < 0 {
		return core.Transaction{}, core.NotFound(core.KindTransaction, id)
	}
	return l.transactions[i], nil
}

// TransactionsForAccount returns the account's transactions in insertion order.
func (l *Ledger) TransactionsForAccount(accountID string) ([]core.Transaction, error) {
	if l.accountIndex(accountID) < 0 {
		return nil, core.NotFound(core.KindAccount, accountID)
	}
	var out []core.Transaction
	for _, tx := range l.transactions {
		if tx.AccountID == accountID {
			out = append(out, tx)
		}
	}
	return out, nil
}

// Verify recomputes every balance from the transactions and reports the
// first account whose stored balance disagrees, or a transaction whose
// account does not exist.
func (l *Ledger) Verify() error {
	for _, tx := range l.transactions {
		if l.accountIndex(tx.AccountID) < 0 {
			return &core.InvariantError{Detail: fmt.Sprintf("transaction %s references missing account %s", tx.ID, tx.AccountID)}
		}
	}
	want := aggregate.AccountBalances(l.accounts, l.transactions)
	for _, a := range l.accounts {
		if !a.Balance.Equal(want[a.ID]) {
			return &core.InvariantError{Detail: fmt.Sprintf("account %s balance %s, transactions sum to %s", a.ID, a.Balance, want[a.ID])}
		}
	}
	return nil
}

// Drift returns the stored balance minus the transaction sum for every
// account where they disagree. An account id that only appears on
// transactions is always listed, with a stored balance of zero.
func (l *Ledger) Drift() map[string]core.Money {
	out := map[string]core.Money{}
	sums := aggregate.AccountBalances(l.accounts, l.transactions)
	for _, a := range l.accounts {
		if d := a.Balance.Sub(sums[a.ID]); !d.IsZero() {
			out[a.ID] = d
		}
		delete(sums, a.ID)
	}
	for id, sum := range sums {
		out[id] = sum.Neg()
	}
	return out
}

func (l *Ledger) accountIndex(id string) int {
	return slices.IndexFunc(l.accounts, func(a core.Account) bool { return a.ID == id })
}

func (l *Ledger) transactionIndex(id string) int {
	return slices.IndexFunc(l.transactions, func(tx core.Transaction) bool { return tx.ID == id })
}

// applyNet is the only place balances change.
func (l *Ledger) applyNet(accountID string, delta core.Money) error {
	i := l.accountIndex(accountID)
	if i < 0 {
		return &core.InvariantError{Detail: fmt.Sprintf("balance delta %s for missing account %s", delta, accountID)}
	}
	l.accounts[i].Balance = l.accounts[i].Balance.Add(delta)
	return nil
}

func validateTransaction(tx core.Transaction) error {
	if strings.TrimSpace(tx.AccountID) == "" {
		return core.Invalid("accountId", "account is required")
	}
	if err := tx.Date.Validate(); err != nil {
		return err
	}
	if tx.Income.IsNegative() {
		return core.Invalid("income", "income cannot be negative")
	}
	if tx.Expense.IsNegative() {
		return core.Invalid("expense", "expense cannot be negative")
	}
	if tx.Income.IsZero() == tx.Expense.IsZero() {
		return core.Invalid("amount", "exactly one of income or expense must be non-zero")
	}
	if strings.TrimSpace(tx.Category) == "" {
		return core.ErrEmptyCategory
	}
	return nil
}
