package ledger

import (
	"fmt"
	"strings"

	"pennywise/internal/core"
	"pennywise/internal/recurrence"
)

// RecurringMemoSuffix marks transactions materialised from a recurring template.
const RecurringMemoSuffix = "(recurring)"

type TransactionInput struct {
	AccountID string
	Date      core.Date
	Payee     string
	Category  string
	Memo      string
	Income    core.Money
	Expense   core.Money
}

// TransactionPatch carries the fields to change; nil fields are left alone.
type TransactionPatch struct {
	AccountID *string
	Date      *core.Date
	Payee     *string
	Category  *string
	Memo      *string
	Income    *core.Money
	Expense   *core.Money
}

func (p TransactionPatch) apply(tx core.Transaction) core.Transaction {
	if p.AccountID != nil {
		tx.AccountID = *p.AccountID
	}
	if p.Date != nil {
		tx.Date = *p.Date
	}
	if p.Payee != nil {
		tx.Payee = strings.TrimSpace(*p.Payee)
	}
	if p.Category != nil {
		tx.Category = strings.TrimSpace(*p.Category)
	}
	if p.Memo != nil {
		tx.Memo = strings.TrimSpace(*p.Memo)
	}
	if p.Income != nil {
		tx.Income = *p.Income
	}
	if p.Expense != nil {
		tx.Expense = *p.Expense
	}
	return tx
}

type TransferInput struct {
	FromAccountID string
	ToAccountID   string
	Amount        core.Money
	Date          core.Date
	Memo          string
}

// RecurrenceInput selects how clones of a template are dated. A zero Count
// means recurrence.DefaultCount.
type RecurrenceInput struct {
	Frequency core.Frequency
	Interval  int
	Count     int
}

func (in TransactionInput) transaction(id string) core.Transaction {
	return core.Transaction{
		ID:        id,
		AccountID: in.AccountID,
		Date:      in.Date,
		Payee:     strings.TrimSpace(in.Payee),
		Category:  strings.TrimSpace(in.Category),
		Memo:      strings.TrimSpace(in.Memo),
		Income:    in.Income,
		Expense:   in.Expense,
	}
}

// AddTransaction records a transaction and moves its account balance by
// income minus expense.
func (l *Ledger) AddTransaction(in TransactionInput) (core.Transaction, error) {
	tx := in.transaction(l.newID())
	if err := validateTransaction(tx); err != nil {
		return core.Transaction{}, err
	}
	if l.accountIndex(tx.AccountID) < 0 {
		return core.Transaction{}, core.NotFound(core.KindAccount, tx.AccountID)
	}
	if err := l.applyNet(tx.AccountID, tx.Net()); err != nil {
		return core.Transaction{}, err
	}
	l.transactions = append(l.transactions, tx)
	return tx, nil
}

// UpdateTransaction applies patch as one transition: the old net leaves the
// old account and the new net lands on the (possibly different) new account.
// Nothing changes when the patched transaction is invalid.
func (l *Ledger) UpdateTransaction(id string, patch TransactionPatch) error {
	i := l.transactionIndex(id)
	if i < 0 {
		return core.NotFound(core.KindTransaction, id)
	}
	old := l.transactions[i]
	updated := patch.apply(old)
	if err := validateTransaction(updated); err != nil {
		return err
	}
	if l.accountIndex(updated.AccountID) < 0 {
		return core.NotFound(core.KindAccount, updated.AccountID)
	}

	if err := l.applyNet(old.AccountID, old.Net().Neg()); err != nil {
		return err
	}
	if err := l.applyNet(updated.AccountID, updated.Net()); err != nil {
		return err
	}
	l.transactions[i] = updated
	return nil
}

// DeleteTransaction reverses exactly the stored net on the owning account and
// removes the record.
func (l *Ledger) DeleteTransaction(id string) error {
	i := l.transactionIndex(id)
	if i < 0 {
		return core.NotFound(core.KindTransaction, id)
	}
	tx := l.transactions[i]
	if err := l.applyNet(tx.AccountID, tx.Net().Neg()); err != nil {
		return err
	}
	l.transactions = append(l.transactions[:i:i], l.transactions[i+1:]...)
	return nil
}

// CreateTransfer records an expense on the source and an income on the
// destination, both in the Transfer category. Total balance is unchanged.
func (l *Ledger) CreateTransfer(in TransferInput) ([2]core.Transaction, error) {
	var out [2]core.Transaction
	if in.FromAccountID == in.ToAccountID {
		return out, core.Invalid("toAccountId", "cannot transfer to the same account")
	}
	if err := in.Amount.Validate(); err != nil {
		return out, err
	}
	if err := in.Date.Validate(); err != nil {
		return out, err
	}
	from, err := l.Account(in.FromAccountID)
	if err != nil {
		return out, err
	}
	to, err := l.Account(in.ToAccountID)
	if err != nil {
		return out, err
	}

	out[0], err = l.AddTransaction(TransactionInput{
		AccountID: from.ID,
		Date:      in.Date,
		Payee:     "Transfer to: " + to.Name,
		Category:  core.TransferCategory,
		Memo:      in.Memo,
		Expense:   in.Amount,
	})
	if err != nil {
		return out, err
	}
	out[1], err = l.AddTransaction(TransactionInput{
		AccountID: to.ID,
		Date:      in.Date,
		Payee:     "Transfer from: " + from.Name,
		Category:  core.TransferCategory,
		Memo:      in.Memo,
		Income:    in.Amount,
	})
	if err != nil {
		// The pair is all or nothing.
		_ = l.DeleteTransaction(out[0].ID)
		return [2]core.Transaction{}, err
	}
	return out, nil
}

// AddRecurringTransaction records the template and then one independent
// clone per generated date, each with its memo marked as recurring. The
// returned slice starts with the template.
func (l *Ledger) AddRecurringTransaction(in TransactionInput, rec RecurrenceInput) ([]core.Transaction, error) {
	if err := validateTransaction(in.transaction("")); err != nil {
		return nil, err
	}
	if l.accountIndex(in.AccountID) < 0 {
		return nil, core.NotFound(core.KindAccount, in.AccountID)
	}
	count := rec.Count
	if count == 0 {
		count = recurrence.DefaultCount
	}
	dates, err := recurrence.Generate(in.Date, rec.Frequency, rec.Interval, count)
	if err != nil {
		return nil, fmt.Errorf("generate occurrences: %w", err)
	}

	out := make([]core.Transaction, 0, len(dates)+1)
	template, err := l.AddTransaction(in)
	if err != nil {
		return nil, err
	}
	out = append(out, template)

	clone := in
	clone.Memo = strings.TrimSpace(in.Memo + " " + RecurringMemoSuffix)
	for _, d := range dates {
		clone.Date = d
		tx, err := l.AddTransaction(clone)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}
