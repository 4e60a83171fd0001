package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"pennywise/internal/core"
	"pennywise/internal/ledger"
	"pennywise/internal/services"
)

// txFlags are the fields shared by tx-add, tx-update and recurring.
type txFlags struct {
	account  string
	date     string
	payee    string
	category string
	memo     string
	income   string
	expense  string
}

func (t *txFlags) set(f *flag.FlagSet) {
	f.StringVar(&t.account, "account", "", "account id")
	f.StringVar(&t.date, "date", "", "date YYYY-MM-DD (default today)")
	f.StringVar(&t.payee, "payee", "", "payee")
	f.StringVar(&t.category, "category", "", "category name")
	f.StringVar(&t.memo, "memo", "", "memo")
	f.StringVar(&t.income, "income", "", "amount received")
	f.StringVar(&t.expense, "expense", "", "amount spent")
}

func (t *txFlags) input() (ledger.TransactionInput, error) {
	date, err := parseOptionalDate(t.date)
	if err != nil {
		return ledger.TransactionInput{}, err
	}
	income, err := parseOptionalAmount("income", t.income)
	if err != nil {
		return ledger.TransactionInput{}, err
	}
	expense, err := parseOptionalAmount("expense", t.expense)
	if err != nil {
		return ledger.TransactionInput{}, err
	}
	return ledger.TransactionInput{
		AccountID: t.account,
		Date:      date,
		Payee:     t.payee,
		Category:  t.category,
		Memo:      t.memo,
		Income:    income,
		Expense:   expense,
	}, nil
}

// warnCategory hints at a close budget name when category is not one.
func warnCategory(b *services.Book, category string) {
	if s, ok := b.SuggestCategory(category); ok {
		fmt.Fprintf(os.Stderr, "Warning: no budget named %q, did you mean %q?\n", category, s)
	}
}

type txAddCmd struct {
	*app
	txFlags
}

func (*txAddCmd) Name() string     { return "tx-add" }
func (*txAddCmd) Synopsis() string { return "Record a transaction." }
func (*txAddCmd) Usage() string {
	return `tx-add -account <id> -category <name> (-income <amount> | -expense <amount>) [-date] [-payee] [-memo]:
  Record a transaction against an account.
`
}

func (c *txAddCmd) SetFlags(f *flag.FlagSet) { c.txFlags.set(f) }

func (c *txAddCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(b *services.Book) error {
		in, err := c.input()
		if err != nil {
			return err
		}
		tx, err := b.AddTransaction(ctx, in)
		if err != nil {
			return err
		}
		warnCategory(b, tx.Category)
		fmt.Fprintf(c.out, "Added transaction %s %s %s\n", tx.ID, tx.Date, c.money(tx.Net()))
		return nil
	})
}

type txUpdateCmd struct {
	*app
	id string
	txFlags
}

func (*txUpdateCmd) Name() string     { return "tx-update" }
func (*txUpdateCmd) Synopsis() string { return "Change fields of a transaction." }
func (*txUpdateCmd) Usage() string {
	return `tx-update -id <id> [-account] [-date] [-payee] [-category] [-memo] [-income | -expense]:
  Only the given flags are applied. Setting -income clears the expense
  and the other way round.
`
}

func (c *txUpdateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "transaction id")
	c.txFlags.set(f)
}

func (c *txUpdateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	set := flagsSet(f)
	return c.run(ctx, func(b *services.Book) error {
		if err := required("id", c.id); err != nil {
			return err
		}
		patch, err := c.patch(set)
		if err != nil {
			return err
		}
		if err := b.UpdateTransaction(ctx, c.id, patch); err != nil {
			return err
		}
		if patch.Category != nil {
			warnCategory(b, *patch.Category)
		}
		fmt.Fprintf(c.out, "Updated transaction %s\n", c.id)
		return nil
	})
}

func (c *txUpdateCmd) patch(set map[string]bool) (ledger.TransactionPatch, error) {
	var p ledger.TransactionPatch
	if set["account"] {
		p.AccountID = &c.account
	}
	if set["date"] {
		d, err := core.ParseDate(c.date)
		if err != nil {
			return p, err
		}
		p.Date = &d
	}
	if set["payee"] {
		p.Payee = &c.payee
	}
	if set["category"] {
		p.Category = &c.category
	}
	if set["memo"] {
		p.Memo = &c.memo
	}
	if set["income"] && set["expense"] {
		return p, core.Invalid("amount", "give either -income or -expense")
	}
	zero := core.Money{}
	if set["income"] {
		m, err := parseOptionalAmount("income", c.income)
		if err != nil {
			return p, err
		}
		p.Income, p.Expense = &m, &zero
	}
	if set["expense"] {
		m, err := parseOptionalAmount("expense", c.expense)
		if err != nil {
			return p, err
		}
		p.Income, p.Expense = &zero, &m
	}
	return p, nil
}

type txDeleteCmd struct {
	*app
	id string
}

func (*txDeleteCmd) Name() string     { return "tx-delete" }
func (*txDeleteCmd) Synopsis() string { return "Delete a transaction." }
func (*txDeleteCmd) Usage() string {
	return `tx-delete -id <id>:
  Delete a transaction and revert its effect on the account balance.
`
}

func (c *txDeleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "transaction id")
}

func (c *txDeleteCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(b *services.Book) error {
		if err := required("id", c.id); err != nil {
			return err
		}
		if err := b.DeleteTransaction(ctx, c.id); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Deleted transaction %s\n", c.id)
		return nil
	})
}

type txsCmd struct {
	*app
	account string
}

func (*txsCmd) Name() string     { return "txs" }
func (*txsCmd) Synopsis() string { return "List transactions." }
func (*txsCmd) Usage() string {
	return `txs [-account <id>]:
  List transactions, optionally for a single account.
`
}

func (c *txsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.account, "account", "", "only this account")
}

func (c *txsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(b *services.Book) error {
		txs := b.Transactions()
		if c.account != "" {
			var err error
			if txs, err = b.TransactionsForAccount(c.account); err != nil {
				return err
			}
		}
		w := c.table()
		fmt.Fprintln(w, "ID\tDATE\tACCOUNT\tPAYEE\tCATEGORY\tINCOME\tEXPENSE")
		for _, tx := range txs {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				tx.ID, tx.Date, tx.AccountID, tx.Payee, tx.Category, c.cell(tx.Income), c.cell(tx.Expense))
		}
		return w.Flush()
	})
}

// cell renders a zero amount as an empty cell.
func (a *app) cell(m core.Money) string {
	if m.IsZero() {
		return ""
	}
	return a.money(m)
}

type transferCmd struct {
	*app
	from   string
	to     string
	amount string
	date   string
	memo   string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "Move money between two accounts." }
func (*transferCmd) Usage() string {
	return `transfer -from <id> -to <id> -amount <amount> [-date] [-memo]:
  Record a paired expense and income in the "Transfer" category.
`
}

func (c *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "source account id")
	f.StringVar(&c.to, "to", "", "destination account id")
	f.StringVar(&c.amount, "amount", "", "amount to move")
	f.StringVar(&c.date, "date", "", "date YYYY-MM-DD (default today)")
	f.StringVar(&c.memo, "memo", "", "memo")
}

func (c *transferCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(b *services.Book) error {
		amount, err := core.ParseAmount(c.amount)
		if err != nil {
			return core.Invalid("amount", err.Error())
		}
		date, err := parseOptionalDate(c.date)
		if err != nil {
			return err
		}
		pair, err := b.CreateTransfer(ctx, ledger.TransferInput{
			FromAccountID: c.from,
			ToAccountID:   c.to,
			Amount:        amount,
			Date:          date,
			Memo:          c.memo,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Transferred %s (%s, %s)\n", c.money(amount), pair[0].ID, pair[1].ID)
		return nil
	})
}

type recurringCmd struct {
	*app
	txFlags
	every    string
	interval int
	count    int
}

func (*recurringCmd) Name() string     { return "recurring" }
func (*recurringCmd) Synopsis() string { return "Record a transaction and its future occurrences." }
func (*recurringCmd) Usage() string {
	return `recurring -account <id> -category <name> (-income | -expense) -every <frequency> [-interval n] [-count n]:
  Record the transaction on -date and -count more occurrences, each
  -interval units of -every (day, week, month, year) apart.
`
}

func (c *recurringCmd) SetFlags(f *flag.FlagSet) {
	c.txFlags.set(f)
	f.StringVar(&c.every, "every", string(core.Monthly), "daily, weekly, monthly or yearly")
	f.IntVar(&c.interval, "interval", 1, "units between occurrences")
	f.IntVar(&c.count, "count", 0, "future occurrences (0 uses RECURRING_COUNT)")
}

func (c *recurringCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(b *services.Book) error {
		freq, err := core.ParseFrequency(c.every)
		if err != nil {
			return err
		}
		in, err := c.input()
		if err != nil {
			return err
		}
		txs, err := b.AddRecurringTransaction(ctx, in, ledger.RecurrenceInput{Frequency: freq, Interval: c.interval, Count: c.count})
		if err != nil {
			return err
		}
		warnCategory(b, in.Category)
		last := txs[len(txs)-1]
		fmt.Fprintf(c.out, "Added %d transactions through %s\n", len(txs), last.Date)
		return nil
	})
}
