package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"pennywise/internal/core"
	"pennywise/internal/ledger"
	"pennywise/internal/services"
)

type accountAddCmd struct {
	*app
	name    string
	kind    string
	opening string
	date    string
}

func (*accountAddCmd) Name() string     { return "account-add" }
func (*accountAddCmd) Synopsis() string { return "Open a new account." }
func (*accountAddCmd) Usage() string {
	return `account-add -name <name> -type <type> [-opening <amount>] [-date YYYY-MM-DD]:
  Open an account. A non-zero opening balance is recorded as a
  "Starting Balance" transaction on -date (default today).
`
}

func (c *accountAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "account name")
	f.StringVar(&c.kind, "type", string(core.Checking), "checking, savings, cash, credit_card, line_of_credit, investment, asset or liability")
	f.StringVar(&c.opening, "opening", "", "opening balance")
	f.StringVar(&c.date, "date", "", "opening date")
}

func (c *accountAddCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(b *services.Book) error {
		kind, err := core.ParseAccountType(c.kind)
		if err != nil {
			return err
		}
		opening, err := parseOptionalAmount("opening", c.opening)
		if err != nil {
			return err
		}
		date, err := parseOptionalDate(c.date)
		if err != nil {
			return err
		}
		acc, err := b.AddAccount(ctx, ledger.AccountInput{Name: c.name, Type: kind, OpeningBalance: opening, OpeningDate: date})
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Added account %s (%s) balance %s\n", acc.Name, acc.ID, c.money(acc.Balance))
		return nil
	})
}

type accountUpdateCmd struct {
	*app
	id   string
	name string
	kind string
}

func (*accountUpdateCmd) Name() string     { return "account-update" }
func (*accountUpdateCmd) Synopsis() string { return "Rename an account or change its type." }
func (*accountUpdateCmd) Usage() string {
	return `account-update -id <id> [-name <name>] [-type <type>]:
  Change the name or type of an account. Only the given flags are applied.
`
}

func (c *accountUpdateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "account id")
	f.StringVar(&c.name, "name", "", "new name")
	f.StringVar(&c.kind, "type", "", "new type")
}

func (c *accountUpdateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	set := flagsSet(f)
	return c.run(ctx, func(b *services.Book) error {
		if err := required("id", c.id); err != nil {
			return err
		}
		var patch ledger.AccountPatch
		if set["name"] {
			patch.Name = &c.name
		}
		if set["type"] {
			kind, err := core.ParseAccountType(c.kind)
			if err != nil {
				return err
			}
			patch.Type = &kind
		}
		if err := b.UpdateAccount(ctx, c.id, patch); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Updated account %s\n", c.id)
		return nil
	})
}

type accountDeleteCmd struct {
	*app
	id string
}

func (*accountDeleteCmd) Name() string     { return "account-delete" }
func (*accountDeleteCmd) Synopsis() string { return "Delete an account and its transactions." }
func (*accountDeleteCmd) Usage() string {
	return `account-delete -id <id>:
  Delete the account together with every transaction recorded on it.
`
}

func (c *accountDeleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "account id")
}

func (c *accountDeleteCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(b *services.Book) error {
		if err := required("id", c.id); err != nil {
			return err
		}
		if err := b.DeleteAccount(ctx, c.id); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Deleted account %s\n", c.id)
		return nil
	})
}

type accountsCmd struct {
	*app
}

func (*accountsCmd) Name() string     { return "accounts" }
func (*accountsCmd) Synopsis() string { return "List accounts with their balances." }
func (*accountsCmd) Usage() string {
	return `accounts:
  List every account, then the totals per account category.
`
}

func (*accountsCmd) SetFlags(*flag.FlagSet) {}

func (c *accountsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(b *services.Book) error {
		w := c.table()
		fmt.Fprintln(w, "ID\tNAME\tTYPE\tBALANCE")
		for _, acc := range b.Accounts() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", acc.ID, acc.Name, acc.Type, c.money(acc.Balance))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		totals := b.TotalsByAccountCategory()
		fmt.Fprintln(c.out)
		for _, cat := range []core.AccountCategory{core.CashAccounts, core.CreditAccounts, core.TrackingAccounts} {
			fmt.Fprintf(c.out, "%-9s %s\n", cat, c.money(totals[cat]))
		}
		fmt.Fprintf(c.out, "%-9s %s\n", "total", c.money(b.TotalBalance()))
		return nil
	})
}
