package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"pennywise/internal/services"
)

type summaryCmd struct {
	*app
	all bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "Show the budget by group." }
func (*summaryCmd) Usage() string {
	return `summary [-all]:
  Print assigned, activity and available per category and group, followed
  by the money still available to assign. Budgets of collapsed groups are
  hidden unless -all is given.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "include budgets of collapsed groups")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(b *services.Book) error {
		snap := b.Snapshot()
		visible := map[string]bool{}
		for _, cb := range b.VisibleBudgets() {
			visible[cb.ID] = true
		}

		w := c.table()
		fmt.Fprintln(w, "GROUP\tCATEGORY\tASSIGNED\tACTIVITY\tAVAILABLE")
		for _, g := range snap.Groups {
			totals, err := b.GroupTotals(g.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t\t%s\t%s\t%s\n", g.Name, c.money(totals.Assigned), c.money(totals.Activity), c.money(totals.Available))
			for _, s := range snap.Summaries {
				if s.Budget.GroupID != g.ID || !(c.all || visible[s.Budget.ID]) {
					continue
				}
				fmt.Fprintf(w, "\t%s\t%s\t%s\t%s\n", s.Budget.Name, c.money(s.Budget.AssignedAmount), c.money(s.Activity), c.money(s.Available))
			}
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Fprintln(c.out)
		fmt.Fprintf(c.out, "Income            %s\n", c.money(b.TotalIncome()))
		fmt.Fprintf(c.out, "Expenses          %s\n", c.money(b.TotalExpenses()))
		fmt.Fprintf(c.out, "Assigned          %s\n", c.money(b.TotalAssigned()))
		fmt.Fprintf(c.out, "To assign         %s\n", c.money(b.AvailableToAssign()))
		return nil
	})
}

type payeesCmd struct {
	*app
}

func (*payeesCmd) Name() string     { return "payees" }
func (*payeesCmd) Synopsis() string { return "List distinct payees." }
func (*payeesCmd) Usage() string {
	return `payees:
  List every payee seen in a transaction, sorted.
`
}

func (*payeesCmd) SetFlags(*flag.FlagSet) {}

func (c *payeesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(b *services.Book) error {
		for _, p := range b.UniquePayees() {
			fmt.Fprintln(c.out, p)
		}
		return nil
	})
}

type categoriesCmd struct {
	*app
	used bool
}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "List category names." }
func (*categoriesCmd) Usage() string {
	return `categories [-used]:
  List budget category names in display order, or with -used the
  categories that appear on transactions.
`
}

func (c *categoriesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.used, "used", false, "list categories found on transactions")
}

func (c *categoriesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(b *services.Book) error {
		names := b.AvailableCategories()
		if c.used {
			names = b.UniqueCategories()
		}
		for _, n := range names {
			fmt.Fprintln(c.out, n)
		}
		return nil
	})
}

type verifyCmd struct {
	*app
}

func (*verifyCmd) Name() string     { return "verify" }
func (*verifyCmd) Synopsis() string { return "Check balances against transactions." }
func (*verifyCmd) Usage() string {
	return `verify:
  Recompute every account balance from its transactions and report drift.
`
}

func (*verifyCmd) SetFlags(*flag.FlagSet) {}

func (c *verifyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(b *services.Book) error {
		if err := b.Verify(); err != nil {
			return err
		}
		fmt.Fprintln(c.out, "Ledger consistent")
		return nil
	})
}
