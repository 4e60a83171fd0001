package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"pennywise/internal/budget"
	"pennywise/internal/core"
	"pennywise/internal/services"
)

type groupAddCmd struct {
	*app
	name string
}

func (*groupAddCmd) Name() string     { return "group-add" }
func (*groupAddCmd) Synopsis() string { return "Create a category group." }
func (*groupAddCmd) Usage() string {
	return `group-add -name <name>:
  Append a new, expanded category group.
`
}

func (c *groupAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "group name")
}

func (c *groupAddCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(b *services.Book) error {
		g, err := b.AddCategoryGroup(ctx, c.name)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Added group %s (%s)\n", g.Name, g.ID)
		return nil
	})
}

type groupUpdateCmd struct {
	*app
	id       string
	name     string
	expanded bool
}

func (*groupUpdateCmd) Name() string     { return "group-update" }
func (*groupUpdateCmd) Synopsis() string { return "Rename a category group." }
func (*groupUpdateCmd) Usage() string {
	return `group-update -id <id> [-name <name>] [-expanded=true|false]:
  Change the name or expansion of a group.
`
}

func (c *groupUpdateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "group id")
	f.StringVar(&c.name, "name", "", "new name")
	f.BoolVar(&c.expanded, "expanded", true, "show the group's budgets")
}

func (c *groupUpdateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	set := flagsSet(f)
	return c.run(ctx, func(b *services.Book) error {
		if err := required("id", c.id); err != nil {
			return err
		}
		var patch budget.GroupPatch
		if set["name"] {
			patch.Name = &c.name
		}
		if set["expanded"] {
			patch.IsExpanded = &c.expanded
		}
		if err := b.UpdateCategoryGroup(ctx, c.id, patch); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Updated group %s\n", c.id)
		return nil
	})
}

type groupDeleteCmd struct {
	*app
	id string
}

func (*groupDeleteCmd) Name() string     { return "group-delete" }
func (*groupDeleteCmd) Synopsis() string { return "Delete a category group and its budgets." }
func (*groupDeleteCmd) Usage() string {
	return `group-delete -id <id>:
  Delete the group and every category budget in it. Transactions keep
  their category names.
`
}

func (c *groupDeleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "group id")
}

func (c *groupDeleteCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(b *services.Book) error {
		if err := required("id", c.id); err != nil {
			return err
		}
		if err := b.DeleteCategoryGroup(ctx, c.id); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Deleted group %s\n", c.id)
		return nil
	})
}

type groupToggleCmd struct {
	*app
	id string
}

func (*groupToggleCmd) Name() string     { return "group-toggle" }
func (*groupToggleCmd) Synopsis() string { return "Expand or collapse a category group." }
func (*groupToggleCmd) Usage() string {
	return `group-toggle -id <id>:
  Flip whether the group's budgets are listed by summary.
`
}

func (c *groupToggleCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "group id")
}

func (c *groupToggleCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(b *services.Book) error {
		if err := required("id", c.id); err != nil {
			return err
		}
		expanded, err := b.ToggleGroupExpansion(ctx, c.id)
		if err != nil {
			return err
		}
		state := "collapsed"
		if expanded {
			state = "expanded"
		}
		fmt.Fprintf(c.out, "Group %s %s\n", c.id, state)
		return nil
	})
}

type groupMoveCmd struct {
	*app
	from, to int
}

func (*groupMoveCmd) Name() string     { return "group-move" }
func (*groupMoveCmd) Synopsis() string { return "Reorder category groups." }
func (*groupMoveCmd) Usage() string {
	return `group-move -from <position> -to <position>:
  Move the group at -from to -to, shifting the ones in between.
`
}

func (c *groupMoveCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.from, "from", -1, "current position")
	f.IntVar(&c.to, "to", -1, "new position")
}

func (c *groupMoveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(b *services.Book) error {
		if err := b.MoveCategoryGroup(ctx, c.from, c.to); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Moved group %d to %d\n", c.from, c.to)
		return nil
	})
}

type budgetAddCmd struct {
	*app
	group    string
	name     string
	assigned string
}

func (*budgetAddCmd) Name() string     { return "budget-add" }
func (*budgetAddCmd) Synopsis() string { return "Create a category budget." }
func (*budgetAddCmd) Usage() string {
	return `budget-add -group <id> -name <name> [-assigned <amount>]:
  Append a category budget to a group. An unreadable amount counts as zero.
`
}

func (c *budgetAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.group, "group", "", "group id")
	f.StringVar(&c.name, "name", "", "category name")
	f.StringVar(&c.assigned, "assigned", "", "amount assigned")
}

func (c *budgetAddCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(b *services.Book) error {
		cb, err := b.AddCategoryBudget(ctx, c.group, c.name, core.ParseAmountOrZero(c.assigned))
		if err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Added budget %s (%s) assigned %s\n", cb.Name, cb.ID, c.money(cb.AssignedAmount))
		return nil
	})
}

type budgetUpdateCmd struct {
	*app
	id       string
	name     string
	assigned string
	group    string
}

func (*budgetUpdateCmd) Name() string     { return "budget-update" }
func (*budgetUpdateCmd) Synopsis() string { return "Change a category budget." }
func (*budgetUpdateCmd) Usage() string {
	return `budget-update -id <id> [-name <name>] [-assigned <amount>] [-group <id>]:
  Rename, reassign or move a budget to another group.
`
}

func (c *budgetUpdateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "budget id")
	f.StringVar(&c.name, "name", "", "new name")
	f.StringVar(&c.assigned, "assigned", "", "new assigned amount")
	f.StringVar(&c.group, "group", "", "new group id")
}

func (c *budgetUpdateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	set := flagsSet(f)
	return c.run(ctx, func(b *services.Book) error {
		if err := required("id", c.id); err != nil {
			return err
		}
		var patch budget.BudgetPatch
		if set["name"] {
			patch.Name = &c.name
		}
		if set["assigned"] {
			m := core.ParseAmountOrZero(c.assigned)
			patch.AssignedAmount = &m
		}
		if set["group"] {
			patch.GroupID = &c.group
		}
		if err := b.UpdateCategoryBudget(ctx, c.id, patch); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Updated budget %s\n", c.id)
		return nil
	})
}

type budgetDeleteCmd struct {
	*app
	id string
}

func (*budgetDeleteCmd) Name() string     { return "budget-delete" }
func (*budgetDeleteCmd) Synopsis() string { return "Delete a category budget." }
func (*budgetDeleteCmd) Usage() string {
	return `budget-delete -id <id>:
  Delete a category budget. Its assigned amount returns to the pool.
`
}

func (c *budgetDeleteCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "budget id")
}

func (c *budgetDeleteCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(b *services.Book) error {
		if err := required("id", c.id); err != nil {
			return err
		}
		if err := b.DeleteCategoryBudget(ctx, c.id); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Deleted budget %s\n", c.id)
		return nil
	})
}

type budgetMoveCmd struct {
	*app
	group    string
	from, to int
}

func (*budgetMoveCmd) Name() string     { return "budget-move" }
func (*budgetMoveCmd) Synopsis() string { return "Reorder budgets within a group." }
func (*budgetMoveCmd) Usage() string {
	return `budget-move -group <id> -from <position> -to <position>:
  Move a budget inside its group.
`
}

func (c *budgetMoveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.group, "group", "", "group id")
	f.IntVar(&c.from, "from", -1, "current position")
	f.IntVar(&c.to, "to", -1, "new position")
}

func (c *budgetMoveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.run(ctx, func(b *services.Book) error {
		if err := b.MoveCategoryBudget(ctx, c.group, c.from, c.to); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Moved budget %d to %d in %s\n", c.from, c.to, c.group)
		return nil
	})
}
