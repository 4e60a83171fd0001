package budget

import (
	"pennywise/internal/aggregate"
	"pennywise/internal/core"
)

type GroupTotals struct {
	Assigned  core.Money `json:"assigned"`
	Activity  core.Money `json:"activity"`
	Available core.Money `json:"available"`
}

type CategorySummary struct {
	Budget    core.CategoryBudget `json:"budget"`
	Activity  core.Money          `json:"activity"`
	Available core.Money          `json:"available"`
}

// CategoryActivity is the total expense recorded under name. Names are
// matched exactly; a category with no budget still has activity.
func (a *Allocator) CategoryActivity(name string) core.Money {
	return aggregate.CategoryActivity(a.reader.Transactions(), name)
}

// GroupTotals sums assigned and activity over the group's budgets.
func (a *Allocator) GroupTotals(groupID string) (GroupTotals, error) {
	if a.groupIndex(groupID) < 0 {
		return GroupTotals{}, core.NotFound(core.KindCategoryGroup, groupID)
	}
	activity := aggregate.ActivityByCategory(a.reader.Transactions())
	var t GroupTotals
	for _, b := range a.budgets {
		if b.GroupID != groupID {
			continue
		}
		t.Assigned = t.Assigned.Add(b.AssignedAmount)
		t.Activity = t.Activity.Add(activity[b.Name])
	}
	t.Available = t.Assigned.Sub(t.Activity)
	return t, nil
}

func (a *Allocator) CategorySummary(budgetID string) (CategorySummary, error) {
	b, err := a.Budget(budgetID)
	if err != nil {
		return CategorySummary{}, err
	}
	activity := a.CategoryActivity(b.Name)
	return CategorySummary{
		Budget:    b,
		Activity:  activity,
		Available: b.AssignedAmount.Sub(activity),
	}, nil
}

// Summaries returns one summary per budget in display order.
func (a *Allocator) Summaries() []CategorySummary {
	activity := aggregate.ActivityByCategory(a.reader.Transactions())
	ordered := a.Budgets()
	out := make([]CategorySummary, 0, len(ordered))
	for _, b := range ordered {
		out = append(out, CategorySummary{
			Budget:    b,
			Activity:  activity[b.Name],
			Available: b.AssignedAmount.Sub(activity[b.Name]),
		})
	}
	return out
}

func (a *Allocator) TotalAssigned() core.Money {
	return aggregate.TotalAssigned(a.budgets)
}

// AvailableToAssign is total account balance minus total assigned.
func (a *Allocator) AvailableToAssign() core.Money {
	return aggregate.TotalBalance(a.reader.Accounts()).Sub(a.TotalAssigned())
}

// VisibleBudgets lists the budgets of expanded groups in display order.
func (a *Allocator) VisibleBudgets() []core.CategoryBudget {
	var expanded []core.CategoryGroup
	for _, g := range a.groups {
		if g.IsExpanded {
			expanded = append(expanded, g)
		}
	}
	return aggregate.OrderedBudgets(expanded, a.budgets)
}

// AvailableCategories lists every budget name in display order.
func (a *Allocator) AvailableCategories() []string {
	return aggregate.AvailableCategories(a.groups, a.budgets)
}
