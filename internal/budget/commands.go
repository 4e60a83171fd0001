package budget

import (
	"errors"
	"strings"

	"pennywise/internal/core"
	"pennywise/internal/ordering"
)

type GroupPatch struct {
	Name       *string
	IsExpanded *bool
}

// BudgetPatch carries the fields to change; nil fields are left alone.
// Renaming a budget does not rewrite the category of existing transactions.
type BudgetPatch struct {
	Name           *string
	AssignedAmount *core.Money
	GroupID        *string
}

// AddCategoryGroup appends an expanded group at the end of the order.
func (a *Allocator) AddCategoryGroup(name string) (core.CategoryGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return core.CategoryGroup{}, core.ErrEmptyName
	}
	g := core.CategoryGroup{
		ID:         a.newID(),
		Name:       name,
		IsExpanded: true,
		Position:   len(a.groups),
	}
	a.groups = append(a.groups, g)
	return g, nil
}

func (a *Allocator) UpdateCategoryGroup(id string, patch GroupPatch) error {
	i := a.groupIndex(id)
	if i < 0 {
		return core.NotFound(core.KindCategoryGroup, id)
	}
	updated := a.groups[i]
	if patch.Name != nil {
		updated.Name = strings.TrimSpace(*patch.Name)
		if updated.Name == "" {
			return core.ErrEmptyName
		}
	}
	if patch.IsExpanded != nil {
		updated.IsExpanded = *patch.IsExpanded
	}
	a.groups[i] = updated
	return nil
}

// DeleteCategoryGroup removes the group together with all of its budgets.
func (a *Allocator) DeleteCategoryGroup(id string) error {
	i := a.groupIndex(id)
	if i < 0 {
		return core.NotFound(core.KindCategoryGroup, id)
	}
	kept := a.budgets[:0:0]
	for _, b := range a.budgets {
		if b.GroupID != id {
			kept = append(kept, b)
		}
	}
	a.budgets = kept
	a.groups = append(a.groups[:i:i], a.groups[i+1:]...)
	a.renumberGroups()
	return nil
}

// ToggleGroupExpansion flips IsExpanded and returns the new value.
func (a *Allocator) ToggleGroupExpansion(id string) (bool, error) {
	i := a.groupIndex(id)
	if i < 0 {
		return false, core.NotFound(core.KindCategoryGroup, id)
	}
	a.groups[i].IsExpanded = !a.groups[i].IsExpanded
	return a.groups[i].IsExpanded, nil
}

// AddCategoryBudget appends a budget at the end of its group. Names are
// unique across all groups because transactions join on them.
func (a *Allocator) AddCategoryBudget(groupID, name string, assigned core.Money) (core.CategoryBudget, error) {
	if a.groupIndex(groupID) < 0 {
		return core.CategoryBudget{}, core.NotFound(core.KindCategoryGroup, groupID)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return core.CategoryBudget{}, core.ErrEmptyName
	}
	if a.nameTaken(name, "") {
		return core.CategoryBudget{}, core.Invalid("name", "a budget named "+name+" already exists")
	}
	if assigned.IsNegative() {
		return core.CategoryBudget{}, core.Invalid("assignedAmount", "assigned amount cannot be negative")
	}
	b := core.CategoryBudget{
		ID:             a.newID(),
		Name:           name,
		AssignedAmount: assigned,
		GroupID:        groupID,
		Position:       a.groupSize(groupID),
	}
	a.budgets = append(a.budgets, b)
	return b, nil
}

func (a *Allocator) UpdateCategoryBudget(id string, patch BudgetPatch) error {
	i := a.budgetIndex(id)
	if i < 0 {
		return core.NotFound(core.KindCategoryBudget, id)
	}
	old := a.budgets[i]
	updated := old
	if patch.Name != nil {
		updated.Name = strings.TrimSpace(*patch.Name)
		if updated.Name == "" {
			return core.ErrEmptyName
		}
		if a.nameTaken(updated.Name, id) {
			return core.Invalid("name", "a budget named "+updated.Name+" already exists")
		}
	}
	if patch.AssignedAmount != nil {
		if patch.AssignedAmount.IsNegative() {
			return core.Invalid("assignedAmount", "assigned amount cannot be negative")
		}
		updated.AssignedAmount = *patch.AssignedAmount
	}
	if patch.GroupID != nil && *patch.GroupID != old.GroupID {
		if a.groupIndex(*patch.GroupID) < 0 {
			return core.NotFound(core.KindCategoryGroup, *patch.GroupID)
		}
		updated.GroupID = *patch.GroupID
		updated.Position = a.groupSize(updated.GroupID)

		// Move the record to the tail so backing order keeps matching
		// positions in the destination group.
		a.budgets = append(append(a.budgets[:i:i], a.budgets[i+1:]...), updated)
		a.renumberBudgets(old.GroupID)
		return nil
	}
	a.budgets[i] = updated
	return nil
}

func (a *Allocator) DeleteCategoryBudget(id string) error {
	i := a.budgetIndex(id)
	if i < 0 {
		return core.NotFound(core.KindCategoryBudget, id)
	}
	groupID := a.budgets[i].GroupID
	a.budgets = append(a.budgets[:i:i], a.budgets[i+1:]...)
	a.renumberBudgets(groupID)
	return nil
}

// MoveCategoryGroup reorders groups with splice semantics and renumbers them.
func (a *Allocator) MoveCategoryGroup(from, to int) error {
	moved, err := ordering.Move(a.groups, from, to)
	if err != nil {
		return moveError(err)
	}
	a.groups = moved
	a.renumberGroups()
	return nil
}

// MoveCategoryBudget reorders the budgets of one group. Budgets of other
// groups keep their place in the backing collection.
func (a *Allocator) MoveCategoryBudget(groupID string, from, to int) error {
	if a.groupIndex(groupID) < 0 {
		return core.NotFound(core.KindCategoryGroup, groupID)
	}
	moved, err := ordering.MoveWithin(a.budgets, func(b core.CategoryBudget) bool { return b.GroupID == groupID }, from, to)
	if err != nil {
		return moveError(err)
	}
	a.budgets = moved
	a.renumberBudgets(groupID)
	return nil
}

func (a *Allocator) groupSize(groupID string) int {
	n := 0
	for _, b := range a.budgets {
		if b.GroupID == groupID {
			n++
		}
	}
	return n
}

func moveError(err error) error {
	if errors.Is(err, ordering.ErrIndexOutOfRange) {
		return core.Invalid("position", err.Error())
	}
	return err
}
