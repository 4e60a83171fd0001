// Package budget owns category groups and category budgets and derives the
// allocation figures from the ledger's transactions.
//
// Only assigned amounts are stored. Activity is read from the transaction
// collection every time it is asked for, joining Transaction.Category against
// CategoryBudget.Name by exact string match.
package budget

import (
	"slices"
	"sort"

	"github.com/google/uuid"

	"pennywise/internal/aggregate"
	"pennywise/internal/core"
)

// TransactionReader is the read-only view of the ledger the allocator needs.
type TransactionReader interface {
	Accounts() []core.Account
	Transactions() []core.Transaction
}

type Allocator struct {
	reader  TransactionReader
	groups  []core.CategoryGroup
	budgets []core.CategoryBudget
	newID   func() string
}

type Option func(*Allocator)

func WithIDGenerator(gen func() string) Option {
	return func(a *Allocator) { a.newID = gen }
}

// New creates an empty allocator reading activity from reader.
func New(reader TransactionReader, opts ...Option) *Allocator {
	a := &Allocator{reader: reader, newID: uuid.NewString}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Restore rebuilds an allocator from persisted collections. Both are put in
// position order and renumbered, so gaps left by older writers disappear.
// Budgets whose group is missing are dropped.
func Restore(reader TransactionReader, groups []core.CategoryGroup, budgets []core.CategoryBudget, opts ...Option) *Allocator {
	a := New(reader, opts...)
	a.groups = slices.Clone(groups)
	known := make(map[string]bool, len(groups))
	for _, g := range groups {
		known[g.ID] = true
	}
	for _, b := range budgets {
		if known[b.GroupID] {
			a.budgets = append(a.budgets, b)
		}
	}
	sort.SliceStable(a.groups, func(i, j int) bool { return a.groups[i].Position < a.groups[j].Position })
	sort.SliceStable(a.budgets, func(i, j int) bool { return a.budgets[i].Position < a.budgets[j].Position })
	a.renumberGroups()
	for _, g := range a.groups {
		a.renumberBudgets(g.ID)
	}
	return a
}

// Clone returns an independent copy that reads from reader.
func (a *Allocator) Clone(reader TransactionReader) *Allocator {
	return &Allocator{
		reader:  reader,
		groups:  slices.Clone(a.groups),
		budgets: slices.Clone(a.budgets),
		newID:   a.newID,
	}
}

// Groups returns the groups in position order.
func (a *Allocator) Groups() []core.CategoryGroup { return slices.Clone(a.groups) }

// Budgets returns every budget in display order.
func (a *Allocator) Budgets() []core.CategoryBudget {
	return aggregate.OrderedBudgets(a.groups, a.budgets)
}

func (a *Allocator) Group(id string) (core.CategoryGroup, error) {
	i := a.groupIndex(id)
	if i < 0 {
		return core.CategoryGroup{}, core.NotFound(core.KindCategoryGroup, id)
	}
	return a.groups[i], nil
}

func (a *Allocator) Budget(id string) (core.CategoryBudget, error) {
	i := a.budgetIndex(id)
	if i < 0 {
		return core.CategoryBudget{}, core.NotFound(core.KindCategoryBudget, id)
	}
	return a.budgets[i], nil
}

// BudgetsInGroup returns the group's budgets by position.
func (a *Allocator) BudgetsInGroup(groupID string) ([]core.CategoryBudget, error) {
	if a.groupIndex(groupID) < 0 {
		return nil, core.NotFound(core.KindCategoryGroup, groupID)
	}
	var out []core.CategoryBudget
	for _, b := range a.budgets {
		if b.GroupID == groupID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (a *Allocator) groupIndex(id string) int {
	return slices.IndexFunc(a.groups, func(g core.CategoryGroup) bool { return g.ID == id })
}

func (a *Allocator) budgetIndex(id string) int {
	return slices.IndexFunc(a.budgets, func(b core.CategoryBudget) bool { return b.ID == id })
}

func (a *Allocator) nameTaken(name, exceptID string) bool {
	return slices.ContainsFunc(a.budgets, func(b core.CategoryBudget) bool {
		return b.Name == name && b.ID != exceptID
	})
}

func (a *Allocator) renumberGroups() {
	for i := range a.groups {
		a.groups[i].Position = i
	}
}

// renumberBudgets assigns 0..n-1 to the group's budgets in backing order.
func (a *Allocator) renumberBudgets(groupID string) {
	pos := 0
	for i := range a.budgets {
		if a.budgets[i].GroupID == groupID {
			a.budgets[i].Position = pos
			pos++
		}
	}
}
