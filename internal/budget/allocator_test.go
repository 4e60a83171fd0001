package budget

import (
	"errors"
	"fmt"
	"slices"
	"testing"

	"pennywise/internal/core"
)

type fakeLedger struct {
	accounts     []core.Account
	transactions []core.Transaction
}

func (f *fakeLedger) Accounts() []core.Account         { return f.accounts }
func (f *fakeLedger) Transactions() []core.Transaction { return f.transactions }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("b-%d", n)
	}
}

func newTestAllocator(l *fakeLedger) *Allocator {
	return New(l, WithIDGenerator(sequentialIDs()))
}

func spend(category string, cents int64) core.Transaction {
	return core.Transaction{AccountID: "acc", Date: core.NewDate(2024, 1, 1), Category: category, Expense: core.Cents(cents)}
}

func names(budgets []core.CategoryBudget) []string {
	out := make([]string, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, b.Name)
	}
	return out
}

func mustGroup(t *testing.T, a *Allocator, name string) core.CategoryGroup {
	t.Helper()
	g, err := a.AddCategoryGroup(name)
	if err != nil {
		t.Fatalf("AddCategoryGroup(%s): %v", name, err)
	}
	return g
}

func mustBudget(t *testing.T, a *Allocator, groupID, name string, cents int64) core.CategoryBudget {
	t.Helper()
	b, err := a.AddCategoryBudget(groupID, name, core.Cents(cents))
	if err != nil {
		t.Fatalf("AddCategoryBudget(%s): %v", name, err)
	}
	return b
}

func TestCategoryActivityScenario(t *testing.T) {
	l := &fakeLedger{
		accounts:     []core.Account{{ID: "acc", Balance: core.Cents(100000)}},
		transactions: []core.Transaction{spend("Food", 5000), spend("Food", 7500), spend("Rent", 90000)},
	}
	a := newTestAllocator(l)
	g := mustGroup(t, a, "Everyday")
	food := mustBudget(t, a, g.ID, "Food", 30000)

	if got := a.CategoryActivity("Food"); got.Cents != 12500 {
		t.Fatalf("activity = %d, want 12500", got.Cents)
	}
	s, err := a.CategorySummary(food.ID)
	if err != nil {
		t.Fatal(err)
	}
	if s.Activity.Cents != 12500 || s.Available.Cents != 17500 {
		t.Errorf("summary = %+v", s)
	}

	// Activity does not depend on the assigned amount.
	more := core.Cents(1)
	if err := a.UpdateCategoryBudget(food.ID, BudgetPatch{AssignedAmount: &more}); err != nil {
		t.Fatal(err)
	}
	if got := a.CategoryActivity("Food"); got.Cents != 12500 {
		t.Errorf("activity after reassign = %d", got.Cents)
	}
	// Rent has activity without a budget.
	if got := a.CategoryActivity("Rent"); got.Cents != 90000 {
		t.Errorf("unbudgeted activity = %d", got.Cents)
	}
}

func TestGroupTotals(t *testing.T) {
	l := &fakeLedger{transactions: []core.Transaction{spend("Food", 2000), spend("Fuel", 1000), spend("Fun", 400)}}
	a := newTestAllocator(l)
	g := mustGroup(t, a, "Everyday")
	other := mustGroup(t, a, "Leisure")
	mustBudget(t, a, g.ID, "Food", 5000)
	mustBudget(t, a, g.ID, "Fuel", 3000)
	mustBudget(t, a, other.ID, "Fun", 1000)

	got, err := a.GroupTotals(g.ID)
	if err != nil {
		t.Fatal(err)
	}
	want := GroupTotals{Assigned: core.Cents(8000), Activity: core.Cents(3000), Available: core.Cents(5000)}
	if got != want {
		t.Errorf("GroupTotals = %+v, want %+v", got, want)
	}
	if _, err := a.GroupTotals("ghost"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("missing group: got %v", err)
	}
}

func TestAvailableToAssign(t *testing.T) {
	l := &fakeLedger{accounts: []core.Account{{ID: "a", Balance: core.Cents(50000)}, {ID: "b", Balance: core.Cents(-10000)}}}
	a := newTestAllocator(l)
	g := mustGroup(t, a, "Bills")
	mustBudget(t, a, g.ID, "Rent", 30000)
	mustBudget(t, a, g.ID, "Power", 5000)

	if got := a.TotalAssigned(); got.Cents != 35000 {
		t.Errorf("TotalAssigned = %d", got.Cents)
	}
	if got := a.AvailableToAssign(); got.Cents != 5000 {
		t.Errorf("AvailableToAssign = %d, want 5000", got.Cents)
	}
}

func TestDeleteGroupCascadeScenario(t *testing.T) {
	l := &fakeLedger{accounts: []core.Account{{ID: "a", Balance: core.Cents(100000)}}}
	a := newTestAllocator(l)
	doomed := mustGroup(t, a, "Doomed")
	kept := mustGroup(t, a, "Kept")
	mustBudget(t, a, doomed.ID, "One", 10000)
	mustBudget(t, a, doomed.ID, "Two", 5000)
	mustBudget(t, a, kept.ID, "Three", 2000)

	beforeAssigned, beforeAvailable := a.TotalAssigned(), a.AvailableToAssign()
	if err := a.DeleteCategoryGroup(doomed.ID); err != nil {
		t.Fatalf("DeleteCategoryGroup: %v", err)
	}
	if got := beforeAssigned.Sub(a.TotalAssigned()); got.Cents != 15000 {
		t.Errorf("totalAssigned dropped by %d, want 15000", got.Cents)
	}
	if got := a.AvailableToAssign().Sub(beforeAvailable); got.Cents != 15000 {
		t.Errorf("availableToAssign rose by %d, want 15000", got.Cents)
	}
	if got := names(a.Budgets()); !slices.Equal(got, []string{"Three"}) {
		t.Errorf("budgets = %v", got)
	}
	if gs := a.Groups(); len(gs) != 1 || gs[0].Position != 0 {
		t.Errorf("groups = %+v", gs)
	}
	if err := a.DeleteCategoryGroup(doomed.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second delete: got %v", err)
	}
}

func TestBudgetValidation(t *testing.T) {
	a := newTestAllocator(&fakeLedger{})
	g := mustGroup(t, a, "G")
	mustBudget(t, a, g.ID, "Food", 0)

	tests := []struct {
		name    string
		groupID string
		budget  string
		amount  int64
		want    error
	}{
		{"missing group", "ghost", "X", 0, core.ErrNotFound},
		{"empty name", g.ID, "  ", 0, core.ErrValidation},
		{"duplicate name", g.ID, "Food", 0, core.ErrValidation},
		{"negative assigned", g.ID, "Fuel", -1, core.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := a.AddCategoryBudget(tt.groupID, tt.budget, core.Cents(tt.amount)); !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
	if _, err := a.AddCategoryGroup(""); !errors.Is(err, core.ErrValidation) {
		t.Errorf("empty group name: got %v", err)
	}
}

func TestDefaultAssignedFromMalformedInput(t *testing.T) {
	a := newTestAllocator(&fakeLedger{})
	g := mustGroup(t, a, "G")
	b, err := a.AddCategoryBudget(g.ID, "Gifts", core.ParseAmountOrZero("lots"))
	if err != nil {
		t.Fatal(err)
	}
	if !b.AssignedAmount.IsZero() {
		t.Errorf("assigned = %v, want 0", b.AssignedAmount)
	}
}

func TestRenameDoesNotRelink(t *testing.T) {
	l := &fakeLedger{transactions: []core.Transaction{spend("Food", 1000)}}
	a := newTestAllocator(l)
	g := mustGroup(t, a, "G")
	b := mustBudget(t, a, g.ID, "Food", 5000)

	name := "Groceries"
	if err := a.UpdateCategoryBudget(b.ID, BudgetPatch{Name: &name}); err != nil {
		t.Fatal(err)
	}
	s, _ := a.CategorySummary(b.ID)
	if !s.Activity.IsZero() || s.Available.Cents != 5000 {
		t.Errorf("renamed summary = %+v", s)
	}
	if got := a.CategoryActivity("Food"); got.Cents != 1000 {
		t.Errorf("old name activity = %d", got.Cents)
	}
}

func TestUpdateBudgetMovesGroup(t *testing.T) {
	a := newTestAllocator(&fakeLedger{})
	g1 := mustGroup(t, a, "G1")
	g2 := mustGroup(t, a, "G2")
	a1 := mustBudget(t, a, g1.ID, "A1", 0)
	mustBudget(t, a, g1.ID, "A2", 0)
	mustBudget(t, a, g2.ID, "B1", 0)

	if err := a.UpdateCategoryBudget(a1.ID, BudgetPatch{GroupID: &g2.ID}); err != nil {
		t.Fatal(err)
	}
	in1, _ := a.BudgetsInGroup(g1.ID)
	in2, _ := a.BudgetsInGroup(g2.ID)
	if !slices.Equal(names(in1), []string{"A2"}) || in1[0].Position != 0 {
		t.Errorf("g1 = %+v", in1)
	}
	if !slices.Equal(names(in2), []string{"B1", "A1"}) || in2[1].Position != 1 {
		t.Errorf("g2 = %+v", in2)
	}

	ghost := "ghost"
	if err := a.UpdateCategoryBudget(a1.ID, BudgetPatch{GroupID: &ghost}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("missing group: got %v", err)
	}
	if err := a.UpdateCategoryBudget("nope", BudgetPatch{}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("missing budget: got %v", err)
	}
	dup := "B1"
	if err := a.UpdateCategoryBudget(a1.ID, BudgetPatch{Name: &dup}); !errors.Is(err, core.ErrValidation) {
		t.Errorf("duplicate rename: got %v", err)
	}
}

func TestDeleteCategoryBudget(t *testing.T) {
	a := newTestAllocator(&fakeLedger{})
	g := mustGroup(t, a, "G")
	first := mustBudget(t, a, g.ID, "A", 100)
	mustBudget(t, a, g.ID, "B", 200)

	if err := a.DeleteCategoryBudget(first.ID); err != nil {
		t.Fatal(err)
	}
	in, _ := a.BudgetsInGroup(g.ID)
	if len(in) != 1 || in[0].Name != "B" || in[0].Position != 0 {
		t.Errorf("remaining = %+v", in)
	}
	if err := a.DeleteCategoryBudget(first.ID); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("second delete: got %v", err)
	}
}

func TestToggleAndVisibleBudgets(t *testing.T) {
	a := newTestAllocator(&fakeLedger{})
	g1 := mustGroup(t, a, "G1")
	g2 := mustGroup(t, a, "G2")
	mustBudget(t, a, g1.ID, "A", 0)
	mustBudget(t, a, g2.ID, "B", 0)

	expanded, err := a.ToggleGroupExpansion(g1.ID)
	if err != nil || expanded {
		t.Fatalf("toggle = %v, %v", expanded, err)
	}
	if got := names(a.VisibleBudgets()); !slices.Equal(got, []string{"B"}) {
		t.Errorf("visible = %v", got)
	}
	if got := a.AvailableCategories(); !slices.Equal(got, []string{"A", "B"}) {
		t.Errorf("available categories = %v", got)
	}
	if _, err := a.ToggleGroupExpansion("ghost"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("missing group: got %v", err)
	}

	open := true
	renamed := "Bills"
	if err := a.UpdateCategoryGroup(g1.ID, GroupPatch{Name: &renamed, IsExpanded: &open}); err != nil {
		t.Fatal(err)
	}
	g, _ := a.Group(g1.ID)
	if g.Name != "Bills" || !g.IsExpanded {
		t.Errorf("group = %+v", g)
	}
}

func TestMoveCategoryGroup(t *testing.T) {
	a := newTestAllocator(&fakeLedger{})
	for _, n := range []string{"A", "B", "C"} {
		mustGroup(t, a, n)
	}
	if err := a.MoveCategoryGroup(0, 2); err != nil {
		t.Fatal(err)
	}
	var got []string
	for i, g := range a.Groups() {
		got = append(got, g.Name)
		if g.Position != i {
			t.Errorf("%s position = %d, want %d", g.Name, g.Position, i)
		}
	}
	if !slices.Equal(got, []string{"B", "C", "A"}) {
		t.Errorf("order = %v", got)
	}
	if err := a.MoveCategoryGroup(0, 3); !errors.Is(err, core.ErrValidation) {
		t.Errorf("out of range: got %v", err)
	}
}

func TestMoveCategoryBudgetKeepsOtherGroups(t *testing.T) {
	l := &fakeLedger{accounts: []core.Account{{ID: "a", Balance: core.Cents(1000)}}}
	a := newTestAllocator(l)
	g1 := mustGroup(t, a, "G1")
	g2 := mustGroup(t, a, "G2")
	// Interleave the backing collection.
	mustBudget(t, a, g1.ID, "A1", 10)
	mustBudget(t, a, g2.ID, "B1", 20)
	mustBudget(t, a, g1.ID, "A2", 30)
	mustBudget(t, a, g2.ID, "B2", 40)
	mustBudget(t, a, g1.ID, "A3", 50)

	before := a.AvailableToAssign()
	if err := a.MoveCategoryBudget(g1.ID, 2, 0); err != nil {
		t.Fatal(err)
	}
	in1, _ := a.BudgetsInGroup(g1.ID)
	in2, _ := a.BudgetsInGroup(g2.ID)
	if got := names(in1); !slices.Equal(got, []string{"A3", "A1", "A2"}) {
		t.Errorf("g1 = %v", got)
	}
	for i, b := range in1 {
		if b.Position != i {
			t.Errorf("%s position = %d", b.Name, b.Position)
		}
	}
	if got := names(in2); !slices.Equal(got, []string{"B1", "B2"}) {
		t.Errorf("g2 = %v", got)
	}
	if !a.AvailableToAssign().Equal(before) {
		t.Errorf("reorder changed available to assign")
	}

	// Moving back restores the original order.
	if err := a.MoveCategoryBudget(g1.ID, 0, 2); err != nil {
		t.Fatal(err)
	}
	in1, _ = a.BudgetsInGroup(g1.ID)
	if got := names(in1); !slices.Equal(got, []string{"A1", "A2", "A3"}) {
		t.Errorf("round trip = %v", got)
	}

	if err := a.MoveCategoryBudget(g2.ID, 0, 2); !errors.Is(err, core.ErrValidation) {
		t.Errorf("out of range: got %v", err)
	}
	if err := a.MoveCategoryBudget("ghost", 0, 0); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("missing group: got %v", err)
	}
}

func TestRestoreNormalisesPositions(t *testing.T) {
	groups := []core.CategoryGroup{{ID: "g2", Name: "Two", Position: 7}, {ID: "g1", Name: "One", Position: 3}}
	budgets := []core.CategoryBudget{
		{ID: "x", Name: "X", GroupID: "g1", Position: 5},
		{ID: "y", Name: "Y", GroupID: "g1", Position: 1},
		{ID: "z", Name: "Z", GroupID: "g2", Position: 9},
	}
	a := Restore(&fakeLedger{}, groups, budgets)
	gs := a.Groups()
	if gs[0].ID != "g1" || gs[0].Position != 0 || gs[1].Position != 1 {
		t.Errorf("groups = %+v", gs)
	}
	if got := names(a.Budgets()); !slices.Equal(got, []string{"Y", "X", "Z"}) {
		t.Errorf("budgets = %v", got)
	}
	in1, _ := a.BudgetsInGroup("g1")
	if in1[0].Position != 0 || in1[1].Position != 1 {
		t.Errorf("positions = %+v", in1)
	}
}

func TestRestoreDropsBudgetsOfMissingGroups(t *testing.T) {
	groups := []core.CategoryGroup{{ID: "g1", Name: "Bills"}}
	budgets := []core.CategoryBudget{
		{ID: "rent", Name: "Rent", GroupID: "g1", AssignedAmount: core.Cents(60000)},
		{ID: "gym", Name: "Gym", GroupID: "gone", AssignedAmount: core.Cents(3000), Position: 1},
	}
	a := Restore(&fakeLedger{}, groups, budgets)

	if got := names(a.Budgets()); !slices.Equal(got, []string{"Rent"}) {
		t.Errorf("budgets = %v", got)
	}
	if got := a.TotalAssigned(); got != core.Cents(60000) {
		t.Errorf("TotalAssigned = %v, want 600.00", got)
	}
	if _, err := a.Budget("gym"); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("orphan still reachable: %v", err)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := newTestAllocator(&fakeLedger{})
	g := mustGroup(t, a, "G")
	c := a.Clone(&fakeLedger{})
	if _, err := c.AddCategoryBudget(g.ID, "Only in clone", core.Money{}); err != nil {
		t.Fatal(err)
	}
	if len(a.Budgets()) != 0 {
		t.Errorf("clone leaked into original")
	}
}
