package aggregate

import (
	"slices"
	"testing"

	"pennywise/internal/core"
)

var sampleTxs = []core.Transaction{
	{ID: "t1", AccountID: "a", Payee: "Grocer", Category: "Food", Expense: core.Cents(5000)},
	{ID: "t2", AccountID: "a", Payee: "Cafe", Category: "Food", Expense: core.Cents(7500)},
	{ID: "t3", AccountID: "b", Payee: "Employer", Category: "Salary", Income: core.Cents(200000)},
	{ID: "t4", AccountID: "b", Payee: "Grocer", Category: "Household", Expense: core.Cents(1000)},
	{ID: "t5", AccountID: "a", Payee: " ", Category: "", Income: core.Cents(100)},
}

func TestCategoryActivity(t *testing.T) {
	tests := []struct {
		name     string
		category string
		want     int64
	}{
		{"two expenses", "Food", 12500},
		{"income is not activity", "Salary", 0},
		{"unknown category", "Travel", 0},
		{"case sensitive", "food", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CategoryActivity(sampleTxs, tt.category); got.Cents != tt.want {
				t.Errorf("CategoryActivity(%q) = %d, want %d", tt.category, got.Cents, tt.want)
			}
		})
	}
}

func TestActivityByCategoryMatchesPerCategory(t *testing.T) {
	all := ActivityByCategory(sampleTxs)
	for _, name := range UniqueCategories(sampleTxs) {
		if all[name] != CategoryActivity(sampleTxs, name) {
			t.Errorf("%s: bulk %v != single %v", name, all[name], CategoryActivity(sampleTxs, name))
		}
	}
}

func TestTotals(t *testing.T) {
	if got := TotalIncome(sampleTxs); got.Cents != 200100 {
		t.Errorf("TotalIncome = %d", got.Cents)
	}
	if got := TotalExpenses(sampleTxs); got.Cents != 13500 {
		t.Errorf("TotalExpenses = %d", got.Cents)
	}

	accounts := []core.Account{
		{ID: "a", Type: core.Checking, Balance: core.Cents(1000)},
		{ID: "b", Type: core.Savings, Balance: core.Cents(500)},
		{ID: "c", Type: core.CreditCard, Balance: core.Cents(-300)},
		{ID: "d", Type: core.Investment, Balance: core.Cents(9000)},
	}
	if got := TotalBalance(accounts); got.Cents != 10200 {
		t.Errorf("TotalBalance = %d", got.Cents)
	}
	byCat := TotalsByAccountCategory(accounts)
	if byCat[core.CashAccounts].Cents != 1500 || byCat[core.CreditAccounts].Cents != -300 || byCat[core.TrackingAccounts].Cents != 9000 {
		t.Errorf("TotalsByAccountCategory = %v", byCat)
	}

	budgets := []core.CategoryBudget{{AssignedAmount: core.Cents(100)}, {AssignedAmount: core.Cents(250)}}
	if got := TotalAssigned(budgets); got.Cents != 350 {
		t.Errorf("TotalAssigned = %d", got.Cents)
	}
}

func TestAccountBalances(t *testing.T) {
	accounts := []core.Account{{ID: "a"}, {ID: "b"}, {ID: "empty"}}
	got := AccountBalances(accounts, sampleTxs)
	if got["a"].Cents != -12400 || got["b"].Cents != 199000 || got["empty"].Cents != 0 {
		t.Fatalf("AccountBalances = %v", got)
	}
}

func TestUniqueLists(t *testing.T) {
	if got := UniquePayees(sampleTxs); !slices.Equal(got, []string{"Cafe", "Employer", "Grocer"}) {
		t.Errorf("UniquePayees = %v", got)
	}
	if got := UniqueCategories(sampleTxs); !slices.Equal(got, []string{"Food", "Household", "Salary"}) {
		t.Errorf("UniqueCategories = %v", got)
	}
}

func TestAvailableCategoriesOrder(t *testing.T) {
	groups := []core.CategoryGroup{
		{ID: "g2", Position: 1},
		{ID: "g1", Position: 0},
	}
	budgets := []core.CategoryBudget{
		{Name: "Fun", GroupID: "g2", Position: 0},
		{Name: "Rent", GroupID: "g1", Position: 1},
		{Name: "Food", GroupID: "g1", Position: 0},
		{Name: "Orphan", GroupID: "gone", Position: 0},
	}
	got := AvailableCategories(groups, budgets)
	if !slices.Equal(got, []string{"Food", "Rent", "Fun"}) {
		t.Fatalf("AvailableCategories = %v", got)
	}
}

func TestClosestCategory(t *testing.T) {
	candidates := []string{"Groceries", "Rent", "Fuel"}
	if got, ok := ClosestCategory("grocerys", candidates, 2); !ok || got != "Groceries" {
		t.Errorf("got %q ok=%v", got, ok)
	}
	if _, ok := ClosestCategory("Vacation", candidates, 2); ok {
		t.Errorf("expected no suggestion")
	}
	if _, ok := ClosestCategory("", candidates, 2); ok {
		t.Errorf("expected no suggestion for empty name")
	}
}
