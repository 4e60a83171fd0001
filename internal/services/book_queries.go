package services

import (
	"pennywise/internal/aggregate"
	"pennywise/internal/budget"
	"pennywise/internal/core"
)

// suggestDistance is the largest edit distance SuggestCategory accepts.
const suggestDistance = 3

// Snapshot is a consistent copy of the whole book.
type Snapshot struct {
	Accounts     []core.Account
	Transactions []core.Transaction
	Groups       []core.CategoryGroup
	Budgets      []core.CategoryBudget
	Summaries    []budget.CategorySummary
}

func (b *Book) Snapshot() Snapshot {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Snapshot{
		Accounts:     b.ledger.Accounts(),
		Transactions: b.ledger.Transactions(),
		Groups:       b.alloc.Groups(),
		Budgets:      b.alloc.Budgets(),
		Summaries:    b.alloc.Summaries(),
	}
}

// Verify recomputes every balance from the transactions.
func (b *Book) Verify() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ledger.Verify()
}

func (b *Book) Accounts() []core.Account {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ledger.Accounts()
}

func (b *Book) Account(id string) (core.Account, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ledger.Account(id)
}

func (b *Book) Transactions() []core.Transaction {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ledger.Transactions()
}

func (b *Book) Transaction(id string) (core.Transaction, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ledger.Transaction(id)
}

func (b *Book) TransactionsForAccount(id string) ([]core.Transaction, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.ledger.TransactionsForAccount(id)
}

func (b *Book) Groups() []core.CategoryGroup {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.alloc.Groups()
}

func (b *Book) Budgets() []core.CategoryBudget {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.alloc.Budgets()
}

func (b *Book) BudgetsInGroup(groupID string) ([]core.CategoryBudget, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.alloc.BudgetsInGroup(groupID)
}

func (b *Book) VisibleBudgets() []core.CategoryBudget {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.alloc.VisibleBudgets()
}

func (b *Book) CategoryActivity(name string) core.Money {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.alloc.CategoryActivity(name)
}

func (b *Book) GroupTotals(groupID string) (budget.GroupTotals, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.alloc.GroupTotals(groupID)
}

func (b *Book) CategorySummary(budgetID string) (budget.CategorySummary, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.alloc.CategorySummary(budgetID)
}

func (b *Book) Summaries() []budget.CategorySummary {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.alloc.Summaries()
}

func (b *Book) AvailableToAssign() core.Money {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.alloc.AvailableToAssign()
}

func (b *Book) TotalAssigned() core.Money {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.alloc.TotalAssigned()
}

func (b *Book) TotalBalance() core.Money {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return aggregate.TotalBalance(b.ledger.Accounts())
}

func (b *Book) TotalIncome() core.Money {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return aggregate.TotalIncome(b.ledger.Transactions())
}

func (b *Book) TotalExpenses() core.Money {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return aggregate.TotalExpenses(b.ledger.Transactions())
}

func (b *Book) TotalsByAccountCategory() map[core.AccountCategory]core.Money {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return aggregate.TotalsByAccountCategory(b.ledger.Accounts())
}

func (b *Book) UniquePayees() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return aggregate.UniquePayees(b.ledger.Transactions())
}

func (b *Book) UniqueCategories() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return aggregate.UniqueCategories(b.ledger.Transactions())
}

func (b *Book) AvailableCategories() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.alloc.AvailableCategories()
}

// SuggestCategory returns the budget name closest to name when name itself
// matches no budget.
func (b *Book) SuggestCategory(name string) (string, bool) {
	names := b.AvailableCategories()
	for _, n := range names {
		if n == name {
			return "", false
		}
	}
	return aggregate.ClosestCategory(name, names, suggestDistance)
}
