package memory

import (
	"context"
	"slices"
	"sync"

	"pennywise/internal/budget"
	"pennywise/internal/core"
	ports "pennywise/internal/sheets"
)

// Exporter keeps the rows of the last export in memory.
type Exporter struct {
	mu           sync.Mutex
	transactions [][]any
	budgets      [][]any
	exports      int
}

var _ ports.LedgerExporter = (*Exporter)(nil)

func New() *Exporter {
	return &Exporter{}
}

func (e *Exporter) ExportTransactions(_ context.Context, accounts []core.Account, txs []core.Transaction) error {
	rows := ports.TransactionRows(accounts, txs)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.transactions = rows
	e.exports++
	return nil
}

func (e *Exporter) ExportBudgets(_ context.Context, groups []core.CategoryGroup, summaries []budget.CategorySummary) error {
	rows := ports.BudgetRows(groups, summaries)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.budgets = rows
	e.exports++
	return nil
}

// Transactions returns the transaction rows of the last export, header first.
func (e *Exporter) Transactions() [][]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.transactions)
}

func (e *Exporter) Budgets() [][]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.budgets)
}

// Exports counts export calls of either kind.
func (e *Exporter) Exports() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.exports
}
