package sheets

import (
	"context"

	"pennywise/internal/budget"
	"pennywise/internal/core"
)

// Ports for outbound adapters.
type (
	// LedgerExporter writes full snapshots of the book to an external sheet.
	// Every call replaces what the previous one wrote.
	LedgerExporter interface {
		ExportTransactions(ctx context.Context, accounts []core.Account, txs []core.Transaction) error
		ExportBudgets(ctx context.Context, groups []core.CategoryGroup, summaries []budget.CategorySummary) error
	}
)
