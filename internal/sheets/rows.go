package sheets

import (
	"pennywise/internal/budget"
	"pennywise/internal/core"
)

var (
	TransactionHeader = []any{"Date", "Account", "Payee", "Category", "Memo", "Income", "Expense"}
	BudgetHeader      = []any{"Group", "Category", "Assigned", "Activity", "Available"}
)

// TransactionRows renders txs as sheet rows, header first. Accounts are shown
// by name; a transaction whose account is unknown keeps the raw id.
func TransactionRows(accounts []core.Account, txs []core.Transaction) [][]any {
	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		names[a.ID] = a.Name
	}

	rows := make([][]any, 0, len(txs)+1)
	rows = append(rows, TransactionHeader)
	for _, tx := range txs {
		account, ok := names[tx.AccountID]
		if !ok {
			account = tx.AccountID
		}
		rows = append(rows, []any{
			tx.Date.String(),
			account,
			tx.Payee,
			tx.Category,
			tx.Memo,
			amountCell(tx.Income),
			amountCell(tx.Expense),
		})
	}
	return rows
}

// BudgetRows renders one row per category budget in display order.
func BudgetRows(groups []core.CategoryGroup, summaries []budget.CategorySummary) [][]any {
	names := make(map[string]string, len(groups))
	for _, g := range groups {
		names[g.ID] = g.Name
	}

	rows := make([][]any, 0, len(summaries)+1)
	rows = append(rows, BudgetHeader)
	for _, s := range summaries {
		rows = append(rows, []any{
			names[s.Budget.GroupID],
			s.Budget.Name,
			s.Budget.AssignedAmount.String(),
			s.Activity.String(),
			s.Available.String(),
		})
	}
	return rows
}

// amountCell leaves zero amounts blank so the income and expense columns read
// like a register.
func amountCell(m core.Money) string {
	if m.IsZero() {
		return ""
	}
	return m.String()
}
