// Package aggregate holds the read-side queries shared by the ledger, the
// budget allocator and the command surfaces. Every function is pure: it only
// reads the collections it is given.
package aggregate

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"pennywise/internal/core"
)

// CategoryActivity sums the expense of every transaction whose category
// equals name. Unknown categories have zero activity.
func CategoryActivity(txs []core.Transaction, name string) core.Money {
	var total core.Money
	for _, tx := range txs {
		if tx.Category == name {
			total = total.Add(tx.Expense)
		}
	}
	return total
}

// ActivityByCategory computes the activity of every category in one pass.
func ActivityByCategory(txs []core.Transaction) map[string]core.Money {
	out := make(map[string]core.Money)
	for _, tx := range txs {
		out[tx.Category] = out[tx.Category].Add(tx.Expense)
	}
	return out
}

func TotalBalance(accounts []core.Account) core.Money {
	var total core.Money
	for _, a := range accounts {
		total = total.Add(a.Balance)
	}
	return total
}

func TotalIncome(txs []core.Transaction) core.Money {
	var total core.Money
	for _, tx := range txs {
		total = total.Add(tx.Income)
	}
	return total
}

func TotalExpenses(txs []core.Transaction) core.Money {
	var total core.Money
	for _, tx := range txs {
		total = total.Add(tx.Expense)
	}
	return total
}

func TotalAssigned(budgets []core.CategoryBudget) core.Money {
	var total core.Money
	for _, b := range budgets {
		total = total.Add(b.AssignedAmount)
	}
	return total
}

// TotalsByAccountCategory sums balances per derived account category.
func TotalsByAccountCategory(accounts []core.Account) map[core.AccountCategory]core.Money {
	out := make(map[core.AccountCategory]core.Money)
	for _, a := range accounts {
		out[a.Category()] = out[a.Category()].Add(a.Balance)
	}
	return out
}

// AccountBalances recomputes every account balance from the transactions.
// Accounts without transactions are present with a zero balance.
func AccountBalances(accounts []core.Account, txs []core.Transaction) map[string]core.Money {
	out := make(map[string]core.Money, len(accounts))
	for _, a := range accounts {
		out[a.ID] = core.Money{}
	}
	for _, tx := range txs {
		out[tx.AccountID] = out[tx.AccountID].Add(tx.Net())
	}
	return out
}

// UniquePayees returns the distinct non-empty payees, sorted.
func UniquePayees(txs []core.Transaction) []string {
	return unique(txs, func(tx core.Transaction) string { return tx.Payee })
}

// UniqueCategories returns the distinct non-empty transaction categories, sorted.
func UniqueCategories(txs []core.Transaction) []string {
	return unique(txs, func(tx core.Transaction) string { return tx.Category })
}

func unique(txs []core.Transaction, field func(core.Transaction) string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0)
	for _, tx := range txs {
		v := strings.TrimSpace(field(tx))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// AvailableCategories lists budget names in display order: groups by
// position, then budgets by position within each group.
func AvailableCategories(groups []core.CategoryGroup, budgets []core.CategoryBudget) []string {
	out := make([]string, 0, len(budgets))
	for _, b := range OrderedBudgets(groups, budgets) {
		out = append(out, b.Name)
	}
	return out
}

// OrderedBudgets returns budgets sorted by their group's position and then
// their own. Budgets of unknown groups are dropped.
func OrderedBudgets(groups []core.CategoryGroup, budgets []core.CategoryBudget) []core.CategoryBudget {
	gs := append([]core.CategoryGroup(nil), groups...)
	sort.SliceStable(gs, func(i, j int) bool { return gs[i].Position < gs[j].Position })

	out := make([]core.CategoryBudget, 0, len(budgets))
	for _, g := range gs {
		var inGroup []core.CategoryBudget
		for _, b := range budgets {
			if b.GroupID == g.ID {
				inGroup = append(inGroup, b)
			}
		}
		sort.SliceStable(inGroup, func(i, j int) bool { return inGroup[i].Position < inGroup[j].Position })
		out = append(out, inGroup...)
	}
	return out
}

// ClosestCategory returns the candidate nearest to name by case-insensitive
// edit distance, or false when nothing is within maxDistance edits.
func ClosestCategory(name string, candidates []string, maxDistance int) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return "", false
	}
	best, bestDist := "", maxDistance+1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(needle, strings.ToLower(c))
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist > maxDistance {
		return "", false
	}
	return best, true
}
