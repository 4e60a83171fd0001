package services

import (
	"context"

	"pennywise/internal/amqp"
	"pennywise/internal/budget"
	"pennywise/internal/core"
	"pennywise/internal/ledger"
	"pennywise/internal/log"
	"pennywise/internal/storage"
)

var (
	ledgerKeys  = []string{storage.KeyAccounts, storage.KeyTransactions}
	groupKeys   = []string{storage.KeyCategoryGroups}
	budgetKeys  = []string{storage.KeyCategoryBudgets}
	cascadeKeys = []string{storage.KeyCategoryGroups, storage.KeyCategoryBudgets}
)

func (b *Book) AddAccount(ctx context.Context, in ledger.AccountInput) (core.Account, error) {
	var out core.Account
	err := b.apply(ctx, log.OpAddAccount, func(l *ledger.Ledger, _ *budget.Allocator) (commit, error) {
		acc, err := l.AddAccount(in)
		if err != nil {
			return commit{}, err
		}
		out = acc
		return commit{keys: ledgerKeys, event: amqp.EventAccountCreated, kind: core.KindAccount, entityID: acc.ID}, nil
	})
	return out, err
}

func (b *Book) UpdateAccount(ctx context.Context, id string, patch ledger.AccountPatch) error {
	return b.apply(ctx, log.OpUpdateAccount, func(l *ledger.Ledger, _ *budget.Allocator) (commit, error) {
		if err := l.UpdateAccount(id, patch); err != nil {
			return commit{}, err
		}
		return commit{keys: []string{storage.KeyAccounts}, event: amqp.EventAccountUpdated, kind: core.KindAccount, entityID: id}, nil
	})
}

// DeleteAccount removes the account and all of its transactions.
func (b *Book) DeleteAccount(ctx context.Context, id string) error {
	return b.apply(ctx, log.OpDeleteAccount, func(l *ledger.Ledger, _ *budget.Allocator) (commit, error) {
		if err := l.DeleteAccount(id); err != nil {
			return commit{}, err
		}
		return commit{keys: ledgerKeys, event: amqp.EventAccountDeleted, kind: core.KindAccount, entityID: id}, nil
	})
}

func (b *Book) AddTransaction(ctx context.Context, in ledger.TransactionInput) (core.Transaction, error) {
	var out core.Transaction
	err := b.apply(ctx, log.OpAddTransaction, func(l *ledger.Ledger, _ *budget.Allocator) (commit, error) {
		tx, err := l.AddTransaction(in)
		if err != nil {
			return commit{}, err
		}
		out = tx
		return commit{keys: ledgerKeys, event: amqp.EventTransactionCreated, kind: core.KindTransaction, entityID: tx.ID}, nil
	})
	return out, err
}

func (b *Book) UpdateTransaction(ctx context.Context, id string, patch ledger.TransactionPatch) error {
	return b.apply(ctx, log.OpUpdateTransaction, func(l *ledger.Ledger, _ *budget.Allocator) (commit, error) {
		if err := l.UpdateTransaction(id, patch); err != nil {
			return commit{}, err
		}
		return commit{keys: ledgerKeys, event: amqp.EventTransactionUpdated, kind: core.KindTransaction, entityID: id}, nil
	})
}

func (b *Book) DeleteTransaction(ctx context.Context, id string) error {
	return b.apply(ctx, log.OpDeleteTransaction, func(l *ledger.Ledger, _ *budget.Allocator) (commit, error) {
		if err := l.DeleteTransaction(id); err != nil {
			return commit{}, err
		}
		return commit{keys: ledgerKeys, event: amqp.EventTransactionDeleted, kind: core.KindTransaction, entityID: id}, nil
	})
}

func (b *Book) CreateTransfer(ctx context.Context, in ledger.TransferInput) ([2]core.Transaction, error) {
	var out [2]core.Transaction
	err := b.apply(ctx, log.OpTransfer, func(l *ledger.Ledger, _ *budget.Allocator) (commit, error) {
		pair, err := l.CreateTransfer(in)
		if err != nil {
			return commit{}, err
		}
		out = pair
		return commit{keys: ledgerKeys, event: amqp.EventTransferCreated, kind: core.KindTransaction, entityID: pair[0].ID}, nil
	})
	return out, err
}

// AddRecurringTransaction records the template and its clones as one
// command. A zero Count uses the book's configured recurring count.
func (b *Book) AddRecurringTransaction(ctx context.Context, in ledger.TransactionInput, rec ledger.RecurrenceInput) ([]core.Transaction, error) {
	if rec.Count == 0 {
		rec.Count = b.recurringCount
	}
	var out []core.Transaction
	err := b.apply(ctx, log.OpAddRecurring, func(l *ledger.Ledger, _ *budget.Allocator) (commit, error) {
		txs, err := l.AddRecurringTransaction(in, rec)
		if err != nil {
			return commit{}, err
		}
		out = txs
		return commit{keys: ledgerKeys, event: amqp.EventRecurringCreated, kind: core.KindTransaction, entityID: txs[0].ID}, nil
	})
	return out, err
}

func (b *Book) AddCategoryGroup(ctx context.Context, name string) (core.CategoryGroup, error) {
	var out core.CategoryGroup
	err := b.apply(ctx, log.OpAddGroup, func(_ *ledger.Ledger, a *budget.Allocator) (commit, error) {
		g, err := a.AddCategoryGroup(name)
		if err != nil {
			return commit{}, err
		}
		out = g
		return commit{keys: groupKeys, event: amqp.EventGroupCreated, kind: core.KindCategoryGroup, entityID: g.ID}, nil
	})
	return out, err
}

func (b *Book) UpdateCategoryGroup(ctx context.Context, id string, patch budget.GroupPatch) error {
	return b.apply(ctx, log.OpUpdateGroup, func(_ *ledger.Ledger, a *budget.Allocator) (commit, error) {
		if err := a.UpdateCategoryGroup(id, patch); err != nil {
			return commit{}, err
		}
		return commit{keys: groupKeys, event: amqp.EventGroupUpdated, kind: core.KindCategoryGroup, entityID: id}, nil
	})
}

// DeleteCategoryGroup removes the group and every budget in it.
func (b *Book) DeleteCategoryGroup(ctx context.Context, id string) error {
	return b.apply(ctx, log.OpDeleteGroup, func(_ *ledger.Ledger, a *budget.Allocator) (commit, error) {
		if err := a.DeleteCategoryGroup(id); err != nil {
			return commit{}, err
		}
		return commit{keys: cascadeKeys, event: amqp.EventGroupDeleted, kind: core.KindCategoryGroup, entityID: id}, nil
	})
}

func (b *Book) ToggleGroupExpansion(ctx context.Context, id string) (bool, error) {
	var expanded bool
	err := b.apply(ctx, log.OpToggleGroup, func(_ *ledger.Ledger, a *budget.Allocator) (commit, error) {
		v, err := a.ToggleGroupExpansion(id)
		if err != nil {
			return commit{}, err
		}
		expanded = v
		return commit{keys: groupKeys, event: amqp.EventGroupUpdated, kind: core.KindCategoryGroup, entityID: id}, nil
	})
	return expanded, err
}

func (b *Book) MoveCategoryGroup(ctx context.Context, from, to int) error {
	return b.apply(ctx, log.OpMoveGroup, func(_ *ledger.Ledger, a *budget.Allocator) (commit, error) {
		if err := a.MoveCategoryGroup(from, to); err != nil {
			return commit{}, err
		}
		return commit{keys: groupKeys, event: amqp.EventGroupMoved, kind: core.KindCategoryGroup}, nil
	})
}

func (b *Book) AddCategoryBudget(ctx context.Context, groupID, name string, assigned core.Money) (core.CategoryBudget, error) {
	var out core.CategoryBudget
	err := b.apply(ctx, log.OpAddBudget, func(_ *ledger.Ledger, a *budget.Allocator) (commit, error) {
		cb, err := a.AddCategoryBudget(groupID, name, assigned)
		if err != nil {
			return commit{}, err
		}
		out = cb
		return commit{keys: budgetKeys, event: amqp.EventBudgetCreated, kind: core.KindCategoryBudget, entityID: cb.ID}, nil
	})
	return out, err
}

func (b *Book) UpdateCategoryBudget(ctx context.Context, id string, patch budget.BudgetPatch) error {
	return b.apply(ctx, log.OpUpdateBudget, func(_ *ledger.Ledger, a *budget.Allocator) (commit, error) {
		if err := a.UpdateCategoryBudget(id, patch); err != nil {
			return commit{}, err
		}
		return commit{keys: budgetKeys, event: amqp.EventBudgetUpdated, kind: core.KindCategoryBudget, entityID: id}, nil
	})
}

func (b *Book) DeleteCategoryBudget(ctx context.Context, id string) error {
	return b.apply(ctx, log.OpDeleteBudget, func(_ *ledger.Ledger, a *budget.Allocator) (commit, error) {
		if err := a.DeleteCategoryBudget(id); err != nil {
			return commit{}, err
		}
		return commit{keys: budgetKeys, event: amqp.EventBudgetDeleted, kind: core.KindCategoryBudget, entityID: id}, nil
	})
}

func (b *Book) MoveCategoryBudget(ctx context.Context, groupID string, from, to int) error {
	return b.apply(ctx, log.OpMoveBudget, func(_ *ledger.Ledger, a *budget.Allocator) (commit, error) {
		if err := a.MoveCategoryBudget(groupID, from, to); err != nil {
			return commit{}, err
		}
		return commit{keys: budgetKeys, event: amqp.EventBudgetMoved, kind: core.KindCategoryGroup, entityID: groupID}, nil
	})
}
