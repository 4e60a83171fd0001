// Package services holds the Book, the single object through which every
// ledger and budget command passes.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"pennywise/internal/amqp"
	"pennywise/internal/budget"
	"pennywise/internal/core"
	"pennywise/internal/ledger"
	"pennywise/internal/log"
	"pennywise/internal/recurrence"
	"pennywise/internal/storage"
)

// EventPublisher receives an event after each committed command.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event amqp.LedgerEvent) error
}

type Option func(*Book)

func WithPublisher(p EventPublisher) Option {
	return func(b *Book) { b.publisher = p }
}

func WithLogger(l *log.Logger) Option {
	return func(b *Book) { b.logger = l }
}

// WithRecurringCount sets how many clones a recurring command creates when
// the caller leaves the count at zero.
func WithRecurringCount(n int) Option {
	return func(b *Book) {
		if n > 0 {
			b.recurringCount = n
		}
	}
}

func WithIDGenerator(gen func() string) Option {
	return func(b *Book) { b.newID = gen }
}

// Book serialises commands and makes each one atomic. A command runs on a
// clone of the current state; the clone replaces the state only after the
// balance audit passes and the touched collections are persisted. Events are
// published afterwards on a best effort basis.
type Book struct {
	mu     sync.RWMutex
	ledger *ledger.Ledger
	alloc  *budget.Allocator

	store          storage.AtomicStore
	publisher      EventPublisher
	logger         *log.Logger
	commands       *log.StructuredLogger
	recurringCount int
	newID          func() string
}

func NewBook(store storage.Store, opts ...Option) *Book {
	b := &Book{
		store:          storage.Atomic(store),
		recurringCount: recurrence.DefaultCount,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = log.New(log.DefaultConfig())
	}
	b.logger = b.logger.WithComponent(log.ComponentBook)
	b.commands = log.NewStructuredLogger(b.logger)
	b.ledger = ledger.New(b.ledgerOptions()...)
	b.alloc = budget.New(b.ledger, b.budgetOptions()...)
	return b
}

func (b *Book) ledgerOptions() []ledger.Option {
	if b.newID == nil {
		return nil
	}
	return []ledger.Option{ledger.WithIDGenerator(b.newID)}
}

func (b *Book) budgetOptions() []budget.Option {
	if b.newID == nil {
		return nil
	}
	return []budget.Option{budget.WithIDGenerator(b.newID)}
}

// Load replaces the in-memory state with what the store holds. Missing keys
// load as empty collections. A balance mismatch in the stored data is logged
// but does not fail the load; Verify reports it.
func (b *Book) Load(ctx context.Context) error {
	raw := make([][]byte, len(storage.Keys))
	g, gctx := errgroup.WithContext(ctx)
	for i, key := range storage.Keys {
		g.Go(func() error {
			v, err := b.store.Load(gctx, key)
			if errors.Is(err, storage.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("load %s: %w", key, err)
			}
			raw[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var (
		accounts     []core.Account
		transactions []core.Transaction
		groups       []core.CategoryGroup
		budgets      []core.CategoryBudget
	)
	targets := []any{&accounts, &transactions, &groups, &budgets}
	for i, key := range storage.Keys {
		if len(raw[i]) == 0 {
			continue
		}
		if err := json.Unmarshal(raw[i], targets[i]); err != nil {
			return fmt.Errorf("decode %s: %w", key, err)
		}
	}

	l := ledger.Restore(accounts, transactions, b.ledgerOptions()...)
	a := budget.Restore(l, groups, budgets, b.budgetOptions()...)
	if dropped := len(budgets) - len(a.Budgets()); dropped > 0 {
		b.logger.WarnContext(ctx, "Dropped category budgets of missing groups", "dropped", dropped)
	}

	if err := l.Verify(); err != nil {
		b.logger.ErrorContext(ctx, "Stored ledger failed the balance audit", log.FieldError, err)
	}

	b.mu.Lock()
	b.ledger, b.alloc = l, a
	b.mu.Unlock()

	b.logger.InfoContext(ctx, "Ledger loaded",
		log.FieldOperation, log.OpLoad,
		"accounts", len(accounts),
		"transactions", len(transactions),
		"groups", len(groups),
		"budgets", len(budgets))
	return nil
}

// commit describes what a successful command touched.
type commit struct {
	keys     []string
	event    string
	kind     string
	entityID string
}

// apply runs fn against a clone of the state and commits it when fn, the
// audit and persistence all succeed. On any failure the visible state is
// unchanged.
func (b *Book) apply(ctx context.Context, op string, fn func(l *ledger.Ledger, a *budget.Allocator) (commit, error)) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	l := b.ledger.Clone()
	a := b.alloc.Clone(l)

	c, err := fn(l, a)
	if err != nil {
		b.commands.LogRejected(ctx, op, err)
		return err
	}
	if err := audit(b.ledger, l); err != nil {
		b.commands.LogRejected(ctx, op, err)
		return err
	}

	values, err := encode(l, a, c.keys)
	if err != nil {
		return err
	}
	if err := b.store.SaveAll(ctx, values); err != nil {
		err = fmt.Errorf("persist %s: %w", op, err)
		b.commands.LogRejected(ctx, op, err)
		return err
	}

	b.ledger, b.alloc = l, a
	b.commands.LogCommand(ctx, op, c.kind, c.entityID)
	b.publish(ctx, c)
	return nil
}

// audit accepts after when it is consistent. A ledger that was loaded with
// drift stays usable: commands pass as long as they add or change none.
func audit(before, after *ledger.Ledger) error {
	err := after.Verify()
	if err == nil || before.Verify() == nil {
		return err
	}
	was := before.Drift()
	for id, d := range after.Drift() {
		if prev, ok := was[id]; !ok || !prev.Equal(d) {
			return &core.InvariantError{Detail: fmt.Sprintf("account %s drift changed from %s to %s", id, prev, d)}
		}
	}
	return nil
}

func (b *Book) publish(ctx context.Context, c commit) {
	if b.publisher == nil || c.event == "" {
		return
	}
	if err := b.publisher.PublishEvent(ctx, amqp.NewLedgerEvent(c.event, c.entityID)); err != nil {
		b.logger.WarnContext(ctx, "Failed to publish ledger event",
			log.FieldEventType, c.event,
			log.FieldID, c.entityID,
			log.FieldError, err)
	}
}

func encode(l *ledger.Ledger, a *budget.Allocator, keys []string) (map[string][]byte, error) {
	values := make(map[string][]byte, len(keys))
	for _, key := range keys {
		var v any
		switch key {
		case storage.KeyAccounts:
			v = nonNil(l.Accounts())
		case storage.KeyTransactions:
			v = nonNil(l.Transactions())
		case storage.KeyCategoryGroups:
			v = nonNil(a.Groups())
		case storage.KeyCategoryBudgets:
			v = nonNil(a.Budgets())
		default:
			return nil, fmt.Errorf("unknown storage key %q", key)
		}
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", key, err)
		}
		values[key] = data
	}
	return values, nil
}

// nonNil makes empty collections encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// Close releases the store.
func (b *Book) Close() error {
	return b.store.Close()
}
