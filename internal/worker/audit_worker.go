// Package worker runs the background side of the ledger: it follows the
// event stream, re-audits the persisted book and mirrors it to a sheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pennywise/internal/amqp"
	"pennywise/internal/core"
	"pennywise/internal/log"
	"pennywise/internal/services"
	"pennywise/internal/sheets"
)

// Book is the part of services.Book the worker needs.
type Book interface {
	Load(ctx context.Context) error
	Verify() error
	Snapshot() services.Snapshot
}

// Stats counts what the worker has done since it was created.
type Stats struct {
	Audits     int
	Violations int
	Exports    int
	LastAudit  time.Time
	LastError  string
}

// AuditWorker reloads the book after every ledger event and on a fixed
// interval, checks every balance against its transactions and exports the
// snapshot when an exporter is configured.
type AuditWorker struct {
	book     Book
	exporter sheets.LedgerExporter
	logger   *log.Logger
	interval time.Duration

	mu      sync.Mutex
	stats   Stats
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewAuditWorker creates the worker. exporter may be nil.
func NewAuditWorker(book Book, exporter sheets.LedgerExporter, interval time.Duration, logger *log.Logger) *AuditWorker {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &AuditWorker{
		book:     book,
		exporter: exporter,
		logger:   logger.WithComponent(log.ComponentWorker),
		interval: interval,
	}
}

// HandleEvent processes one ledger event from AMQP. Returning an error asks
// the broker to redeliver, so only transient failures are reported; a failed
// audit is logged and acknowledged.
func (w *AuditWorker) HandleEvent(ctx context.Context, event amqp.LedgerEvent) error {
	w.logger.InfoContext(ctx, "Processing ledger event",
		log.FieldEventType, event.Type,
		log.FieldID, event.EntityID)

	err := w.Audit(ctx)
	if errors.Is(err, core.ErrInvariant) {
		return nil
	}
	return err
}

// Audit reloads the book from storage, verifies it and exports it. An
// invariant violation is returned after being logged; the export is skipped
// so a sheet never shows an inconsistent book.
func (w *AuditWorker) Audit(ctx context.Context) error {
	if err := w.book.Load(ctx); err != nil {
		w.recordAudit(err, false)
		return fmt.Errorf("reload book: %w", err)
	}

	if err := w.book.Verify(); err != nil {
		w.logger.ErrorContext(ctx, "Ledger audit failed",
			log.FieldOperation, log.OpVerify,
			log.FieldErrorType, log.ErrorType(err),
			log.FieldError, err)
		w.recordAudit(err, true)
		return err
	}

	if w.exporter != nil {
		if err := w.export(ctx); err != nil {
			w.recordAudit(err, false)
			return err
		}
	}

	w.recordAudit(nil, false)
	w.logger.DebugContext(ctx, "Ledger audit passed", log.FieldOperation, log.OpVerify)
	return nil
}

func (w *AuditWorker) export(ctx context.Context) error {
	snap := w.book.Snapshot()
	if err := w.exporter.ExportTransactions(ctx, snap.Accounts, snap.Transactions); err != nil {
		return fmt.Errorf("export transactions: %w", err)
	}
	if err := w.exporter.ExportBudgets(ctx, snap.Groups, snap.Summaries); err != nil {
		return fmt.Errorf("export budgets: %w", err)
	}

	w.mu.Lock()
	w.stats.Exports++
	w.mu.Unlock()

	w.logger.InfoContext(ctx, "Ledger exported",
		log.FieldOperation, log.OpExport,
		"transactions", len(snap.Transactions),
		"budgets", len(snap.Summaries))
	return nil
}

func (w *AuditWorker) recordAudit(err error, violation bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stats.Audits++
	w.stats.LastAudit = time.Now()
	w.stats.LastError = ""
	if err != nil {
		w.stats.LastError = err.Error()
	}
	if violation {
		w.stats.Violations++
	}
}

func (w *AuditWorker) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// Start runs an audit immediately and then every interval until Stop or ctx
// is done. Returns an error if already running.
func (w *AuditWorker) Start(ctx context.Context) error {
	if w.interval <= 0 {
		return fmt.Errorf("invalid audit interval %v", w.interval)
	}

	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return errors.New("audit worker is already running")
	}
	w.running = true
	w.stopCh = make(chan struct{})
	w.doneCh = make(chan struct{})
	w.mu.Unlock()

	go w.runLoop(ctx)

	w.logger.InfoContext(ctx, "Audit worker started", "interval", w.interval)
	return nil
}

// Stop signals the loop and waits for it to finish.
func (w *AuditWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	stopCh, doneCh := w.stopCh, w.doneCh
	w.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		w.logger.InfoContext(ctx, "Audit worker stopped gracefully")
	case <-ctx.Done():
		w.logger.WarnContext(ctx, "Audit worker stop timed out")
		return ctx.Err()
	}

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
	return nil
}

func (w *AuditWorker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *AuditWorker) runLoop(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.auditLogged(ctx)

	for {
		select {
		case <-w.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.auditLogged(ctx)
		}
	}
}

func (w *AuditWorker) auditLogged(ctx context.Context) {
	if err := w.Audit(ctx); err != nil && !errors.Is(err, core.ErrInvariant) {
		w.logger.ErrorContext(ctx, "Periodic audit failed", log.FieldError, err)
	}
}
