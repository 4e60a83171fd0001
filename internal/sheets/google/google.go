package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"pennywise/internal/budget"
	"pennywise/internal/core"
	ports "pennywise/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

const (
	DefaultTransactionsSheet = "Transactions"
	DefaultBudgetsSheet      = "Budgets"
)

type Client struct {
	svc               *gsheet.Service
	spreadsheetID     string
	transactionsSheet string
	budgetsSheet      string
}

// Ensure interface conformance
var _ ports.LedgerExporter = (*Client)(nil)

// Options configures New. CredentialsJSON wins over CredentialsFile.
type Options struct {
	SpreadsheetID     string
	CredentialsFile   string
	CredentialsJSON   string
	TransactionsSheet string
	BudgetsSheet      string

	// ClientOptions are passed to the Sheets service as is; tests use them to
	// point the client at a local server.
	ClientOptions []goption.ClientOption
}

// New creates a Sheets client authenticated with service account
// credentials.
func New(ctx context.Context, opts Options) (*Client, error) {
	spreadsheetID := strings.TrimSpace(opts.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	clientOpts := opts.ClientOptions
	if len(clientOpts) == 0 {
		creds, err := readCredentials(ctx, opts)
		if err != nil {
			return nil, err
		}
		clientOpts = []goption.ClientOption{
			goption.WithCredentialsJSON(creds),
			goption.WithScopes(gsheet.SpreadsheetsScope),
		}
	}

	svc, err := gsheet.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.InfoContext(ctx, "Google Sheets service created successfully", "spreadsheet_id", spreadsheetID)

	return &Client{
		svc:               svc,
		spreadsheetID:     spreadsheetID,
		transactionsSheet: orDefault(opts.TransactionsSheet, DefaultTransactionsSheet),
		budgetsSheet:      orDefault(opts.BudgetsSheet, DefaultBudgetsSheet),
	}, nil
}

func readCredentials(ctx context.Context, opts Options) ([]byte, error) {
	inline := strings.TrimSpace(opts.CredentialsJSON)
	file := strings.TrimSpace(opts.CredentialsFile)

	switch {
	case inline != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		return []byte(inline), nil
	case file != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", file)
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_CREDENTIALS_JSON or GOOGLE_CREDENTIALS_FILE)")
	}
}

func (c *Client) ExportTransactions(ctx context.Context, accounts []core.Account, txs []core.Transaction) error {
	return c.replaceSheet(ctx, c.transactionsSheet, ports.TransactionRows(accounts, txs))
}

func (c *Client) ExportBudgets(ctx context.Context, groups []core.CategoryGroup, summaries []budget.CategorySummary) error {
	return c.replaceSheet(ctx, c.budgetsSheet, ports.BudgetRows(groups, summaries))
}

// replaceSheet clears the tab and writes rows from A1.
func (c *Client) replaceSheet(ctx context.Context, sheet string, rows [][]any) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	clearRange := fmt.Sprintf("%s!A:Z", sheet)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to clear sheet %s: %w", sheet, err)
	}

	dataRange := fmt.Sprintf("%s!A1", sheet)
	vr := &gsheet.ValueRange{Values: rows}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, dataRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to update sheet %s: %w", sheet, err)
	}

	slog.DebugContext(ctx, "Sheet replaced", "sheet", sheet, "rows", len(rows))
	return nil
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}
