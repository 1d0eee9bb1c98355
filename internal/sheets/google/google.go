package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"zen/internal/core"
	ports "zen/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Cells are stored as typed, never parsed as formulas.
const valueInputOption = "RAW"

type Client struct {
	svc               *gsheet.Service
	spreadsheetID     string
	transactionsSheet string
	archivesSheet     string
}

// Ensure interface conformance
var (
	_ ports.LedgerWriter       = (*Client)(nil)
	_ ports.TransactionRemover = (*Client)(nil)
)

// Options selects the spreadsheet and service account credentials. Inline
// JSON wins over a file; with neither, GOOGLE_APPLICATION_CREDENTIALS is read.
type Options struct {
	SpreadsheetID     string
	TransactionsSheet string
	ArchivesSheet     string
	CredentialsJSON   string
	CredentialsFile   string
}

func New(ctx context.Context, opts Options) (*Client, error) {
	if strings.TrimSpace(opts.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if opts.TransactionsSheet == "" {
		opts.TransactionsSheet = "Transactions"
	}
	if opts.ArchivesSheet == "" {
		opts.ArchivesSheet = "Archives"
	}

	svc, err := newSheetsService(ctx, opts.CredentialsJSON, opts.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:               svc,
		spreadsheetID:     opts.SpreadsheetID,
		transactionsSheet: opts.TransactionsSheet,
		archivesSheet:     opts.ArchivesSheet,
	}, nil
}

func newSheetsService(ctx context.Context, credentialsJSON, credentialsFile string) (*gsheet.Service, error) {
	credentialsJSON = strings.TrimSpace(credentialsJSON)
	credentialsFile = strings.TrimSpace(credentialsFile)
	if credentialsJSON == "" && credentialsFile == "" {
		credentialsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var raw []byte
	switch {
	case credentialsJSON != "":
		slog.InfoContext(ctx, "Using inline service account credentials")
		raw = []byte(credentialsJSON)
	case credentialsFile != "":
		var err error
		raw, err = os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		slog.InfoContext(ctx, "Read service account credentials", "path", credentialsFile, "size", len(raw))
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(raw),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

func (c *Client) AppendTransaction(ctx context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	return c.appendUnique(ctx, c.transactionsSheet, tx.ID, transactionHeader, transactionRow(tx))
}

func (c *Client) AppendArchive(ctx context.Context, a core.MonthlyArchive) (string, error) {
	if a.ID == "" {
		return "", errors.New("archive without id")
	}
	return c.appendUnique(ctx, c.archivesSheet, a.ID, archiveHeader, archiveRow(a))
}

// appendUnique appends row unless a row with id already exists. An empty
// sheet gets the header first.
func (c *Client) appendUnique(ctx context.Context, sheet, id string, header, row []any) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	values, err := c.idColumn(ctx, sheet)
	if err != nil {
		return "", err
	}
	if r := rowOf(values, id); r > 0 {
		slog.InfoContext(ctx, "Row already present, skipping append", "sheet", sheet, "id", id, "row", r)
		return fmt.Sprintf("%s!A%d", sheet, r), nil
	}

	rows := [][]any{row}
	if len(values) == 0 {
		rows = [][]any{header, row}
	}

	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, sheet+"!A:H", &gsheet.ValueRange{Values: rows}).
		ValueInputOption(valueInputOption).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to %s: %w", sheet, err)
	}

	ref := sheet
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	return ref, nil
}

// RemoveTransaction clears the row holding id. The row is left blank so the
// positions of other rows do not move.
func (c *Client) RemoveTransaction(ctx context.Context, id string) (bool, error) {
	if c.svc == nil {
		return false, errors.New("sheets service not initialized")
	}

	values, err := c.idColumn(ctx, c.transactionsSheet)
	if err != nil {
		return false, err
	}
	r := rowOf(values, id)
	if r == 0 {
		return false, nil
	}

	rng := fmt.Sprintf("%s!A%d:H%d", c.transactionsSheet, r, r)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, rng, &gsheet.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return false, fmt.Errorf("clear %s: %w", rng, err)
	}
	return true, nil
}

func (c *Client) idColumn(ctx context.Context, sheet string) ([][]any, error) {
	rng := sheet + "!A:A"
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	return resp.Values, nil
}
