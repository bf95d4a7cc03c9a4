// Package sheets implements the Google Sheets tabular sink: one worksheet
// per form, a reconciled header row, and one appended row per completed
// submission.
package sheets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/drigmma/ankety/internal/config"
)

// Client writes submissions to a single spreadsheet. It performs no
// retries: any API failure is reported upward and retry policy belongs to
// the caller.
type Client struct {
	logger *slog.Logger
	api    worksheetAPI
}

// worksheetAPI is the narrow slice of the Sheets API the client needs.
// It exists so the reconciliation and row-mapping logic can be tested
// without network access.
type worksheetAPI interface {
	sheetExists(ctx context.Context, title string) (bool, error)
	addSheet(ctx context.Context, title string, columns int) error
	headerRow(ctx context.Context, title string) ([]string, error)
	clearSheet(ctx context.Context, title string) error
	updateHeader(ctx context.Context, title string, headers []string) error
	appendValues(ctx context.Context, title string, values []any) error
}

// NewClient connects to the configured spreadsheet using service account
// credentials. Connection problems surface here so the process can refuse
// to start when the sink is unreachable.
func NewClient(ctx context.Context, cfg config.SheetsConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	api, err := newGoogleWorksheetAPI(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	logger.Info("Connected to Google Sheets", "spreadsheet_id", cfg.SpreadsheetID)
	return &Client{
		logger: logger.With("component", "sheets_sink"),
		api:    api,
	}, nil
}

// EnsureSheet makes sure the named worksheet exists and carries exactly
// the expected header row. Reconciliation is idempotent: when the header
// already matches, nothing is written.
//
// On a header mismatch the worksheet content is cleared and replaced with
// just the header row. This is a destructive reconciliation, not a
// migration: existing data rows are discarded in favor of schema
// consistency.
func (c *Client) EnsureSheet(ctx context.Context, title string, headers []string) error {
	exists, err := c.api.sheetExists(ctx, title)
	if err != nil {
		return fmt.Errorf("failed to inspect spreadsheet: %w", err)
	}

	if !exists {
		if err := c.api.addSheet(ctx, title, len(headers)); err != nil {
			return fmt.Errorf("failed to create worksheet %q: %w", title, err)
		}
		c.logger.InfoContext(ctx, "Worksheet created", "title", title)
	}

	current, err := c.api.headerRow(ctx, title)
	if err != nil {
		return fmt.Errorf("failed to read header row of %q: %w", title, err)
	}

	if headersEqual(current, headers) {
		c.logger.DebugContext(ctx, "Worksheet header already up to date", "title", title)
		return nil
	}

	if exists && len(current) > 0 {
		c.logger.WarnContext(ctx, "Worksheet header mismatch, clearing all content",
			"title", title, "current_headers", len(current), "expected_headers", len(headers))
	}

	if err := c.api.clearSheet(ctx, title); err != nil {
		return fmt.Errorf("failed to clear worksheet %q: %w", title, err)
	}
	if err := c.api.updateHeader(ctx, title, headers); err != nil {
		return fmt.Errorf("failed to write header row of %q: %w", title, err)
	}

	c.logger.InfoContext(ctx, "Worksheet header reconciled", "title", title, "columns", len(headers))
	return nil
}

// AppendRow maps the question-keyed row onto the header order and appends
// it as the last record of the named worksheet. Headers with no value in
// the row map become empty cells, so a worksheet with more columns than
// the submission supplies is padded rather than rejected.
func (c *Client) AppendRow(ctx context.Context, title string, headers []string, row map[string]string) error {
	if err := c.api.appendValues(ctx, title, rowValues(headers, row)); err != nil {
		return fmt.Errorf("failed to append row to %q: %w", title, err)
	}

	c.logger.DebugContext(ctx, "Row appended", "title", title, "columns", len(headers))
	return nil
}

// rowValues orders the row values by the header row, defaulting missing
// keys to the empty string.
func rowValues(headers []string, row map[string]string) []any {
	values := make([]any, len(headers))
	for i, header := range headers {
		values[i] = row[header]
	}
	return values
}

// headersEqual compares two header rows element-wise, order-sensitive.
func headersEqual(current, expected []string) bool {
	if len(current) != len(expected) {
		return false
	}
	for i := range expected {
		if current[i] != expected[i] {
			return false
		}
	}
	return true
}

// sheetRange returns an A1-notation reference to the whole worksheet,
// quoting the title for names containing spaces or quotes.
func sheetRange(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
