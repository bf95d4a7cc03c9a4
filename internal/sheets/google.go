package sheets

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/drigmma/ankety/internal/config"
)

// Worksheets are provisioned with room to grow; the column count still
// scales with the header when a form has more questions than this.
const (
	defaultSheetRows    = 2000
	defaultSheetColumns = 10
)

// googleWorksheetAPI implements worksheetAPI against the real Sheets API.
type googleWorksheetAPI struct {
	svc           *sheets.Service
	spreadsheetID string
}

func newGoogleWorksheetAPI(ctx context.Context, cfg config.SheetsConfig) (*googleWorksheetAPI, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsPath),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, err
	}

	// Fail fast on bad credentials or a bad spreadsheet id.
	if _, err := svc.Spreadsheets.Get(cfg.SpreadsheetID).Fields("properties.title").Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet %q: %w", cfg.SpreadsheetID, err)
	}

	return &googleWorksheetAPI{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
	}, nil
}

func (g *googleWorksheetAPI) sheetExists(ctx context.Context, title string) (bool, error) {
	spreadsheet, err := g.svc.Spreadsheets.Get(g.spreadsheetID).
		Fields("sheets.properties.title").
		Context(ctx).Do()
	if err != nil {
		return false, err
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return true, nil
		}
	}
	return false, nil
}

func (g *googleWorksheetAPI) addSheet(ctx context.Context, title string, columns int) error {
	columnCount := int64(columns + 5)
	if columnCount < defaultSheetColumns {
		columnCount = defaultSheetColumns
	}

	request := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: title,
					GridProperties: &sheets.GridProperties{
						RowCount:    defaultSheetRows,
						ColumnCount: columnCount,
					},
				},
			},
		}},
	}

	_, err := g.svc.Spreadsheets.BatchUpdate(g.spreadsheetID, request).Context(ctx).Do()
	return err
}

func (g *googleWorksheetAPI) headerRow(ctx context.Context, title string) ([]string, error) {
	valueRange, err := g.svc.Spreadsheets.Values.Get(g.spreadsheetID, sheetRange(title)+"!1:1").
		Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	if len(valueRange.Values) == 0 {
		return nil, nil
	}

	headers := make([]string, 0, len(valueRange.Values[0]))
	for _, cell := range valueRange.Values[0] {
		headers = append(headers, fmt.Sprint(cell))
	}
	return headers, nil
}

func (g *googleWorksheetAPI) clearSheet(ctx context.Context, title string) error {
	_, err := g.svc.Spreadsheets.Values.Clear(g.spreadsheetID, sheetRange(title), &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	return err
}

func (g *googleWorksheetAPI) updateHeader(ctx context.Context, title string, headers []string) error {
	values := make([]any, len(headers))
	for i, header := range headers {
		values[i] = header
	}

	_, err := g.svc.Spreadsheets.Values.Update(g.spreadsheetID, sheetRange(title)+"!A1", &sheets.ValueRange{
		Values: [][]any{values},
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	return err
}

func (g *googleWorksheetAPI) appendValues(ctx context.Context, title string, values []any) error {
	_, err := g.svc.Spreadsheets.Values.Append(g.spreadsheetID, sheetRange(title)+"!A1", &sheets.ValueRange{
		Values: [][]any{values},
	}).ValueInputOption("USER_ENTERED").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
	return err
}
