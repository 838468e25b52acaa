package sink

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"fashion-etl/config"
	"fashion-etl/internal/record"
)

var (
	ErrCredentialsNotFound  = errors.New("google credentials file not found")
	ErrSpreadsheetIDMissing = errors.New("spreadsheet id not set: set SPREADSHEET_ID")
)

// ValuesAPI is the slice of the Sheets values API the sink needs.
type ValuesAPI interface {
	Clear(ctx context.Context, spreadsheetID, rng string) error
	Update(ctx context.Context, spreadsheetID, rng string, rows [][]any) error
}

type sheetsValues struct {
	svc *sheets.Service
}

// NewValuesAPI authenticates with a service-account key file.
func NewValuesAPI(ctx context.Context, credentialsFile string) (ValuesAPI, error) {
	if _, err := os.Stat(credentialsFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCredentialsNotFound, credentialsFile)
		}
		return nil, fmt.Errorf("stat %s: %w", credentialsFile, err)
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope, sheets.DriveScope),
	)
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return &sheetsValues{svc: svc}, nil
}

func (s *sheetsValues) Clear(ctx context.Context, spreadsheetID, rng string) error {
	_, err := s.svc.Spreadsheets.Values.Clear(spreadsheetID, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (s *sheetsValues) Update(ctx context.Context, spreadsheetID, rng string, rows [][]any) error {
	_, err := s.svc.Spreadsheets.Values.Update(spreadsheetID, rng, &sheets.ValueRange{Values: rows}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

// Sheets replaces the contents of one worksheet with the table.
type Sheets struct {
	cfg    config.SheetsConfig
	newAPI func(ctx context.Context, credentialsFile string) (ValuesAPI, error)
}

func NewSheets(cfg config.SheetsConfig) *Sheets {
	return &Sheets{cfg: cfg, newAPI: NewValuesAPI}
}

// NewSheetsWithAPI uses api instead of dialing Google.
func NewSheetsWithAPI(cfg config.SheetsConfig, api ValuesAPI) *Sheets {
	return &Sheets{
		cfg:    cfg,
		newAPI: func(context.Context, string) (ValuesAPI, error) { return api, nil },
	}
}

func (s *Sheets) Name() string { return "sheets" }

func (s *Sheets) Write(ctx context.Context, t record.Table) error {
	if s.cfg.SpreadsheetID == "" {
		return ErrSpreadsheetIDMissing
	}

	api, err := s.newAPI(ctx, s.cfg.CredentialsFile)
	if err != nil {
		return err
	}

	if err := api.Clear(ctx, s.cfg.SpreadsheetID, s.cfg.SheetName+"!A:Z"); err != nil {
		return fmt.Errorf("clear %s: %w", s.cfg.SheetName, err)
	}
	if err := api.Update(ctx, s.cfg.SpreadsheetID, s.cfg.SheetName+"!A1", sheetRows(t)); err != nil {
		return fmt.Errorf("update %s: %w", s.cfg.SheetName, err)
	}
	return nil
}

func sheetRows(t record.Table) [][]any {
	out := make([][]any, 0, len(t.Rows)+1)

	header := make([]any, len(t.Columns))
	for i, h := range t.Header() {
		header[i] = h
	}
	out = append(out, header)

	for _, r := range t.Rows {
		vals := r.Values(t.Columns)
		for i, v := range vals {
			switch x := v.(type) {
			case nil:
				vals[i] = ""
			case float64:
				if math.IsNaN(x) || math.IsInf(x, 0) {
					vals[i] = ""
				}
			}
		}
		out = append(out, vals)
	}
	return out
}
