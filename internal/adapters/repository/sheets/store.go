// Package sheets stores race entries in a Google Sheets worksheet, the club's
// historical system of record.
package sheets

import (
	"context"
	"fmt"
	"strings"

	"github.com/sailsizzle/regatta/internal/adapters/repository"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"
)

// DefaultWorksheet is the worksheet race entries have always been kept in.
const DefaultWorksheet = "Race Entries"

// Config selects the worksheet.
type Config struct {
	SpreadsheetID   string
	Worksheet       string
	CredentialsFile string
}

// valuesAPI is the slice of the Sheets values API the store uses.
type valuesAPI interface {
	Append(ctx context.Context, a1 string, values [][]any) error
	Get(ctx context.Context, a1 string) ([][]any, error)
}

// Store appends rows to a worksheet whose first row holds repository.Headers.
type Store struct {
	api       valuesAPI
	worksheet string
}

var _ repository.Store = (*Store)(nil)

// Open connects with a service-account credentials file and makes sure the
// worksheet has the expected header row.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, fmt.Errorf("%w: spreadsheet id", repository.ErrMissingSetting)
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	srv, err := gsheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return newStore(ctx, &serviceValues{values: srv.Spreadsheets.Values, spreadsheetID: cfg.SpreadsheetID}, cfg.Worksheet)
}

func newStore(ctx context.Context, api valuesAPI, worksheet string) (*Store, error) {
	if strings.TrimSpace(worksheet) == "" {
		worksheet = DefaultWorksheet
	}
	s := &Store{api: api, worksheet: worksheet}

	header, err := api.Get(ctx, s.a1("A1:J1"))
	if err != nil {
		return nil, fmt.Errorf("read header row: %w", err)
	}
	if len(header) == 0 {
		if err := api.Append(ctx, s.a1("A1"), [][]any{toCells(repository.Row(repository.Headers))}); err != nil {
			return nil, fmt.Errorf("write header row: %w", err)
		}
		return s, nil
	}
	if !repository.IsHeader(toStrings(header[0])) {
		return nil, repository.ErrHeaderMismatch
	}
	return s, nil
}

// Append adds one row after the last non-empty row.
func (s *Store) Append(ctx context.Context, row repository.Row) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.api.Append(ctx, s.a1("A1"), [][]any{toCells(row)}); err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	return nil
}

// ReadAll returns every row below the header.
func (s *Store) ReadAll(ctx context.Context) ([]repository.Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	values, err := s.api.Get(ctx, s.a1("A:J"))
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	if !repository.IsHeader(toStrings(values[0])) {
		return nil, repository.ErrHeaderMismatch
	}

	rows := make([]repository.Row, 0, len(values)-1)
	for _, cells := range values[1:] {
		var row repository.Row
		// The API omits trailing empty cells.
		copy(row[:], toStrings(cells))
		rows = append(rows, row)
	}
	return rows, nil
}

// Backend implements repository.Store.
func (s *Store) Backend() string { return "sheets" }

// Close is a no-op; the HTTP client is shared.
func (s *Store) Close() error { return nil }

func (s *Store) a1(cells string) string {
	return "'" + strings.ReplaceAll(s.worksheet, "'", "''") + "'!" + cells
}

func toCells(row repository.Row) []any {
	cells := make([]any, len(row))
	for i, v := range row {
		cells[i] = v
	}
	return cells
}

func toStrings(cells []any) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		if c != nil {
			out[i] = fmt.Sprint(c)
		}
	}
	return out
}

// serviceValues adapts the generated client to valuesAPI.
type serviceValues struct {
	values        *gsheets.SpreadsheetsValuesService
	spreadsheetID string
}

func (v *serviceValues) Append(ctx context.Context, a1 string, values [][]any) error {
	_, err := v.values.Append(v.spreadsheetID, a1, &gsheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

func (v *serviceValues) Get(ctx context.Context, a1 string) ([][]any, error) {
	resp, err := v.values.Get(v.spreadsheetID, a1).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}
