// Package google mirrors log entries into a Google Sheets spreadsheet, one sheet per year.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"estoque/internal/core"
	"estoque/internal/ports"
)

const DefaultLogSheetName = "Registros"

type Config struct {
	SpreadsheetID string
	// LogSheetName is the base name without year, e.g. "Registros" becomes "2024 Registros".
	LogSheetName       string
	ServiceAccountJSON string
	ServiceAccountFile string
	Location           *time.Location
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	logSheetBase  string
	loc           *time.Location
}

var _ ports.LogMirror = (*Client)(nil)

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	if len(opts) == 0 {
		creds, err := credentials(ctx, cfg)
		if err != nil {
			return nil, err
		}
		opts = []goption.ClientOption{
			goption.WithCredentialsJSON(creds),
			goption.WithScopes(gsheet.SpreadsheetsScope),
		}
	}
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return newClient(svc, cfg), nil
}

func newClient(svc *gsheet.Service, cfg Config) *Client {
	base := strings.TrimSpace(cfg.LogSheetName)
	if base == "" {
		base = DefaultLogSheetName
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}
	return &Client{svc: svc, spreadsheetID: strings.TrimSpace(cfg.SpreadsheetID), logSheetBase: base, loc: loc}
}

// credentials resolves the service account JSON from the config or GOOGLE_APPLICATION_CREDENTIALS.
func credentials(ctx context.Context, cfg Config) ([]byte, error) {
	inline := strings.TrimSpace(cfg.ServiceAccountJSON)
	file := strings.TrimSpace(cfg.ServiceAccountFile)
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

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
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

// SheetName returns the log sheet used for entries logged in year.
func (c *Client) SheetName(year int) string {
	return yearPrefixedName(c.logSheetBase, year)
}

// AppendLogEntries implements ports.LogMirror. Entries are grouped by year and appended in order.
// The returned reference is the last updated range.
func (c *Client) AppendLogEntries(ctx context.Context, entries []core.LogEntry) (string, error) {
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if len(entries) == 0 {
		return "", nil
	}

	byYear := map[int][][]interface{}{}
	for _, e := range entries {
		y := e.Timestamp.In(c.loc).Year()
		byYear[y] = append(byYear[y], logRow(e, c.loc))
	}
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	var ref string
	for _, y := range years {
		rng := a1(c.SheetName(y), "A:F")
		resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, &gsheet.ValueRange{Values: byYear[y]}).
			ValueInputOption("RAW").
			InsertDataOption("INSERT_ROWS").
			Context(ctx).Do()
		if err != nil {
			return ref, fmt.Errorf("append %s: %w", rng, err)
		}
		if resp.Updates != nil {
			ref = resp.Updates.UpdatedRange
		}
		slog.InfoContext(ctx, "Log entries mirrored to sheet", "sheet", c.SheetName(y), "rows", len(byYear[y]), "range", ref)
	}
	return ref, nil
}

// LoggedIDs returns the entry ids already present in the sheet of year.
func (c *Client) LoggedIDs(ctx context.Context, year int) (map[string]struct{}, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := a1(c.SheetName(year), "A:F")
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	ids := map[string]struct{}{}
	for _, e := range parseLogRows(resp.Values, c.loc) {
		ids[e.ID] = struct{}{}
	}
	return ids, nil
}

func a1(sheet, cells string) string {
	return "'" + strings.ReplaceAll(sheet, "'", "''") + "'!" + cells
}
