package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"debtplan/internal/core"
	ports "debtplan/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Config selects the spreadsheet and the service account used to write it.
type Config struct {
	SpreadsheetID string
	// SheetName is the suffix of every per-owner tab ("<owner> <SheetName>").
	SheetName string
	// CredentialsJSON wins over CredentialsFile.
	CredentialsJSON string
	CredentialsFile string
}

// Exporter writes payoff plans into one tab per owner.
type Exporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

var _ ports.PlanExporter = (*Exporter)(nil)

// New creates an Exporter authenticated with a service account.
func New(ctx context.Context, cfg Config) (*Exporter, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}

	credentialsJSON, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets exporter ready",
		"component", "sheets",
		"spreadsheet_id", cfg.SpreadsheetID,
		"sheet_name", cfg.SheetName)
	return NewWithService(svc, cfg.SpreadsheetID, cfg.SheetName), nil
}

// NewWithService wraps an already configured Sheets service.
func NewWithService(svc *gsheet.Service, spreadsheetID, sheetName string) *Exporter {
	if strings.TrimSpace(sheetName) == "" {
		sheetName = "Plan"
	}
	return &Exporter{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}
}

func loadCredentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return []byte(cfg.CredentialsJSON), nil
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
}

// ExportPlan replaces the owner's tab with the current plan.
func (e *Exporter) ExportPlan(ctx context.Context, export ports.PlanExport) (string, error) {
	if e.svc == nil {
		return "", errors.New("sheets service not initialized")
	}
	if export.Owner == "" {
		return "", errors.New("export without owner")
	}

	title := e.sheetTitle(export.Owner)
	if err := e.ensureSheet(ctx, title); err != nil {
		return "", err
	}

	quoted := quoteSheet(title)
	_, err := e.svc.Spreadsheets.Values.Clear(e.spreadsheetID, quoted+"!A:Z", &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("clear sheet %s: %w", title, err)
	}

	rows := planRows(export)
	ref := fmt.Sprintf("%s!A1:F%d", quoted, len(rows))
	_, err = e.svc.Spreadsheets.Values.Update(e.spreadsheetID, ref, &gsheet.ValueRange{Values: rows}).
		ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("write plan to %s: %w", title, err)
	}
	return ref, nil
}

func (e *Exporter) sheetTitle(owner string) string {
	return owner + " " + e.sheetName
}

// ensureSheet adds the tab when the spreadsheet does not have it yet.
func (e *Exporter) ensureSheet(ctx context.Context, title string) error {
	ss, err := e.svc.Spreadsheets.Get(e.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return nil
		}
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: title}},
		}},
	}
	if _, err := e.svc.Spreadsheets.BatchUpdate(e.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add sheet %s: %w", title, err)
	}
	slog.InfoContext(ctx, "Created plan sheet", "component", "sheets", "sheet", title)
	return nil
}

// planRows lays out a summary, the ranked debts and the balance trajectory.
func planRows(export ports.PlanExport) [][]any {
	months := any(export.Plan.NumMonths)
	if !export.Plan.Feasible() {
		months = "never"
	}

	rows := [][]any{
		{"Generated", export.GeneratedAt.UTC().Format(time.RFC3339)},
		{"Monthly budget", core.FormatCents(core.RoundCents(export.Budget))},
		{"Months to debt free", months},
		{},
		{"Priority", "Name", "Type", "Balance", "Interest rate", "Monthly cost"},
	}
	for i, debt := range export.Debts {
		name, balance, rate := describe(debt)
		rows = append(rows, []any{
			i + 1,
			name,
			string(debt.Kind()),
			balance.String(),
			rate,
			core.FormatCents(core.RoundCents(debt.Cost())),
		})
	}

	rows = append(rows, []any{}, []any{"Month", "Remaining balance"})
	for i, cents := range export.Plan.DebtPerMonthCents() {
		rows = append(rows, []any{i + 1, core.FormatCents(cents)})
	}
	return rows
}

func describe(debt core.DebtInstrument) (name string, balance core.Money, rate float64) {
	switch d := debt.(type) {
	case core.CreditCard:
		return d.Name, d.Balance, d.InterestRate
	case core.Overdraft:
		return d.Name, d.Balance, d.InterestRate
	}
	return "", core.Money{}, 0
}

// quoteSheet wraps a tab title for A1 notation.
func quoteSheet(title string) string {
	return "'" + strings.ReplaceAll(title, "'", "''") + "'"
}
