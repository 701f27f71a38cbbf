package internal

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/cloverbooth/kiosk/internal/model"
)

// Column is a typed index into a ledger row. The sheet keeps one order
// per row, columns A..I, with a header row above the data.
type Column int

const (
	ColID Column = iota
	ColName
	ColEmail
	ColCopies
	ColAmount
	ColStatus
	ColCreatedAt
	ColPrinted
	ColClaimed
)

const (
	dataRange    = "A2:I"
	firstDataRow = 2

	// TimeLayout matches the timestamps already present in the sheet.
	TimeLayout = "2006-01-02 15:04:05"
)

type ILedger interface {
	ListAll(context.Context) ([]model.Order, error)
	Append(context.Context, model.Order) error
	// UpdateField writes one cell of the row holding id. Returns false
	// without error when no row has that id.
	UpdateField(ctx context.Context, id int, col Column, value string) (bool, error)
}

type SheetLedger struct {
	svc           *sheets.Service
	spreadsheetID string
	logger        *zap.SugaredLogger
}

func NewSheetLedger(ctx context.Context, credsJSON []byte, spreadsheetID string, logger *zap.SugaredLogger) (*SheetLedger, error) {
	creds, err := google.CredentialsFromJSON(ctx, credsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse google credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}

	return &SheetLedger{svc: svc, spreadsheetID: spreadsheetID, logger: logger}, nil
}

func (l *SheetLedger) ListAll(ctx context.Context) ([]model.Order, error) {
	resp, err := l.svc.Spreadsheets.Values.Get(l.spreadsheetID, dataRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("ledger scan: %w", err)
	}

	var orders []model.Order
	for i, row := range resp.Values {
		o, ok := ParseRow(row)
		if !ok {
			l.logger.Warnf("skipping unreadable ledger row %d", firstDataRow+i)
			continue
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func (l *SheetLedger) Append(ctx context.Context, o model.Order) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{RowValues(o)}}

	_, err := l.svc.Spreadsheets.Values.Append(l.spreadsheetID, dataRange, vr).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("ledger append: %w", err)
	}
	return nil
}

func (l *SheetLedger) UpdateField(ctx context.Context, id int, col Column, value string) (bool, error) {
	resp, err := l.svc.Spreadsheets.Values.Get(l.spreadsheetID, dataRange).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("ledger scan: %w", err)
	}

	for i, row := range resp.Values {
		o, ok := ParseRow(row)
		if !ok || o.ID != id {
			continue
		}

		cell := fmt.Sprintf("%s%d", columnLetter(col), firstDataRow+i)
		vr := &sheets.ValueRange{Values: [][]interface{}{{value}}}
		_, err = l.svc.Spreadsheets.Values.Update(l.spreadsheetID, cell, vr).
			ValueInputOption("RAW").
			Context(ctx).Do()
		if err != nil {
			return false, fmt.Errorf("ledger update %s: %w", cell, err)
		}
		return true, nil
	}

	return false, nil
}

// ParseRow converts one sheet row into an Order. A row without a
// numeric ID is unusable; missing trailing cells fall back to zero
// values since older sheets predate the printed/claimed columns.
func ParseRow(row []interface{}) (model.Order, bool) {
	id, err := strconv.Atoi(cell(row, ColID))
	if err != nil || id <= 0 {
		return model.Order{}, false
	}

	copies, _ := strconv.Atoi(cell(row, ColCopies))
	amount, err := decimal.NewFromString(cell(row, ColAmount))
	if err != nil {
		amount = decimal.Zero
	}

	o := model.Order{
		ID:         id,
		Name:       cell(row, ColName),
		Email:      cell(row, ColEmail),
		Copies:     copies,
		AmountPaid: amount,
		Status:     cell(row, ColStatus),
		Printed:    cell(row, ColPrinted),
		Claimed:    cell(row, ColClaimed),
	}
	if o.Status == "" {
		o.Status = model.StatusPending
	}
	if o.Printed == "" {
		o.Printed = model.FlagNo
	}
	if o.Claimed == "" {
		o.Claimed = model.FlagNo
	}

	if ts, err := time.Parse(TimeLayout, cell(row, ColCreatedAt)); err == nil {
		o.CreatedAt = ts
	}

	return o, true
}

// RowValues is the inverse of ParseRow, in sheet column order.
func RowValues(o model.Order) []interface{} {
	return []interface{}{
		strconv.Itoa(o.ID),
		o.Name,
		o.Email,
		strconv.Itoa(o.Copies),
		o.AmountPaid.String(),
		o.Status,
		o.CreatedAt.Format(TimeLayout),
		o.Printed,
		o.Claimed,
	}
}

func cell(row []interface{}, col Column) string {
	if int(col) >= len(row) {
		return ""
	}
	s, _ := row[int(col)].(string)
	return s
}

func columnLetter(col Column) string {
	return string(rune('A' + int(col)))
}
