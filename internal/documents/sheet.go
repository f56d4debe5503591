package documents

import (
	"context"
	"fmt"
	"strings"

	sheets "google.golang.org/api/sheets/v4"

	"github.com/teemow/gdocs/internal/instrumentation"
)

// Color is an RGB tab color with components in [0, 1].
type Color struct {
	Red   float64
	Green float64
	Blue  float64
}

// GridProperties is the size of a sheet grid.
type GridProperties struct {
	RowCount    int64
	ColumnCount int64
}

// Sheet is one tab of a spreadsheet. Value operations qualify bare ranges
// with the sheet title and delegate to the spreadsheet.
type Sheet struct {
	ID       int64
	Index    int64
	Title    string
	TabColor *Color
	Grid     *GridProperties

	spreadsheet      *Spreadsheet
	valueInputOption ValueInputOption
}

func newSheet(props *sheets.SheetProperties, parent *Spreadsheet) *Sheet {
	sh := &Sheet{
		ID:          props.SheetId,
		Index:       props.Index,
		Title:       props.Title,
		spreadsheet: parent,
	}
	if c := props.TabColor; c != nil {
		sh.TabColor = &Color{Red: c.Red, Green: c.Green, Blue: c.Blue}
	}
	if g := props.GridProperties; g != nil {
		sh.Grid = &GridProperties{RowCount: g.RowCount, ColumnCount: g.ColumnCount}
	}
	return sh
}

// Spreadsheet returns the spreadsheet the sheet belongs to, or nil when
// detached.
func (sh *Sheet) Spreadsheet() *Spreadsheet {
	return sh.spreadsheet
}

// Attach assigns the sheet to s.
func (sh *Sheet) Attach(s *Spreadsheet) {
	sh.spreadsheet = s
}

// Detached reports whether the sheet has no spreadsheet.
func (sh *Sheet) Detached() bool {
	return sh.spreadsheet == nil
}

func (sh *Sheet) String() string {
	return fmt.Sprintf("sheet(%s, %d)", sh.Title, sh.ID)
}

func (sh *Sheet) parent() (*Spreadsheet, error) {
	if sh.spreadsheet == nil {
		return nil, ErrSheetDetached
	}
	return sh.spreadsheet, nil
}

// Qualify prefixes rng with the quoted sheet title unless it already names
// a sheet.
func (sh *Sheet) Qualify(rng string) string {
	if strings.Contains(rng, "!") {
		return rng
	}
	return quoteTitle(sh.Title) + "!" + rng
}

func (sh *Sheet) qualifyAll(ranges []string) []string {
	out := make([]string, len(ranges))
	for i, rng := range ranges {
		out[i] = sh.Qualify(rng)
	}
	return out
}

// quoteTitle quotes titles that A1 notation cannot take bare.
func quoteTitle(title string) string {
	for _, r := range title {
		if !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return "'" + strings.ReplaceAll(title, "'", "''") + "'"
		}
	}
	return title
}

// Read returns the values of rng in this sheet.
func (sh *Sheet) Read(ctx context.Context, rng string) ([][]any, error) {
	s, err := sh.parent()
	if err != nil {
		return nil, err
	}
	return s.Read(ctx, sh.Qualify(rng))
}

// Write sets the values of rng in this sheet.
func (sh *Sheet) Write(ctx context.Context, rng string, rows [][]any, opt ValueInputOption) error {
	s, err := sh.parent()
	if err != nil {
		return err
	}
	return s.Write(ctx, sh.Qualify(rng), rows, opt)
}

// Clear removes the values of rng in this sheet.
func (sh *Sheet) Clear(ctx context.Context, rng string) error {
	s, err := sh.parent()
	if err != nil {
		return err
	}
	return s.Clear(ctx, sh.Qualify(rng))
}

// BatchRead returns the values of several ranges in this sheet.
func (sh *Sheet) BatchRead(ctx context.Context, ranges []string) ([][][]any, error) {
	s, err := sh.parent()
	if err != nil {
		return nil, err
	}
	return s.BatchRead(ctx, sh.qualifyAll(ranges))
}

// BatchWrite sets the values of several ranges in this sheet.
func (sh *Sheet) BatchWrite(ctx context.Context, data []ValueRange, opt ValueInputOption) error {
	s, err := sh.parent()
	if err != nil {
		return err
	}
	qualified := make([]ValueRange, len(data))
	for i, vr := range data {
		qualified[i] = ValueRange{Range: sh.Qualify(vr.Range), Values: vr.Values}
	}
	return s.BatchWrite(ctx, qualified, opt)
}

// BatchClear removes the values of several ranges in this sheet.
func (sh *Sheet) BatchClear(ctx context.Context, ranges []string) error {
	s, err := sh.parent()
	if err != nil {
		return err
	}
	return s.BatchClear(ctx, sh.qualifyAll(ranges))
}

// Fetch is Spreadsheet.Fetch with ranges in this sheet.
func (sh *Sheet) Fetch(ctx context.Context, ranges ...string) ([][][]any, error) {
	s, err := sh.parent()
	if err != nil {
		return nil, err
	}
	return s.Fetch(ctx, sh.qualifyAll(ranges)...)
}

// ValueInputOption returns the option Store writes with. A sheet without
// its own option uses its spreadsheet's.
func (sh *Sheet) ValueInputOption() ValueInputOption {
	if sh.valueInputOption != "" {
		return sh.valueInputOption
	}
	if sh.spreadsheet != nil {
		return sh.spreadsheet.ValueInputOption()
	}
	return DefaultValueInputOption
}

// SetValueInputOption changes the option Store writes with for this sheet
// only. The empty option reverts to the spreadsheet's.
func (sh *Sheet) SetValueInputOption(opt ValueInputOption) error {
	if err := opt.Validate(); err != nil {
		return err
	}
	sh.valueInputOption = opt
	return nil
}

// Store is Spreadsheet.Store with ranges in this sheet and the sheet's
// value input option.
func (sh *Sheet) Store(ctx context.Context, ranges []string, values [][][]any) error {
	s, err := sh.parent()
	if err != nil {
		return err
	}
	return s.store(ctx, sh.qualifyAll(ranges), values, sh.ValueInputOption())
}

// Delete removes the tab from its spreadsheet and detaches the sheet. The
// spreadsheet's cached sheet list is not updated.
func (sh *Sheet) Delete(ctx context.Context) error {
	s, err := sh.parent()
	if err != nil {
		return err
	}

	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			DeleteSheet: &sheets.DeleteSheetRequest{
				SheetId:         sh.ID,
				ForceSendFields: []string{"SheetId"},
			},
		}},
	}
	err = s.binding.sheetsCall(ctx, instrumentation.OperationBatchUpdate, s.id, nil, func(ctx context.Context, svc *sheets.Service) error {
		_, err := svc.Spreadsheets.BatchUpdate(s.id, req).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete sheet %d from %s: %w", sh.ID, s.id, err)
	}

	sh.spreadsheet = nil
	return nil
}

// Equal reports whether both sheets are the same tab of the same
// spreadsheet. Both must be attached.
func (sh *Sheet) Equal(other *Sheet) (bool, error) {
	if other == nil || sh.spreadsheet == nil || other.spreadsheet == nil {
		return false, ErrSheetDetached
	}
	return sh.spreadsheet.ID() == other.spreadsheet.ID() && sh.ID == other.ID, nil
}
