package documents

import (
	"context"
	"fmt"

	sheets "google.golang.org/api/sheets/v4"

	"github.com/teemow/gdocs/internal/instrumentation"
)

// Spreadsheet is a Google Sheets spreadsheet. It is a Document, so it can
// be exported and updated as a whole, and adds cell value access.
//
// The sheet list is cached after the first Sheets call and must be dropped
// with InvalidateSheets after tabs change. A Spreadsheet must not be shared
// between goroutines.
type Spreadsheet struct {
	Document

	valueInputOption ValueInputOption

	sheets       []*Sheet
	sheetsLoaded bool
}

// NewSpreadsheet returns a standalone spreadsheet for id without credentials.
func NewSpreadsheet(id string) *Spreadsheet {
	return &Spreadsheet{Document: Document{File: File{
		id:       id,
		mimeType: MimeTypeSpreadsheet,
		kind:     KindSpreadsheet,
	}}}
}

// ValueInputOption returns the option Store writes with.
func (s *Spreadsheet) ValueInputOption() ValueInputOption {
	return s.valueInputOption.orDefault()
}

// SetValueInputOption changes the option Store writes with.
func (s *Spreadsheet) SetValueInputOption(opt ValueInputOption) error {
	if err := opt.Validate(); err != nil {
		return err
	}
	s.valueInputOption = opt
	return nil
}

// Read returns the values of one A1 range. An empty range gives an empty,
// non-nil grid.
func (s *Spreadsheet) Read(ctx context.Context, rng string) ([][]any, error) {
	var resp *sheets.ValueRange
	err := s.binding.sheetsCall(ctx, instrumentation.OperationValuesGet, s.id, []string{rng}, func(ctx context.Context, svc *sheets.Service) error {
		var err error
		resp, err = svc.Spreadsheets.Values.Get(s.id, rng).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from %s: %w", rng, s.id, err)
	}
	return normalizeValues(resp.Values), nil
}

// GetRange returns the values of one A1 range.
//
// Deprecated: use Read.
func (s *Spreadsheet) GetRange(ctx context.Context, rng string) ([][]any, error) {
	return s.Read(ctx, rng)
}

// Write sets the values of one A1 range.
func (s *Spreadsheet) Write(ctx context.Context, rng string, rows [][]any, opt ValueInputOption) error {
	if err := opt.Validate(); err != nil {
		return err
	}

	body := &sheets.ValueRange{Range: rng, Values: normalizeValues(rows)}
	err := s.binding.sheetsCall(ctx, instrumentation.OperationValuesPut, s.id, []string{rng}, func(ctx context.Context, svc *sheets.Service) error {
		_, err := svc.Spreadsheets.Values.Update(s.id, rng, body).
			ValueInputOption(string(opt.orDefault())).
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to write %s to %s: %w", rng, s.id, err)
	}
	return nil
}

// Clear removes the values of one A1 range, keeping formatting.
func (s *Spreadsheet) Clear(ctx context.Context, rng string) error {
	err := s.binding.sheetsCall(ctx, instrumentation.OperationValuesClear, s.id, []string{rng}, func(ctx context.Context, svc *sheets.Service) error {
		_, err := svc.Spreadsheets.Values.Clear(s.id, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to clear %s in %s: %w", rng, s.id, err)
	}
	return nil
}

// BatchRead returns the values of several ranges in one call. Grids are
// returned in the order of ranges.
func (s *Spreadsheet) BatchRead(ctx context.Context, ranges []string) ([][][]any, error) {
	if len(ranges) == 0 {
		return [][][]any{}, nil
	}

	var resp *sheets.BatchGetValuesResponse
	err := s.binding.sheetsCall(ctx, instrumentation.OperationBatchGet, s.id, ranges, func(ctx context.Context, svc *sheets.Service) error {
		var err error
		resp, err = svc.Spreadsheets.Values.BatchGet(s.id).Ranges(ranges...).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to batch read %d ranges from %s: %w", len(ranges), s.id, err)
	}

	grids := make([][][]any, len(ranges))
	for i := range grids {
		grids[i] = [][]any{}
		if i < len(resp.ValueRanges) && resp.ValueRanges[i] != nil {
			grids[i] = normalizeValues(resp.ValueRanges[i].Values)
		}
	}
	return grids, nil
}

// BatchWrite sets the values of several ranges in one call.
func (s *Spreadsheet) BatchWrite(ctx context.Context, data []ValueRange, opt ValueInputOption) error {
	if err := opt.Validate(); err != nil {
		return err
	}
	if len(data) == 0 {
		return nil
	}

	ranges := make([]string, len(data))
	body := &sheets.BatchUpdateValuesRequest{
		ValueInputOption: string(opt.orDefault()),
		Data:             make([]*sheets.ValueRange, len(data)),
	}
	for i, vr := range data {
		ranges[i] = vr.Range
		body.Data[i] = &sheets.ValueRange{Range: vr.Range, Values: normalizeValues(vr.Values)}
	}

	err := s.binding.sheetsCall(ctx, instrumentation.OperationBatchPut, s.id, ranges, func(ctx context.Context, svc *sheets.Service) error {
		_, err := svc.Spreadsheets.Values.BatchUpdate(s.id, body).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to batch write %d ranges to %s: %w", len(data), s.id, err)
	}
	return nil
}

// BatchClear removes the values of several ranges in one call.
func (s *Spreadsheet) BatchClear(ctx context.Context, ranges []string) error {
	if len(ranges) == 0 {
		return nil
	}

	err := s.binding.sheetsCall(ctx, instrumentation.OperationBatchClear, s.id, ranges, func(ctx context.Context, svc *sheets.Service) error {
		_, err := svc.Spreadsheets.Values.BatchClear(s.id, &sheets.BatchClearValuesRequest{Ranges: ranges}).Context(ctx).Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to batch clear %d ranges in %s: %w", len(ranges), s.id, err)
	}
	return nil
}

// Fetch reads one range with Read or several with BatchRead. The result
// always holds one grid per range.
func (s *Spreadsheet) Fetch(ctx context.Context, ranges ...string) ([][][]any, error) {
	if len(ranges) == 1 {
		values, err := s.Read(ctx, ranges[0])
		if err != nil {
			return nil, err
		}
		return [][][]any{values}, nil
	}
	return s.BatchRead(ctx, ranges)
}

// Store writes values[i] to ranges[i] using the spreadsheet's value input
// option, with Write for one range or BatchWrite for several.
func (s *Spreadsheet) Store(ctx context.Context, ranges []string, values [][][]any) error {
	return s.store(ctx, ranges, values, s.valueInputOption)
}

func (s *Spreadsheet) store(ctx context.Context, ranges []string, values [][][]any, opt ValueInputOption) error {
	if len(ranges) != len(values) {
		return fmt.Errorf("%w: %d ranges, %d grids", ErrLengthMismatch, len(ranges), len(values))
	}
	if len(ranges) == 1 {
		return s.Write(ctx, ranges[0], values[0], opt)
	}

	data := make([]ValueRange, len(ranges))
	for i := range ranges {
		data[i] = ValueRange{Range: ranges[i], Values: values[i]}
	}
	return s.BatchWrite(ctx, data, opt)
}

// Sheets returns the tabs of the spreadsheet. The list is fetched on the
// first call and served from cache afterwards.
func (s *Spreadsheet) Sheets(ctx context.Context) ([]*Sheet, error) {
	if s.sheetsLoaded {
		s.binding.recordCacheLookup(ctx, true)
		return s.sheets, nil
	}
	s.binding.recordCacheLookup(ctx, false)

	var resp *sheets.Spreadsheet
	err := s.binding.sheetsCall(ctx, instrumentation.OperationGet, s.id, nil, func(ctx context.Context, svc *sheets.Service) error {
		var err error
		resp, err = svc.Spreadsheets.Get(s.id).Fields("sheets.properties").Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get sheets of %s: %w", s.id, err)
	}

	list := make([]*Sheet, 0, len(resp.Sheets))
	for _, sh := range resp.Sheets {
		if sh == nil || sh.Properties == nil {
			continue
		}
		list = append(list, newSheet(sh.Properties, s))
	}

	s.sheets = list
	s.sheetsLoaded = true
	return list, nil
}

// InvalidateSheets drops the cached sheet list.
func (s *Spreadsheet) InvalidateSheets() {
	s.sheets = nil
	s.sheetsLoaded = false
}

// SheetByTitle returns the tab named title from the sheet list.
func (s *Spreadsheet) SheetByTitle(ctx context.Context, title string) (*Sheet, error) {
	list, err := s.Sheets(ctx)
	if err != nil {
		return nil, err
	}
	for _, sh := range list {
		if sh.Title == title {
			return sh, nil
		}
	}
	return nil, fmt.Errorf("%w: %q in %s", ErrSheetNotFound, title, s.id)
}

// AddSheet creates a new tab. The cached sheet list is left untouched.
func (s *Spreadsheet) AddSheet(ctx context.Context, title string) (*Sheet, error) {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: title},
			},
		}},
	}

	var resp *sheets.BatchUpdateSpreadsheetResponse
	err := s.binding.sheetsCall(ctx, instrumentation.OperationBatchUpdate, s.id, nil, func(ctx context.Context, svc *sheets.Service) error {
		var err error
		resp, err = svc.Spreadsheets.BatchUpdate(s.id, req).Context(ctx).Do()
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add sheet %q to %s: %w", title, s.id, err)
	}

	props := &sheets.SheetProperties{Title: title}
	if len(resp.Replies) > 0 && resp.Replies[0] != nil && resp.Replies[0].AddSheet != nil && resp.Replies[0].AddSheet.Properties != nil {
		props = resp.Replies[0].AddSheet.Properties
	}
	return newSheet(props, s), nil
}
