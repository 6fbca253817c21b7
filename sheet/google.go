package sheet

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Google is a Store backed by a Google Sheets spreadsheet.
type Google struct {
	service       *sheets.Service
	spreadsheetID string
}

// NewGoogle creates a Google Sheets store for a spreadsheet using an authorised HTTP client.
func NewGoogle(ctx context.Context, client *http.Client, spreadsheetID string, opts ...option.ClientOption) (*Google, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create new Sheets client (%w)", err)
	}

	return &Google{
		service:       service,
		spreadsheetID: spreadsheetID,
	}, nil
}

// Read retrieves the entire worksheet. Cells are read as grid data so that date cells (by
// number format) can be told apart from plain numbers.
func (g *Google) Read(ctx context.Context, name string) (*Table, error) {
	response, err := g.service.Spreadsheets.Get(g.spreadsheetID).
		Ranges(quote(name)).
		IncludeGridData(true).
		Fields("sheets(properties(title),data(rowData(values(effectiveValue,effectiveFormat(numberFormat(type))))))").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve data from sheet '%s' (%w)", name, describe(err))
	}

	if len(response.Sheets) == 0 {
		return nil, fmt.Errorf("unable to identify worksheet '%s'", name)
	}

	values := [][]any{}
	for _, data := range response.Sheets[0].Data {
		for _, row := range data.RowData {
			cells := make([]any, len(row.Values))
			for i, cell := range row.Values {
				cells[i] = decode(cell)
			}

			values = append(values, cells)
		}
	}

	// ... drop trailing blank rows
	for len(values) > 0 && blank(values[len(values)-1]) {
		values = values[:len(values)-1]
	}

	return makeTable(name, values), nil
}

// Write stores all the ranges in a single batch update.
func (g *Google) Write(ctx context.Context, name string, ranges []Range) error {
	if len(ranges) == 0 {
		return nil
	}

	rq := sheets.BatchUpdateValuesRequest{
		ValueInputOption: "USER_ENTERED",
		Data:             []*sheets.ValueRange{},
	}

	for _, r := range ranges {
		values := make([][]any, len(r.Values))
		for i, row := range r.Values {
			values[i] = make([]any, len(row))
			for j, v := range row {
				values[i][j] = encode(v)
			}
		}

		rq.Data = append(rq.Data, &sheets.ValueRange{
			Range:  A1(name, r),
			Values: values,
		})
	}

	if _, err := g.service.Spreadsheets.Values.BatchUpdate(g.spreadsheetID, &rq).Context(ctx).Do(); err != nil {
		return fmt.Errorf("error writing to sheet '%s' (%w)", name, describe(err))
	}

	return nil
}

// decode returns the typed value of a cell: time.Time for numbers formatted as dates, float64,
// string or bool otherwise. Empty and error cells are nil.
func decode(cell *sheets.CellData) any {
	if cell == nil || cell.EffectiveValue == nil {
		return nil
	}

	v := cell.EffectiveValue

	switch {
	case v.NumberValue != nil:
		if isDate(cell.EffectiveFormat) {
			if date, ok := FromSerial(*v.NumberValue); ok {
				return date
			}
		}
		return *v.NumberValue

	case v.StringValue != nil:
		return *v.StringValue

	case v.BoolValue != nil:
		return *v.BoolValue

	default:
		return nil
	}
}

func isDate(format *sheets.CellFormat) bool {
	if format == nil || format.NumberFormat == nil {
		return false
	}

	switch format.NumberFormat.Type {
	case "DATE", "DATE_TIME":
		return true
	}

	return false
}

func blank(cells []any) bool {
	for _, v := range cells {
		if !IsEmpty(v) {
			return false
		}
	}

	return true
}

func encode(v any) any {
	switch t := v.(type) {
	case nil:
		return ""

	case time.Time:
		return t.UTC().Format("2006-01-02")

	default:
		return v
	}
}

func describe(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Message != "" {
		return fmt.Errorf("%d %s", gerr.Code, gerr.Message)
	}

	return err
}
