package sheet

import (
	"context"
)

// Table is a worksheet as read from a Store: the header row and the data rows below it.
type Table struct {
	Name   string
	Header []string
	Rows   []Row
}

// Row is a single data row. Number is the 1-based row number in the worksheet, so the first
// data row is row 2.
type Row struct {
	Number int
	Cells  []any
}

// Range is a contiguous rectangular block of cells to be written, anchored at the 1-based
// Row and 0-based Column of its top left cell.
type Range struct {
	Row    int
	Column int
	Values [][]any
}

// Store is the spreadsheet boundary. Reads and writes are range based.
type Store interface {
	Read(ctx context.Context, sheet string) (*Table, error)
	Write(ctx context.Context, sheet string, ranges []Range) error
}

// Cell returns the value of the cell at column index ix, or nil if the row is shorter than that.
func (r Row) Cell(ix int) any {
	if ix < 0 || ix >= len(r.Cells) {
		return nil
	}

	return r.Cells[ix]
}

// Column builds a single column range starting at row 'top'.
func Column(column, top int, values []any) Range {
	rows := make([][]any, len(values))
	for i, v := range values {
		rows[i] = []any{v}
	}

	return Range{
		Row:    top,
		Column: column,
		Values: rows,
	}
}

// Cell builds a single cell range.
func Cell(row, column int, value any) Range {
	return Range{
		Row:    row,
		Column: column,
		Values: [][]any{{value}},
	}
}

func makeTable(name string, values [][]any) *Table {
	table := Table{
		Name:   name,
		Header: []string{},
		Rows:   []Row{},
	}

	if len(values) == 0 {
		return &table
	}

	for _, v := range values[0] {
		table.Header = append(table.Header, clean(Text(v)))
	}

	for i, cells := range values[1:] {
		table.Rows = append(table.Rows, Row{
			Number: i + 2,
			Cells:  cells,
		})
	}

	return &table
}
