package sheet

import (
	"context"
	"fmt"
	"sync"
)

// Memory is an in-memory Store. A worksheet is a grid of cells where row 0 is the header. Cells
// hold the same types as the Google store returns: time.Time for date cells, float64 for numbers.
type Memory struct {
	sync.Mutex
	Sheets map[string][][]any
	Writes int
}

func NewMemory() *Memory {
	return &Memory{
		Sheets: map[string][][]any{},
	}
}

func (m *Memory) Read(ctx context.Context, name string) (*Table, error) {
	m.Lock()
	defer m.Unlock()

	grid, ok := m.Sheets[name]
	if !ok {
		return nil, fmt.Errorf("unable to identify worksheet '%s'", name)
	}

	values := make([][]any, len(grid))
	for i, row := range grid {
		values[i] = append([]any{}, row...)
	}

	return makeTable(name, values), nil
}

func (m *Memory) Write(ctx context.Context, name string, ranges []Range) error {
	m.Lock()
	defer m.Unlock()

	grid, ok := m.Sheets[name]
	if !ok {
		return fmt.Errorf("unable to identify worksheet '%s'", name)
	}

	for _, r := range ranges {
		if r.Row < 1 || r.Column < 0 {
			return fmt.Errorf("invalid range %v", A1(name, r))
		}

		for i, row := range r.Values {
			y := r.Row - 1 + i
			for len(grid) <= y {
				grid = append(grid, []any{})
			}

			for j, v := range row {
				x := r.Column + j
				for len(grid[y]) <= x {
					grid[y] = append(grid[y], nil)
				}

				grid[y][x] = v
			}
		}
	}

	m.Sheets[name] = grid
	m.Writes++

	return nil
}

// Get returns the value of a cell by 1-based row and 0-based column.
func (m *Memory) Get(name string, row, column int) any {
	m.Lock()
	defer m.Unlock()

	grid := m.Sheets[name]
	if row < 1 || row > len(grid) {
		return nil
	}

	cells := grid[row-1]
	if column < 0 || column >= len(cells) {
		return nil
	}

	return cells[column]
}
