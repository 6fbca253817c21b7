package sheet

import (
	"context"
	"reflect"
	"testing"
	"time"
)

func TestMemoryRead(t *testing.T) {
	store := NewMemory()
	store.Sheets["Leasing"] = [][]any{
		{"Company ID (HS)", " DeviceID "},
		{"1001", ""},
		{"1002", "7001"},
	}

	table, err := store.Read(context.Background(), "Leasing")
	if err != nil {
		t.Fatalf("Unexpected error reading worksheet (%v)", err)
	}

	expected := Table{
		Name:   "Leasing",
		Header: []string{"Company ID (HS)", "DeviceID"},
		Rows: []Row{
			{Number: 2, Cells: []any{"1001", ""}},
			{Number: 3, Cells: []any{"1002", "7001"}},
		},
	}

	if !reflect.DeepEqual(*table, expected) {
		t.Errorf("Incorrect table\n   expected: %v\n   got:      %v\n", expected, *table)
	}
}

func TestMemoryReadWithUnknownSheet(t *testing.T) {
	store := NewMemory()

	if _, err := store.Read(context.Background(), "Leasing"); err == nil {
		t.Errorf("Expected error reading unknown worksheet")
	}
}

func TestMemoryWrite(t *testing.T) {
	store := NewMemory()
	store.Sheets["Leasing"] = [][]any{
		{"Company ID (HS)", "DeviceID"},
		{"1001"},
		{"1002", "7001"},
	}

	ranges := []Range{
		Column(1, 2, []any{"7002", "7001"}),
		Cell(4, 2, "OK"),
	}

	if err := store.Write(context.Background(), "Leasing", ranges); err != nil {
		t.Fatalf("Unexpected error writing worksheet (%v)", err)
	}

	expected := [][]any{
		{"Company ID (HS)", "DeviceID"},
		{"1001", "7002"},
		{"1002", "7001"},
		{nil, nil, "OK"},
	}

	if !reflect.DeepEqual(store.Sheets["Leasing"], expected) {
		t.Errorf("Incorrect worksheet\n   expected: %v\n   got:      %v\n", expected, store.Sheets["Leasing"])
	}

	if store.Writes != 1 {
		t.Errorf("Expected 1 write, got %v", store.Writes)
	}

	if v := store.Get("Leasing", 2, 1); v != "7002" {
		t.Errorf("Incorrect cell value - expected:%v, got:%v", "7002", v)
	}
}

func TestMemoryDateCells(t *testing.T) {
	store := NewMemory()
	store.Sheets["Sheet1"] = [][]any{
		{"Date installatin"},
		{36.0},
	}

	date := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	if err := store.Write(context.Background(), "Sheet1", []Range{Cell(3, 0, date)}); err != nil {
		t.Fatalf("Unexpected error writing worksheet (%v)", err)
	}

	table, err := store.Read(context.Background(), "Sheet1")
	if err != nil {
		t.Fatalf("Unexpected error reading worksheet (%v)", err)
	}

	if _, ok := DateValue(table.Rows[0].Cell(0)); ok {
		t.Errorf("Expected number cell to not be a date")
	}

	if d, ok := DateValue(table.Rows[1].Cell(0)); !ok || !d.Equal(date) {
		t.Errorf("Expected date cell %v, got %v", date, table.Rows[1].Cell(0))
	}
}
