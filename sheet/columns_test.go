package sheet

import (
	"errors"
	"reflect"
	"testing"
)

func TestResolve(t *testing.T) {
	expected := Columns{
		"DeviceID":         2,
		"Sync":             0,
		"Date installatin": 1,
	}

	header := []string{"Sync", "Date installatin", "DeviceID", "Fin leasing"}

	columns, err := Resolve(header, "DeviceID", "Sync", "Date installatin")
	if err != nil {
		t.Fatalf("Unexpected error returned from Resolve (%v)", err)
	}

	if !reflect.DeepEqual(columns, expected) {
		t.Errorf("Incorrect columns\n   expected: %v\n   got:      %v\n", expected, columns)
	}
}

func TestResolveWithMissingColumns(t *testing.T) {
	header := []string{"Sync", "deviceid", "Date installatin"}

	_, err := Resolve(header, "DeviceID", "Sync", "Fin leasing", "Date installatin")
	if err == nil {
		t.Fatalf("Expected error for missing columns, got %v", err)
	}

	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("Expected MissingColumnsError, got %T", err)
	}

	expected := []string{"DeviceID", "Fin leasing"}
	if !reflect.DeepEqual(missing.Names, expected) {
		t.Errorf("Incorrect missing columns\n   expected: %v\n   got:      %v\n", expected, missing.Names)
	}

	if err.Error() != "missing column(s): DeviceID, Fin leasing" {
		t.Errorf("Incorrect error message '%v'", err)
	}
}

func TestResolveWithDuplicatedColumn(t *testing.T) {
	header := []string{"DeviceID", "Sync", "DeviceID"}

	columns, err := Resolve(header, "DeviceID")
	if err != nil {
		t.Fatalf("Unexpected error returned from Resolve (%v)", err)
	}

	if columns["DeviceID"] != 0 {
		t.Errorf("Expected first 'DeviceID' column, got %v", columns["DeviceID"])
	}
}

func TestResolveOptional(t *testing.T) {
	header := []string{"Company ID (HS)", "DeviceID"}

	if ix, ok := ResolveOptional(header, "DeviceID"); !ok || ix != 1 {
		t.Errorf("Incorrect optional column - expected:%v,%v  got:%v,%v", 1, true, ix, ok)
	}

	if ix, ok := ResolveOptional(header, "Device Sync"); ok || ix != -1 {
		t.Errorf("Incorrect optional column - expected:%v,%v  got:%v,%v", -1, false, ix, ok)
	}

	if _, ok := ResolveOptional(header, ""); ok {
		t.Errorf("Expected blank optional column to be unresolved")
	}
}
