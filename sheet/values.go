package sheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Sheets date serial numbers count days from 1899-12-30.
var epoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// DateValue returns the date held in a cell. Only date cells are dates: numbers and text in a
// date column are treated as absent.
func DateValue(v any) (time.Time, bool) {
	if d, ok := v.(time.Time); ok && !d.IsZero() {
		return d, true
	}

	return time.Time{}, false
}

// FromSerial converts a spreadsheet serial number to a date.
func FromSerial(serial float64) (time.Time, bool) {
	if serial <= 0 || math.IsNaN(serial) || math.IsInf(serial, 0) {
		return time.Time{}, false
	}

	days := math.Floor(serial)
	seconds := math.Round((serial - days) * 86400)

	return epoch.AddDate(0, 0, int(days)).Add(time.Duration(seconds) * time.Second), true
}

// Text returns the submission text for a scalar cell value.
func Text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""

	case string:
		return strings.TrimSpace(t)

	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)

	case int:
		return strconv.Itoa(t)

	case int64:
		return strconv.FormatInt(t, 10)

	case bool:
		return strconv.FormatBool(t)

	case time.Time:
		return t.UTC().Format("2006-01-02")

	default:
		return strings.TrimSpace(fmt.Sprintf("%v", t))
	}
}

// IsEmpty returns true for nil cells and blank text.
func IsEmpty(v any) bool {
	return Text(v) == ""
}

// ColumnName converts a 0-based column index to its A1 letters e.g. 0 -> A, 27 -> AB.
func ColumnName(ix int) string {
	name := ""
	for n := ix + 1; n > 0; n = (n - 1) / 26 {
		name = string(rune('A'+(n-1)%26)) + name
	}

	return name
}

// A1 returns the A1 notation for a range on the named worksheet.
func A1(sheet string, r Range) string {
	width := 1
	for _, row := range r.Values {
		if len(row) > width {
			width = len(row)
		}
	}

	height := len(r.Values)
	if height == 0 {
		height = 1
	}

	left := ColumnName(r.Column)
	right := ColumnName(r.Column + width - 1)
	bottom := r.Row + height - 1

	return fmt.Sprintf("%s!%s%d:%s%d", quote(sheet), left, r.Row, right, bottom)
}

func quote(sheet string) string {
	if strings.ContainsAny(sheet, " '!") {
		return "'" + strings.ReplaceAll(sheet, "'", "''") + "'"
	}

	return sheet
}

func clean(v string) string {
	return strings.TrimSpace(v)
}
