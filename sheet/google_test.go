package sheet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

func newGoogle(t *testing.T, handler http.HandlerFunc) *Google {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	g, err := NewGoogle(context.Background(), server.Client(), "1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms", option.WithEndpoint(server.URL+"/"))
	if err != nil {
		t.Fatalf("Unexpected error creating Sheets client (%v)", err)
	}

	return g
}

func TestGoogleRead(t *testing.T) {
	response := `{
  "sheets": [{
    "properties": { "title": "Leasing 2024" },
    "data": [{
      "rowData": [
        { "values": [ { "effectiveValue": { "stringValue": "DeviceID" } },
                      { "effectiveValue": { "stringValue": "Date installatin" } },
                      { "effectiveValue": { "stringValue": "Durée (Mois)" } } ] },
        { "values": [ { "effectiveValue": { "stringValue": "7001" } },
                      { "effectiveValue": { "numberValue": 45306 }, "effectiveFormat": { "numberFormat": { "type": "DATE", "pattern": "dd/mm/yyyy" } } },
                      { "effectiveValue": { "numberValue": 36 }, "effectiveFormat": { "numberFormat": { "type": "NUMBER" } } } ] },
        { "values": [ {},
                      { "effectiveValue": { "numberValue": 45413 } },
                      { "effectiveValue": { "boolValue": true } } ] },
        { "values": [ {}, {} ] },
        {}
      ]
    }]
  }]
}`

	g := newGoogle(t, func(w http.ResponseWriter, rq *http.Request) {
		if rq.URL.Path != "/v4/spreadsheets/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms" {
			t.Errorf("Incorrect request path - expected:%v, got:%v", "/v4/spreadsheets/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms", rq.URL.Path)
		}

		if ranges := rq.URL.Query().Get("ranges"); ranges != "'Leasing 2024'" {
			t.Errorf("Incorrect range - expected:%v, got:%v", "'Leasing 2024'", ranges)
		}

		if grid := rq.URL.Query().Get("includeGridData"); grid != "true" {
			t.Errorf("Expected grid data request, got includeGridData=%v", grid)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, response)
	})

	table, err := g.Read(context.Background(), "Leasing 2024")
	if err != nil {
		t.Fatalf("Unexpected error reading worksheet (%v)", err)
	}

	expected := Table{
		Name:   "Leasing 2024",
		Header: []string{"DeviceID", "Date installatin", "Durée (Mois)"},
		Rows: []Row{
			{Number: 2, Cells: []any{"7001", time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), 36.0}},
			{Number: 3, Cells: []any{nil, 45413.0, true}},
		},
	}

	if !reflect.DeepEqual(*table, expected) {
		t.Errorf("Incorrect table\n   expected: %v\n   got:      %v\n", expected, *table)
	}
}

func TestGoogleReadWithError(t *testing.T) {
	g := newGoogle(t, func(w http.ResponseWriter, rq *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"error":{"code":403,"message":"The caller does not have permission","status":"PERMISSION_DENIED"}}`)
	})

	_, err := g.Read(context.Background(), "Sheet1")
	if err == nil {
		t.Fatalf("Expected error reading worksheet")
	}

	if !strings.Contains(err.Error(), "403 The caller does not have permission") {
		t.Errorf("Incorrect error - expected status code and message, got '%v'", err)
	}
}

func TestGoogleWrite(t *testing.T) {
	var rq sheets.BatchUpdateValuesRequest

	g := newGoogle(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v4/spreadsheets/1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms/values:batchUpdate" {
			t.Errorf("Incorrect request - got %v %v", r.Method, r.URL.Path)
		}

		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &rq); err != nil {
			t.Errorf("Invalid batch update request (%v)", err)
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"spreadsheetId":"1BxiMVs0XRA5nFMdKvBdBZjgmUUqptlbs74OgvE2upms","totalUpdatedCells":3}`)
	})

	ranges := []Range{
		Column(2, 2, []any{"Traité", nil}),
		Cell(2, 3, time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)),
	}

	if err := g.Write(context.Background(), "Leasing 2024", ranges); err != nil {
		t.Fatalf("Unexpected error writing worksheet (%v)", err)
	}

	if rq.ValueInputOption != "USER_ENTERED" {
		t.Errorf("Incorrect value input option - expected:%v, got:%v", "USER_ENTERED", rq.ValueInputOption)
	}

	if len(rq.Data) != 2 {
		t.Fatalf("Incorrect number of ranges - expected:%v, got:%v", 2, len(rq.Data))
	}

	expected := []struct {
		area   string
		values [][]any
	}{
		{"'Leasing 2024'!C2:C3", [][]any{{"Traité"}, {""}}},
		{"'Leasing 2024'!D2:D2", [][]any{{"2024-05-01"}}},
	}

	for i, e := range expected {
		if rq.Data[i].Range != e.area {
			t.Errorf("Incorrect range %v - expected:%v, got:%v", i, e.area, rq.Data[i].Range)
		}

		if !reflect.DeepEqual(rq.Data[i].Values, e.values) {
			t.Errorf("Incorrect values %v - expected:%v, got:%v", i, e.values, rq.Data[i].Values)
		}
	}
}

func TestGoogleWriteWithNoRanges(t *testing.T) {
	g := newGoogle(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("Unexpected request %v %v", r.Method, r.URL.Path)
	})

	if err := g.Write(context.Background(), "Sheet1", nil); err != nil {
		t.Errorf("Unexpected error (%v)", err)
	}
}
