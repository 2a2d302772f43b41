package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"tradebook/internal/models"
)

func exportTrades() []models.Trade {
	t1 := models.Trade{
		ID:         1,
		Date:       time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		Asset:      "BTC",
		Direction:  models.DirectionLong,
		EntryPrice: 62500.5,
		ExitPrice:  63100,
		StopLoss:   61900,
		TakeProfit: 64000,
		Size:       0.5,
		Leverage:   "10",
		Journal:    "seguí el plan",
		Analysis:   "entrada limpia",
	}
	t1.Recalculate()
	t2 := models.Trade{
		ID:         2,
		Date:       time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC),
		Asset:      "ETH",
		Direction:  models.DirectionShort,
		EntryPrice: 240000,
		Size:       2,
	}
	t2.Recalculate()
	return []models.Trade{t1, t2}
}

func TestWriteSpreadsheetLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, exportTrades()); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("export has %d lines, want header + 2 rows", len(lines))
	}

	if lines[0] != strings.Join(Headers, "\t") {
		t.Errorf("header = %q", lines[0])
	}
	if len(Headers) != 12 {
		t.Fatalf("header has %d columns, want 12", len(Headers))
	}

	row1 := strings.Split(lines[1], "\t")
	want1 := []string{
		"1", "15/03/2024", "BTC", "compra", "10", "62.500,5",
		"63.100", "61.900", "64.000", "0,5", "seguí el plan", "entrada limpia",
	}
	if len(row1) != len(want1) {
		t.Fatalf("row 1 has %d cells, want %d: %q", len(row1), len(want1), lines[1])
	}
	for i := range want1 {
		if row1[i] != want1[i] {
			t.Errorf("row 1 cell %d (%s) = %q, want %q", i, Headers[i], row1[i], want1[i])
		}
	}

	row2 := strings.Split(lines[2], "\t")
	want2 := []string{
		"2", "16/03/2024", "ETH", "venta", "", "240.000",
		"", "", "", "2", "", "",
	}
	for i := range want2 {
		if row2[i] != want2[i] {
			t.Errorf("row 2 cell %d (%s) = %q, want %q", i, Headers[i], row2[i], want2[i])
		}
	}
}

func TestWriteEmptyBook(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 1 || lines[0] != strings.Join(Headers, "\t") {
		t.Errorf("empty export = %q, want just the header", buf.String())
	}
}

func TestWriteQuotesEmbeddedTabs(t *testing.T) {
	tr := models.Trade{
		ID:         1,
		Date:       time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		Asset:      "BTC",
		Direction:  models.DirectionLong,
		EntryPrice: 100,
		Size:       1,
		Journal:    "plan\tkept",
	}
	tr.Recalculate()

	var buf bytes.Buffer
	if err := Write(&buf, []models.Trade{tr}); err != nil {
		t.Fatal(err)
	}

	r := csv.NewReader(&buf)
	r.Comma = '\t'
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("export is not valid TSV: %v", err)
	}
	if records[1][10] != "plan\tkept" {
		t.Errorf("journal cell = %q, want the tab preserved through quoting", records[1][10])
	}
}

func TestDirectionLabel(t *testing.T) {
	if got := DirectionLabel(models.DirectionLong); got != "compra" {
		t.Errorf("long label = %q, want compra", got)
	}
	if got := DirectionLabel(models.DirectionShort); got != "venta" {
		t.Errorf("short label = %q, want venta", got)
	}
}

func TestNumeral(t *testing.T) {
	p := message.NewPrinter(language.Spanish)

	testCases := []struct {
		value    float64
		expected string
	}{
		{62500.5, "62.500,5"},
		{63100, "63.100"},
		{0.5, "0,5"},
		{2, "2"},
		{0, ""},
		{1234567.89, "1.234.567,89"},
		{0.00000001, "0,00000001"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			if got := Numeral(p, tc.value); got != tc.expected {
				t.Errorf("Numeral(%v) = %q, want %q", tc.value, got, tc.expected)
			}
		})
	}
}
