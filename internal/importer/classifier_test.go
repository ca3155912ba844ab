package importer

import "testing"

func TestClassifyRows_CarryForward(t *testing.T) {
	rows := [][]string{
		{"Name", "Brand", "Price CRC", "Price USD", "Image"},
		{"Bananas", "", "₡1.200", "", ""},
		{"", "Del Monte", "₡1.500", "", ""},
	}

	candidates := ClassifyRows(rows)
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[1].Name != "Bananas" {
		t.Fatalf("expected carried name %q, got %q", "Bananas", candidates[1].Name)
	}
	if !candidates[1].CarriedName {
		t.Fatal("expected second candidate to be marked as carried")
	}
	if candidates[1].Brand != "Del Monte" {
		t.Fatalf("expected brand %q, got %q", "Del Monte", candidates[1].Brand)
	}
}

func TestClassifyRows_CategoryHeaders(t *testing.T) {
	rows := [][]string{
		{"Name", "Brand", "Price CRC", "Price USD", "Image"},
		{"Dairy"},
		{"Milk 1L", "", "₡800", "", ""},
		{"Cheese 115g", "", "₡1.200", "", ""},
		{"Produce"},
		{"Bananas", "", "₡500", "", ""},
	}

	candidates := ClassifyRows(rows)
	if len(candidates) != 3 {
		t.Fatalf("expected 3 candidates, got %d", len(candidates))
	}
	if candidates[0].CategoryHint != "Dairy" || candidates[1].CategoryHint != "Dairy" {
		t.Fatalf("expected first two candidates hinted Dairy, got %q / %q",
			candidates[0].CategoryHint, candidates[1].CategoryHint)
	}
	if candidates[2].CategoryHint != "Produce" {
		t.Fatalf("expected third candidate hinted Produce, got %q", candidates[2].CategoryHint)
	}
}

func TestClassifyRows_SkipsAndRowNumbers(t *testing.T) {
	rows := [][]string{
		{"Name", "Brand", "Price CRC", "Price USD", "Image"},
		{"", "", "", "", ""}, // blank, skipped
		{"Bananas", "", "₡500", "", ""},
		{"just a note with no price", "and more text"}, // no price token, discarded
		{"Apples", "", "", "$2.00", ""},
	}

	candidates := ClassifyRows(rows)
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}

	// RowIndex is the 1-based sheet position; Sequence counts survivors only.
	if candidates[0].RowIndex != 3 || candidates[1].RowIndex != 5 {
		t.Fatalf("unexpected row indexes: %d, %d", candidates[0].RowIndex, candidates[1].RowIndex)
	}
	if candidates[0].Sequence != 0 || candidates[1].Sequence != 1 {
		t.Fatalf("unexpected sequences: %d, %d", candidates[0].Sequence, candidates[1].Sequence)
	}
}

func TestClassifyRows_NamedRowWithoutPriceStartsSection(t *testing.T) {
	// A single-cell row with no price token is a category header, not a
	// product candidate, even when its text reads like a product name.
	rows := [][]string{
		{"Name", "Brand", "Price CRC", "Price USD", "Image"},
		{"Mystery Item", "", "", "", ""},
		{"Bananas", "", "₡500", "", ""},
	}

	candidates := ClassifyRows(rows)
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].Name != "Bananas" {
		t.Fatalf("expected Bananas, got %q", candidates[0].Name)
	}
	if candidates[0].CategoryHint != "Mystery Item" {
		t.Fatalf("expected hint from the header row, got %q", candidates[0].CategoryHint)
	}
}

func TestClassifyRows_HeaderRequiresSingleCell(t *testing.T) {
	rows := [][]string{
		{"Name", "Brand", "Price CRC", "Price USD", "Image"},
		{"Dairy", "some note"}, // two cells: not a header, no price: discarded
		{"Milk 1L", "", "₡800", "", ""},
	}

	candidates := ClassifyRows(rows)
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].CategoryHint != "" {
		t.Fatalf("expected empty hint, got %q", candidates[0].CategoryHint)
	}
}

func TestClassifyRows_FreshStatePerCall(t *testing.T) {
	first := [][]string{
		{"header"},
		{"Bananas", "", "₡500", "", ""},
	}
	second := [][]string{
		{"header"},
		{"", "Del Monte", "₡900", "", ""},
	}

	ClassifyRows(first)
	candidates := ClassifyRows(second)
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if candidates[0].Name != "" {
		t.Fatalf("expected no carried name across uploads, got %q", candidates[0].Name)
	}
}
