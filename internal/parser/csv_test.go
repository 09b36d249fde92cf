package parser

import (
	"strings"
	"testing"
)

func TestCSVParser_HeaderLabeledRows(t *testing.T) {
	input := "name,revenue\nAcme,100\nGlobex,200\n"
	p := &CSVParser{}
	o, err := p.Parse(strings.NewReader(input), "revenue.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if o.Title != "revenue" {
		t.Errorf("expected title %q, got %q", "revenue", o.Title)
	}
	if len(o.Sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(o.Sections))
	}
	sec := o.Sections[0]
	if sec.Heading != "Rows 2-3" {
		t.Errorf("expected heading %q, got %q", "Rows 2-3", sec.Heading)
	}
	if !strings.Contains(sec.Text, "Headers: name, revenue") {
		t.Errorf("expected header line, got %q", sec.Text)
	}
	if !strings.Contains(sec.Text, "name: Acme, revenue: 100") {
		t.Errorf("expected labeled row, got %q", sec.Text)
	}
}

func TestCSVParser_BatchesLargeTables(t *testing.T) {
	var b strings.Builder
	b.WriteString("id\n")
	for i := 0; i < 45; i++ {
		b.WriteString("row\n")
	}

	p := &CSVParser{}
	o, err := p.Parse(strings.NewReader(b.String()), "big.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 45 rows at 20 per batch -> 3 sections.
	if len(o.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(o.Sections))
	}
}

func TestCSVParser_EmptyInput(t *testing.T) {
	p := &CSVParser{}
	o, err := p.Parse(strings.NewReader(""), "empty.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(o.Sections) != 0 {
		t.Errorf("expected 0 sections, got %d", len(o.Sections))
	}
}
