package importer

import (
	"strings"
	"testing"

	"github.com/geobase-api/internal/models"
)

func TestCanonicalField(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"question", "question", true},
		{"Question", "question", true},
		{"  ANSWER  ", "answer", true},
		{"שאלה", "question", true},
		{"תשובה", "answer", true},
		{"קטגוריה", "category", true},
		{"מקור", "source", true},
		{"priority", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := CanonicalField(tt.header)
		if got != tt.want || ok != tt.ok {
			t.Errorf("CanonicalField(%q) = (%q, %v), want (%q, %v)", tt.header, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"we offer three courses", 4},
		{"  spaced   out\twords\n", 3},
	}

	for _, tt := range tests {
		if got := CountWords(tt.text); got != tt.want {
			t.Errorf("CountWords(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestParseCSV_MapsAliasesAndDropsUnknownColumns(t *testing.T) {
	input := "שאלה,Answer,category,priority\n" +
		"How much?,Depends on the course,Pricing,high\n" +
		"Where?,Tel Aviv,General,low\n"

	rows, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["question"] != "How much?" {
		t.Errorf("question = %q", rows[0]["question"])
	}
	if rows[0]["answer"] != "Depends on the course" {
		t.Errorf("answer = %q", rows[0]["answer"])
	}
	if rows[0]["category"] != "Pricing" {
		t.Errorf("category = %q", rows[0]["category"])
	}
	if _, ok := rows[0]["priority"]; ok {
		t.Error("unmapped column should be dropped")
	}
}

func TestParseCSV_SkipsBlankRows(t *testing.T) {
	input := "question,answer,category\n" +
		"Q1,A1,General\n" +
		",,\n" +
		"Q2,A2,General\n"

	rows, err := ParseCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseCSV failed: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("expected blank row to be skipped, got %d rows", len(rows))
	}
}

func TestParseCSV_EmptyInput(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
}

func TestParse_RejectsUnsupportedExtensions(t *testing.T) {
	if _, err := Parse("data.xls", strings.NewReader("")); err == nil {
		t.Error("expected error for .xls")
	}
	if _, err := Parse("data.pdf", strings.NewReader("")); err == nil {
		t.Error("expected error for .pdf")
	}
}

func TestValidateRows(t *testing.T) {
	rows := []models.RawRow{
		{"question": "How much?", "answer": "100 NIS per month", "category": "Pricing"},
		{"question": "", "answer": "orphan answer", "category": "Pricing"},
		{"question": "Where?", "answer": "  ", "category": ""},
		{"question": "When?", "answer": "Next week", "category": "Schedule"},
	}

	validated := ValidateRows(rows, []string{"Pricing", "General"})
	if len(validated) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(validated))
	}

	if !validated[0].Valid {
		t.Errorf("row 0 should be valid, errors: %v", validated[0].Errors)
	}
	if validated[0].WordCount != 4 {
		t.Errorf("row 0 word count = %d, want 4", validated[0].WordCount)
	}

	if validated[1].Valid {
		t.Error("row 1 should be invalid (missing question)")
	}
	if len(validated[1].Errors) != 1 || validated[1].Errors[0] != "question is missing" {
		t.Errorf("row 1 errors = %v", validated[1].Errors)
	}

	if validated[2].Valid {
		t.Error("row 2 should be invalid")
	}
	if len(validated[2].Errors) != 2 {
		t.Errorf("row 2 should report missing answer and category, got %v", validated[2].Errors)
	}

	if validated[3].Valid {
		t.Error("row 3 should be invalid (unknown category)")
	}
	if len(validated[3].Errors) != 1 || !strings.Contains(validated[3].Errors[0], "Schedule") {
		t.Errorf("row 3 errors = %v", validated[3].Errors)
	}
}

func TestValidateRows_TrimsFields(t *testing.T) {
	rows := []models.RawRow{
		{"question": "  Q  ", "answer": " A ", "category": " General "},
	}

	validated := ValidateRows(rows, []string{"General"})
	if !validated[0].Valid {
		t.Fatalf("row should be valid after trimming, errors: %v", validated[0].Errors)
	}
	if validated[0].Question != "Q" || validated[0].Answer != "A" || validated[0].Category != "General" {
		t.Errorf("fields not trimmed: %+v", validated[0])
	}
}
