package jobs

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestField_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Field
	}{
		{name: "string", json: `" Engineer "`, want: "Engineer"},
		{name: "integer", json: `85000`, want: "85000"},
		{name: "float", json: `85000.5`, want: "85000.5"},
		{name: "bool", json: `true`, want: "true"},
		{name: "null", json: `null`, want: ""},
		{name: "nan marker", json: `"nan"`, want: ""},
		{name: "none marker", json: `"None"`, want: ""},
		{name: "list", json: `["Go", "SQL", null]`, want: "Go, SQL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f Field
			if err := f.UnmarshalJSON([]byte(tt.json)); err != nil {
				t.Fatalf("UnmarshalJSON() error = %v", err)
			}
			if f != tt.want {
				t.Errorf("got %q, want %q", f, tt.want)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	input := `[
		{"id": "in-1", "site": "indeed", "title": "Data Analyst", "min_amount": 70000, "max_amount": null, "skills": ["sql", "python"]},
		{"id": 42, "title": "Engineer", "unknown": {"x": 1}}
	]`
	postings, err := DecodeJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeJSON() error = %v", err)
	}
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}
	p := postings[0]
	if p.ID != "in-1" || p.Site != "indeed" || p.MinAmount != "70000" || p.MaxAmount != "" || p.Skills != "sql, python" {
		t.Errorf("unexpected posting: %+v", p)
	}
	if postings[1].ID != "42" {
		t.Errorf("numeric id = %q, want 42", postings[1].ID)
	}
}

func TestDecodeCSV(t *testing.T) {
	input := "\ufeffid,site,Title,company,min_amount,description,extra\n" +
		"li-1,linkedin,\"Program Manager, AI\",Acme,nan,\"<p>Lead <b>things</b></p>\",x\n" +
		"li-2,linkedin,Analyst\n"

	postings, err := DecodeCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeCSV() error = %v", err)
	}
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}
	first := postings[0]
	if first.ID != "li-1" || first.Title != "Program Manager, AI" || first.Company != "Acme" {
		t.Errorf("unexpected first posting: %+v", first)
	}
	if first.MinAmount != "" {
		t.Errorf("nan should decode as empty, got %q", first.MinAmount)
	}
	if postings[1].Title != "Analyst" || postings[1].Company != "" {
		t.Errorf("short row: %+v", postings[1])
	}
}

func TestDecodeCSV_Empty(t *testing.T) {
	postings, err := DecodeCSV(strings.NewReader(""))
	if err != nil || postings != nil {
		t.Errorf("DecodeCSV(empty) = %v, %v", postings, err)
	}
}

func TestLoadPostings(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "jobs.json")
	if err := os.WriteFile(jsonPath, []byte(`[{"id":"a","title":"A"}]`), 0o600); err != nil {
		t.Fatal(err)
	}
	csvPath := filepath.Join(dir, "jobs.CSV")
	if err := os.WriteFile(csvPath, []byte("id,title\nb,B\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	txtPath := filepath.Join(dir, "jobs.txt")
	if err := os.WriteFile(txtPath, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	fromJSON, err := LoadPostings(jsonPath)
	if err != nil || len(fromJSON) != 1 || fromJSON[0].Title != "A" {
		t.Errorf("LoadPostings(json) = %+v, %v", fromJSON, err)
	}
	fromCSV, err := LoadPostings(csvPath)
	if err != nil || len(fromCSV) != 1 || fromCSV[0].ID != "b" {
		t.Errorf("LoadPostings(csv) = %+v, %v", fromCSV, err)
	}
	if _, err := LoadPostings(txtPath); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("LoadPostings(txt) error = %v, want ErrUnsupportedFormat", err)
	}
	if _, err := LoadPostings(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
