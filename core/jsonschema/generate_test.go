package jsonschema

import (
	"reflect"
	"testing"
)

type posting struct {
	Title     string            `json:"title" jsonschema:"description=Job title, as advertised"`
	SalaryMin float64           `json:"salary_min,omitempty" jsonschema:"required"`
	Openings  int               `json:"openings,omitempty"`
	Remote    *bool             `json:"remote"`
	Tags      []string          `json:"tags,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
	Office    struct {
		City string `json:"city"`
	} `json:"office"`
	Level    string `json:"level,omitempty" jsonschema:"enum=junior,enum=senior"`
	Internal string `json:"-"`
	hidden   string
}

func TestGenerate(t *testing.T) {
	s, err := Generate[posting]()
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	wantOrder := []string{"title", "salary_min", "openings", "remote", "tags", "extra", "office", "level"}
	if got := s.FieldNames(); !reflect.DeepEqual(got, wantOrder) {
		t.Errorf("FieldNames() = %v, want %v", got, wantOrder)
	}

	types := map[string]string{
		"title":      TypeString,
		"salary_min": TypeNumber,
		"openings":   TypeInteger,
		"remote":     TypeBoolean,
		"tags":       TypeArray,
		"extra":      TypeObject,
		"office":     TypeObject,
	}
	for name, want := range types {
		if got := s.PropertyType(name); got != want {
			t.Errorf("PropertyType(%q) = %q, want %q", name, got, want)
		}
	}

	if got := s.Properties["title"].Description; got != "Job title, as advertised" {
		t.Errorf("description = %q", got)
	}
	if got := s.Properties["level"].Enum; !reflect.DeepEqual(got, []any{"junior", "senior"}) {
		t.Errorf("enum = %v", got)
	}
	if got := s.Properties["office"].Properties["city"].Type; got != TypeString {
		t.Errorf("nested type = %q", got)
	}
	if !reflect.DeepEqual(s.Required, []string{"title", "salary_min", "office"}) {
		t.Errorf("required = %v", s.Required)
	}
}

func TestGenerate_Rejects(t *testing.T) {
	if _, err := Generate[string](); err == nil {
		t.Error("expected error for non-struct")
	}

	type node struct {
		Next *node `json:"next"`
	}
	if _, err := Generate[node](); err == nil {
		t.Error("expected error for recursive struct")
	}
}
