package jobs

import (
	"testing"

	"github.com/ninetofive/scout/core/jsonschema"
)

func TestJobSchema(t *testing.T) {
	s := JobSchema()

	want := []string{
		"company_name", "company_description", "job_title", "job_location",
		"employment_type", "department", "salary_min", "salary_max",
		"salary_currency", "salary_raw", "job_description", "job_requirements",
		"posted_date", "source_url",
	}
	got := s.FieldNames()
	if len(got) != len(want) {
		t.Fatalf("FieldNames() = %v, want %d fields", got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("field %d = %q, want %q", i, got[i], want[i])
		}
	}

	if len(s.Required) != 0 {
		t.Errorf("Required = %v, want none", s.Required)
	}
	for _, name := range []string{"salary_min", "salary_max"} {
		if s.PropertyType(name) != jsonschema.TypeNumber {
			t.Errorf("%s type = %q, want number", name, s.PropertyType(name))
		}
	}
	if d := s.Properties["job_location"].Description; d != "Job location (city, state, remote, etc.)" {
		t.Errorf("job_location description = %q", d)
	}
	if JobSchema() != s {
		t.Error("JobSchema() should return the shared schema")
	}
}
