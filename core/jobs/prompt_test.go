package jobs

import (
	"strings"
	"testing"
)

func TestBuildPrompt(t *testing.T) {
	p := Posting{
		Title:       "Data Analyst",
		Company:     "Acme",
		Location:    "San Francisco, CA",
		MinAmount:   "70000",
		MaxAmount:   "90000",
		Currency:    "USD",
		Description: "Plain text description",
		JobURL:      "https://example.com/job/1",
	}

	got := BuildPrompt(p)

	if !strings.HasPrefix(got, "Extract structured job data from this job posting:\n\n\nJob Title: Data Analyst\n") {
		t.Errorf("unexpected prefix:\n%s", got)
	}
	for _, want := range []string{
		"Company: Acme\n",
		"Location: San Francisco, CA\n",
		"Job Type: N/A\n",
		"Salary: 70000 - 90000 USD\n",
		"Job Description: Plain text description\n",
		"Source URL: https://example.com/job/1\n",
		"Skills: N/A\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestBuildPrompt_MissingSalary(t *testing.T) {
	got := BuildPrompt(Posting{Title: "X"})
	if !strings.Contains(got, "Salary: N/A - N/A N/A\n") {
		t.Errorf("unexpected salary line:\n%s", got)
	}
}

func TestBuildPrompt_ConvertsHTML(t *testing.T) {
	got := BuildPrompt(Posting{Description: "<p>Build <strong>pipelines</strong></p><ul><li>Go</li></ul>"})
	if strings.Contains(got, "<p>") || strings.Contains(got, "<strong>") {
		t.Errorf("HTML was not converted:\n%s", got)
	}
	if !strings.Contains(got, "**pipelines**") {
		t.Errorf("expected markdown emphasis:\n%s", got)
	}
}

func TestLooksLikeHTML(t *testing.T) {
	tests := map[string]bool{
		"<p>x</p>":      true,
		"salary < 100k": false,
		"plain":         false,
		"a <br> b":      true,
		"":              false,
	}
	for in, want := range tests {
		if got := looksLikeHTML(in); got != want {
			t.Errorf("looksLikeHTML(%q) = %v, want %v", in, got, want)
		}
	}
}
