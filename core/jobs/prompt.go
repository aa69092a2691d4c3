package jobs

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// SystemPrompt is the system instruction used for job extraction requests.
const SystemPrompt = "You are a job data extraction specialist. Extract structured job information from the provided job posting data. Be thorough and accurate."

const promptHeader = "Extract structured job data from this job posting:\n\n"

const missing = "N/A"

// BuildPrompt renders a posting into the extraction prompt. HTML descriptions
// are converted to markdown.
func BuildPrompt(p Posting) string {
	var b strings.Builder
	b.WriteString(promptHeader)
	line := func(label string, value string) {
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(orMissing(value))
		b.WriteByte('\n')
	}

	b.WriteByte('\n')
	line("Job Title", string(p.Title))
	line("Company", string(p.Company))
	line("Location", string(p.Location))
	line("Job Type", string(p.JobType))
	line("Date Posted", string(p.DatePosted))
	b.WriteString("Salary: " + orMissing(string(p.MinAmount)) + " - " + orMissing(string(p.MaxAmount)) + " " + orMissing(string(p.Currency)) + "\n")
	line("Company Description", markdown(string(p.CompanyDescription)))
	line("Job Description", markdown(string(p.Description)))
	line("Source URL", string(p.JobURL))
	line("Company Industry", string(p.CompanyIndustry))
	line("Experience Range", string(p.ExperienceRange))
	line("Skills", string(p.Skills))
	return b.String()
}

func orMissing(s string) string {
	if strings.TrimSpace(s) == "" {
		return missing
	}
	return s
}

// markdown converts s when it looks like HTML. Conversion failures keep the
// original text.
func markdown(s string) string {
	if !looksLikeHTML(s) {
		return s
	}
	md, err := htmltomarkdown.ConvertString(s)
	if err != nil || strings.TrimSpace(md) == "" {
		return s
	}
	return strings.TrimSpace(md)
}

func looksLikeHTML(s string) bool {
	i := strings.IndexByte(s, '<')
	return i >= 0 && strings.IndexByte(s[i:], '>') > 0
}
