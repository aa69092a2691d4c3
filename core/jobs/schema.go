package jobs

import (
	"sync"

	"github.com/ninetofive/scout/core/jsonschema"
)

// Record is the structured form of one job posting. Every field is optional;
// fields the model could not fill hold the extractor placeholder.
type Record struct {
	CompanyName        string  `json:"company_name,omitempty" jsonschema:"description=Name of the company or organization"`
	CompanyDescription string  `json:"company_description,omitempty" jsonschema:"description=Brief summary of company purpose or mission"`
	JobTitle           string  `json:"job_title,omitempty" jsonschema:"description=Job title or position name"`
	JobLocation        string  `json:"job_location,omitempty" jsonschema:"description=Job location (city, state, remote, etc.)"`
	EmploymentType     string  `json:"employment_type,omitempty" jsonschema:"description=Employment type (full-time, part-time, contract, etc.)"`
	Department         string  `json:"department,omitempty" jsonschema:"description=Department or team name"`
	SalaryMin          float64 `json:"salary_min,omitempty" jsonschema:"description=Minimum salary mentioned"`
	SalaryMax          float64 `json:"salary_max,omitempty" jsonschema:"description=Maximum salary mentioned"`
	SalaryCurrency     string  `json:"salary_currency,omitempty" jsonschema:"description=Currency code (USD, EUR, etc.)"`
	SalaryRaw          string  `json:"salary_raw,omitempty" jsonschema:"description=Raw salary text as displayed on page"`
	JobDescription     string  `json:"job_description,omitempty" jsonschema:"description=Full job description text in markdown format"`
	JobRequirements    string  `json:"job_requirements,omitempty" jsonschema:"description=List or text of job requirements in markdown format"`
	PostedDate         string  `json:"posted_date,omitempty" jsonschema:"description=Date the job was posted, in ISO format if available"`
	SourceURL          string  `json:"source_url,omitempty" jsonschema:"description=URL of the source job posting"`
}

var jobSchema = sync.OnceValue(func() *jsonschema.Schema {
	s, err := jsonschema.Generate[Record]()
	if err != nil {
		panic("jobs: record schema: " + err.Error())
	}
	return s
})

// JobSchema returns the job extraction schema. The schema is shared and must
// not be modified.
func JobSchema() *jsonschema.Schema {
	return jobSchema()
}
