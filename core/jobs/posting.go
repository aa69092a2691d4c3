package jobs

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrUnsupportedFormat is returned by LoadPostings for files that are neither
// JSON nor CSV.
var ErrUnsupportedFormat = errors.New("unsupported postings format")

// Field is a scraped value. Scrapers emit numbers, booleans, nulls and lists
// for the same column, so every form decodes to text. Exports mark missing
// values as "nan" or "None"; those decode to the empty string.
type Field string

// UnmarshalJSON implements json.Unmarshaler.
func (f *Field) UnmarshalJSON(data []byte) error {
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return err
	}
	*f = Field(clean(fieldText(v)))
	return nil
}

func fieldText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := fieldText(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		data, _ := json.Marshal(val)
		return string(data)
	}
}

func clean(s string) string {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "nan", "none", "null":
		return ""
	}
	return s
}

// Posting is one scraped job row.
type Posting struct {
	ID                 Field `json:"id"`
	Site               Field `json:"site"`
	Title              Field `json:"title"`
	Company            Field `json:"company"`
	Location           Field `json:"location"`
	JobType            Field `json:"job_type"`
	DatePosted         Field `json:"date_posted"`
	MinAmount          Field `json:"min_amount"`
	MaxAmount          Field `json:"max_amount"`
	Currency           Field `json:"currency"`
	CompanyDescription Field `json:"company_description"`
	Description        Field `json:"description"`
	JobURL             Field `json:"job_url"`
	CompanyIndustry    Field `json:"company_industry"`
	ExperienceRange    Field `json:"experience_range"`
	Skills             Field `json:"skills"`
}

// columns maps CSV header names to Posting fields.
func (p *Posting) columns() map[string]*Field {
	return map[string]*Field{
		"id":                  &p.ID,
		"site":                &p.Site,
		"title":               &p.Title,
		"company":             &p.Company,
		"location":            &p.Location,
		"job_type":            &p.JobType,
		"date_posted":         &p.DatePosted,
		"min_amount":          &p.MinAmount,
		"max_amount":          &p.MaxAmount,
		"currency":            &p.Currency,
		"company_description": &p.CompanyDescription,
		"description":         &p.Description,
		"job_url":             &p.JobURL,
		"company_industry":    &p.CompanyIndustry,
		"experience_range":    &p.ExperienceRange,
		"skills":              &p.Skills,
	}
}

// LoadPostings reads postings from a JSON array (.json) or a CSV export with
// a header row (.csv).
func LoadPostings(path string) ([]Posting, error) {
	f, err := os.Open(path) // #nosec G304 -- path is supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("open postings: %w", err)
	}
	defer func() { _ = f.Close() }()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return DecodeJSON(f)
	case ".csv":
		return DecodeCSV(f)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// DecodeJSON reads a JSON array of postings.
func DecodeJSON(r io.Reader) ([]Posting, error) {
	var postings []Posting
	if err := json.NewDecoder(r).Decode(&postings); err != nil {
		return nil, fmt.Errorf("decode postings: %w", err)
	}
	return postings, nil
}

// DecodeCSV reads postings from CSV with a header row. Unknown columns are
// ignored.
func DecodeCSV(r io.Reader) ([]Posting, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
	}

	var postings []Posting
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv line %d: %w", line, err)
		}

		var p Posting
		cols := p.columns()
		for i, name := range header {
			if i >= len(row) {
				break
			}
			if dst, ok := cols[name]; ok {
				*dst = Field(clean(row[i]))
			}
		}
		postings = append(postings, p)
	}
	return postings, nil
}
