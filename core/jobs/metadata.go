package jobs

import (
	"maps"
	"time"

	"github.com/google/uuid"
)

// MetadataKey is the record key that holds Metadata.
const MetadataKey = "_metadata"

// Metadata describes where an extracted record came from.
type Metadata struct {
	OriginalID          string `json:"original_id"`
	Site                string `json:"site"`
	ExtractionTimestamp string `json:"extraction_timestamp"`
	RawJobURL           string `json:"raw_job_url"`
}

// NewMetadata builds the metadata for p extracted at now. Postings without an
// id get a random UUID.
func NewMetadata(p Posting, now time.Time) Metadata {
	id := string(p.ID)
	if id == "" {
		id = uuid.New().String()
	}
	return Metadata{
		OriginalID:          id,
		Site:                string(p.Site),
		ExtractionTimestamp: now.UTC().Format(time.RFC3339),
		RawJobURL:           string(p.JobURL),
	}
}

// Map returns the metadata as a JSON-shaped map.
func (m Metadata) Map() map[string]any {
	return map[string]any{
		"original_id":          m.OriginalID,
		"site":                 m.Site,
		"extraction_timestamp": m.ExtractionTimestamp,
		"raw_job_url":          m.RawJobURL,
	}
}

// Attach returns a copy of record with m stored under MetadataKey.
func Attach(record map[string]any, m Metadata) map[string]any {
	out := maps.Clone(record)
	if out == nil {
		out = make(map[string]any, 1)
	}
	out[MetadataKey] = m.Map()
	return out
}
