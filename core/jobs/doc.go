// Package jobs turns scraped job postings into structured job records.
//
// A Posting is one scraped row (JSON or CSV export). BuildPrompt renders it
// into an extraction prompt, a Pipeline sends each prompt through a
// structured-response client, attaches Metadata under the "_metadata" key and
// hands the record to a store.Sink.
//
// Example:
//
//	postings, err := jobs.LoadPostings("jobs_output.csv")
//	if err != nil { ... }
//	p, err := jobs.NewPipeline(llm, sink, jobs.WithObserver(observer))
//	if err != nil { ... }
//	summary, err := p.Run(ctx, postings)
package jobs
