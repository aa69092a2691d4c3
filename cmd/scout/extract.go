package main

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ninetofive/scout/core/jobs"
	"github.com/ninetofive/scout/internal/utils"
	"github.com/ninetofive/scout/providers/ai"
	"github.com/ninetofive/scout/providers/store"
	"github.com/ninetofive/scout/providers/store/jsonfile"
	"github.com/ninetofive/scout/providers/store/sqlite"
)

type extractOptions struct {
	input      string
	out        string
	sqlitePath string
	table      string
	limit      int
}

func newExtractCmd(opts *globalOptions) *cobra.Command {
	eo := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract structured records from scraped job postings",
		Long: `Extract reads scraped postings (a JSON array or a CSV export), sends each
one through the structured extraction chain and writes the records to a JSON
file and, optionally, a SQLite table.`,
		Example: `  scout extract --input jobs_output.csv
  scout extract --input jobs.json --out structured.json --sqlite jobs.db --mode direct --rate 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, opts, eo, opts.provider())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&eo.input, "input", "i", "", "postings file (.json or .csv)")
	flags.StringVarP(&eo.out, "out", "o", "structured_jobs.json", "JSON output file, empty to skip")
	flags.StringVar(&eo.sqlitePath, "sqlite", "", "also write records to this SQLite database")
	flags.StringVar(&eo.table, "table", sqlite.DefaultTable, "SQLite table name")
	flags.IntVar(&eo.limit, "limit", 0, "process at most this many postings, 0 for all")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runExtract(cmd *cobra.Command, opts *globalOptions, eo *extractOptions, provider ai.Provider) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	postings, err := jobs.LoadPostings(eo.input)
	if err != nil {
		return err
	}
	if eo.limit > 0 && eo.limit < len(postings) {
		postings = postings[:eo.limit]
	}

	var sinks []store.Sink
	var jsonSink *jsonfile.Sink
	if eo.out != "" {
		jsonSink = jsonfile.New(eo.out)
		sinks = append(sinks, jsonSink)
	}
	if eo.sqlitePath != "" {
		db, err := sqlite.Open(ctx, eo.sqlitePath, eo.table)
		if err != nil {
			return err
		}
		sinks = append(sinks, db)
	}
	sink := store.Multi(sinks...)

	observer := opts.observer(cmd.ErrOrStderr())
	llm, err := opts.newClient(provider, observer, jobs.SystemPrompt)
	if err != nil {
		return errors.Join(err, sink.Close())
	}

	var sample map[string]any
	pipeline, err := jobs.NewPipeline(llm, sink,
		jobs.WithObserver(observer),
		jobs.WithProgress(func(e jobs.Event) {
			printProgress(out, e)
			if sample == nil && e.Record != nil {
				sample = e.Record
			}
		}),
	)
	if err != nil {
		return errors.Join(err, sink.Close())
	}

	fmt.Fprintf(out, "\nProcessing %d jobs through AI extraction...\n", len(postings))
	summary, runErr := pipeline.Run(ctx, postings)
	if err := sink.Close(); err != nil {
		return errors.Join(runErr, err)
	}

	printSummary(out, summary, eo, jsonSink, sample)
	if runErr != nil {
		return runErr
	}
	return nil
}

func printProgress(w io.Writer, e jobs.Event) {
	title := string(e.Posting.Title)
	if title == "" {
		title = "Unknown Title"
	}
	fmt.Fprintf(w, "Processing job %d/%d: %s\n", e.Index, e.Total, title)
	if e.Err != nil {
		color.New(color.FgRed).Fprintf(w, "  ✗ Failed to extract data: %v\n", e.Err)
		return
	}
	color.New(color.FgGreen).Fprintln(w, "  ✓ Successfully extracted data")
}

func printSummary(w io.Writer, summary jobs.Summary, eo *extractOptions, jsonSink *jsonfile.Sink, sample map[string]any) {
	if summary.Extracted == 0 {
		color.New(color.FgRed).Fprintln(w, "\n✗ No jobs were successfully processed")
		return
	}

	green := color.New(color.FgGreen)
	if jsonSink != nil {
		green.Fprintf(w, "\n✓ Saved %d structured job records to %s\n", summary.Extracted, jsonSink.Path())
	}
	if eo.sqlitePath != "" {
		green.Fprintf(w, "✓ Wrote %d rows to %s (table %s)\n", summary.Extracted, eo.sqlitePath, eo.table)
	}
	if summary.Failed > 0 {
		color.New(color.FgYellow).Fprintf(w, "! %d of %d postings failed\n", summary.Failed, summary.Processed)
	}

	if sample == nil {
		return
	}
	fmt.Fprintln(w, "\nSample extracted job data:")
	keys := make([]string, 0, len(sample))
	for k := range sample {
		if k != jobs.MetadataKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", k, utils.TruncateString(fmt.Sprint(sample[k]), 120))
	}
}
