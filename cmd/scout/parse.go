package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ninetofive/scout/core/extract"
	"github.com/ninetofive/scout/core/jobs"
	"github.com/ninetofive/scout/core/jsonschema"
	"github.com/ninetofive/scout/internal/utils"
	"github.com/ninetofive/scout/providers/ai"
)

var errPromptRequired = errors.New("--regenerate requires --prompt")

type parseOptions struct {
	schemaPath string
	regenerate bool
	prompt     string
	validate   bool
}

func newParseCmd(opts *globalOptions) *cobra.Command {
	po := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Recover a JSON object from a raw model completion",
		Long: `Parse runs a raw completion through the recovery chain and prints the
normalized object. The job schema is used unless --schema is given.

Without --regenerate no request is made; a completion that cannot be repaired
locally fails.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var provider ai.Provider
			if po.regenerate {
				provider = opts.provider()
			}
			return runParse(cmd, opts, po, args, provider)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&po.schemaPath, "schema", "", "JSON schema file (default: job schema)")
	flags.BoolVar(&po.regenerate, "regenerate", false, "regenerate with the fallback model when repair fails")
	flags.StringVar(&po.prompt, "prompt", "", "original prompt, used for regeneration")
	flags.BoolVar(&po.validate, "validate", false, "validate the result against the schema")
	return cmd
}

func runParse(cmd *cobra.Command, opts *globalOptions, po *parseOptions, args []string, provider ai.Provider) error {
	if po.regenerate && po.prompt == "" {
		return errPromptRequired
	}

	schema := jobs.JobSchema()
	if po.schemaPath != "" {
		s, err := jsonschema.ParseFile(po.schemaPath)
		if err != nil {
			return err
		}
		schema = s
	}

	raw, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	observer := opts.observer(cmd.ErrOrStderr())
	extractor := extract.New(extract.WithObserver(observer))
	if po.regenerate {
		llm, err := opts.newClient(provider, observer, "")
		if err != nil {
			return err
		}
		extractor = llm.Extractor()
	}

	result, err := extractor.Extract(cmd.Context(), raw, schema, extract.WithPrompt(po.prompt))
	if err != nil {
		return err
	}

	if po.validate {
		if err := schema.Validate(map[string]any(result)); err != nil {
			color.New(color.FgYellow).Fprintf(cmd.ErrOrStderr(), "! %v\n", err)
		}
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), utils.JSONToString(result, true))
	return err
}

// readInput reads the completion from the named file, or stdin for "-" or no
// argument.
func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(data), nil
}
