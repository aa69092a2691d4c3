package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ninetofive/scout/internal/utils"
	"github.com/ninetofive/scout/providers/ai"
)

type generateOptions struct {
	system      string
	temperature float64
	maxTokens   int
}

func newGenerateCmd(opts *globalOptions) *cobra.Command {
	gen := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate free text for a prompt",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			observer := opts.observer(cmd.ErrOrStderr())
			llm, err := opts.newClient(opts.provider(), observer, gen.system)
			if err != nil {
				return err
			}

			request := ai.ChatRequest{
				Model:    opts.model,
				Messages: []ai.Message{{Role: ai.RoleUser, Content: strings.Join(args, " ")}},
			}
			if gen.maxTokens > 0 || cmd.Flags().Changed("temperature") {
				request.GenerationConfig = &ai.GenerationConfig{MaxTokens: gen.maxTokens}
				if cmd.Flags().Changed("temperature") {
					request.GenerationConfig.Temperature = utils.Ptr(gen.temperature)
				}
			}

			response, err := llm.SendMessage(cmd.Context(), request)
			if err != nil {
				return err
			}
			if response.IsEmpty() {
				return fmt.Errorf("model %s returned no text", response.Model)
			}
			text := response.Content
			if text == "" {
				text = utils.JSONToString(response.Structured, true)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&gen.system, "system", "", "system prompt")
	flags.Float64Var(&gen.temperature, "temperature", 0.7, "sampling temperature")
	flags.IntVar(&gen.maxTokens, "max-tokens", 0, "maximum tokens to generate (default 2048)")
	return cmd
}
