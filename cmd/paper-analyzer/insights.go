// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-analyzer/internal/export"
	"github.com/pdiddy/paper-analyzer/internal/insights"
	"github.com/pdiddy/paper-analyzer/internal/textract"
)

var insightsCmd = &cobra.Command{
	Use:   "insights <summary|findings|questions|all> <file> | insights terms <term,...>",
	Short: "Ask the model for a summary, findings, questions, or term explanations",
	Long: `Insights sends the first 5000 characters of a paper to the configured model
and prints its answer:

  summary     a 200-250 word summary
  findings    key findings and contributions as bullet points
  questions   five critical questions on methodology and limitations
  all         summary, findings, and questions together

"insights terms" takes a comma-separated list of technical terms instead of
a file and explains each in simple language.

Unlike metadata extraction there is no fallback: a model API key is required.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runInsights,
}

func runInsights(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	noCache, _ := cmd.Flags().GetBool("no-cache")

	ctx := cmd.Context()
	p, err := newPipeline(ctx, noCache, false)
	if err != nil {
		return err
	}
	defer p.close()

	svc := insights.New(p.provider,
		insights.WithCache(p.cache),
		insights.WithLogger(logger),
		insights.WithModel(cfg.AI.Model))

	kind := insights.Kind(strings.ToLower(args[0]))
	if kind == insights.KindTerms {
		out, err := svc.ExplainTerms(ctx, strings.Join(args[1:], " "))
		if err != nil {
			return insightError(err)
		}
		fmt.Println(out)
		return nil
	}
	if len(args) != 2 {
		return fmt.Errorf("insights %s takes exactly one file", kind)
	}

	path, err := resolveInput(ctx, args[1])
	if err != nil {
		return err
	}
	a := p.analyzer()
	text, err := a.ReadFile(path)
	if err != nil {
		return err
	}
	if err := textract.CheckLength(text, cfg.MinTextLength); err != nil {
		return fmt.Errorf("%s: %w", args[1], err)
	}

	if kind == "all" {
		r, err := svc.All(ctx, text)
		if err != nil {
			return insightError(err)
		}
		if jsonOutput {
			return export.Encode(os.Stdout, r, export.FormatJSON)
		}
		printInsights(os.Stdout, r)
		return nil
	}

	out, err := svc.Generate(ctx, kind, text)
	if err != nil {
		return insightError(err)
	}
	if jsonOutput {
		return export.Encode(os.Stdout, map[string]string{string(kind): out}, export.FormatJSON)
	}
	fmt.Println(out)
	return nil
}

// insightError reports a missing provider as a configuration error.
func insightError(err error) error {
	if errors.Is(err, insights.ErrNoProvider) {
		return configError{err}
	}
	return err
}

func init() {
	insightsCmd.Flags().Bool("json", false, "output as JSON")
	insightsCmd.Flags().Bool("no-cache", false, "bypass the result cache")

	rootCmd.AddCommand(insightsCmd)
}
