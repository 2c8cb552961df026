// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-analyzer/internal/analyzer"
	"github.com/pdiddy/paper-analyzer/internal/cache"
	"github.com/pdiddy/paper-analyzer/internal/export"
	"github.com/pdiddy/paper-analyzer/internal/extract"
	"github.com/pdiddy/paper-analyzer/internal/fetch"
	"github.com/pdiddy/paper-analyzer/internal/llm"
	"github.com/pdiddy/paper-analyzer/internal/store"
)

// pipeline holds the collaborators a command needs. close releases them.
type pipeline struct {
	provider llm.Provider
	cache    cache.Store
	store    *store.Store
}

// newPipeline builds the provider and cache from cfg. With save set it also
// opens the history store.
func newPipeline(ctx context.Context, noCache, save bool) (*pipeline, error) {
	provider, err := llm.New(cfg.AI, logger)
	if err != nil {
		return nil, configError{err}
	}

	p := &pipeline{provider: provider, cache: cache.Nop{}}
	if !noCache {
		c, err := cache.New(ctx, cfg.Cache)
		if err != nil {
			return nil, configError{err}
		}
		p.cache = c
	}

	if save {
		st, err := store.Open(cfg.Store)
		if err != nil {
			p.close()
			return nil, err
		}
		p.store = st
	}
	return p, nil
}

func (p *pipeline) analyzer() *analyzer.Analyzer {
	me := extract.NewMetadataExtractor(p.provider,
		extract.WithLogger(logger),
		extract.WithModel(cfg.AI.Model),
		extract.WithTemperature(cfg.AI.Temperature),
		extract.WithMaxTokens(cfg.AI.MaxTokens))

	opts := []analyzer.Option{
		analyzer.WithCache(p.cache),
		analyzer.WithLogger(logger),
		analyzer.WithTimeout(cfg.AI.Timeout),
		analyzer.WithMinLength(cfg.MinTextLength),
	}
	if p.store != nil {
		opts = append(opts, analyzer.WithRecorder(p.store))
	}
	return analyzer.New(me, opts...)
}

func (p *pipeline) close() {
	if p.store != nil {
		p.store.Close()
	}
	p.cache.Close()
}

// resolveInput returns a local path for arg. Existing files are used as
// is; arXiv IDs, DOIs, and URLs are downloaded under the store directory.
func resolveInput(ctx context.Context, arg string) (string, error) {
	if _, err := os.Stat(arg); err == nil {
		return arg, nil
	}
	if kind, _ := fetch.Classify(arg); kind == fetch.KindUnknown {
		return arg, nil
	}
	fmt.Fprintf(os.Stderr, "Fetching %s\n", arg)
	return fetch.New(filepath.Join(cfg.Store.Dir, "papers")).Download(ctx, arg)
}

// --- analyze ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file|arxiv-id|doi|url>",
	Short: "Extract metadata and citations from a paper",
	Long: `Analyze extracts the text of a PDF or plain-text paper and reports its
metadata (title, authors, journal, year, DOI) together with inline citations,
DOIs, URLs, and reference-list lines.

Output is JSON by default; --human prints a colored summary showing at most
60 reference lines. --save records the analysis in the history database and
--metadata-out writes the metadata JSON to a file.

Instead of a local file, an arXiv ID, a DOI, or an http(s) URL may be given;
the document is downloaded into the papers/ folder of the store directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	human, _ := cmd.Flags().GetBool("human")
	save, _ := cmd.Flags().GetBool("save")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	metadataOut, _ := cmd.Flags().GetString("metadata-out")

	ctx := cmd.Context()
	p, err := newPipeline(ctx, noCache, save)
	if err != nil {
		return err
	}
	defer p.close()

	path, err := resolveInput(ctx, args[0])
	if err != nil {
		return err
	}
	report, err := p.analyzer().AnalyzeFile(ctx, path)
	if err != nil {
		return err
	}

	if metadataOut != "" {
		if err := export.WriteMetadata(metadataOut, report.Metadata); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Metadata written to %s\n", metadataOut)
	}

	if human {
		printReport(os.Stdout, report)
		return nil
	}
	return export.Encode(os.Stdout, report, export.FormatJSON)
}

// --- metadata ---

var metadataCmd = &cobra.Command{
	Use:   "metadata <file|arxiv-id|doi|url>",
	Short: "Extract only the bibliographic metadata of a paper",
	Long: `Metadata prints the five-field metadata record of a paper as JSON or YAML.
With --out the record is written to a file in the fixed export format
(title, authors, journal, year, doi).`,
	Args: cobra.ExactArgs(1),
	RunE: runMetadata,
}

func runMetadata(cmd *cobra.Command, args []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	out, _ := cmd.Flags().GetString("out")
	noCache, _ := cmd.Flags().GetBool("no-cache")

	format, err := export.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	p, err := newPipeline(ctx, noCache, false)
	if err != nil {
		return err
	}
	defer p.close()

	path, err := resolveInput(ctx, args[0])
	if err != nil {
		return err
	}
	a := p.analyzer()
	text, err := a.ReadFile(path)
	if err != nil {
		return err
	}
	res, err := a.Metadata(ctx, text)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	logger.Sugar().Debugf("metadata source: %s", res.Source)

	if out != "" {
		if err := export.WriteMetadata(out, res.Metadata); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Metadata written to %s\n", out)
		return nil
	}
	if format == export.FormatJSON {
		data, err := export.MetadataJSON(res.Metadata)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}
	return export.Encode(os.Stdout, res.Metadata, format)
}

// --- citations ---

var citationsCmd = &cobra.Command{
	Use:   "citations <file|arxiv-id|doi|url>",
	Short: "Extract citations, DOIs, URLs, and reference lines",
	Long: `Citations scans a paper for inline citation markers, DOIs, URLs, and
bibliography lines. Reference lines come from the section after a
"References" or "Bibliography" heading, or from the end of the document when
no heading is found. No model is consulted.`,
	Args: cobra.ExactArgs(1),
	RunE: runCitations,
}

func runCitations(cmd *cobra.Command, args []string) error {
	human, _ := cmd.Flags().GetBool("human")
	noCache, _ := cmd.Flags().GetBool("no-cache")

	ctx := cmd.Context()
	p, err := newPipeline(ctx, noCache, false)
	if err != nil {
		return err
	}
	defer p.close()

	path, err := resolveInput(ctx, args[0])
	if err != nil {
		return err
	}
	a := p.analyzer()
	text, err := a.ReadFile(path)
	if err != nil {
		return err
	}
	bundle, err := a.Citations(ctx, text)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	if human {
		printCitations(os.Stdout, bundle)
		return nil
	}
	return export.Encode(os.Stdout, bundle, export.FormatJSON)
}

func init() {
	analyzeCmd.Flags().Bool("human", false, "print a colored summary instead of JSON")
	analyzeCmd.Flags().Bool("save", false, "record the analysis in the history database")
	analyzeCmd.Flags().String("metadata-out", "", "also write the metadata JSON to this file")
	analyzeCmd.Flags().Bool("no-cache", false, "bypass the result cache")

	metadataCmd.Flags().String("format", "json", "output format: json or yaml")
	metadataCmd.Flags().String("out", "", "write the metadata JSON to this file instead of stdout")
	metadataCmd.Flags().Bool("no-cache", false, "bypass the result cache")

	citationsCmd.Flags().Bool("human", false, "print a readable list instead of JSON")
	citationsCmd.Flags().Bool("no-cache", false, "bypass the result cache")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(metadataCmd)
	rootCmd.AddCommand(citationsCmd)
}
