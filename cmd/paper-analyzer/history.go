// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-analyzer/internal/export"
	"github.com/pdiddy/paper-analyzer/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse and export recorded analyses",
	Long: `History manages the SQLite database of analyses recorded with
"analyze --save". Use subcommands to list, show, or export them.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded analyses, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	recs, err := st.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		return export.Encode(os.Stdout, recs, export.FormatJSON)
	}
	printRecords(os.Stdout, recs)
	return nil
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one recorded analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	human, _ := cmd.Flags().GetBool("human")

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	rec, err := st.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !human {
		return export.Encode(os.Stdout, rec, export.FormatJSON)
	}

	fmt.Fprintf(os.Stdout, "%s %s\n%s %s\n%s %s\n\n",
		label("ID:     "), rec.ID,
		label("Source: "), rec.SourcePath,
		label("Created:"), rec.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	printMetadata(os.Stdout, rec.Metadata, rec.MetadataSource)
	fmt.Fprintln(os.Stdout)
	printCitations(os.Stdout, rec.Citations)
	return nil
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the history to YAML or JSON",
	Long: `Export writes every recorded analysis, oldest first, to export.yaml or
export.json in the store directory.`,
	Args: cobra.NoArgs,
	RunE: runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	formatFlag, _ := cmd.Flags().GetString("format")
	format, err := export.ParseFormat(formatFlag)
	if err != nil {
		return err
	}

	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	var path string
	switch format {
	case export.FormatJSON:
		path, err = st.ExportJSON(cmd.Context())
	default:
		path, err = st.ExportYAML(cmd.Context())
	}
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", path)
	return nil
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum analyses to list (0 = all)")
	historyListCmd.Flags().Bool("json", false, "output as JSON")

	historyShowCmd.Flags().Bool("human", false, "print a colored summary instead of JSON")

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
