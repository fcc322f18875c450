// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/panpipe/internal/history"
	"github.com/pdiddy/panpipe/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect and export the invocation history",
	Long: `History manages the local SQLite record of past engine invocations.
Use subcommands to list recent invocations or export them to YAML.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent invocations, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(loadConfig().History)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := store.List(context.Background(), listOptsFromFlags(cmd))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No invocations recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-10s  %-10s  %-7s  %-5s  %s\n",
		"When", "From", "To", "Outcome", "Exit", "Source")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 80))
	for _, e := range entries {
		source := e.Source
		if len(source) > 30 {
			source = source[:27] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-20s  %-10s  %-10s  %-7s  %-5d  %s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			orDash(e.FromFormat), orDash(e.ToFormat),
			e.Outcome, e.ExitCode, source)
	}
	fmt.Fprintf(os.Stdout, "\n%d invocations\n", len(entries))
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the invocation history to YAML",
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(loadConfig().History)
	if err != nil {
		return err
	}
	defer store.Close()

	path, err := store.ExportYAML(context.Background(), listOptsFromFlags(cmd))
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

func listOptsFromFlags(cmd *cobra.Command) history.ListOptions {
	toFormat, _ := cmd.Flags().GetString("to")
	outcome, _ := cmd.Flags().GetString("outcome")
	limit, _ := cmd.Flags().GetInt("limit")
	return history.ListOptions{
		ToFormat: toFormat,
		Outcome:  types.OutcomeKind(outcome),
		Limit:    limit,
	}
}

func init() {
	historyListCmd.Flags().String("to", "", "filter by output format")
	historyListCmd.Flags().String("outcome", "", "filter by outcome: file, text, or error")
	historyListCmd.Flags().Int("limit", 0, "maximum entries (0 = use default)")
	historyListCmd.Flags().Bool("json", false, "output entries as JSON")

	historyExportCmd.Flags().String("to", "", "filter by output format for partial export")
	historyExportCmd.Flags().String("outcome", "", "filter by outcome for partial export")
	historyExportCmd.Flags().Int("limit", 0, "maximum entries to export (0 = all up to default)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
