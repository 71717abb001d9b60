package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/piihunter/pkg/report"
	"github.com/praetorian-inc/piihunter/pkg/store"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List scans recorded in a database",
		Long:  "Display the scans previously recorded with 'scan --db'",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}
	cmd.Flags().String("db", "piihunter.db", "SQLite database written by 'scan --db'")
	cmd.Flags().String("format", "table", "Output format: table, json")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	dbPath, _ := cmd.Flags().GetString("db")
	format, _ := cmd.Flags().GetString("format")

	if dbPath == ":memory:" {
		return fmt.Errorf("cannot list history of an in-memory store")
	}
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("database not found: %s", dbPath)
	}

	s, err := store.New(store.Config{Path: dbPath})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	scans, err := s.Scans()
	if err != nil {
		return fmt.Errorf("listing scans: %w", err)
	}

	switch format {
	case "json":
		if scans == nil {
			scans = []store.Scan{}
		}
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(scans)
	case "table", "":
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		defer w.Flush()

		fmt.Fprintf(w, "ID\tScan Date\tTypes\tFiles\tMatches\n")
		fmt.Fprintf(w, "--\t---------\t-----\t-----\t-------\n")
		for _, sc := range scans {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
				sc.ID,
				sc.Timestamp.Local().Format(report.TimestampLayout),
				strings.Join(sc.Types, ", "),
				sc.Files,
				sc.Matches)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}
