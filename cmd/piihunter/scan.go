package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/praetorian-inc/piihunter"
	"github.com/praetorian-inc/piihunter/pkg/config"
	"github.com/praetorian-inc/piihunter/pkg/findings"
	"github.com/praetorian-inc/piihunter/pkg/logger"
	"github.com/praetorian-inc/piihunter/pkg/pattern"
	"github.com/praetorian-inc/piihunter/pkg/report"
	"github.com/praetorian-inc/piihunter/pkg/store"
	"github.com/praetorian-inc/piihunter/pkg/walk"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a directory tree for PII",
		Long: `Scan every file under --path for the selected PII types and write a report.

Types: 1=CreditCard, 2=Email, 3=Phone (comma-separated, e.g. -t 1,3).

Spreadsheets are scanned cell by cell on their first sheet, header row
included, so a column titled with an address or number is reported too.
Hidden files and directories are skipped unless --include-hidden is set;
the summary says how many were left out.`,
		Args: cobra.NoArgs,
		RunE: runScan,
	}

	cmd.Flags().StringP("types", "t", "", "Comma-separated PII types: 1=CreditCard, 2=Email, 3=Phone")
	cmd.Flags().StringP("path", "p", ".", "Root directory to scan")
	cmd.Flags().StringP("output", "o", report.DefaultFile, "Report file (- for stdout)")
	cmd.Flags().String("format", "text", "Report format: text, json, sarif")
	cmd.Flags().String("db", "", "Also record the scan in this SQLite database")
	cmd.Flags().Int("workers", 0, "Files scanned concurrently (0 = number of CPUs)")
	cmd.Flags().Bool("include-hidden", false, "Include hidden files and directories")
	cmd.Flags().Bool("gitignore", false, "Skip files matched by the root .gitignore")
	cmd.Flags().Int64("max-file-size", 0, "Skip files larger than this many bytes (0 = no limit)")
	cmd.Flags().String("color", "auto", "Summary colors: auto, always, never")

	return cmd
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer log.Sync()

	registry, err := pattern.Builtin()
	if err != nil {
		return fmt.Errorf("loading patterns: %w", err)
	}

	selected := pattern.ParseSelection(cfg.Types)
	for _, sel := range selected {
		if _, ok := registry.Lookup(sel); !ok {
			log.Debug("ignoring unknown type selector", zap.String("selector", sel))
		}
	}
	specs := registry.Resolve(selected)
	if len(specs) == 0 {
		return fmt.Errorf("no recognized PII types selected %q (use 1=CreditCard, 2=Email, 3=Phone)", cfg.Types)
	}

	if _, err := os.Stat(cfg.Path); err != nil {
		return fmt.Errorf("target does not exist: %s", cfg.Path)
	}

	walkCfg := walk.Config{
		Root:          cfg.Path,
		IncludeHidden: cfg.IncludeHidden,
		MaxFileSize:   cfg.MaxFileSize,
		Gitignore:     cfg.Gitignore,
	}
	if cfg.Output != "-" {
		walkCfg.Exclude = append(walkCfg.Exclude, cfg.Output)
	}
	if cfg.DB != "" {
		walkCfg.Exclude = append(walkCfg.Exclude, cfg.DB)
	}

	files, walkStats, err := walk.WalkStats(ctx, walkCfg)
	if err != nil {
		return fmt.Errorf("walking %s: %w", cfg.Path, err)
	}

	scanTime := time.Now()
	opts := []piihunter.Option{
		piihunter.WithRegistry(registry),
		piihunter.WithLogger(log.WithComponent("scanner").Logger),
		piihunter.WithMaxFileSize(cfg.MaxFileSize),
	}
	if cfg.Workers > 0 {
		opts = append(opts, piihunter.WithWorkers(cfg.Workers))
	}

	results, err := piihunter.ScanFiles(ctx, selected, files, opts...)
	if err != nil {
		return fmt.Errorf("scanning: %w", err)
	}
	agg := piihunter.Aggregate(results)

	meta := report.Metadata{Timestamp: scanTime, Types: selected}
	if err := writeReport(cmd, cfg, meta, agg, specs); err != nil {
		return err
	}

	var scanID string
	if cfg.DB != "" {
		scanID, err = saveScan(cfg.DB, meta, agg)
		if err != nil {
			return err
		}
		log.Info("scan recorded", zap.String("db", cfg.DB), zap.String("scan_id", scanID))
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}

	printSummary(cmd.ErrOrStderr(), newStyles(colorEnabled(cfg.Color)), summary{
		files:   len(files),
		hidden:  walkStats.Hidden,
		failed:  failed,
		agg:     agg,
		specs:   specs,
		output:  cfg.Output,
		dbPath:  cfg.DB,
		scanID:  scanID,
		elapsed: time.Since(scanTime),
	})
	return nil
}

// writeReport renders the report in the configured format and writes it
// to the output file, or stdout for "-".
func writeReport(cmd *cobra.Command, cfg *config.Config, meta report.Metadata, agg *findings.Aggregated, specs []*pattern.Spec) error {
	var data []byte
	switch cfg.Format {
	case "json":
		out, err := report.RenderJSON(meta, agg)
		if err != nil {
			return err
		}
		data = append(out, '\n')
	case "sarif":
		out, err := report.RenderSARIF(agg, specs)
		if err != nil {
			return err
		}
		data = append(out, '\n')
	default:
		data = []byte(report.Render(meta, agg))
	}

	if cfg.Output == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	if err := os.WriteFile(cfg.Output, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

func saveScan(path string, meta report.Metadata, agg *findings.Aggregated) (string, error) {
	s, err := store.New(store.Config{Path: path})
	if err != nil {
		return "", fmt.Errorf("opening database: %w", err)
	}
	defer s.Close()

	scanID, err := s.SaveReport(meta, agg)
	if err != nil {
		return "", fmt.Errorf("recording scan: %w", err)
	}
	return scanID, nil
}

// summary is the end-of-scan overview printed to stderr.
type summary struct {
	files   int
	hidden  int
	failed  int
	agg     *findings.Aggregated
	specs   []*pattern.Spec
	output  string
	dbPath  string
	scanID  string
	elapsed time.Duration
}

func printSummary(out io.Writer, s *styles, sum summary) {
	fmt.Fprintf(out, "%s %d files in %s",
		s.heading.Sprint("Scanned"), sum.files, sum.elapsed.Round(time.Millisecond))
	if sum.failed > 0 {
		fmt.Fprintf(out, " (%s)", s.warning.Sprintf("%d unreadable", sum.failed))
	}
	fmt.Fprintln(out)
	if sum.hidden > 0 {
		fmt.Fprintf(out, "%s\n", s.metadata.Sprintf("Skipped %d hidden files and directories (use --include-hidden)", sum.hidden))
	}

	counts := sum.agg.Counts()
	for _, spec := range sum.specs {
		n := counts[spec.ID]
		countStyle := s.clean
		if n > 0 {
			countStyle = s.found
		}
		fmt.Fprintf(out, "  %s %s\n", s.typeName.Sprintf("%-12s", spec.ID), countStyle.Sprintf("%d", n))
	}

	fmt.Fprintf(out, "%s %d\n", s.heading.Sprint("Files with PII:"), sum.agg.Len())
	if sum.output != "-" {
		fmt.Fprintf(out, "%s %s\n", s.heading.Sprint("Report:"), s.metadata.Sprint(sum.output))
	}
	if sum.scanID != "" {
		fmt.Fprintf(out, "%s %s (%s)\n", s.heading.Sprint("Recorded:"), s.metadata.Sprint(sum.dbPath), sum.scanID)
	}
}
