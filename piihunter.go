// Package piihunter finds personally identifiable information in files.
//
// It detects credit card numbers (Luhn-validated), email addresses and
// phone numbers in plain text, PDF and spreadsheet files, and renders the
// findings as a report grouped by file and type.
//
// # Basic Usage
//
// Scan a list of files for emails and phone numbers and print the report:
//
//	selected := []string{"2", "3"}
//	agg, err := piihunter.ScanTree(ctx, selected, paths)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(piihunter.RenderReport(time.Now(), selected, agg))
//
// Selectors are "1" (CreditCard), "2" (Email) and "3" (Phone); type names
// are accepted too. Unknown selectors are ignored.
package piihunter

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/praetorian-inc/piihunter/pkg/findings"
	"github.com/praetorian-inc/piihunter/pkg/pattern"
	"github.com/praetorian-inc/piihunter/pkg/report"
	"github.com/praetorian-inc/piihunter/pkg/scanner"
	"github.com/praetorian-inc/piihunter/pkg/types"
)

// Re-export commonly used types for convenience.
type (
	// TypeID identifies a kind of PII.
	TypeID = types.TypeID

	// Match is a single validated occurrence within a text block.
	Match = types.Match

	// Finding pairs a match with its type and location.
	Finding = types.Finding

	// Aggregated holds the findings of a scan grouped by file and type.
	Aggregated = findings.Aggregated

	// Result is the outcome of scanning one file.
	Result = scanner.Result
)

// Re-export the supported PII types.
const (
	CreditCard = types.CreditCard
	Email      = types.Email
	Phone      = types.Phone
)

// config holds scan configuration.
type config struct {
	workers     int
	logger      *zap.Logger
	maxFileSize int64
	registry    *pattern.Registry
}

// Option configures a scan.
type Option func(*config)

// WithWorkers sets the number of files scanned concurrently.
// Default is the number of CPUs.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(logger *zap.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMaxFileSize skips files larger than n bytes. Zero means no limit.
func WithMaxFileSize(n int64) Option {
	return func(c *config) {
		c.maxFileSize = n
	}
}

// WithRegistry resolves selectors against r instead of the builtin
// patterns.
func WithRegistry(r *pattern.Registry) Option {
	return func(c *config) {
		c.registry = r
	}
}

func newConfig(opts []Option) *config {
	c := &config{
		workers: runtime.NumCPU(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.workers < 1 {
		c.workers = 1
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

// Specs resolves selected into pattern specs in report priority order.
func Specs(selected []string, opts ...Option) ([]*pattern.Spec, error) {
	return newConfig(opts).specs(selected)
}

func (c *config) specs(selected []string) ([]*pattern.Spec, error) {
	registry := c.registry
	if registry == nil {
		var err error
		registry, err = pattern.Builtin()
		if err != nil {
			return nil, fmt.Errorf("loading builtin patterns: %w", err)
		}
	}
	return registry.Resolve(selected), nil
}

// ScanFiles scans paths for the selected PII types in parallel. Results are
// returned in the order of paths. Individual file failures are reported in
// each Result; the error is non-nil only when patterns cannot be loaded or
// ctx is cancelled.
func ScanFiles(ctx context.Context, selected []string, paths []string, opts ...Option) ([]Result, error) {
	c := newConfig(opts)

	specs, err := c.specs(selected)
	if err != nil {
		return nil, err
	}

	s := scanner.New(specs,
		scanner.WithLogger(c.logger),
		scanner.WithMaxFileSize(c.maxFileSize))

	c.logger.Debug("starting scan",
		zap.Int("files", len(paths)),
		zap.Int("patterns", len(specs)),
		zap.Int("workers", c.workers))

	results := make([]Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = s.ScanFile(path)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// ScanTree scans paths and aggregates the findings. The aggregate lists
// files in the order of paths, independent of scheduling.
func ScanTree(ctx context.Context, selected []string, paths []string, opts ...Option) (*Aggregated, error) {
	results, err := ScanFiles(ctx, selected, paths, opts...)
	if err != nil {
		return nil, err
	}
	return Aggregate(results), nil
}

// Aggregate absorbs results in order.
func Aggregate(results []Result) *Aggregated {
	agg := findings.New()
	for _, r := range results {
		agg.Absorb(r.Path, r.Findings)
	}
	return agg
}

// RenderReport renders the plain text report for a scan started at ts.
func RenderReport(ts time.Time, selected []string, agg *Aggregated) string {
	return report.Render(report.Metadata{Timestamp: ts, Types: selected}, agg)
}
