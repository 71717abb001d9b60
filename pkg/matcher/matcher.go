// Package matcher runs pattern specs over extracted text blocks.
package matcher

import (
	"errors"
	"fmt"

	"github.com/praetorian-inc/piihunter/pkg/pattern"
	"github.com/praetorian-inc/piihunter/pkg/prefilter"
	"github.com/praetorian-inc/piihunter/pkg/types"
)

// Matcher scans text blocks with a fixed, ordered set of specs. It holds no
// mutable state and is safe for concurrent use.
type Matcher struct {
	specs     []*pattern.Spec
	prefilter *prefilter.Prefilter
}

// New creates a Matcher. Findings within a block follow the order of specs.
func New(specs []*pattern.Spec) *Matcher {
	return &Matcher{
		specs:     specs,
		prefilter: prefilter.New(specs),
	}
}

// Specs returns the active specs in scan order.
func (m *Matcher) Specs() []*pattern.Spec {
	return m.specs
}

// MatchBlock runs every active spec over the block. Failures are reported in
// the returned error alongside every finding that was collected.
func (m *Matcher) MatchBlock(block types.TextBlock) ([]types.Finding, error) {
	if block.Text == "" {
		return nil, nil
	}

	var findings []types.Finding
	var errs []error

	for _, spec := range m.prefilter.Filter([]byte(block.Text)) {
		matches, err := Scan(block.Text, spec)
		if err != nil {
			errs = append(errs, err)
		}
		for _, match := range matches {
			findings = append(findings, types.Finding{
				Type:    spec.ID,
				Match:   match,
				Locator: block.Locator,
			})
		}
	}

	if len(errs) > 0 {
		return findings, fmt.Errorf("matching %s: %w", describe(block), errors.Join(errs...))
	}
	return findings, nil
}

func describe(block types.TextBlock) string {
	if block.Locator == nil || block.Locator.String() == "" {
		return block.Source
	}
	return block.Source + " (" + block.Locator.String() + ")"
}
