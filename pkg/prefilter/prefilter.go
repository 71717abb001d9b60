// Package prefilter skips pattern specs whose required keywords are absent
// from a block of text.
package prefilter

import (
	"github.com/cloudflare/ahocorasick"
	"github.com/praetorian-inc/piihunter/pkg/pattern"
)

// Prefilter uses Aho-Corasick for efficient keyword matching.
type Prefilter struct {
	specs        []*pattern.Spec
	matcher      *ahocorasick.Matcher
	keywords     []string                   // keyword at each index
	keywordSpecs map[string][]*pattern.Spec // keyword -> specs needing it
}

// New creates a prefilter from specs. Specs without keywords always pass.
func New(specs []*pattern.Spec) *Prefilter {
	pf := &Prefilter{
		specs:        specs,
		keywordSpecs: make(map[string][]*pattern.Spec),
	}

	keywordSet := make(map[string]bool)
	for _, s := range specs {
		for _, keyword := range s.Keywords {
			if !keywordSet[keyword] {
				keywordSet[keyword] = true
				pf.keywords = append(pf.keywords, keyword)
			}
			pf.keywordSpecs[keyword] = append(pf.keywordSpecs[keyword], s)
		}
	}

	if len(pf.keywords) > 0 {
		pf.matcher = ahocorasick.NewStringMatcher(pf.keywords)
	}

	return pf
}

// Filter returns the specs that might match text, preserving the order
// the prefilter was built with. Safe for concurrent use.
func (pf *Prefilter) Filter(text []byte) []*pattern.Spec {
	hit := make(map[*pattern.Spec]bool)
	if pf.matcher != nil {
		for _, idx := range pf.matcher.MatchThreadSafe(text) {
			for _, s := range pf.keywordSpecs[pf.keywords[idx]] {
				hit[s] = true
			}
		}
	}

	result := make([]*pattern.Spec, 0, len(pf.specs))
	for _, s := range pf.specs {
		if len(s.Keywords) == 0 || hit[s] {
			result = append(result, s)
		}
	}
	return result
}
