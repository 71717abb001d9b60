// Package findings aggregates per-file scan results into a report model.
package findings

import (
	"encoding/json"
	"sort"
	"sync"

	"github.com/praetorian-inc/piihunter/pkg/types"
)

// fileEntry holds the findings of one file grouped by type.
type fileEntry struct {
	path   string
	byType map[types.TypeID][]types.Finding
}

// Aggregated maps file paths to the PII found in them. Only files with at
// least one finding are present, and each present file has at least one
// non-empty type. It is safe for concurrent use.
type Aggregated struct {
	mu    sync.RWMutex
	files []*fileEntry
	index map[string]*fileEntry
}

// New creates an empty aggregate.
func New() *Aggregated {
	return &Aggregated{index: make(map[string]*fileEntry)}
}

// Absorb adds the findings of one file. Empty input is a no-op. Findings
// are appended per type in the order received; absorbing the same path
// again extends its lists.
func (a *Aggregated) Absorb(path string, findings []types.Finding) {
	if len(findings) == 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	entry, ok := a.index[path]
	if !ok {
		entry = &fileEntry{path: path, byType: make(map[types.TypeID][]types.Finding)}
		a.index[path] = entry
		a.files = append(a.files, entry)
	}
	for _, f := range findings {
		entry.byType[f.Type] = append(entry.byType[f.Type], f)
	}
}

// Files returns the paths with findings in the order they were first
// absorbed.
func (a *Aggregated) Files() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]string, len(a.files))
	for i, e := range a.files {
		out[i] = e.path
	}
	return out
}

// Types returns the PII types found in path in report priority order.
func (a *Aggregated) Types(path string) []types.TypeID {
	a.mu.RLock()
	defer a.mu.RUnlock()

	entry, ok := a.index[path]
	if !ok {
		return nil
	}
	return sortedTypes(entry)
}

// Findings returns the findings of one type in path, in match order.
func (a *Aggregated) Findings(path string, t types.TypeID) []types.Finding {
	a.mu.RLock()
	defer a.mu.RUnlock()

	entry, ok := a.index[path]
	if !ok {
		return nil
	}
	out := make([]types.Finding, len(entry.byType[t]))
	copy(out, entry.byType[t])
	return out
}

// Matches returns the matches of one type in path, in match order.
func (a *Aggregated) Matches(path string, t types.TypeID) []types.Match {
	found := a.Findings(path, t)
	if len(found) == 0 {
		return nil
	}
	out := make([]types.Match, len(found))
	for i, f := range found {
		out[i] = f.Match
	}
	return out
}

// Len returns the number of files with findings.
func (a *Aggregated) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.files)
}

// Counts returns the number of matches per type across all files.
func (a *Aggregated) Counts() map[types.TypeID]int {
	a.mu.RLock()
	defer a.mu.RUnlock()

	counts := make(map[types.TypeID]int)
	for _, e := range a.files {
		for t, found := range e.byType {
			counts[t] += len(found)
		}
	}
	return counts
}

// Total returns the number of matches across all files and types.
func (a *Aggregated) Total() int {
	total := 0
	for _, n := range a.Counts() {
		total += n
	}
	return total
}

func sortedTypes(e *fileEntry) []types.TypeID {
	out := make([]types.TypeID, 0, len(e.byType))
	for t := range e.byType {
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := types.Priority(out[i]), types.Priority(out[j])
		if pi != pj {
			return pi < pj
		}
		return out[i] < out[j]
	})
	return out
}

// jsonMatch is the serialized form of one finding.
type jsonMatch struct {
	types.Match
	Location string `json:"location,omitempty"`
}

type jsonType struct {
	Type    types.TypeID `json:"type"`
	Matches []jsonMatch  `json:"matches"`
}

type jsonFile struct {
	Path  string     `json:"path"`
	Types []jsonType `json:"types"`
}

// MarshalJSON encodes the aggregate as an ordered list of files, each with
// an ordered list of types.
func (a *Aggregated) MarshalJSON() ([]byte, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	files := make([]jsonFile, 0, len(a.files))
	for _, e := range a.files {
		jf := jsonFile{Path: e.path}
		for _, t := range sortedTypes(e) {
			jt := jsonType{Type: t}
			for _, f := range e.byType[t] {
				jm := jsonMatch{Match: f.Match}
				if f.Locator != nil {
					jm.Location = f.Locator.String()
				}
				jt.Matches = append(jt.Matches, jm)
			}
			jf.Types = append(jf.Types, jt)
		}
		files = append(files, jf)
	}
	return json.Marshal(files)
}
