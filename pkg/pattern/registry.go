package pattern

import (
	"sort"
	"strings"
	"sync"

	"github.com/praetorian-inc/piihunter/pkg/types"
)

var (
	// cachedBuiltin holds the builtin registry loaded once per process
	cachedBuiltin    *Registry
	cachedBuiltinErr error
	builtinOnce      sync.Once
)

// Registry resolves user selections into pattern specs. It is read-only
// after construction and may be shared between goroutines.
type Registry struct {
	specs []*Spec // priority order
}

// NewRegistry creates a registry over specs. Specs are kept in report
// priority order (CreditCard, Email, Phone); specs of other types follow
// in the order given.
func NewRegistry(specs []*Spec) *Registry {
	sorted := make([]*Spec, len(specs))
	copy(sorted, specs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return types.Priority(sorted[i].ID) < types.Priority(sorted[j].ID)
	})
	return &Registry{specs: sorted}
}

// Builtin returns the registry of embedded pattern specs. The specs are
// loaded and compiled once per process.
func Builtin() (*Registry, error) {
	builtinOnce.Do(func() {
		specs, err := NewLoader().LoadBuiltin()
		if err != nil {
			cachedBuiltinErr = err
			return
		}
		cachedBuiltin = NewRegistry(specs)
	})
	return cachedBuiltin, cachedBuiltinErr
}

// All returns every spec in priority order.
func (r *Registry) All() []*Spec {
	out := make([]*Spec, len(r.specs))
	copy(out, r.specs)
	return out
}

// Lookup finds a spec by selector ("1") or type ID (case-insensitive).
func (r *Registry) Lookup(key string) (*Spec, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}
	for _, s := range r.specs {
		if s.Selector == key || strings.EqualFold(string(s.ID), key) {
			return s, true
		}
	}
	return nil, false
}

// Resolve returns the specs named by selection in priority order.
// Unknown entries are ignored and duplicates collapse.
func (r *Registry) Resolve(selection []string) []*Spec {
	wanted := make(map[*Spec]bool)
	for _, key := range selection {
		if s, ok := r.Lookup(key); ok {
			wanted[s] = true
		}
	}

	result := make([]*Spec, 0, len(wanted))
	for _, s := range r.specs {
		if wanted[s] {
			result = append(result, s)
		}
	}
	return result
}

// ParseSelection splits a comma-separated selection such as "1,3".
// Entries are trimmed of whitespace and empty entries dropped.
func ParseSelection(selection string) []string {
	if selection == "" {
		return []string{}
	}

	parts := strings.Split(selection, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
