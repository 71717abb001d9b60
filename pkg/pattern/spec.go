// Package pattern defines the PII detectors and resolves the caller's
// selection into the active set.
package pattern

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/praetorian-inc/piihunter/pkg/types"
	"github.com/praetorian-inc/piihunter/pkg/validator"
)

// MatchTimeout bounds a single regex evaluation to prevent catastrophic
// backtracking on hostile input. It is read when a spec is compiled.
var MatchTimeout = 5 * time.Second

// Spec binds a PII type to its syntactic pattern and an optional validator.
// A Spec is immutable once constructed and safe for concurrent use.
type Spec struct {
	ID               types.TypeID
	Name             string
	Selector         string   // CLI selector, e.g. "1"
	Pattern          string   // regex source
	Description      string
	Keywords         []string // literals every match must contain, for prefiltering
	Examples         []string // positive test cases
	NegativeExamples []string // negative test cases

	// Validator is nil when the pattern match alone is sufficient.
	Validator validator.Validator

	re *regexp2.Regexp
}

// NewSpec compiles pattern and returns a Spec. v may be nil.
func NewSpec(id types.TypeID, name, selector, pattern string, v validator.Validator) (*Spec, error) {
	s := &Spec{
		ID:        id,
		Name:      name,
		Selector:  selector,
		Pattern:   pattern,
		Validator: v,
	}
	if err := s.compile(); err != nil {
		return nil, err
	}
	return s, nil
}

// MustSpec is like NewSpec but panics on error. Intended for tests and
// package-level definitions.
func MustSpec(id types.TypeID, name, selector, pattern string, v validator.Validator) *Spec {
	s, err := NewSpec(id, name, selector, pattern, v)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Spec) compile() error {
	re, err := regexp2.Compile(s.Pattern, regexp2.None)
	if err != nil {
		return fmt.Errorf("failed to compile pattern %q for %s: %w", s.Pattern, s.ID, err)
	}
	re.MatchTimeout = MatchTimeout
	s.re = re
	return nil
}

// Regexp returns the compiled pattern.
func (s *Spec) Regexp() *regexp2.Regexp {
	return s.re
}

// Accept reports whether a syntactic match survives the validator.
func (s *Spec) Accept(candidate string) bool {
	return s.Validator == nil || s.Validator.Validate(candidate)
}

// ValidatorName returns the bound validator's name, or "" when there is none.
func (s *Spec) ValidatorName() string {
	if s.Validator == nil {
		return ""
	}
	return s.Validator.Name()
}
