// Package validator holds semantic checks applied to pattern matches.
package validator

import (
	"fmt"
	"sort"
)

// Validator rejects syntactically plausible but semantically invalid matches.
// Implementations must be pure and safe for concurrent use.
type Validator interface {
	// Name returns the identifier pattern definitions use to bind this validator.
	Name() string

	// Validate reports whether candidate passes the check.
	Validate(candidate string) bool
}

// builtin maps validator names to implementations.
var builtin = map[string]Validator{
	"luhn": Luhn{},
}

// Lookup returns the builtin validator registered under name.
func Lookup(name string) (Validator, error) {
	v, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("unknown validator %q (available: %v)", name, Names())
	}
	return v, nil
}

// Names lists the builtin validator names in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
