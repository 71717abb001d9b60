package pattern

import "embed"

// builtinPatternsFS embeds the built-in PII pattern definitions.
//
//go:embed patterns/*.yml
var builtinPatternsFS embed.FS
