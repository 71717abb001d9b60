package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/praetorian-inc/piihunter/pkg/findings"
	"github.com/praetorian-inc/piihunter/pkg/pattern"
	"github.com/praetorian-inc/piihunter/pkg/types"
)

// SARIF 2.1.0 constants
const (
	SchemaURI    = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	SARIFVersion = "2.1.0"
	ToolName     = "piihunter"
)

// ToolVersion is reported as the SARIF driver version. The CLI sets it
// from its build version.
var ToolVersion = "dev"

// SARIF is the top-level SARIF log.
type SARIF struct {
	Schema  string `json:"$schema"`
	Version string `json:"version"`
	Runs    []Run  `json:"runs"`
}

// Run represents a single invocation of the tool
type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

// Tool describes the analysis tool
type Tool struct {
	Driver Driver `json:"driver"`
}

// Driver contains tool metadata
type Driver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Rules   []Rule `json:"rules,omitempty"`
}

// Rule describes one PII pattern.
type Rule struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	ShortDescription Message `json:"shortDescription"`
}

// Result represents a single finding
type Result struct {
	RuleID    string     `json:"ruleId"`
	Level     string     `json:"level"`
	Message   Message    `json:"message"`
	Locations []Location `json:"locations"`
}

// Message holds display text.
type Message struct {
	Text string `json:"text"`
}

// Location describes where a result was found
type Location struct {
	PhysicalLocation PhysicalLocation  `json:"physicalLocation"`
	LogicalLocations []LogicalLocation `json:"logicalLocations,omitempty"`
}

// PhysicalLocation specifies file location
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           Region           `json:"region"`
}

// LogicalLocation names a page or cell inside a document.
type LogicalLocation struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// ArtifactLocation identifies the file
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region specifies the line/column range within the text block.
type Region struct {
	StartLine   int     `json:"startLine"`
	StartColumn int     `json:"startColumn"`
	EndLine     int     `json:"endLine"`
	EndColumn   int     `json:"endColumn"`
	Snippet     Message `json:"snippet"`
}

// NewSARIF creates a SARIF log with one run and a rule per spec.
func NewSARIF(specs []*pattern.Spec) *SARIF {
	rules := make([]Rule, 0, len(specs))
	for _, s := range specs {
		rules = append(rules, Rule{
			ID:               string(s.ID),
			Name:             s.Name,
			ShortDescription: Message{Text: s.Description},
		})
	}

	return &SARIF{
		Schema:  SchemaURI,
		Version: SARIFVersion,
		Runs: []Run{
			{
				Tool: Tool{
					Driver: Driver{
						Name:    ToolName,
						Version: ToolVersion,
						Rules:   rules,
					},
				},
				Results: []Result{},
			},
		},
	}
}

// AddFinding appends a result for one finding in filePath.
func (s *SARIF) AddFinding(filePath string, f types.Finding) {
	region := Region{
		StartLine:   f.Match.Line,
		StartColumn: f.Match.Column,
		EndLine:     f.Match.Line,
		EndColumn:   f.Match.Column + len([]rune(f.Match.Value)),
		Snippet:     Message{Text: f.Match.Value},
	}

	loc := Location{
		PhysicalLocation: PhysicalLocation{
			ArtifactLocation: ArtifactLocation{URI: formatFileURI(filePath)},
			Region:           region,
		},
	}

	text := fmt.Sprintf("%s found", f.Type)
	if f.Locator != nil && f.Locator.String() != "" {
		loc.LogicalLocations = []LogicalLocation{{Name: f.Locator.String(), Kind: f.Locator.Kind()}}
		text = fmt.Sprintf("%s found in %s", f.Type, f.Locator)
	}

	s.Runs[0].Results = append(s.Runs[0].Results, Result{
		RuleID:    string(f.Type),
		Level:     "warning",
		Message:   Message{Text: text},
		Locations: []Location{loc},
	})
}

// RenderSARIF converts the aggregate into an indented SARIF 2.1.0 log.
func RenderSARIF(agg *findings.Aggregated, specs []*pattern.Spec) ([]byte, error) {
	log := NewSARIF(specs)
	for _, path := range agg.Files() {
		for _, t := range agg.Types(path) {
			for _, f := range agg.Findings(path, t) {
				log.AddFinding(path, f)
			}
		}
	}

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling sarif: %w", err)
	}
	return data, nil
}

// formatFileURI converts a file path to SARIF URI format
// Absolute paths get file:// prefix, relative paths stay as-is
func formatFileURI(path string) string {
	if filepath.IsAbs(path) {
		path = filepath.ToSlash(path)
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		return "file://" + path
	}
	return filepath.ToSlash(path)
}
