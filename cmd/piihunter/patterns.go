package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/piihunter/pkg/pattern"
)

func newPatternsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "List PII patterns",
		Long: `Display the built-in PII patterns with their selectors, validators and keywords.

With --check, every pattern is run against its examples and negative examples
and the command fails if any of them disagree.`,
		Args:  cobra.NoArgs,
		RunE:  runPatterns,
	}
	cmd.Flags().String("format", "table", "Output format: table, json")
	cmd.Flags().Bool("check", false, "Verify each pattern against its examples")
	return cmd
}

func runPatterns(cmd *cobra.Command, args []string) error {
	registry, err := pattern.Builtin()
	if err != nil {
		return fmt.Errorf("loading builtin patterns: %w", err)
	}

	format, _ := cmd.Flags().GetString("format")
	check, _ := cmd.Flags().GetBool("check")

	specs := registry.All()
	var checks []string
	var checkErr error
	if check {
		checks, checkErr = checkSpecs(specs)
	}

	switch format {
	case "json":
		err = outputPatternsJSON(cmd, specs, checks)
	case "table", "":
		err = outputPatternsTable(cmd, specs, checks)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
	if err != nil {
		return err
	}
	return checkErr
}

// checkSpecs runs pattern.CheckExamples on each spec. The result holds "ok"
// or the failure for each spec, in order.
func checkSpecs(specs []*pattern.Spec) ([]string, error) {
	results := make([]string, len(specs))
	failed := 0
	for i, s := range specs {
		if err := pattern.CheckExamples(s); err != nil {
			results[i] = err.Error()
			failed++
			continue
		}
		results[i] = "ok"
	}
	if failed > 0 {
		return results, fmt.Errorf("%d of %d patterns failed their examples", failed, len(specs))
	}
	return results, nil
}

// patternInfo is the listing form of a spec.
type patternInfo struct {
	Selector    string   `json:"selector"`
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Pattern     string   `json:"pattern"`
	Validator   string   `json:"validator,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`
	Description string   `json:"description,omitempty"`
	Check       string   `json:"check,omitempty"`
}

func outputPatternsJSON(cmd *cobra.Command, specs []*pattern.Spec, checks []string) error {
	infos := make([]patternInfo, 0, len(specs))
	for i, s := range specs {
		info := patternInfo{
			Selector:    s.Selector,
			ID:          string(s.ID),
			Name:        s.Name,
			Pattern:     s.Pattern,
			Validator:   s.ValidatorName(),
			Keywords:    s.Keywords,
			Description: s.Description,
		}
		if checks != nil {
			info.Check = checks[i]
		}
		infos = append(infos, info)
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(infos)
}

func outputPatternsTable(cmd *cobra.Command, specs []*pattern.Spec, checks []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	if checks != nil {
		fmt.Fprintf(w, "Selector\tID\tName\tValidator\tKeywords\tCheck\n")
		fmt.Fprintf(w, "--------\t--\t----\t---------\t--------\t-----\n")
	} else {
		fmt.Fprintf(w, "Selector\tID\tName\tValidator\tKeywords\n")
		fmt.Fprintf(w, "--------\t--\t----\t---------\t--------\n")
	}

	for i, s := range specs {
		validatorName := s.ValidatorName()
		if validatorName == "" {
			validatorName = "-"
		}
		keywords := strings.Join(s.Keywords, ",")
		if keywords == "" {
			keywords = "-"
		}
		if checks != nil {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", s.Selector, s.ID, s.Name, validatorName, keywords, checks[i])
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", s.Selector, s.ID, s.Name, validatorName, keywords)
	}

	return nil
}
