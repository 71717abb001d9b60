package pattern

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/praetorian-inc/piihunter/pkg/types"
	"github.com/praetorian-inc/piihunter/pkg/validator"
	"gopkg.in/yaml.v3"
)

// Loader handles loading pattern specs from YAML files.
type Loader struct {
	fs fs.FS // embedded filesystem for built-in patterns
}

// NewLoader creates a loader with built-in patterns from embedded filesystem.
func NewLoader() *Loader {
	return &Loader{
		fs: builtinPatternsFS,
	}
}

// NewLoaderWithFS creates a loader with a custom filesystem.
func NewLoaderWithFS(fsys fs.FS) *Loader {
	return &Loader{
		fs: fsys,
	}
}

// LoadSpecs parses every pattern in YAML bytes.
func (l *Loader) LoadSpecs(data []byte) ([]*Spec, error) {
	var yamlFile yamlPatternsFile
	if err := yaml.Unmarshal(data, &yamlFile); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(yamlFile.Patterns) == 0 {
		return nil, fmt.Errorf("no patterns found in YAML")
	}

	specs := make([]*Spec, 0, len(yamlFile.Patterns))
	for _, yp := range yamlFile.Patterns {
		s, err := convertYAMLPattern(yp)
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return specs, nil
}

// LoadFile loads pattern specs from a YAML file path.
func (l *Loader) LoadFile(path string) ([]*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return l.LoadSpecs(data)
}

// LoadBuiltin loads all built-in pattern specs from the loader's filesystem.
func (l *Loader) LoadBuiltin() ([]*Spec, error) {
	var specs []*Spec

	err := fs.WalkDir(l.fs, "patterns", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".yml" {
			return nil
		}

		data, err := fs.ReadFile(l.fs, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		loaded, err := l.LoadSpecs(data)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
		specs = append(specs, loaded...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return specs, nil
}

// convertYAMLPattern converts yamlPattern to a compiled Spec.
func convertYAMLPattern(yp yamlPattern) (*Spec, error) {
	s := &Spec{
		ID:               types.TypeID(yp.ID),
		Name:             yp.Name,
		Selector:         yp.Selector,
		Pattern:          yp.Pattern,
		Description:      yp.Description,
		Keywords:         yp.Keywords,
		Examples:         yp.Examples,
		NegativeExamples: yp.NegativeExamples,
	}

	if err := ValidateSpec(s); err != nil {
		return nil, err
	}

	if yp.Validator != "" {
		v, err := validator.Lookup(yp.Validator)
		if err != nil {
			return nil, fmt.Errorf("pattern %s: %w", yp.ID, err)
		}
		s.Validator = v
	}

	if err := s.compile(); err != nil {
		return nil, err
	}
	return s, nil
}
