package pattern

// yamlPattern is the intermediate struct for parsing pattern definitions.
type yamlPattern struct {
	ID               string   `yaml:"id"`
	Name             string   `yaml:"name"`
	Selector         string   `yaml:"selector"`
	Pattern          string   `yaml:"pattern"`
	Validator        string   `yaml:"validator,omitempty"`
	Keywords         []string `yaml:"keywords,omitempty"`
	Description      string   `yaml:"description,omitempty"`
	Examples         []string `yaml:"examples,omitempty"`
	NegativeExamples []string `yaml:"negative_examples,omitempty"`
}

// yamlPatternsFile represents the top-level structure of a patterns YAML file.
type yamlPatternsFile struct {
	Patterns []yamlPattern `yaml:"patterns"`
}
