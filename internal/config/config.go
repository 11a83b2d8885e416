package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the reviewrank configuration.
type Config struct {
	Source     SourceConfig     `yaml:"source"`
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Forest     ForestConfig     `yaml:"forest"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Logging    LoggingConfig    `yaml:"logging"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Output     OutputConfig     `yaml:"output"`
}

// SourceConfig selects where reviews come from.
type SourceConfig struct {
	Kind  string   `yaml:"kind"` // file, html (default: file)
	Paths []string `yaml:"paths"`
}

// PipelineConfig holds feature building and vectorization settings.
type PipelineConfig struct {
	MinNetVotes      *int     `yaml:"min_net_votes"` // nil = 10
	MinDocFreq       *float64 `yaml:"min_doc_freq"`  // nil = 0.01; 0 keeps every term
	Workers          int      `yaml:"workers"`       // 0 = GOMAXPROCS
	SentimentColumns bool     `yaml:"sentiment_columns"`
}

// ForestConfig holds random forest settings.
type ForestConfig struct {
	Trees          int   `yaml:"trees"`
	Seed           int64 `yaml:"seed"`
	MaxDepth       int   `yaml:"max_depth"` // 0 = unlimited
	MinSamplesLeaf int   `yaml:"min_samples_leaf"`
}

// EvaluationConfig holds hold-out and cross-validation settings.
type EvaluationConfig struct {
	TestFraction float64 `yaml:"test_fraction"`
	Folds        int     `yaml:"folds"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Env   string `yaml:"env"`   // prod, dev, local (default: local)
	Level string `yaml:"level"` // debug, info, warn, error (default: info)
}

// MetricsConfig holds metrics export settings.
type MetricsConfig struct {
	TextfilePath string `yaml:"textfile_path"` // empty = metrics not written
}

// OutputConfig holds ranking output settings.
type OutputConfig struct {
	Path  string `yaml:"path"`  // empty = stdout
	Limit int    `yaml:"limit"` // 0 = all
}

// Load reads configuration from a YAML file. An empty path yields the
// defaults.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}

		// Substitute env variables of the form ${VAR}
		data = expandEnvVars(data)

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Source.Kind == "" {
		c.Source.Kind = "file"
	}
	if c.Pipeline.MinNetVotes == nil {
		n := 10
		c.Pipeline.MinNetVotes = &n
	}
	if c.Pipeline.MinDocFreq == nil {
		f := 0.01
		c.Pipeline.MinDocFreq = &f
	}
	if c.Forest.Trees <= 0 {
		c.Forest.Trees = 100
	}
	if c.Forest.MinSamplesLeaf <= 0 {
		c.Forest.MinSamplesLeaf = 1
	}
	if c.Evaluation.TestFraction == 0 {
		c.Evaluation.TestFraction = 0.2
	}
	if c.Evaluation.Folds == 0 {
		c.Evaluation.Folds = 5
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "local"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	switch c.Source.Kind {
	case "file", "html":
		// ok
	default:
		return fmt.Errorf("source.kind must be \"file\" or \"html\", got %q", c.Source.Kind)
	}
	if c.Pipeline.MinDocFreq != nil && *c.Pipeline.MinDocFreq < 0 {
		return fmt.Errorf("pipeline.min_doc_freq must not be negative, got %v", *c.Pipeline.MinDocFreq)
	}
	if c.Pipeline.Workers < 0 {
		return fmt.Errorf("pipeline.workers must not be negative, got %d", c.Pipeline.Workers)
	}
	if c.Forest.MaxDepth < 0 {
		return fmt.Errorf("forest.max_depth must not be negative, got %d", c.Forest.MaxDepth)
	}
	if c.Evaluation.TestFraction <= 0 || c.Evaluation.TestFraction >= 1 {
		return fmt.Errorf("evaluation.test_fraction must be between 0 and 1, got %v", c.Evaluation.TestFraction)
	}
	if c.Evaluation.Folds < 2 {
		return fmt.Errorf("evaluation.folds must be at least 2, got %d", c.Evaluation.Folds)
	}
	if c.Output.Limit < 0 {
		return fmt.Errorf("output.limit must not be negative, got %d", c.Output.Limit)
	}
	return nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
