package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reviewrank.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Source.Kind)
	require.NotNil(t, cfg.Pipeline.MinNetVotes)
	assert.Equal(t, 10, *cfg.Pipeline.MinNetVotes)
	require.NotNil(t, cfg.Pipeline.MinDocFreq)
	assert.InDelta(t, 0.01, *cfg.Pipeline.MinDocFreq, 1e-12)
	assert.Equal(t, 100, cfg.Forest.Trees)
	assert.Equal(t, int64(0), cfg.Forest.Seed)
	assert.Equal(t, 1, cfg.Forest.MinSamplesLeaf)
	assert.InDelta(t, 0.2, cfg.Evaluation.TestFraction, 1e-12)
	assert.Equal(t, 5, cfg.Evaluation.Folds)
	assert.Equal(t, "local", cfg.Logging.Env)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_ZeroMinDocFreq(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
pipeline:
  min_doc_freq: 0
`))
	require.NoError(t, err)

	require.NotNil(t, cfg.Pipeline.MinDocFreq)
	assert.Zero(t, *cfg.Pipeline.MinDocFreq)
}

func TestLoad_LoggingLevel(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
logging:
  env: dev
  level: debug
`))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_File(t *testing.T) {
	t.Setenv("REVIEWRANK_PAGES", "pages/a.html")

	path := writeConfig(t, `
source:
  kind: html
  paths: ["${REVIEWRANK_PAGES}", "${MISSING_VAR:-pages/b.html}"]
pipeline:
  min_net_votes: 0
  min_doc_freq: 0.05
  workers: 4
  sentiment_columns: true
forest:
  trees: 25
  seed: 7
  max_depth: 12
output:
  limit: 10
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "html", cfg.Source.Kind)
	assert.Equal(t, []string{"pages/a.html", "pages/b.html"}, cfg.Source.Paths)
	assert.Equal(t, 0, *cfg.Pipeline.MinNetVotes)
	assert.InDelta(t, 0.05, *cfg.Pipeline.MinDocFreq, 1e-12)
	assert.Equal(t, 4, cfg.Pipeline.Workers)
	assert.True(t, cfg.Pipeline.SentimentColumns)
	assert.Equal(t, 25, cfg.Forest.Trees)
	assert.Equal(t, int64(7), cfg.Forest.Seed)
	assert.Equal(t, 12, cfg.Forest.MaxDepth)
	assert.Equal(t, 10, cfg.Output.Limit)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "source: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid"},
		{
			name:    "unknown source",
			mutate:  func(c *Config) { c.Source.Kind = "selenium" },
			wantErr: `source.kind must be "file" or "html", got "selenium"`,
		},
		{
			name:    "negative min_doc_freq",
			mutate:  func(c *Config) { f := -0.1; c.Pipeline.MinDocFreq = &f },
			wantErr: "pipeline.min_doc_freq must not be negative, got -0.1",
		},
		{
			name:    "test fraction",
			mutate:  func(c *Config) { c.Evaluation.TestFraction = 1 },
			wantErr: "evaluation.test_fraction must be between 0 and 1, got 1",
		},
		{
			name:    "folds",
			mutate:  func(c *Config) { c.Evaluation.Folds = 1 },
			wantErr: "evaluation.folds must be at least 2, got 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg Config
			cfg.ApplyDefaults()
			if tt.mutate != nil {
				tt.mutate(&cfg)
			}

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}
