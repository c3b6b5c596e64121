// Package config loads the parser configuration from an optional YAML file
// with PCFG_* environment overrides. A .env file in the working directory is
// loaded into the environment first.
package config

import (
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/ling0322/pcfg/v2"
)

// Config is the top-level configuration.
type Config struct {
	Parser  ParserConfig  `yaml:"parser"`
	Input   InputConfig   `yaml:"input"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ParserConfig controls the chart parser and the batch driver.
type ParserConfig struct {
	Root      string `yaml:"root"`
	MaxLength int    `yaml:"maxLength"`

	// Workers is the number of parsing goroutines, 0 means one per CPU.
	Workers   int  `yaml:"workers"`
	KeepUnary bool `yaml:"keepUnary"`

	// Debinarize splices "_" labels out of the output trees.
	Debinarize bool `yaml:"debinarize"`
}

// InputConfig controls how rule and sentence files are read.
type InputConfig struct {
	Encoding        string `yaml:"encoding"`
	SkipMalformed   bool   `yaml:"skipMalformed"`
	MergeDuplicates bool   `yaml:"mergeDuplicates"`
}

// MetricsConfig names the node-exporter textfile written after a batch.
// Empty disables metrics.
type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides on top of the defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading config file %s", path)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "parsing config file %s", path)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Default returns the configuration matching the classic parser: TOP as
// root, 25 tokens at most, Latin-1 input.
func Default() *Config {
	return &Config{
		Parser: ParserConfig{
			Root:      string(pcfg.RootLabel),
			MaxLength: pcfg.DefaultMaxLength,
		},
		Input: InputConfig{
			Encoding: string(pcfg.Latin1),
		},
	}
}

// Validate rejects values the parser can not run with.
func (c *Config) Validate() error {
	if c.Parser.Root == "" {
		return errors.New("parser.root is required")
	}
	if c.Parser.MaxLength < 1 {
		return errors.Errorf("parser.maxLength must be positive, got %d", c.Parser.MaxLength)
	}
	if c.Parser.Workers < 0 {
		return errors.Errorf("parser.workers must not be negative, got %d", c.Parser.Workers)
	}
	if _, err := pcfg.ParseEncoding(c.Input.Encoding); err != nil {
		return errors.Wrap(err, "input.encoding")
	}
	return nil
}

// WorkerCount resolves Workers, using one worker per CPU when unset.
func (c *Config) WorkerCount() int {
	if c.Parser.Workers > 0 {
		return c.Parser.Workers
	}
	return runtime.NumCPU()
}

// Encoding returns the parsed input encoding. Call Validate first.
func (c *Config) Encoding() pcfg.Encoding {
	enc, err := pcfg.ParseEncoding(c.Input.Encoding)
	if err != nil {
		return pcfg.Latin1
	}
	return enc
}

// LoadPolicy returns the rule reading policy.
func (c *Config) LoadPolicy() pcfg.LoadPolicy {
	return pcfg.LoadPolicy{
		SkipMalformed:   c.Input.SkipMalformed,
		MergeDuplicates: c.Input.MergeDuplicates,
	}
}

// ParserOptions returns the parser options described by the config.
func (c *Config) ParserOptions() []pcfg.Option {
	style := pcfg.CollapseUnary
	if c.Parser.KeepUnary {
		style = pcfg.KeepUnary
	}
	return []pcfg.Option{
		pcfg.WithRoot(pcfg.Label(c.Parser.Root)),
		pcfg.WithMaxLength(c.Parser.MaxLength),
		pcfg.WithRenderStyle(style),
		pcfg.WithDebinarize(c.Parser.Debinarize),
	}
}

// applyEnvOverrides reads PCFG_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PCFG_ROOT"); v != "" {
		cfg.Parser.Root = v
	}
	if v := os.Getenv("PCFG_MAX_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Parser.MaxLength = n
		}
	}
	if v := os.Getenv("PCFG_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Parser.Workers = n
		}
	}
	if v := os.Getenv("PCFG_KEEP_UNARY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Parser.KeepUnary = b
		}
	}
	if v := os.Getenv("PCFG_DEBINARIZE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Parser.Debinarize = b
		}
	}
	if v := os.Getenv("PCFG_ENCODING"); v != "" {
		cfg.Input.Encoding = v
	}
	if v := os.Getenv("PCFG_SKIP_MALFORMED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Input.SkipMalformed = b
		}
	}
	if v := os.Getenv("PCFG_MERGE_DUPLICATES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Input.MergeDuplicates = b
		}
	}
	if v := os.Getenv("PCFG_METRICS_TEXTFILE"); v != "" {
		cfg.Metrics.Textfile = v
	}
}
