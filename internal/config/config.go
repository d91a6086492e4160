package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config represents the objc2swift.yaml configuration.
type Config struct {
	// Repo is the root directory scanned for .h/.m inputs.
	Repo       string        `yaml:"repo" validate:"required"`
	Ignore     []string      `yaml:"ignore"`
	Passes     []string      `yaml:"passes" validate:"dive,oneof=file-grouping duplicate-type-removal property-merge synthesize-backing-field override-detection usage-analysis"`
	BodyPasses []string      `yaml:"body_passes" validate:"dive,oneof=type-resolution nil-coalescing cast-insertion if-let"`
	Emitter    EmitterConfig `yaml:"emitter"`
	Output     OutputConfig  `yaml:"output"`
	// Workers bounds the parallel parse and body-collection workers.
	Workers int `yaml:"workers" validate:"gte=0,lte=64"`
}

// EmitterConfig controls the Swift renderer.
type EmitterConfig struct {
	OmitObjcCompatibility bool `yaml:"omit_objc_compatibility"`
	PrintIntentionHistory bool `yaml:"print_intention_history"`
}

// OutputConfig controls where translated files are written.
type OutputConfig struct {
	Dir string `yaml:"dir" validate:"required"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Repo: ".",
		Ignore: []string{
			"Pods/**",
			"Carthage/**",
			"DerivedData/**",
			".git/**",
			"**/*Tests.m",
			"**/*Test.m",
			".objc2swift/**",
		},
		Passes: []string{
			"file-grouping",
			"duplicate-type-removal",
			"property-merge",
			"synthesize-backing-field",
			"override-detection",
			"usage-analysis",
		},
		BodyPasses: []string{
			"type-resolution",
			"nil-coalescing",
			"cast-insertion",
			"if-let",
		},
		Output: OutputConfig{
			Dir: ".objc2swift",
		},
		Workers: 4,
	}
}

// Load reads a configuration file from the given path. Missing fields are
// filled with defaults; the result is validated before use.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if cfg.Output.Dir == "" {
		cfg.Output.Dir = ".objc2swift"
	}
	if cfg.Workers == 0 {
		cfg.Workers = 4
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration's structural constraints.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// IsPassEnabled returns true if the named structural pass is enabled.
func (c *Config) IsPassEnabled(name string) bool {
	return contains(c.Passes, name)
}

// IsBodyPassEnabled returns true if the named body pass is enabled.
func (c *Config) IsBodyPassEnabled(name string) bool {
	return contains(c.BodyPasses, name)
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
