package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	docfx "github.com/StingyJack/docfx"
	"github.com/StingyJack/docfx/internal/yamlutil"
)

// defaultConfigName is looked up in the working directory when no --config
// flag or DOCFX_CONFIG variable is set.
const defaultConfigName = "pdf.yml"

// Sentinel errors for config loading.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config file")
)

// fileConfig mirrors the pdf.yml schema. A separate struct keeps YAML tags
// and the string timeout out of the library Config.
type fileConfig struct {
	BaseURL             string        `yaml:"baseUrl"`
	DisplayHeaderFooter bool          `yaml:"displayHeaderFooter"`
	HeaderTemplate      string        `yaml:"headerTemplate"`
	FooterTemplate      string        `yaml:"footerTemplate"`
	Margin              *marginConfig `yaml:"margin"`
	Landscape           bool          `yaml:"landscape"`
	Format              string        `yaml:"format"`
	PrintBackground     bool          `yaml:"printBackground"`
	Workers             int           `yaml:"workers"`
	Timeout             string        `yaml:"timeout"`
}

// marginConfig holds per-side margins in inches.
type marginConfig struct {
	Top    float64 `yaml:"top"`
	Bottom float64 `yaml:"bottom"`
	Left   float64 `yaml:"left"`
	Right  float64 `yaml:"right"`
}

// loadConfig reads a YAML config file and applies it over the defaults.
// Unknown keys are rejected: in a config file they are almost always typos.
func loadConfig(path string) (*docfx.Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, err
	}

	var fc fileConfig
	if err := yamlutil.UnmarshalStrict(data, &fc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}

	cfg := docfx.DefaultConfig()
	if fc.BaseURL != "" {
		cfg.BaseURL = fc.BaseURL
	}
	cfg.DisplayHeaderFooter = fc.DisplayHeaderFooter
	cfg.HeaderTemplate = fc.HeaderTemplate
	cfg.FooterTemplate = fc.FooterTemplate
	cfg.Landscape = fc.Landscape
	cfg.PrintBackground = fc.PrintBackground
	if fc.Format != "" {
		cfg.Format = fc.Format
	}
	if fc.Margin != nil {
		cfg.Margin = &docfx.Margin{
			Top:    fc.Margin.Top,
			Bottom: fc.Margin.Bottom,
			Left:   fc.Margin.Left,
			Right:  fc.Margin.Right,
		}
	}
	if fc.Workers > 0 {
		cfg.Workers = fc.Workers
	}
	if fc.Timeout != "" {
		d, err := time.ParseDuration(fc.Timeout)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("%w: %s: invalid timeout %q", ErrConfigParse, path, fc.Timeout)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}

// resolveConfigPath picks the config file: flag > env > pdf.yml if present.
// An empty result means defaults only.
func resolveConfigPath(flagPath string, env *envConfig) string {
	if flagPath != "" {
		return flagPath
	}
	if env.ConfigPath != "" {
		return env.ConfigPath
	}
	if _, err := os.Stat(defaultConfigName); err == nil {
		return defaultConfigName
	}
	return ""
}
