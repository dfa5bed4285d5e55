// Package config provides unified configuration loading for the patent
// extraction pipeline. Supports YAML files, environment variables, and
// programmatic overrides.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/patentdeck/patent-extractor/internal/domain"
)

// Config holds all configuration for the pipeline and its surfaces.
type Config struct {
	Pipeline      PipelineConfig      `yaml:"pipeline"`
	OCR           OCRConfig           `yaml:"ocr"`
	Deck          DeckConfig          `yaml:"deck"`
	Catalog       CatalogConfig       `yaml:"catalog"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PipelineConfig holds rendering and orchestration settings.
type PipelineConfig struct {
	OutputDir   string `yaml:"output_dir"`
	RenderDPI   int    `yaml:"render_dpi"`
	ColumnOrder string `yaml:"column_order"` // left-right or right-left
}

// OCRConfig holds recognition engine settings.
type OCRConfig struct {
	Languages []string `yaml:"languages"`
	DPIHint   int      `yaml:"dpi_hint"`
}

// DeckConfig holds slide deck generation settings.
type DeckConfig struct {
	Output string `yaml:"output"`
}

// CatalogConfig holds run catalog settings.
type CatalogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ObservabilityConfig holds logging settings.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // json or console
}

// Load reads configuration from a YAML file and applies environment
// overrides. An empty path loads defaults plus environment only.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Pipeline: PipelineConfig{
			OutputDir:   "images",
			RenderDPI:   600,
			ColumnOrder: string(domain.ColumnOrderLeftRight),
		},
		OCR: OCRConfig{
			Languages: []string{"eng"},
			DPIHint:   600,
		},
		Deck: DeckConfig{
			Output: "patent-deck.pdf",
		},
		Catalog: CatalogConfig{
			Enabled: false,
			Path:    "patents.db",
		},
		Observability: ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "console",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Pipeline.OutputDir) == "" {
		return fmt.Errorf("output_dir cannot be empty")
	}

	if c.Pipeline.RenderDPI < 72 || c.Pipeline.RenderDPI > 1200 {
		return fmt.Errorf("render_dpi must be between 72 and 1200, got %d", c.Pipeline.RenderDPI)
	}

	if !domain.ColumnOrder(c.Pipeline.ColumnOrder).Valid() {
		return fmt.Errorf("invalid column_order: %s", c.Pipeline.ColumnOrder)
	}

	if len(c.OCR.Languages) == 0 {
		return fmt.Errorf("ocr languages cannot be empty")
	}

	if c.OCR.DPIHint < 0 {
		return fmt.Errorf("ocr dpi_hint cannot be negative, got %d", c.OCR.DPIHint)
	}

	if c.Catalog.Enabled && strings.TrimSpace(c.Catalog.Path) == "" {
		return fmt.Errorf("catalog path cannot be empty when the catalog is enabled")
	}

	if c.Observability.LogFormat != "json" && c.Observability.LogFormat != "console" {
		return fmt.Errorf("invalid log_format: %s", c.Observability.LogFormat)
	}

	return nil
}

// ColumnOrder returns the configured reading order as a domain value.
func (c *Config) ColumnOrder() domain.ColumnOrder {
	return domain.ColumnOrder(c.Pipeline.ColumnOrder)
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PATENT_OUTPUT_DIR"); v != "" {
		cfg.Pipeline.OutputDir = v
	}

	if v := os.Getenv("PATENT_RENDER_DPI"); v != "" {
		var dpi int
		if _, err := fmt.Sscanf(v, "%d", &dpi); err == nil {
			cfg.Pipeline.RenderDPI = dpi
		}
	}

	if v := os.Getenv("PATENT_COLUMN_ORDER"); v != "" {
		cfg.Pipeline.ColumnOrder = v
	}

	if v := os.Getenv("PATENT_OCR_LANGS"); v != "" {
		langs := make([]string, 0)
		for _, lang := range strings.Split(v, ",") {
			if lang = strings.TrimSpace(lang); lang != "" {
				langs = append(langs, lang)
			}
		}
		if len(langs) > 0 {
			cfg.OCR.Languages = langs
		}
	}

	if v := os.Getenv("PATENT_DECK_OUTPUT"); v != "" {
		cfg.Deck.Output = v
	}

	if v := os.Getenv("PATENT_CATALOG_PATH"); v != "" {
		cfg.Catalog.Enabled = true
		cfg.Catalog.Path = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
}
