package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the workspace configuration file.
const FileName = "ghostledger.yaml"

// Config represents the top-level ghostledger.yaml configuration.
type Config struct {
	Business  BusinessConfig  `yaml:"business"`
	Inputs    InputsConfig    `yaml:"inputs,omitempty"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Tax       TaxConfig       `yaml:"tax"`
	Output    OutputConfig    `yaml:"output"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// BusinessConfig identifies the business.
type BusinessConfig struct {
	Name     string `yaml:"name" validate:"required"`
	Currency string `yaml:"currency" validate:"required,len=3"`
}

// InputsConfig pins export files per report kind, relative to the
// workspace. Kinds left empty are discovered in import/.
type InputsConfig struct {
	Sales     []string `yaml:"sales,omitempty"`
	Bank      []string `yaml:"bank,omitempty"`
	Inventory []string `yaml:"inventory,omitempty"`
	Income    []string `yaml:"income,omitempty"`
	Purchases []string `yaml:"purchases,omitempty"`
}

// ReconcileConfig tunes the matching engine.
type ReconcileConfig struct {
	Strategy       string   `yaml:"strategy" validate:"oneof=bank-led sales-led"`
	FeeTolerance   float64  `yaml:"fee_tolerance" validate:"gte=0,lt=1"`
	ExactTolerance float64  `yaml:"exact_tolerance" validate:"gte=0"`
	LooseTolerance float64  `yaml:"loose_tolerance" validate:"gte=0"`
	CardKeywords   []string `yaml:"card_keywords" validate:"dive,required"`
	CashKeywords   []string `yaml:"cash_keywords" validate:"dive,required"`
}

// TaxConfig holds the tax estimate rates.
type TaxConfig struct {
	VATRate       float64  `yaml:"vat_rate" validate:"gte=0,lt=1"`
	PLTRate       float64  `yaml:"plt_rate" validate:"gte=0,lt=1"`
	PLTCategories []string `yaml:"plt_categories"`
}

// OutputConfig controls where and how results are written.
type OutputConfig struct {
	Dir     string   `yaml:"dir" validate:"required"`
	Formats []string `yaml:"formats" validate:"dive,oneof=json csv xlsx"`
}

// LoggingConfig controls the run logger.
type LoggingConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Load reads a ghostledger.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default(businessName string) *Config {
	return &Config{
		Business: BusinessConfig{
			Name:     businessName,
			Currency: "USD",
		},
		Reconcile: ReconcileConfig{
			Strategy:       "bank-led",
			FeeTolerance:   0.03,
			ExactTolerance: 0.01,
			LooseTolerance: 0.50,
			CardKeywords:   []string{"ppc", "card", "visa", "master"},
			CashKeywords:   []string{"cash"},
		},
		Tax: TaxConfig{
			VATRate:       0.10,
			PLTRate:       0.03,
			PLTCategories: []string{"Beverage", "Liquor", "Alcohol", "Tobacco"},
		},
		Output: OutputConfig{
			Dir:     "exports",
			Formats: []string{"json", "csv", "xlsx"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

var validate = validator.New()

// Validate checks field constraints and returns one error per violation.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fmt.Errorf("config %s: failed %q (value %v)", fieldPath(fe.Namespace()), fe.Tag(), fe.Value()))
	}
	return errors.Join(errs...)
}

// fieldPath turns "Config.Reconcile.FeeTolerance" into "Reconcile.FeeTolerance".
func fieldPath(ns string) string {
	return strings.TrimPrefix(ns, "Config.")
}

// Environment variables that override file settings.
const (
	EnvStrategy     = "GHOSTLEDGER_STRATEGY"
	EnvLogLevel     = "GHOSTLEDGER_LOG_LEVEL"
	EnvLogFormat    = "GHOSTLEDGER_LOG_FORMAT"
	EnvFeeTolerance = "GHOSTLEDGER_FEE_TOLERANCE"
)

// LoadEnv loads KEY=VALUE pairs from the given .env files into the process
// environment without overriding variables already set. Missing files are
// skipped.
func LoadEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("checking env file: %w", err)
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("loading %s: %w", p, err)
		}
	}
	return nil
}

// ApplyEnv overrides settings from environment variables read through
// lookup (os.LookupEnv in production).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvStrategy); ok && v != "" {
		c.Reconcile.Strategy = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Logging.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Logging.Format = v
	}
	if v, ok := lookup(EnvFeeTolerance); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", EnvFeeTolerance, v, err)
		}
		c.Reconcile.FeeTolerance = f
	}
	return nil
}
