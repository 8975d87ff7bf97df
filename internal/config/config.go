// Package config loads the warehouse configuration from the environment,
// an optional .env file and an optional YAML column mapping file.
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

	"github.com/dvloznov/partner-warehouse/internal/domain"
	"github.com/dvloznov/partner-warehouse/internal/pipeline"
)

// Default synonym lists, one comma-separated string per canonical column.
const (
	DefaultDateColumns    = "Fecha, transaction_date"
	DefaultPartnerColumns = "Cliente, vendor_name"
	DefaultAmountColumns  = "Total €, amount_eur"
)

// Config holds the runtime configuration.
type Config struct {
	// Column synonyms, comma-separated
	DateColumns    string `validate:"required"`
	PartnerColumns string `validate:"required"`
	AmountColumns  string `validate:"required"`

	// Optional YAML file overriding synonyms per column
	MappingFile string `validate:"omitempty,file"`

	// Processing and output
	OutputDir  string `validate:"required"`
	Workers    int    `validate:"min=1,max=64"`
	ExportXLSX bool
	LogLevel   string `validate:"oneof=debug info warn error"`

	// Google Cloud Storage publishing
	GCSBucket          string
	GCSPrefix          string `validate:"required_with=GCSBucket"`
	GCSCredentialsFile string `validate:"omitempty,file"`

	mappingOverrides pipeline.Synonyms
}

// MappingFile is the YAML layout of WAREHOUSE_MAPPING_FILE:
//
//	date: [Fecha, transaction_date]
//	partner: [Cliente, vendor_name]
//	amount: ["Total €", amount_eur]
type MappingFile struct {
	Date    []string `yaml:"date"`
	Partner []string `yaml:"partner"`
	Amount  []string `yaml:"amount"`
}

// Load reads .env (when present) and the environment, then the mapping file
// if one is configured. The result is not validated.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: loading .env: %w", err)
	}

	cfg := &Config{
		DateColumns:    getEnv("WAREHOUSE_DATE_COLUMNS", DefaultDateColumns),
		PartnerColumns: getEnv("WAREHOUSE_PARTNER_COLUMNS", DefaultPartnerColumns),
		AmountColumns:  getEnv("WAREHOUSE_AMOUNT_COLUMNS", DefaultAmountColumns),
		MappingFile:    getEnv("WAREHOUSE_MAPPING_FILE", ""),

		OutputDir:  getEnv("WAREHOUSE_OUTPUT_DIR", "./out"),
		Workers:    getEnvInt("WAREHOUSE_WORKERS", pipeline.DefaultWorkers),
		ExportXLSX: getEnvBool("WAREHOUSE_EXPORT_XLSX", false),
		LogLevel:   strings.ToLower(getEnv("WAREHOUSE_LOG_LEVEL", "info")),

		GCSBucket:          getEnv("GCS_BUCKET", ""),
		GCSPrefix:          getEnv("GCS_PREFIX", "exports"),
		GCSCredentialsFile: getEnv("GCS_CREDENTIALS_FILE", ""),
	}

	if cfg.MappingFile != "" {
		if err := cfg.LoadMappingFile(cfg.MappingFile); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// LoadMappingFile reads synonym lists from a YAML file. Non-empty lists
// replace the comma-separated synonyms of the same column.
func (c *Config) LoadMappingFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading mapping file: %w", err)
	}

	var mf MappingFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return fmt.Errorf("config: parsing mapping file %s: %w", path, err)
	}

	c.MappingFile = path
	c.mappingOverrides = pipeline.Synonyms{}
	for col, list := range map[string][]string{
		domain.ColumnDate:    mf.Date,
		domain.ColumnPartner: mf.Partner,
		domain.ColumnAmount:  mf.Amount,
	} {
		var cleaned []string
		for _, s := range list {
			if s = strings.TrimSpace(s); s != "" {
				cleaned = append(cleaned, s)
			}
		}
		if len(cleaned) > 0 {
			c.mappingOverrides[col] = cleaned
		}
	}
	return nil
}

// Synonyms returns the candidate source columns per canonical column.
func (c *Config) Synonyms() pipeline.Synonyms {
	syn := pipeline.Synonyms{
		domain.ColumnDate:    pipeline.ParseCandidates(c.DateColumns),
		domain.ColumnPartner: pipeline.ParseCandidates(c.PartnerColumns),
		domain.ColumnAmount:  pipeline.ParseCandidates(c.AmountColumns),
	}
	for col, list := range c.mappingOverrides {
		syn[col] = list
	}
	return syn
}

// Validate checks every field and reports all failures in one error.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(msgs, "\n- "))
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
