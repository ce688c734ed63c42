// Package config defines the canonical configuration model for the investor
// registry pipeline. One YAML file describes the run (paths, ingest shape,
// column mapping, optional database sink, metrics); it is decoded once at
// program start into explicit typed values that are passed into each stage.
// There is no ambient global configuration state.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the top-level object decoded from config.yaml.
type Config struct {
	// Job names the run for metrics labeling.
	Job string `yaml:"job"`

	// Paths locates every input and output artifact of the pipeline.
	Paths Paths `yaml:"paths"`

	// HeaderRow is the 1-based header line used when extracting the raw
	// table from the workbook. Defaults to 1.
	HeaderRow int `yaml:"header_row"`

	// Columns renames raw spreadsheet headers (canonicalized: lowercase,
	// punctuation stripped) to standardized column names.
	Columns map[string]string `yaml:"columns"`

	// Drop optionally discards rows before standardization.
	Drop Drop `yaml:"drop"`

	// Storage optionally loads the final tables into a database sink after
	// the CSV artifacts are written.
	Storage Storage `yaml:"storage"`

	// Metrics selects the metrics backend.
	Metrics Metrics `yaml:"metrics"`
}

// Paths holds the filesystem locations of pipeline artifacts.
type Paths struct {
	ExcelInput      string `yaml:"excel_input"`
	RawCSV          string `yaml:"raw_csv"`
	StandardizedCSV string `yaml:"standardized_csv"`
	MergedCSV       string `yaml:"merged_csv"`
	RegistryCSV     string `yaml:"registry_csv"`
	SchemaFile      string `yaml:"schema_file"`
}

// Drop configures pre-standardization row dropping. The only supported
// strategy is "last_row", for sheets that end in a totals row.
type Drop struct {
	Strategy string `yaml:"strategy"`
}

// Storage selects the optional database sink for the merged investors and
// registry tables.
type Storage struct {
	// Kind selects the backend: "postgres", "sqlite", "mysql", "mssql", or
	// empty to skip database loading entirely.
	Kind string `yaml:"kind"`

	DB DBConfig `yaml:"db"`
}

// DBConfig configures the database sink.
type DBConfig struct {
	// DSN is the backend connection string.
	DSN string `yaml:"dsn"`

	// InvestorsTable and RegistryTable are the destination table names.
	InvestorsTable string `yaml:"investors_table"`
	RegistryTable  string `yaml:"registry_table"`

	// BatchSize bounds rows per bulk insert. Defaults to 500.
	BatchSize int `yaml:"batch_size"`

	// AutoCreateTable creates the destination tables (all-text columns)
	// before loading.
	AutoCreateTable bool `yaml:"auto_create_table"`
}

// Metrics configures the metrics backend.
type Metrics struct {
	// Backend is "pushgateway", "datadog", or "none"/empty.
	Backend string `yaml:"backend"`

	// PushgatewayURL is the Prometheus Pushgateway base URL.
	PushgatewayURL string `yaml:"pushgateway_url"`

	// DogstatsdAddr is the DogStatsD address, e.g. "127.0.0.1:8125".
	DogstatsdAddr string `yaml:"dogstatsd_addr"`
}

// Load reads, decodes, and defaults a config file.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	c.applyDefaults()
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Job == "" {
		c.Job = "investor_registry"
	}
	if c.HeaderRow == 0 {
		c.HeaderRow = 1
	}
	if c.Paths.RawCSV == "" {
		c.Paths.RawCSV = "out/raw.csv"
	}
	if c.Paths.StandardizedCSV == "" {
		c.Paths.StandardizedCSV = "out/standardized.csv"
	}
	if c.Paths.MergedCSV == "" {
		c.Paths.MergedCSV = "out/merged.csv"
	}
	if c.Paths.RegistryCSV == "" {
		c.Paths.RegistryCSV = "out/registry.csv"
	}
	if c.Paths.SchemaFile == "" {
		c.Paths.SchemaFile = "configs/schema.yaml"
	}
	if c.Storage.DB.BatchSize == 0 {
		c.Storage.DB.BatchSize = 500
	}
}
