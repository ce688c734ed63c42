package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding that is surfaced but not fatal.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into the
// config (e.g. "storage.kind"); Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error where convenient.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

var storageKinds = map[string]bool{
	"": true, "postgres": true, "sqlite": true, "mysql": true, "mssql": true,
}

var metricsBackends = map[string]bool{
	"": true, "none": true, "pushgateway": true, "datadog": true,
}

// Validate performs static validation of a Config without mutating it.
// Callers decide whether to treat warnings as fatal.
func Validate(c Config) []Issue {
	var issues []Issue

	if strings.TrimSpace(c.Paths.ExcelInput) == "" {
		issues = append(issues, Issue{SeverityWarning, "paths.excel_input",
			"empty; the ingest stage cannot run without a workbook path"})
	}
	if strings.TrimSpace(c.Paths.SchemaFile) == "" {
		issues = append(issues, Issue{SeverityError, "paths.schema_file",
			"schema file path must not be empty"})
	}
	if c.HeaderRow < 1 {
		issues = append(issues, Issue{SeverityError, "header_row",
			fmt.Sprintf("must be >= 1, got %d", c.HeaderRow)})
	}

	switch c.Drop.Strategy {
	case "", "last_row":
	default:
		issues = append(issues, Issue{SeverityError, "drop.strategy",
			fmt.Sprintf("unknown strategy %q (supported: last_row)", c.Drop.Strategy)})
	}

	if !storageKinds[c.Storage.Kind] {
		issues = append(issues, Issue{SeverityError, "storage.kind",
			fmt.Sprintf("unknown storage kind %q", c.Storage.Kind)})
	}
	if c.Storage.Kind != "" {
		if strings.TrimSpace(c.Storage.DB.DSN) == "" {
			issues = append(issues, Issue{SeverityError, "storage.db.dsn",
				"dsn must not be empty when a storage kind is set"})
		}
		if strings.TrimSpace(c.Storage.DB.InvestorsTable) == "" {
			issues = append(issues, Issue{SeverityError, "storage.db.investors_table",
				"investors table name must not be empty when a storage kind is set"})
		}
		if strings.TrimSpace(c.Storage.DB.RegistryTable) == "" {
			issues = append(issues, Issue{SeverityError, "storage.db.registry_table",
				"registry table name must not be empty when a storage kind is set"})
		}
		if c.Storage.DB.BatchSize < 1 {
			issues = append(issues, Issue{SeverityError, "storage.db.batch_size",
				fmt.Sprintf("must be >= 1, got %d", c.Storage.DB.BatchSize)})
		}
	}

	if !metricsBackends[c.Metrics.Backend] {
		issues = append(issues, Issue{SeverityError, "metrics.backend",
			fmt.Sprintf("unknown metrics backend %q", c.Metrics.Backend)})
	}
	if c.Metrics.Backend == "pushgateway" && strings.TrimSpace(c.Metrics.PushgatewayURL) == "" {
		issues = append(issues, Issue{SeverityWarning, "metrics.pushgateway_url",
			"empty; the default http://localhost:9091 will be used"})
	}
	if c.Metrics.Backend == "datadog" && strings.TrimSpace(c.Metrics.DogstatsdAddr) == "" {
		issues = append(issues, Issue{SeverityWarning, "metrics.dogstatsd_addr",
			"empty; the default 127.0.0.1:8125 will be used"})
	}

	return issues
}
