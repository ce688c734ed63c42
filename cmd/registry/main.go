// Command registry runs the investor registry pipeline: workbook ingestion,
// field standardization, duplicate merging, and transaction-registry
// scaffolding. Stages can run individually or end-to-end; the merged and
// registry tables can additionally be loaded into a configured database sink.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"registry/internal/config"
	"registry/internal/metrics"
	"registry/internal/metrics/datadog"
	"registry/internal/metrics/prompush"

	// register all backends with the storage factory.
	_ "registry/internal/storage/all"
)

func main() {
	var (
		cfgPath           string
		stage             string
		metricsBackendFlg string
		pushGatewayURLFlg string
		validate          bool
	)

	flag.StringVar(&cfgPath, "config", "configs/config.yaml", "pipeline config YAML path")
	flag.StringVar(&stage, "stage", "all", "stage to run: ingest, standardize, merge, registry, or all")
	flag.StringVar(&metricsBackendFlg, "metrics-backend", "", "metrics backend override (pushgateway, datadog, none)")
	flag.StringVar(&pushGatewayURLFlg, "pushgateway-url", "", "Pushgateway base URL (overrides config and env PUSHGATEWAY_URL)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	logger := newLogger(*verbose)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}

	issues := config.Validate(cfg)
	hasError := false
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
		if iss.Severity == config.SeverityError {
			hasError = true
		}
	}
	if hasError {
		logger.Error().Str("config", cfgPath).Msg("configuration is invalid")
		os.Exit(1)
	}
	if validate {
		logger.Info().Str("config", cfgPath).Msg("configuration is valid")
		os.Exit(0)
	}

	// Decide metrics backend: flag → config → none.
	backendName := metricsBackendFlg
	if backendName == "" {
		backendName = cfg.Metrics.Backend
	}
	switch backendName {
	case "pushgateway":
		// Decide Pushgateway URL: flag → config → env → default.
		gwURL := pushGatewayURLFlg
		if gwURL == "" {
			gwURL = cfg.Metrics.PushgatewayURL
		}
		if gwURL == "" {
			gwURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gwURL == "" {
			gwURL = "http://localhost:9091"
		}
		b, err := prompush.NewBackend(cfg.Job, gwURL)
		if err != nil {
			logger.Warn().Err(err).Msg("metrics: failed to init pushgateway backend; using nop")
		} else {
			logger.Debug().Str("url", gwURL).Str("job", cfg.Job).Msg("metrics: pushgateway enabled")
			metrics.SetBackend(b)
			defer func() {
				if err := metrics.Flush(); err != nil {
					logger.Warn().Err(err).Msg("metrics: flush error")
				}
			}()
		}

	case "datadog":
		addr := cfg.Metrics.DogstatsdAddr
		if addr == "" {
			addr = "127.0.0.1:8125"
		}
		b, err := datadog.NewBackend(datadog.Config{Addr: addr, Namespace: "registry."})
		if err != nil {
			logger.Warn().Err(err).Msg("metrics: failed to init datadog backend; using nop")
		} else {
			logger.Debug().Str("addr", addr).Msg("metrics: datadog enabled")
			metrics.SetBackend(b)
			defer func() {
				if err := metrics.Flush(); err != nil {
					logger.Warn().Err(err).Msg("metrics: flush error")
				}
			}()
		}

	case "", "none":
		logger.Debug().Msg("metrics: disabled")

	default:
		logger.Warn().Str("backend", backendName).Msg("metrics: unknown backend; metrics disabled")
	}

	ctx := context.Background()
	start := time.Now()

	p := &pipeline{cfg: cfg, log: logger}
	if err := p.run(ctx, stage); err != nil {
		logger.Fatal().Err(err).Str("stage", stage).Msg("pipeline failed")
	}

	logger.Info().
		Str("stage", stage).
		Dur("elapsed", time.Since(start).Truncate(time.Millisecond)).
		Msg("completed")
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
