// Package config provides centralized configuration management for upscdash.
// It loads configuration from multiple sources, validates it, and resolves the
// file system paths used by the service.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority), optionally seeded from .env
//	2. A YAML configuration file (config.yaml or configs/config.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern UPSC_<SECTION>_<FIELD>:
//
//	UPSC_SERVER_PORT=8080
//	UPSC_DATASET_SOURCE=data/upsc_results.csv
//	UPSC_DATASET_DELIMITER=tab
//	UPSC_DATASET_WATCH=true
//	UPSC_DASHBOARD_HISTOGRAM_BINS=30
//	UPSC_LOGGING_LEVEL=debug
//
// UPSC_CONFIG_FILE selects an explicit YAML file.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := cfg.GetPaths()
//
// For tests, Default() returns a valid configuration that needs no
// environment variables or files.
package config
