// Package config holds the tabula configuration: the loader's separator
// policy, observability switches and export defaults.
//
// The configuration is organized into sections:
//   - Loader: default separator, CSV suffixes, transparent decompression
//   - Observability: log level and encoding, metrics, tracing
//   - Export: output format and compression
//
// Configuration can be built in code or read from YAML. Values of the form
// ${NAME} are replaced with the environment variable NAME before parsing:
//
//	loader:
//	  default_separator: "\t"
//	  csv_suffixes: [".csv", ".CSV.txt"]
//	observability:
//	  log_level: ${TABULA_LOG_LEVEL}
//	export:
//	  format: parquet
//	  compression: zstd
//
// Usage:
//
//	cfg, err := config.LoadConfig("tabula.yaml")
//	if err != nil {
//	    return err
//	}
//	sep := cfg.Loader.Separator()
//
// The tabula command layers environment variables (TABULA_ prefix) and
// flags on top of this file through viper.
package config
