package config

import (
	"unicode/utf8"

	"go.uber.org/zap/zapcore"

	"github.com/ajitpratap0/tabula/pkg/compression"
	"github.com/ajitpratap0/tabula/pkg/tableerrors"
)

// Export formats understood by the exporters.
const (
	FormatJSON    = "json"
	FormatNDJSON  = "ndjson"
	FormatArrow   = "arrow"
	FormatParquet = "parquet"
	FormatAvro    = "avro"
)

// Config is the complete tabula configuration. The yaml tags drive Load and
// Save, the mapstructure tags let viper unmarshal the same layout.
type Config struct {
	// Loader controls how delimited files are read
	Loader LoaderConfig `yaml:"loader" json:"loader" mapstructure:"loader"`

	// Observability settings for logging, metrics and tracing
	Observability ObservabilityConfig `yaml:"observability" json:"observability" mapstructure:"observability"`

	// Export controls the output of the export command
	Export ExportConfig `yaml:"export" json:"export" mapstructure:"export"`
}

// LoaderConfig contains the separator policy and input handling.
type LoaderConfig struct {
	// DefaultSeparator splits fields of files without a CSV suffix
	DefaultSeparator string `yaml:"default_separator" json:"default_separator" mapstructure:"default_separator"`
	// CSVSuffixes are file suffixes that always use a comma
	CSVSuffixes []string `yaml:"csv_suffixes" json:"csv_suffixes" mapstructure:"csv_suffixes"`
	// Decompress enables transparent decompression by file suffix
	Decompress bool `yaml:"decompress" json:"decompress" mapstructure:"decompress"`
}

// ObservabilityConfig contains monitoring and debugging settings.
type ObservabilityConfig struct {
	LogLevel          string  `yaml:"log_level" json:"log_level" mapstructure:"log_level"`
	LogEncoding       string  `yaml:"log_encoding" json:"log_encoding" mapstructure:"log_encoding"`
	EnableMetrics     bool    `yaml:"enable_metrics" json:"enable_metrics" mapstructure:"enable_metrics"`
	EnableTracing     bool    `yaml:"enable_tracing" json:"enable_tracing" mapstructure:"enable_tracing"`
	TracingSampleRate float64 `yaml:"tracing_sample_rate" json:"tracing_sample_rate" mapstructure:"tracing_sample_rate"`
	ServiceName       string  `yaml:"service_name" json:"service_name" mapstructure:"service_name"`
}

// ExportConfig selects the export format and output compression.
type ExportConfig struct {
	Format      string `yaml:"format" json:"format" mapstructure:"format"`
	Compression string `yaml:"compression" json:"compression" mapstructure:"compression"`
}

// NewConfig returns a configuration populated with defaults.
func NewConfig() *Config {
	return &Config{
		Loader: LoaderConfig{
			DefaultSeparator: ",",
			CSVSuffixes:      []string{".csv"},
			Decompress:       true,
		},
		Observability: ObservabilityConfig{
			LogLevel:          "info",
			LogEncoding:       "console",
			EnableMetrics:     true,
			EnableTracing:     false,
			TracingSampleRate: 1.0,
			ServiceName:       "tabula",
		},
		Export: ExportConfig{
			Format:      FormatJSON,
			Compression: string(compression.None),
		},
	}
}

// Validate checks the configuration for values the loader, logger or
// exporters would reject.
func (c *Config) Validate() error {
	if utf8.RuneCountInString(c.Loader.DefaultSeparator) != 1 {
		return invalid("default_separator must be a single character", c.Loader.DefaultSeparator)
	}
	if sep := c.Loader.DefaultSeparator; sep == "\n" || sep == "\r" {
		return invalid("default_separator cannot be a line break", sep)
	}
	if _, err := zapcore.ParseLevel(c.Observability.LogLevel); err != nil {
		return invalid("log_level is not a valid level", c.Observability.LogLevel)
	}
	switch c.Observability.LogEncoding {
	case "json", "console":
	default:
		return invalid("log_encoding must be json or console", c.Observability.LogEncoding)
	}
	if r := c.Observability.TracingSampleRate; r < 0 || r > 1 {
		return invalid("tracing_sample_rate must be between 0 and 1", r)
	}
	switch c.Export.Format {
	case FormatJSON, FormatNDJSON, FormatArrow, FormatParquet, FormatAvro:
	default:
		return invalid("export format is not supported", c.Export.Format)
	}
	if _, err := compression.ParseAlgorithm(c.Export.Compression); err != nil {
		return invalid("export compression is not supported", c.Export.Compression)
	}
	return nil
}

// Separator returns the default separator as a rune.
func (l *LoaderConfig) Separator() rune {
	r, _ := utf8.DecodeRuneInString(l.DefaultSeparator)
	return r
}

func invalid(msg string, value interface{}) error {
	return tableerrors.New(tableerrors.ErrorTypeValidation, msg).WithDetail("value", value)
}
