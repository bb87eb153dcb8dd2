package main

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tabula/pkg/config"
	"github.com/ajitpratap0/tabula/pkg/dataset"
	"github.com/ajitpratap0/tabula/pkg/loader"
	"github.com/ajitpratap0/tabula/pkg/logger"
	"github.com/ajitpratap0/tabula/pkg/observability"
)

const envPrefix = "TABULA"

// app carries the state shared by every subcommand of one invocation.
type app struct {
	v        *viper.Viper
	cfg      *config.Config
	log      *zap.Logger
	shutdown observability.ShutdownFunc
}

// run executes one tabula invocation and releases logging and tracing
// resources whether or not the command succeeded.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{v: viper.New()}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	a.close()
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "tabula",
		Short: "Typed queries over delimited text files",
		Long: `tabula reads a delimited text file, infers a type for every column
(boolean, integer, float or string) and projects, filters, sorts or exports
the resulting table.

Files ending in .csv are split on commas; other files use the configured
default separator. Compressed inputs (.gz, .zst, .lz4, .sz, .s2) are decoded
transparently.

Settings come from, in increasing priority: built-in defaults, the YAML file
given by --config, TABULA_* environment variables (for example
TABULA_LOADER_DEFAULT_SEPARATOR), and command-line flags.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "Path to a YAML configuration file")
	flags.String("separator", "", "Separator for files without a CSV suffix")
	flags.StringSlice("csv-suffix", nil, "File suffixes that always use a comma")
	flags.Bool("decompress", true, "Decode compressed inputs by file suffix")
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("log-encoding", "", "Log encoding (console or json)")
	flags.Bool("metrics", true, "Record Prometheus metrics")
	flags.Bool("tracing", false, "Export OpenTelemetry spans to stderr")

	for key, flag := range map[string]string{
		"loader.default_separator":     "separator",
		"loader.csv_suffixes":          "csv-suffix",
		"loader.decompress":            "decompress",
		"observability.log_level":      "log-level",
		"observability.log_encoding":   "log-encoding",
		"observability.enable_metrics": "metrics",
		"observability.enable_tracing": "tracing",
	} {
		_ = a.v.BindPFlag(key, flags.Lookup(flag))
	}

	root.AddCommand(
		newVersionCmd(),
		newShowCmd(a),
		newSchemaCmd(a),
		newProjectCmd(a),
		newFilterCmd(a),
		newSortCmd(a),
		newExportCmd(a),
		newStatsCmd(a),
	)
	return root
}

// setup resolves the configuration and starts logging and tracing.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := logger.Init(logger.Config{
		Level:    cfg.Observability.LogLevel,
		Encoding: cfg.Observability.LogEncoding,
	}); err != nil {
		return err
	}
	a.log = logger.With(zap.String("component", "tabula-cli"), zap.String("command", cmd.Name()))

	if cfg.Observability.EnableTracing {
		shutdown, err := observability.InitTracing(observability.TracingConfig{
			ServiceName:    cfg.Observability.ServiceName,
			ServiceVersion: version,
			SamplingRate:   cfg.Observability.TracingSampleRate,
			Output:         cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		a.shutdown = shutdown
	}

	a.log.Debug("configuration resolved",
		zap.String("separator", cfg.Loader.DefaultSeparator),
		zap.Strings("csv_suffixes", cfg.Loader.CSVSuffixes),
		zap.Bool("metrics", cfg.Observability.EnableMetrics),
		zap.Bool("tracing", cfg.Observability.EnableTracing))
	return nil
}

func (a *app) close() {
	if a.shutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.shutdown(ctx); err != nil {
			a.log.Warn("failed to flush spans", zap.Error(err))
		}
	}
	// Sync fails on non-file sinks such as a terminal stderr.
	_ = logger.Sync()
}

// loadConfig layers the config file, environment and flags over the
// defaults and validates the result.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	base := config.NewConfig()
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		base = loaded
	}

	v := a.v
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("loader.default_separator", base.Loader.DefaultSeparator)
	v.SetDefault("loader.csv_suffixes", base.Loader.CSVSuffixes)
	v.SetDefault("loader.decompress", base.Loader.Decompress)
	v.SetDefault("observability.log_level", base.Observability.LogLevel)
	v.SetDefault("observability.log_encoding", base.Observability.LogEncoding)
	v.SetDefault("observability.enable_metrics", base.Observability.EnableMetrics)
	v.SetDefault("observability.enable_tracing", base.Observability.EnableTracing)
	v.SetDefault("observability.tracing_sample_rate", base.Observability.TracingSampleRate)
	v.SetDefault("observability.service_name", base.Observability.ServiceName)
	v.SetDefault("export.format", base.Export.Format)
	v.SetDefault("export.compression", base.Export.Compression)

	cfg := &config.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (a *app) loaderOptions() loader.Options {
	return loader.Options{
		Separator:   a.cfg.Loader.Separator(),
		CSVSuffixes: a.cfg.Loader.CSVSuffixes,
		Decompress:  a.cfg.Loader.Decompress,
	}
}

// open parses path into a ready dataset.Reader.
func (a *app) open(ctx context.Context, path string) (*dataset.Reader, error) {
	r := dataset.NewReader(path,
		dataset.WithLoaderOptions(a.loaderOptions()),
		dataset.WithLogger(a.log),
		dataset.WithMetrics(a.cfg.Observability.EnableMetrics),
	)
	if err := r.Parse(ctx); err != nil {
		return nil, err
	}
	return r, nil
}
