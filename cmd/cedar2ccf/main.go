// Package main provides the cedar2ccf binary entry point.
// cedar2ccf converts CEDAR template instances describing cell types and
// their biomarkers into the CCF OWL ontology.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/cedar2ccf/cedar"
	"github.com/c360studio/cedar2ccf/config"
	"github.com/c360studio/cedar2ccf/export"
	"github.com/c360studio/cedar2ccf/metrics"
	"github.com/c360studio/cedar2ccf/output"
	"github.com/c360studio/cedar2ccf/pipeline"
	"github.com/c360studio/cedar2ccf/source"
	"github.com/c360studio/cedar2ccf/storage"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "cedar2ccf"
)

func main() {
	// Add panic recovery
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// flags holds the command line values that override configuration.
type flags struct {
	configPath  string
	logLevel    string
	output      string
	format      string
	ontologyIRI string
	instances   []string
	limit       int
	cachePath   string
	metricsFile string
}

func rootCmd() *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "cedar2ccf [TEMPLATE_ID_FILE]",
		Short: "Convert CEDAR cell type metadata into the CCF ontology",
		Long: `cedar2ccf fetches CEDAR template instances that describe cell types,
their anatomical locations and their gene and protein biomarkers, and
writes them as the CCF Biological Structure Ontology.

TEMPLATE_ID_FILE lists one CEDAR template ID per line. Local instance
files can be added with --instances. The CEDAR API key is read from
CEDAR_API_KEY or the config file.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			templateFile := ""
			if len(args) == 1 {
				templateFile = args[0]
			}
			return run(cmd, f, templateFile)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "Config file path (YAML)")
	pf.StringVar(&f.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&f.cachePath, "cache", "", "SQLite instance cache path")

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Destination: -, a file, s3://bucket/key or nats://host:port/bucket/object")
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Output format: "+formatNames())
	cmd.Flags().StringVar(&f.ontologyIRI, "ontology-iri", "", "IRI of the generated owl:Ontology")
	cmd.Flags().StringArrayVar(&f.instances, "instances", nil, "Glob of local instance JSON files (repeatable)")
	cmd.Flags().IntVar(&f.limit, "limit", 0, "Maximum instances per template (0 = all)")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "Write run metrics to this Prometheus textfile")

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})
	cmd.AddCommand(initConfigCmd(&f), cacheCmd(&f))

	return cmd
}

func formatNames() string {
	var names []string
	for _, format := range export.Formats() {
		names = append(names, string(format))
	}
	return strings.Join(names, ", ")
}

func newLogger(w io.Writer, logLevel string) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(logLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig layers configuration files, the environment and flags.
func loadConfig(cmd *cobra.Command, f flags, logger *slog.Logger) (*config.Config, error) {
	cfg, err := config.NewLoader(logger).Load(f.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	changed := cmd.Flags().Changed
	if changed("output") {
		cfg.Output.Destination = f.output
		if !changed("format") {
			if format, ok := export.FormatForPath(f.output); ok {
				cfg.Output.Format = string(format)
			}
		}
	}
	if changed("format") {
		cfg.Output.Format = f.format
	}
	if changed("ontology-iri") {
		cfg.Ontology.IRI = f.ontologyIRI
	}
	if changed("cache") {
		cfg.Cache.Path = f.cachePath
	}
	if changed("metrics-file") {
		cfg.Metrics.Textfile = f.metricsFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, f flags, templateFile string) (err error) {
	logger := newLogger(cmd.ErrOrStderr(), f.logLevel)
	slog.SetDefault(logger)

	cfg, err := loadConfig(cmd, f, logger)
	if err != nil {
		return err
	}
	format, err := export.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}
	if templateFile == "" && len(f.instances) == 0 {
		return errors.New("a TEMPLATE_ID_FILE or --instances is required")
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	m := metrics.New()
	defer func() {
		if werr := m.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
			logger.Warn("Failed to write metrics", "path", cfg.Metrics.Textfile, "error", werr)
		}
	}()

	var sources source.Multi
	if templateFile != "" {
		src, closeCache, err := templateSource(cfg, templateFile, f.limit, m, logger)
		if err != nil {
			return err
		}
		defer closeCache()
		sources = append(sources, src)
	}
	if len(f.instances) > 0 {
		sources = append(sources, source.NewFileSource(f.instances...))
	}

	sink, err := output.Open(ctx, cfg.Output.Destination, output.Options{
		S3: output.S3Options{
			Region:    cfg.Output.S3.Region,
			Endpoint:  cfg.Output.S3.Endpoint,
			PathStyle: cfg.Output.S3.PathStyle,
		},
		Stdout: cmd.OutOrStdout(),
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output: %w", cerr)
		}
	}()

	var src source.Source = sources
	if len(sources) == 1 {
		src = sources[0]
	}
	_, err = pipeline.Run(ctx, pipeline.Options{
		Source:      src,
		Sink:        sink,
		OntologyIRI: cfg.Ontology.IRI,
		Format:      format,
		Logger:      logger,
		Metrics:     m,
	})
	return err
}

// templateSource builds the CEDAR source. The returned func closes the
// instance cache, if any.
func templateSource(cfg *config.Config, path string, limit int, m *metrics.Metrics, logger *slog.Logger) (source.Source, func(), error) {
	if cfg.CEDAR.APIKey == "" {
		return nil, nil, fmt.Errorf("a CEDAR API key is required (set %s or cedar.api_key)", config.EnvAPIKey)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open template id file: %w", err)
	}
	defer file.Close()
	templates, err := source.ReadTemplateIDs(file)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	opts := []cedar.ClientOption{
		cedar.WithBaseURL(cfg.CEDAR.BaseURL),
		cedar.WithHTTPClient(&http.Client{Timeout: cfg.CEDAR.Timeout}),
		cedar.WithRetryConfig(cfg.CEDAR.RetryConfig()),
		cedar.WithLogger(logger),
		cedar.WithMetrics(m),
		cedar.WithPageSize(cfg.CEDAR.PageSize),
		cedar.WithConcurrency(cfg.CEDAR.Concurrency),
		cedar.WithUserID(cfg.CEDAR.UserID),
	}

	closeCache := func() {}
	if cfg.Cache.Path != "" {
		cache, err := storage.OpenCache(cfg.Cache.Path, cfg.Cache.MaxAge)
		if err != nil {
			return nil, nil, fmt.Errorf("open cache: %w", err)
		}
		logger.Debug("Using instance cache", "path", cache.Path(), "max_age", cfg.Cache.MaxAge)
		opts = append(opts, cedar.WithCache(cache))
		closeCache = func() {
			if err := cache.Close(); err != nil {
				logger.Warn("Failed to close cache", "error", err)
			}
		}
	}

	client := cedar.NewClient(cfg.CEDAR.APIKey, opts...)
	return source.NewTemplateSource(client, templates,
		source.WithLimit(limit),
		source.WithLogger(logger)), closeCache, nil
}

func initConfigCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "init-config",
		Short: "Create ~/.config/cedar2ccf/config.yaml with defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), f.logLevel)
			path, err := config.NewLoader(logger).EnsureUserConfig()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func cacheCmd(f *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the instance cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Delete cached instances older than cache.max_age",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd.ErrOrStderr(), f.logLevel)
			cfg, err := config.NewLoader(logger).Load(f.configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("cache") {
				cfg.Cache.Path = f.cachePath
			}
			if cfg.Cache.Path == "" {
				return errors.New("no cache configured (use --cache or cache.path)")
			}

			cache, err := storage.OpenCache(cfg.Cache.Path, cfg.Cache.MaxAge)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer cache.Close()

			ctx := cmd.Context()
			removed, err := cache.Prune(ctx)
			if err != nil {
				return err
			}
			remaining, err := cache.Len(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d instances, %d remaining\n", removed, remaining)
			return nil
		},
	})
	return cmd
}
